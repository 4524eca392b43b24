/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	adapterrepo "github.com/eslsoft/glostrainer/internal/adapter/repository"
	"github.com/eslsoft/glostrainer/internal/entity"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the header of the word list file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := newContainer()
		if err != nil {
			return err
		}
		defer cleanup()

		path := adapterrepo.EnsureGTLExtension(wordlistPath())
		list, header, err := c.Files.LoadWithHeader(cmd.Context(), path)
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetAutoWrapText(false)
		table.Append([]string{"File", path})
		table.Append([]string{"Format", fmt.Sprintf("%s v%d", header.Format, header.Version)})
		table.Append([]string{"Saved at", header.SavedAt.Local().Format(time.DateTime)})
		table.Append([]string{"Revision", header.Revision})
		table.Append([]string{"Entries", fmt.Sprint(list.Count())})
		if stale := list.StaleForms(); len(stale) > 0 {
			table.Append([]string{"Stale forms", fmt.Sprintf("%d entries", len(stale))})
		}
		table.Render()

		if changed := changedClasses(header.WordClasses); len(changed) > 0 {
			cmd.Printf("Form slots changed since this file was written: %s\n", strings.Join(changed, ", "))
		}
		return nil
	},
}

// changedClasses lists the class tags whose form slots differ between a file
// header and the running registry. Headers written without a snapshot are
// not compared.
func changedClasses(recorded map[string][]string) []string {
	if len(recorded) == 0 {
		return nil
	}
	var changed []string
	for tag, names := range recorded {
		if !sameForms(tag, names) {
			changed = append(changed, tag)
		}
	}
	for _, c := range entity.AllWordClasses() {
		if _, ok := recorded[c.Tag()]; !ok {
			changed = append(changed, c.Tag())
		}
	}
	sort.Strings(changed)
	return changed
}

func sameForms(tag string, names []string) bool {
	class, err := entity.ParseWordClass(tag)
	if err != nil {
		return false
	}
	return slices.Equal(class.FormNames(), names)
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

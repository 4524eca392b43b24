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
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/eslsoft/glostrainer/internal/app"
	"github.com/eslsoft/glostrainer/internal/entity"
)

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "List word classes with their optional forms",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Tag", "Label", "Optional forms", "Dictionary form hint"})
		table.SetAutoWrapText(false)
		for _, c := range entity.AllWordClasses() {
			table.Append([]string{c.Tag(), c.Label(), plainText(strings.Join(c.FormNames(), ", ")), plainText(c.DictionaryFormHint())})
		}
		table.Render()
		return nil
	},
}

var newCmd = &cobra.Command{
	Use:   "new [class]",
	Short: "Show the empty entry template of a word class",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry := entity.EmptyWordEntry()
		if len(args) == 1 {
			c, err := entity.ParseWordClass(args[0])
			if err != nil {
				return &entity.ValidationError{Field: "word_class", Message: err.Error()}
			}
			entry.WordClass = c
		}
		printEntry(cmd, -1, entry)
		return nil
	},
}

var addFlags entryFlags

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an entry to the word list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWordlist(cmd, true, func(ctx context.Context, c *app.Container) error {
			entry, err := addFlags.apply(cmd.Flags(), c.Wordlists.NewEntry())
			if err != nil {
				return err
			}
			idx := c.Wordlists.Add(entry)
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Added #%d %s\n", idx, entry.DictionaryForm)
			return nil
		})
	},
}

var editFlags entryFlags

var editCmd = &cobra.Command{
	Use:   "edit <index>",
	Short: "Change fields of an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := parseIndexes(args)
		if err != nil {
			return err
		}
		return withWordlist(cmd, true, func(ctx context.Context, c *app.Container) error {
			current, err := c.Wordlists.Get(idx[0])
			if err != nil {
				return err
			}
			entry, err := editFlags.apply(cmd.Flags(), current)
			if err != nil {
				return err
			}
			if err := c.Wordlists.Replace(idx[0], entry); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Updated #%d %s\n", idx[0], entry.DictionaryForm)
			return nil
		})
	},
}

var removeCmd = &cobra.Command{
	Use:     "remove <index>...",
	Aliases: []string{"rm"},
	Short:   "Remove entries by index",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		indexes, err := parseIndexes(args)
		if err != nil {
			return err
		}
		indexes = removalOrder(indexes)
		return withWordlist(cmd, true, func(ctx context.Context, c *app.Container) error {
			for _, i := range indexes {
				if err := c.Wordlists.Remove(i); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries, %d left\n", len(indexes), c.Wordlists.Count())
			return nil
		})
	},
}

// removalOrder de-duplicates indexes and sorts them highest first so earlier
// removals do not shift later ones.
func removalOrder(indexes []int) []int {
	out := slices.Clone(indexes)
	slices.Sort(out)
	out = slices.Compact(out)
	slices.Reverse(out)
	return out
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every entry from the word list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return &entity.ValidationError{Message: "Clearing deletes every entry of the list. Run again with --yes to confirm."}
		}
		return withWordlist(cmd, true, func(ctx context.Context, c *app.Container) error {
			n := c.Wordlists.Count()
			c.Wordlists.Clear()
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d entries\n", n)
			return nil
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show <index>",
	Short: "Show one entry with all its form slots",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := parseIndexes(args)
		if err != nil {
			return err
		}
		return withWordlist(cmd, false, func(ctx context.Context, c *app.Container) error {
			entry, err := c.Wordlists.Get(idx[0])
			if err != nil {
				return err
			}
			printEntry(cmd, idx[0], entry)
			return nil
		})
	},
}

func printEntry(cmd *cobra.Command, index int, e entity.WordEntry) {
	out := cmd.OutOrStdout()
	bold := color.New(color.Bold)
	if index >= 0 {
		bold.Fprintf(out, "#%d ", index)
	}
	bold.Fprintln(out, e.WordClass.Label())

	table := tablewriter.NewWriter(out)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Field", "Value"})
	table.Append([]string{"Dictionary form", e.DictionaryForm})
	table.Append([]string{"Definition", e.Definition})
	for _, slot := range e.FormSlots() {
		table.Append([]string{plainText(slot.Name), slot.Value})
	}
	for _, name := range e.StaleFormNames() {
		table.Append([]string{plainText(name) + " (not in class)", e.OptionalForms.Value(name)})
	}
	table.Append([]string{"Notes", e.Notes})
	table.Render()

	if hint := e.WordClass.DictionaryFormHint(); hint != "" {
		color.New(color.Faint).Fprintln(out, plainText(hint))
	}
}

var markupTag = regexp.MustCompile(`<[^>]*>`)

// plainText drops the inline HTML emphasis used in class hints and form names.
func plainText(s string) string {
	return markupTag.ReplaceAllString(s, "")
}

func init() {
	addFlags.register(addCmd.Flags())
	editFlags.register(editCmd.Flags())
	clearCmd.Flags().BoolP("yes", "y", false, "confirm clearing the list")

	rootCmd.AddCommand(classesCmd, newCmd, addCmd, editCmd, removeCmd, clearCmd, showCmd)
}

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
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/eslsoft/glostrainer/internal/app"
	"github.com/eslsoft/glostrainer/internal/entity"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Pick word forms and start a quiz",
	Long: `Every entry contributes its dictionary form (column 0), its definition
(column 1) and one column per optional form of its class. All are selected by
default; use --deselect row:col or --none with --select row:col to change
that. At least 5 non-empty values must remain selected.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		none, _ := flags.GetBool("none")
		deselect, _ := flags.GetStringArray("deselect")
		selectCells, _ := flags.GetStringArray("select")
		showTable, _ := flags.GetBool("table")

		return withWordlist(cmd, false, func(ctx context.Context, c *app.Container) error {
			if none {
				c.Wordlists.SelectAll(false)
			}
			for _, cell := range selectCells {
				if err := setCell(c, cell, true); err != nil {
					return err
				}
			}
			for _, cell := range deselect {
				if err := setCell(c, cell, false); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if showTable {
				renderQuizRows(cmd, c.Wordlists.Rows())
			}
			fmt.Fprintf(out, "%d word forms selected\n", c.Wordlists.SelectedCount())

			values, err := c.Wordlists.StartQuiz()
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintln(out, "Quiz words:")
			for _, v := range values {
				fmt.Fprintln(out, "  "+v)
			}
			return nil
		})
	},
}

func setCell(c *app.Container, cell string, selected bool) error {
	row, col, err := parseCell(cell)
	if err != nil {
		return err
	}
	return c.Wordlists.SetSelected(row, col, selected)
}

// parseCell reads a quiz cell written as row:col.
func parseCell(cell string) (int, int, error) {
	rowStr, colStr, ok := strings.Cut(cell, ":")
	row, rerr := strconv.Atoi(strings.TrimSpace(rowStr))
	col, cerr := strconv.Atoi(strings.TrimSpace(colStr))
	if !ok || rerr != nil || cerr != nil {
		return 0, 0, &entity.ValidationError{Field: "cell", Message: fmt.Sprintf("cell %q is not row:col", cell)}
	}
	return row, col, nil
}

func renderQuizRows(cmd *cobra.Command, rows []entity.QuizRow) {
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	header := []string{"#"}
	for i := 0; i < width; i++ {
		header = append(header, strconv.Itoa(i))
	}
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetAutoWrapText(false)
	table.SetHeader(header)
	for i, r := range rows {
		line := make([]string, 1, width+1)
		line[0] = strconv.Itoa(i)
		for _, cand := range r {
			mark := "[ ]"
			if cand.Selected {
				mark = "[x]"
			}
			line = append(line, mark+" "+cand.Value)
		}
		for len(line) < width+1 {
			line = append(line, "")
		}
		table.Append(line)
	}
	table.Render()
}

func init() {
	flags := quizCmd.Flags()
	flags.Bool("none", false, "start with nothing selected")
	flags.StringArray("select", nil, "select a cell row:col, repeatable")
	flags.StringArray("deselect", nil, "deselect a cell row:col, repeatable")
	flags.Bool("table", false, "print the selection table")

	rootCmd.AddCommand(quizCmd)
}

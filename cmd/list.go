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

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/glostrainer/internal/app"
	"github.com/eslsoft/glostrainer/internal/repository"
	"github.com/eslsoft/glostrainer/internal/usecase"
)

const (
	listFilterKey   = "list.filter"
	listOrderByKey  = "list.order_by"
	listPageSizeKey = "list.page_size"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List entries, optionally filtered and sorted",
	Long: `List entries of the word list.

--search mirrors the filter box: a case-sensitive substring of the dictionary
form or definition, or a case-insensitive whole value with --exact. Add
--all-forms to look at the optional forms too.

--filter takes a conjunction such as
  word_class in ['noun', 'verb'] && dictionary_form.startsWith('b') && forms_count >= 1
--order-by takes up to two of dictionary_form, definition, word_class, forms,
notes, position with asc or desc. Text sorts in Swedish order.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		search, _ := flags.GetString("search")
		exact, _ := flags.GetBool("exact")
		allForms, _ := flags.GetBool("all-forms")
		page, _ := flags.GetInt32("page")

		query := &repository.ListEntriesQuery{
			Pagination: repository.Pagination{PageNo: page, PageSize: viper.GetInt32(listPageSizeKey)},
			FilterOrder: repository.FilterOrder{
				Filter:  viper.GetString(listFilterKey),
				OrderBy: viper.GetString(listOrderByKey),
			},
			Search: repository.Search{Text: search, ExactMatch: exact, AllForms: allForms},
		}

		return withWordlist(cmd, false, func(ctx context.Context, c *app.Container) error {
			items, total, err := c.Wordlists.List(ctx, query)
			if err != nil {
				return err
			}
			renderEntries(cmd, items, true)
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d entries match, %d shown\n", total, c.Wordlists.Count(), len(items))
			return nil
		})
	},
}

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the whole list without decorations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWordlist(cmd, false, func(ctx context.Context, c *app.Container) error {
			items, _, err := c.Wordlists.List(ctx, nil)
			if err != nil {
				return err
			}
			renderEntries(cmd, items, false)
			return nil
		})
	},
}

func renderEntries(cmd *cobra.Command, items []usecase.IndexedEntry, decorated bool) {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"#", "Word class", "Dictionary form", "Definition", "Optional forms", "Notes"})
	if !decorated {
		table.SetBorder(false)
		table.SetColumnSeparator("")
		table.SetHeaderLine(false)
	}
	for _, it := range items {
		e := it.Entry
		table.Append([]string{strconv.Itoa(it.Index), e.WordClass.Label(), e.DictionaryForm, e.Definition, e.FormsSummary(), e.Notes})
	}
	table.Render()
}

func init() {
	flags := listCmd.Flags()
	flags.String("filter", "", "filter expression")
	flags.String("order-by", "", "order clause, e.g. 'dictionary_form desc'")
	flags.StringP("search", "s", "", "text to look for")
	flags.Bool("exact", false, "match whole values, ignoring case")
	flags.Bool("all-forms", false, "also search optional forms")
	flags.Int32("page", 1, "page number")
	flags.Int32("page-size", 0, "entries per page (0 shows all)")

	bindFlagToViper(listFilterKey, flags.Lookup("filter"))
	bindFlagToViper(listOrderByKey, flags.Lookup("order-by"))
	bindFlagToViper(listPageSizeKey, flags.Lookup("page-size"))

	rootCmd.AddCommand(listCmd, printCmd)
}

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

	"github.com/spf13/cobra"

	"github.com/eslsoft/glostrainer/internal/app"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Keep named word lists in a SQL database",
	Long: `The library stores named word lists in the configured database
(DATABASE_DRIVER sqlite3, postgres or pgx; DATABASE_DSN). push copies the
current .gtl file into the library, pull replaces the file with a stored list.`,
}

// libraryRun opens the library, creates its tables and runs fn.
func libraryRun(cmd *cobra.Command, fn func(c *app.LibraryContainer) error) error {
	c, cleanup, err := newLibraryContainer()
	if err != nil {
		return err
	}
	defer cleanup()
	if err := c.Library.Migrate(cmd.Context()); err != nil {
		return err
	}
	return fn(c)
}

var libraryInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the library tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return libraryRun(cmd, func(c *app.LibraryContainer) error {
			cmd.Println("Library ready")
			return nil
		})
	},
}

var libraryPushCmd = &cobra.Command{
	Use:   "push <name>",
	Short: "Store the current word list under name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return libraryRun(cmd, func(c *app.LibraryContainer) error {
			ctx := cmd.Context()
			if err := openWordlist(ctx, cmd, c.Container, false); err != nil {
				return err
			}
			if err := c.Wordlists.SaveTo(ctx, c.Library, args[0]); err != nil {
				return err
			}
			cmd.Printf("Stored %d entries as %q\n", c.Wordlists.Count(), args[0])
			return nil
		})
	},
}

var libraryPullCmd = &cobra.Command{
	Use:   "pull <name>",
	Short: "Replace the current word list file with a stored list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return libraryRun(cmd, func(c *app.LibraryContainer) error {
			ctx := cmd.Context()
			report, err := c.Wordlists.LoadFrom(ctx, c.Library, args[0])
			if err != nil {
				return err
			}
			printStale(cmd.ErrOrStderr(), report)
			if err := saveWordlist(ctx, c.Container); err != nil {
				return err
			}
			cmd.Printf("Pulled %d entries from %q\n", report.Count, args[0])
			return nil
		})
	},
}

var libraryListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List stored word lists",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return libraryRun(cmd, func(c *app.LibraryContainer) error {
			names, err := c.Library.Names(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		})
	},
}

var libraryRemoveCmd = &cobra.Command{
	Use:     "rm <name>",
	Aliases: []string{"remove"},
	Short:   "Delete a stored word list",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return libraryRun(cmd, func(c *app.LibraryContainer) error {
			if err := c.Library.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Printf("Deleted %q\n", args[0])
			return nil
		})
	},
}

func init() {
	libraryCmd.AddCommand(libraryInitCmd, libraryPushCmd, libraryPullCmd, libraryListCmd, libraryRemoveCmd)
	rootCmd.AddCommand(libraryCmd)
}

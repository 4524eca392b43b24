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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/glostrainer/internal/app"
	"github.com/eslsoft/glostrainer/internal/usecase/backup"
)

const (
	importInputKey  = "backup.import.input"
	importAppendKey = "backup.import.append"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import an NDJSON export into the word list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputPath := viper.GetString(importInputKey)
		appendMode := viper.GetBool(importAppendKey)
		if inputPath == "" {
			return errors.New("pass the export file with --input, or - for stdin")
		}

		return withWordlist(cmd, true, func(ctx context.Context, c *app.Container) (err error) {
			reader := cmd.InOrStdin()
			if inputPath != "-" {
				file, openErr := os.Open(filepath.Clean(inputPath))
				if openErr != nil {
					return fmt.Errorf("open export file: %w", openErr)
				}
				defer file.Close()
				reader = file
			}

			list, err := c.Backup.Import(ctx, reader, backup.WithImportProgress(newCLIProgress(cmd.ErrOrStderr(), "Importing")))
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}

			if appendMode {
				total := c.Wordlists.Append(list)
				cmd.Printf("Appended %d entries, %d in total\n", list.Count(), total)
			} else {
				c.Wordlists.ReplaceAll(list)
				cmd.Printf("Imported %d entries\n", list.Count())
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringP("input", "i", "", "export file, - for stdin")
	importCmd.Flags().Bool("append", false, "append to the list instead of replacing it")

	bindImportConfig()
}

func bindImportConfig() {
	bindFlagToViper(importInputKey, importCmd.Flags().Lookup("input"))
	bindFlagToViper(importAppendKey, importCmd.Flags().Lookup("append"))
}

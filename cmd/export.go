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
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/glostrainer/internal/app"
	"github.com/eslsoft/glostrainer/internal/usecase/backup"
)

const (
	exportOutputKey = "backup.export.output"
	exportGzipKey   = "backup.export.gzip"
	exportFormatKey = "backup.export.format"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the word list as NDJSON or YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputPath := viper.GetString(exportOutputKey)
		gzipEnabled := viper.GetBool(exportGzipKey)
		format, err := backup.ParseFormat(viper.GetString(exportFormatKey))
		if err != nil {
			return err
		}

		if outputPath == "" {
			outputPath = defaultExportFilename(format, gzipEnabled)
		}
		if !gzipEnabled && outputPath != "-" && strings.HasSuffix(strings.ToLower(outputPath), ".gz") {
			gzipEnabled = true
		}

		return withWordlist(cmd, false, func(ctx context.Context, c *app.Container) (err error) {
			writer := cmd.OutOrStdout()
			if outputPath != "-" {
				if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
				file, openErr := os.Create(outputPath)
				if openErr != nil {
					return fmt.Errorf("create export file: %w", openErr)
				}
				defer func() {
					if cerr := file.Close(); cerr != nil && err == nil {
						err = cerr
					}
				}()
				writer = file
			}

			opts := []backup.ExportOption{
				backup.WithFormat(format),
				backup.WithGzip(gzipEnabled),
				backup.WithProgressReporter(newCLIProgress(cmd.ErrOrStderr(), "Exporting")),
			}
			if err := c.Backup.Export(ctx, writer, c.Wordlists.Snapshot(), opts...); err != nil {
				return fmt.Errorf("export: %w", err)
			}

			if outputPath != "-" {
				cmd.Printf("Exported to %s\n", outputPath)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", "", "output file, - for stdout")
	exportCmd.Flags().Bool("gzip", false, "gzip compress NDJSON output")
	exportCmd.Flags().String("format", "", "ndjson or yaml (default ndjson)")

	bindExportConfig()
}

func defaultExportFilename(format backup.Format, gzipEnabled bool) string {
	ts := time.Now().UTC().Format("20060102-150405")
	if format == backup.FormatYAML {
		return fmt.Sprintf("glostrainer-export-%s.yaml", ts)
	}
	filename := fmt.Sprintf("glostrainer-export-%s.jsonl", ts)
	if gzipEnabled {
		filename += ".gz"
	}
	return filename
}

func bindExportConfig() {
	bindFlagToViper(exportOutputKey, exportCmd.Flags().Lookup("output"))
	bindFlagToViper(exportGzipKey, exportCmd.Flags().Lookup("gzip"))
	bindFlagToViper(exportFormatKey, exportCmd.Flags().Lookup("format"))
}

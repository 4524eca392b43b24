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

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/glostrainer/internal/app"
	"github.com/eslsoft/glostrainer/internal/entity"
)

const (
	logLevelKey     = "log.level"
	wordlistPathKey = "wordlist.path"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "glostrainer",
	Short: "Keep Swedish vocabulary lists and pick word forms to practise",
	Long: `glostrainer edits word lists stored in .gtl files. Each entry has a word
class, a dictionary form, a definition, the optional inflected forms of its
class and free notes. Selected forms can be handed to a quiz.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		printError(rootCmd, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.env)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringP("file", "f", "", "word list file (default wordlist.gtl)")

	bindFlagToViper(logLevelKey, rootCmd.PersistentFlags().Lookup("log-level"))
	bindFlagToViper(wordlistPathKey, rootCmd.PersistentFlags().Lookup("file"))
}

func newContainer() (*app.Container, func(), error) {
	c, cleanup, err := app.Initialize(app.ConfigFile(cfgFile))
	if err != nil {
		return nil, nil, fmt.Errorf("initialize: %w", err)
	}
	return c, cleanup, nil
}

func newLibraryContainer() (*app.LibraryContainer, func(), error) {
	c, cleanup, err := app.InitializeLibrary(app.ConfigFile(cfgFile))
	if err != nil {
		return nil, nil, fmt.Errorf("initialize library: %w", err)
	}
	return c, cleanup, nil
}

func wordlistPath() string {
	return viper.GetString(wordlistPathKey)
}

func printError(cmd *cobra.Command, err error) {
	red := color.New(color.FgHiRed)
	var verr *entity.ValidationError
	switch {
	case errors.As(err, &verr):
		red.Fprintln(cmd.ErrOrStderr(), verr.Message)
	case errors.Is(err, entity.ErrIndexOutOfRange):
		red.Fprintf(cmd.ErrOrStderr(), "No such entry: %v\n", err)
	case errors.Is(err, entity.ErrFormat):
		red.Fprintf(cmd.ErrOrStderr(), "The file could not be read as a word list: %v\n", err)
	case errors.Is(err, entity.ErrIO):
		red.Fprintf(cmd.ErrOrStderr(), "The word list could not be accessed: %v\n", err)
	default:
		red.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
	}
}

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
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	adapterrepo "github.com/eslsoft/glostrainer/internal/adapter/repository"
	"github.com/eslsoft/glostrainer/internal/app"
	"github.com/eslsoft/glostrainer/internal/entity"
	"github.com/eslsoft/glostrainer/internal/usecase"
)

func bindFlagToViper(key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// openWordlist loads the configured .gtl file into the container's usecase.
// A missing file is an empty list when allowMissing is set.
func openWordlist(ctx context.Context, cmd *cobra.Command, c *app.Container, allowMissing bool) error {
	path := adapterrepo.EnsureGTLExtension(wordlistPath())
	report, err := c.Wordlists.Load(ctx, path)
	if err != nil {
		if allowMissing && errors.Is(err, entity.ErrWordlistNotFound) {
			c.Logger.WithField("location", path).Debug("starting a new word list")
			return nil
		}
		return err
	}
	printStale(cmd.ErrOrStderr(), report)
	return nil
}

func saveWordlist(ctx context.Context, c *app.Container) error {
	return c.Wordlists.Save(ctx, adapterrepo.EnsureGTLExtension(wordlistPath()))
}

// withWordlist runs fn against the configured list and saves it afterwards
// when mutate is set.
func withWordlist(cmd *cobra.Command, mutate bool, fn func(ctx context.Context, c *app.Container) error) error {
	ctx := cmd.Context()
	c, cleanup, err := newContainer()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := openWordlist(ctx, cmd, c, mutate); err != nil {
		return err
	}
	if err := fn(ctx, c); err != nil {
		return err
	}
	if !mutate {
		return nil
	}
	return saveWordlist(ctx, c)
}

func parseIndexes(args []string) ([]int, error) {
	out := make([]int, 0, len(args))
	for _, arg := range args {
		i, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return nil, fmt.Errorf("invalid index %q", arg)
		}
		out = append(out, i)
	}
	return out, nil
}

// entryFlags collects the editor fields of add and edit.
type entryFlags struct {
	class      string
	dictionary string
	definition string
	forms      []string
	notes      string
}

func (f *entryFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.class, "class", "c", "", "word class tag or label (default noun)")
	fs.StringVarP(&f.dictionary, "dictionary-form", "d", "", "Swedish dictionary form")
	fs.StringVarP(&f.definition, "definition", "t", "", "definition")
	fs.StringArrayVar(&f.forms, "form", nil, "optional form as name=value, repeatable")
	fs.StringVarP(&f.notes, "notes", "n", "", "notes")
}

// apply builds an entry from base overridden by the flags that were set.
func (f *entryFlags) apply(fs *pflag.FlagSet, base entity.WordEntry) (entity.WordEntry, error) {
	class := base.WordClass
	if fs.Changed("class") {
		c, err := entity.ParseWordClass(f.class)
		if err != nil {
			return entity.WordEntry{}, &entity.ValidationError{Field: "word_class", Message: err.Error()}
		}
		class = c
	}
	dictionary, definition, notes := base.DictionaryForm, base.Definition, base.Notes
	if fs.Changed("dictionary-form") {
		dictionary = f.dictionary
	}
	if fs.Changed("definition") {
		definition = f.definition
	}
	if fs.Changed("notes") {
		notes = f.notes
	}

	forms := base.OptionalForms.Clone()
	if fs.Changed("class") && class != base.WordClass {
		forms = entity.OptionalForms{}
	}
	for _, raw := range f.forms {
		name, value, ok := strings.Cut(raw, "=")
		if !ok {
			return entity.WordEntry{}, &entity.ValidationError{Field: "form", Message: fmt.Sprintf("form %q is not name=value", raw)}
		}
		name = strings.TrimSpace(name)
		if !class.HasFormName(name) {
			return entity.WordEntry{}, &entity.ValidationError{
				Field:   "form",
				Message: fmt.Sprintf("%s has no form %q (known: %s)", class.Label(), name, strings.Join(class.FormNames(), ", ")),
			}
		}
		forms.Set(name, value)
	}
	return entity.NewWordEntry(class, dictionary, definition, forms, notes)
}

func printStale(w io.Writer, report usecase.LoadReport) {
	if report.Stale.Len() > 0 {
		color.New(color.FgYellow).Fprintln(w, report.Stale.String())
	}
}

type cliProgress struct {
	out     io.Writer
	verb    string
	total   int
	count   int
	last    int
	step    int
	started bool
}

func newCLIProgress(out io.Writer, verb string) *cliProgress {
	return &cliProgress{out: out, verb: verb}
}

func (p *cliProgress) Start(total int) {
	if total < 0 {
		total = 0
	}
	p.total, p.count, p.last = total, 0, 0
	p.step = progressStep(total)
	p.started = true
	fmt.Fprintf(p.out, "%s %d entries\n", p.verb, total)
}

func (p *cliProgress) Increment(delta int) {
	if delta <= 0 {
		return
	}
	p.count += delta
	if p.count == p.total || p.count-p.last >= p.step {
		fmt.Fprintf(p.out, "%s progress: %d/%d\n", p.verb, p.count, p.total)
		p.last = p.count
	}
}

func (p *cliProgress) Finish() {
	if !p.started {
		return
	}
	fmt.Fprintf(p.out, "%s done: %d/%d entries\n", p.verb, p.count, p.total)
}

func progressStep(total int) int {
	if total <= 0 {
		return 100
	}
	return min(max(total/20, 1), 100)
}

package backup

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/itchyny/json2yaml"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/eslsoft/glostrainer/internal/entity"
)

const (
	formatName    = "glostrainer-export"
	formatVersion = 1

	recordMeta  = "meta"
	recordEntry = "entry"
)

var errEmptyExport = errors.New("backup: export contains no records")

// Format selects the export encoding.
type Format string

const (
	FormatNDJSON Format = "ndjson"
	FormatYAML   Format = "yaml"
)

// ParseFormat accepts "ndjson", "json", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ndjson", "json", "jsonl":
		return FormatNDJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("backup: unknown export format %q", s)
	}
}

// ProgressReporter receives per-entry callbacks during export and import.
type ProgressReporter interface {
	Start(total int)
	Increment(delta int)
	Finish()
}

type noopProgress struct{}

func (noopProgress) Start(int)     {}
func (noopProgress) Increment(int) {}
func (noopProgress) Finish()       {}

// Service converts word lists to and from portable export documents.
type Service struct {
	now func() time.Time
}

type Option func(*Service)

// WithClock overrides the exported_at timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs a backup service.
func NewService(opts ...Option) *Service {
	svc := &Service{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ExportOption func(*exportConfig)

type exportConfig struct {
	format   Format
	gzip     bool
	reporter ProgressReporter
}

// WithFormat selects NDJSON (default) or YAML output.
func WithFormat(f Format) ExportOption {
	return func(cfg *exportConfig) {
		if f != "" {
			cfg.format = f
		}
	}
}

// WithGzip compresses NDJSON output. YAML output is never compressed.
func WithGzip(enabled bool) ExportOption {
	return func(cfg *exportConfig) {
		cfg.gzip = enabled
	}
}

// WithProgressReporter registers a reporter for export progress.
func WithProgressReporter(reporter ProgressReporter) ExportOption {
	return func(cfg *exportConfig) {
		cfg.reporter = reporter
	}
}

type ImportOption func(*importConfig)

type importConfig struct {
	reporter ProgressReporter
}

// WithImportProgress registers a reporter for import progress.
func WithImportProgress(reporter ProgressReporter) ImportOption {
	return func(cfg *importConfig) {
		cfg.reporter = reporter
	}
}

type metaRecord struct {
	Type       string    `json:"type"`
	Format     string    `json:"format"`
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	EntryCount int       `json:"entry_count"`
}

type entryPayload struct {
	WordClass      string             `json:"word_class"`
	DictionaryForm string             `json:"dictionary_form"`
	Definition     string             `json:"definition"`
	OptionalForms  []entity.FormValue `json:"optional_forms"`
	Notes          string             `json:"notes"`
}

type entryRecord struct {
	Type    string       `json:"type"`
	Payload entryPayload `json:"payload"`
}

func payloadOf(e entity.WordEntry) entryPayload {
	forms := e.OptionalForms.Pairs()
	if forms == nil {
		forms = []entity.FormValue{}
	}
	return entryPayload{
		WordClass:      e.WordClass.Tag(),
		DictionaryForm: e.DictionaryForm,
		Definition:     e.Definition,
		OptionalForms:  forms,
		Notes:          e.Notes,
	}
}

func (p entryPayload) entry() (entity.WordEntry, error) {
	class, err := entity.ParseWordClass(p.WordClass)
	if err != nil {
		return entity.WordEntry{}, err
	}
	return entity.WordEntry{
		WordClass:      class,
		DictionaryForm: p.DictionaryForm,
		Definition:     p.Definition,
		OptionalForms:  entity.NewOptionalForms(p.OptionalForms...),
		Notes:          p.Notes,
	}, nil
}

// Export writes list to w. Each entry record carries a derived
// forms_summary for human readers; Import ignores it.
func (s *Service) Export(ctx context.Context, w io.Writer, list *entity.Wordlist, opts ...ExportOption) error {
	if list == nil {
		return errors.New("backup: wordlist is required")
	}
	cfg := exportConfig{format: FormatNDJSON}
	for _, opt := range opts {
		opt(&cfg)
	}
	reporter := cfg.reporter
	if reporter == nil {
		reporter = noopProgress{}
	}

	lines, err := s.encodeLines(ctx, list, reporter)
	if err != nil {
		return err
	}

	switch cfg.format {
	case FormatYAML:
		return writeYAML(w, lines)
	case FormatNDJSON:
		return writeNDJSON(w, lines, cfg.gzip)
	default:
		return fmt.Errorf("backup: unknown export format %q", cfg.format)
	}
}

func (s *Service) encodeLines(ctx context.Context, list *entity.Wordlist, reporter ProgressReporter) ([][]byte, error) {
	meta, err := json.Marshal(metaRecord{
		Type:       recordMeta,
		Format:     formatName,
		Version:    formatVersion,
		ExportedAt: s.now(),
		EntryCount: list.Count(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode meta record: %w", err)
	}

	lines := make([][]byte, 0, list.Count()+1)
	lines = append(lines, meta)
	reporter.Start(list.Count())
	for i, e := range list.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := json.Marshal(entryRecord{Type: recordEntry, Payload: payloadOf(e)})
		if err != nil {
			return nil, fmt.Errorf("encode entry %d: %w", i, err)
		}
		data, err = sjson.SetBytes(data, "payload.forms_summary", e.FormsSummary())
		if err != nil {
			return nil, fmt.Errorf("stamp entry %d: %w", i, err)
		}
		lines = append(lines, data)
		reporter.Increment(1)
	}
	reporter.Finish()
	return lines, nil
}

func writeNDJSON(w io.Writer, lines [][]byte, compress bool) error {
	var gz *gzip.Writer
	if compress {
		gz = gzip.NewWriter(w)
		w = gz
	}
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.Write(line); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return fmt.Errorf("close gzip stream: %w", err)
		}
	}
	return nil
}

// writeYAML renders {meta: ..., entries: [...]} as one YAML document.
func writeYAML(w io.Writer, lines [][]byte) error {
	if len(lines) == 0 {
		return errEmptyExport
	}
	doc := []byte(`{}`)
	doc, err := sjson.SetRawBytes(doc, "meta", lines[0])
	if err != nil {
		return fmt.Errorf("build yaml document: %w", err)
	}
	doc, err = sjson.SetRawBytes(doc, "entries", []byte("[]"))
	if err != nil {
		return fmt.Errorf("build yaml document: %w", err)
	}
	for i, line := range lines[1:] {
		doc, err = sjson.SetRawBytes(doc, "entries.-1", []byte(gjson.GetBytes(line, "payload").Raw))
		if err != nil {
			return fmt.Errorf("build yaml document entry %d: %w", i, err)
		}
	}
	if err := json2yaml.Convert(w, bytes.NewReader(doc)); err != nil {
		return fmt.Errorf("convert to yaml: %w", err)
	}
	return nil
}

// Import reads an NDJSON export, gzip compressed or plain, and returns the
// list it holds.
func (s *Service) Import(ctx context.Context, r io.Reader, opts ...ImportOption) (*entity.Wordlist, error) {
	cfg := importConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	reporter := cfg.reporter
	if reporter == nil {
		reporter = noopProgress{}
	}

	br := bufio.NewReader(r)
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("backup: open gzip stream: %w", err)
		}
		defer gz.Close()
		br = bufio.NewReader(gz)
	}

	var (
		metaSeen bool
		expected int
		list     = entity.NewWordlist()
	)
	for {
		line, err := br.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read backup: %w", err)
		}
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			if cerr := ctx.Err(); cerr != nil {
				return nil, cerr
			}
			if !gjson.ValidBytes(line) {
				return nil, fmt.Errorf("backup: record %d is not valid JSON", list.Count()+1)
			}
			switch t := gjson.GetBytes(line, "type").String(); t {
			case recordMeta:
				if metaSeen {
					return nil, errors.New("backup: duplicate meta record")
				}
				if expected, err = checkMeta(line); err != nil {
					return nil, err
				}
				metaSeen = true
				reporter.Start(expected)
			case recordEntry:
				if !metaSeen {
					return nil, errors.New("backup: entry before meta record")
				}
				var rec entryRecord
				if err := json.Unmarshal(line, &rec); err != nil {
					return nil, fmt.Errorf("backup: decode entry: %w", err)
				}
				entry, err := rec.Payload.entry()
				if err != nil {
					return nil, fmt.Errorf("backup: entry %d: %w", list.Count(), err)
				}
				list.Add(entry)
				reporter.Increment(1)
			default:
				return nil, fmt.Errorf("backup: unknown record type %q", t)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}

	if !metaSeen {
		return nil, errors.New("backup: missing meta record")
	}
	if list.Count() != expected {
		return nil, fmt.Errorf("backup: expected %d entries, found %d", expected, list.Count())
	}
	reporter.Finish()
	return list, nil
}

func checkMeta(line []byte) (int, error) {
	if f := gjson.GetBytes(line, "format").String(); f != formatName {
		return 0, fmt.Errorf("backup: unsupported format %q", f)
	}
	if v := gjson.GetBytes(line, "version").Int(); v != formatVersion {
		return 0, fmt.Errorf("backup: unsupported format version %d", v)
	}
	count := gjson.GetBytes(line, "entry_count")
	if !count.Exists() || count.Int() < 0 {
		return 0, errors.New("backup: meta record has no entry count")
	}
	return int(count.Int()), nil
}

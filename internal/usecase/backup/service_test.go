package backup

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/eslsoft/glostrainer/internal/entity"
)

var exportedAt = time.Date(2025, 5, 17, 9, 30, 0, 0, time.UTC)

func seedList() *entity.Wordlist {
	bil := entity.WordEntry{WordClass: entity.WordClassNoun, DictionaryForm: "bil", Definition: "car", Notes: "en bil"}
	bil.OptionalForms.Set("Singular definite form", "bilen")
	bil.OptionalForms.Set("Plural indefinite form", "bilar")
	return entity.NewWordlist(
		bil,
		entity.WordEntry{WordClass: entity.WordClassAdverb, DictionaryForm: "snart", Definition: "soon"},
		entity.WordEntry{WordClass: entity.WordClassPhrase, DictionaryForm: "hur mår du?", Definition: "how are you?"},
	)
}

type countingProgress struct {
	total, done int
	finished    bool
}

func (p *countingProgress) Start(total int)     { p.total = total }
func (p *countingProgress) Increment(delta int) { p.done += delta }
func (p *countingProgress) Finish()             { p.finished = true }

func assertSameList(t *testing.T, want, got *entity.Wordlist) {
	t.Helper()
	if want.Count() != got.Count() {
		t.Fatalf("expected %d entries, got %d", want.Count(), got.Count())
	}
	for i, w := range want.All() {
		g, _ := got.Get(i)
		if !w.Equal(g) {
			t.Fatalf("entry %d mismatch:\nwant %v\ngot  %v", i, w, g)
		}
	}
}

func TestServiceExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewService(WithClock(func() time.Time { return exportedAt }))

	for _, compress := range []bool{false, true} {
		var buf bytes.Buffer
		progress := &countingProgress{}
		if err := svc.Export(ctx, &buf, seedList(), WithGzip(compress), WithProgressReporter(progress)); err != nil {
			t.Fatalf("export (gzip=%v) failed: %v", compress, err)
		}
		if progress.total != 3 || progress.done != 3 || !progress.finished {
			t.Fatalf("unexpected export progress %+v", progress)
		}

		got, err := svc.Import(ctx, bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("import (gzip=%v) failed: %v", compress, err)
		}
		assertSameList(t, seedList(), got)
	}
}

func TestServiceExportRecords(t *testing.T) {
	var buf bytes.Buffer
	svc := NewService(WithClock(func() time.Time { return exportedAt }))
	if err := svc.Export(context.Background(), &buf, seedList()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 records, got %d", len(lines))
	}
	meta := gjson.Parse(lines[0])
	if meta.Get("type").String() != "meta" || meta.Get("entry_count").Int() != 3 {
		t.Fatalf("unexpected meta record %s", lines[0])
	}
	if !meta.Get("exported_at").Time().Equal(exportedAt) {
		t.Fatalf("unexpected exported_at %s", meta.Get("exported_at").String())
	}
	if got := gjson.Get(lines[1], "payload.forms_summary").String(); got != "bilen, bilar" {
		t.Fatalf("unexpected forms_summary %q", got)
	}
	if got := gjson.Get(lines[2], "payload.optional_forms").Raw; got != "[]" {
		t.Fatalf("expected empty optional_forms array, got %s", got)
	}
}

func TestServiceExportGzipIsCompressed(t *testing.T) {
	var buf bytes.Buffer
	if err := NewService().Export(context.Background(), &buf, seedList(), WithGzip(true)); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	gz, err := gzip.NewReader(&buf)
	if err != nil {
		t.Fatalf("expected gzip stream: %v", err)
	}
	data, err := io.ReadAll(gz)
	if err != nil {
		t.Fatalf("read gzip: %v", err)
	}
	if !strings.HasPrefix(string(data), `{"type":"meta"`) {
		t.Fatalf("unexpected decompressed content %q", data)
	}
}

func TestServiceExportYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := NewService().Export(context.Background(), &buf, seedList(), WithFormat(FormatYAML)); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"meta:", "entries:", "dictionary_form: bil", "forms_summary:", "entry_count: 3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("yaml output missing %q:\n%s", want, out)
		}
	}
}

func TestServiceImportErrors(t *testing.T) {
	const meta = `{"type":"meta","format":"glostrainer-export","version":1,"entry_count":1}`
	const entry = `{"type":"entry","payload":{"word_class":"noun","dictionary_form":"bil","definition":"car","optional_forms":[],"notes":""}}`

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "missing meta record"},
		{"invalid json", "{nope", "not valid JSON"},
		{"entry before meta", entry + "\n" + meta, "entry before meta"},
		{"duplicate meta", meta + "\n" + meta, "duplicate meta"},
		{"unknown type", meta + "\n" + `{"type":"word"}`, "unknown record type"},
		{"foreign format", `{"type":"meta","format":"vocab","version":1,"entry_count":0}`, "unsupported format"},
		{"future version", `{"type":"meta","format":"glostrainer-export","version":9,"entry_count":0}`, "unsupported format version"},
		{"count mismatch", meta, "expected 1 entries, found 0"},
		{"unknown class", meta + "\n" + strings.Replace(entry, `"noun"`, `"particle"`, 1), "unknown word class"},
	}
	svc := NewService()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Import(context.Background(), strings.NewReader(tc.input))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatNDJSON, "JSON": FormatNDJSON, "yml": FormatYAML, " yaml ": FormatYAML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("csv"); err == nil {
		t.Fatalf("expected csv to be rejected")
	}
}

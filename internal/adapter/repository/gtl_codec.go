package repository

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tidwall/gjson"

	"github.com/eslsoft/glostrainer/internal/entity"
)

const (
	// GTLFormatName identifies a .gtl container in its meta record.
	GTLFormatName = "glostrainer-wordlist"
	// GTLFormatVersion is the newest container version this build reads.
	GTLFormatVersion = 1

	recordTypeMeta  = "meta"
	recordTypeEntry = "entry"
)

// GTLHeader is the meta record at the start of every container.
type GTLHeader struct {
	Format      string              `json:"format"`
	Version     int                 `json:"version"`
	SavedAt     time.Time           `json:"saved_at"`
	Revision    string              `json:"revision,omitempty"`
	EntryCount  int                 `json:"entry_count"`
	WordClasses map[string][]string `json:"word_classes,omitempty"`
}

type record struct {
	Type string `json:"type"`
	*GTLHeader
	Payload any `json:"payload,omitempty"`
}

type rawRecord struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// EntryRecord is the serialized form of one word entry.
type EntryRecord struct {
	WordClass      string             `json:"word_class"`
	DictionaryForm string             `json:"dictionary_form"`
	Definition     string             `json:"definition"`
	OptionalForms  []entity.FormValue `json:"optional_forms"`
	Notes          string             `json:"notes"`
}

// ToEntryRecord converts an entry for serialization.
func ToEntryRecord(e entity.WordEntry) EntryRecord {
	forms := e.OptionalForms.Pairs()
	if forms == nil {
		forms = []entity.FormValue{}
	}
	return EntryRecord{
		WordClass:      e.WordClass.Tag(),
		DictionaryForm: e.DictionaryForm,
		Definition:     e.Definition,
		OptionalForms:  forms,
		Notes:          e.Notes,
	}
}

// Entry converts the record back. Stored values are kept verbatim, including
// form names the word class no longer declares.
func (r EntryRecord) Entry() (entity.WordEntry, error) {
	class, err := entity.ParseWordClass(r.WordClass)
	if err != nil {
		return entity.WordEntry{}, err
	}
	return entity.WordEntry{
		WordClass:      class,
		DictionaryForm: r.DictionaryForm,
		Definition:     r.Definition,
		OptionalForms:  entity.NewOptionalForms(r.OptionalForms...),
		Notes:          r.Notes,
	}, nil
}

// CurrentWordClassForms snapshots the form slots of every class so a reader
// can tell which names the writer knew about.
func CurrentWordClassForms() map[string][]string {
	out := make(map[string][]string)
	for _, c := range entity.AllWordClasses() {
		out[c.Tag()] = c.FormNames()
	}
	return out
}

// EncodeGTL writes list as a gzip compressed NDJSON container.
func EncodeGTL(w io.Writer, list *entity.Wordlist, header GTLHeader) error {
	gz := gzip.NewWriter(w)
	bw := bufio.NewWriter(gz)

	header.Format = GTLFormatName
	header.Version = GTLFormatVersion
	header.EntryCount = list.Count()
	if header.WordClasses == nil {
		header.WordClasses = CurrentWordClassForms()
	}
	if err := writeRecord(bw, record{Type: recordTypeMeta, GTLHeader: &header}); err != nil {
		return err
	}
	for _, e := range list.All() {
		if err := writeRecord(bw, record{Type: recordTypeEntry, Payload: ToEntryRecord(e)}); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush container: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("close gzip stream: %w", err)
	}
	return nil
}

func writeRecord(w io.Writer, rec record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", rec.Type, err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s record: %w", rec.Type, err)
	}
	return nil
}

// errSourceRead marks failures of the underlying reader, as opposed to
// malformed content.
var errSourceRead = errors.New("read source")

type trackingReader struct {
	r   io.Reader
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		t.err = err
	}
	return n, err
}

// DecodeGTL reads a container written by EncodeGTL. Content problems are
// returned wrapping entity.ErrFormat; failures of r itself wrap errSourceRead.
func DecodeGTL(r io.Reader) (*entity.Wordlist, *GTLHeader, error) {
	src := &trackingReader{r: r}
	list, header, err := decodeGTL(src)
	if err != nil {
		if src.err != nil {
			return nil, nil, fmt.Errorf("%w: %w", errSourceRead, src.err)
		}
		return nil, nil, fmt.Errorf("%w: %w", entity.ErrFormat, err)
	}
	return list, header, nil
}

func decodeGTL(r io.Reader) (*entity.Wordlist, *GTLHeader, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("not a wordlist container: %w", err)
	}
	defer gz.Close()

	br := bufio.NewReader(gz)
	var (
		header *GTLHeader
		list   = entity.NewWordlist()
		lineNo int
	)
	for {
		line, readErr := br.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, nil, fmt.Errorf("read container: %w", readErr)
		}
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			lineNo++
			if header == nil {
				header, err = parseHeader(line)
				if err != nil {
					return nil, nil, err
				}
			} else if err := decodeEntryLine(list, line, lineNo); err != nil {
				return nil, nil, err
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
	}

	if header == nil {
		return nil, nil, errors.New("missing meta record")
	}
	if list.Count() != header.EntryCount {
		return nil, nil, fmt.Errorf("expected %d entries, found %d", header.EntryCount, list.Count())
	}
	return list, header, nil
}

func parseHeader(line []byte) (*GTLHeader, error) {
	if !gjson.ValidBytes(line) {
		return nil, errors.New("meta record is not valid JSON")
	}
	if t := gjson.GetBytes(line, "type").String(); t != recordTypeMeta {
		return nil, fmt.Errorf("first record has type %q, want %q", t, recordTypeMeta)
	}
	if f := gjson.GetBytes(line, "format").String(); f != GTLFormatName {
		return nil, fmt.Errorf("container format %q is not %q", f, GTLFormatName)
	}
	version := gjson.GetBytes(line, "version")
	if !version.Exists() || version.Int() < 1 {
		return nil, errors.New("meta record has no format version")
	}
	if version.Int() > GTLFormatVersion {
		return nil, fmt.Errorf("container version %d is newer than supported version %d", version.Int(), GTLFormatVersion)
	}

	var header GTLHeader
	if err := json.Unmarshal(line, &header); err != nil {
		return nil, fmt.Errorf("decode meta record: %w", err)
	}
	if header.EntryCount < 0 {
		return nil, fmt.Errorf("negative entry count %d", header.EntryCount)
	}
	return &header, nil
}

func decodeEntryLine(list *entity.Wordlist, line []byte, lineNo int) error {
	var rec rawRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return fmt.Errorf("record %d: %w", lineNo, err)
	}
	if rec.Type != recordTypeEntry {
		return fmt.Errorf("record %d: unexpected type %q", lineNo, rec.Type)
	}
	if len(rec.Payload) == 0 {
		return fmt.Errorf("record %d: missing payload", lineNo)
	}
	var payload EntryRecord
	if err := json.Unmarshal(rec.Payload, &payload); err != nil {
		return fmt.Errorf("record %d: decode entry: %w", lineNo, err)
	}
	entry, err := payload.Entry()
	if err != nil {
		return fmt.Errorf("record %d: %w", lineNo, err)
	}
	list.Add(entry)
	return nil
}

// Package psv implements a streaming parser for the pipe-separated files of
// the DfT anonymised MOT test data: the primary test_result extract and the
// small mdr_* lookup tables. It reads a bounded sample without buffering the
// whole input and applies a soft-fail policy to malformed rows: a row whose
// field count does not match the header is skipped, counted, and reported to
// the configured skip callback, never fatal. The upstream export does not
// document its malformed-row behaviour, so broken lines are dropped from the
// bounded sample rather than aborting the batch run.
package psv

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"motstats/internal/domain"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// logSkipLimit caps per-row skip logging so a corrupt file cannot flood the
// log; skips beyond the cap are still counted and forwarded to OnSkip.
const logSkipLimit = 400

// Row is one raw record: the 1-based line number in the source file plus the
// header-keyed field values. Empty source fields are stored as nil so later
// stages can treat absence uniformly.
type Row struct {
	Line   int
	Fields map[string]any
}

// String returns the raw string for column key, or "" when absent/empty.
func (r Row) String(key string) string {
	if v, ok := r.Fields[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Options configures the parser. Zero values select the defaults noted per
// field.
type Options struct {
	// Comma is the field delimiter; '|' when zero (the DfT convention).
	Comma rune

	// HasHeader indicates the first row carries column names. Header names
	// are lowercased and space-normalized into canonical keys.
	HasHeader bool

	// MaxRows caps the number of body rows read; 0 means all rows. The cap
	// bounds both memory and runtime for exploratory passes over the
	// multi-gigabyte full extract.
	MaxRows int

	// TrimSpace trims surrounding ASCII space from every field value.
	TrimSpace bool

	// OnSkip, when set, receives every malformed row: the skip reason, the
	// 1-based source line, and the raw fields joined back together.
	OnSkip func(reason string, line int, raw string)
}

// Parser parses pipe-separated input according to Options. A Parser may be
// reused across inputs but is not safe for concurrent use.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser {
	if opt.Comma == 0 {
		opt.Comma = '|'
	}
	return &Parser{opt: opt}
}

// ParseFile opens path and parses it. A path that cannot be opened wraps
// domain.ErrSourceUnavailable: the batch has no transient-failure context, so
// the caller aborts rather than retries.
func (p *Parser) ParseFile(path string) ([]Row, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %v", domain.ErrSourceUnavailable, path, err)
	}
	defer f.Close()
	rows, skipped, err := p.Parse(f)
	if err != nil {
		return nil, skipped, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, skipped, nil
}

// Parse consumes records from r and returns the parsed rows along with the
// number of rows skipped for structural reasons.
func (p *Parser) Parse(r io.Reader) ([]Row, int, error) {
	cr := csv.NewReader(bufio.NewReaderSize(r, 64*1024))
	cr.Comma = p.opt.Comma
	cr.FieldsPerRecord = -1 // arity enforced below so we can count, not abort
	cr.LazyQuotes = true

	var headers []string
	line := 0

	if p.opt.HasHeader {
		h, err := cr.Read()
		if err != nil {
			return nil, 0, fmt.Errorf("read header: %w", err)
		}
		line++
		headers = normalizeHeaders(h)
	}

	var out []Row
	var skipped int
	for {
		if p.opt.MaxRows > 0 && len(out) >= p.opt.MaxRows {
			break
		}
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			p.skip("parse_error", line, strings.Join(rec, string(p.opt.Comma)), &skipped)
			continue
		}
		if len(headers) == 0 {
			headers = syntheticHeaders(len(rec))
		}
		if len(rec) != len(headers) {
			p.skip(fmt.Sprintf("arity_mismatch_want_%d_got_%d", len(headers), len(rec)),
				line, strings.Join(rec, string(p.opt.Comma)), &skipped)
			continue
		}
		fields := make(map[string]any, len(rec))
		for i, val := range rec {
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			fields[headers[i]] = emptyToNil(val)
		}
		out = append(out, Row{Line: line, Fields: fields})
	}
	return out, skipped, nil
}

func (p *Parser) skip(reason string, line int, raw string, skipped *int) {
	if *skipped < logSkipLimit {
		log.Printf("skipping row %d: %s", line, reason)
	}
	*skipped++
	if p.opt.OnSkip != nil {
		p.opt.OnSkip(reason, line, raw)
	}
}

// LoadLookup reads a header-bearing pipe-separated lookup file into a
// code -> description table. Column order is positional: the first column is
// the code and the second the description (the mdr_* convention); extra
// columns are ignored and short rows skipped.
func LoadLookup(path string) (*domain.Lookup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSourceUnavailable, path, err)
	}
	defer f.Close()

	cr := csv.NewReader(bufio.NewReader(f))
	cr.Comma = '|'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	if _, err := cr.Read(); err != nil { // header row, content unused
		return nil, fmt.Errorf("read lookup header %s: %w", path, err)
	}

	lk := domain.NewLookup()
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil || len(rec) < 2 {
			continue
		}
		code := strings.TrimSpace(rec[0])
		if code == "" {
			continue
		}
		lk.Add(code, strings.TrimSpace(rec[1]))
	}
	if lk.Len() == 0 {
		return nil, fmt.Errorf("%w: lookup %s has no code rows", domain.ErrSchemaMismatch, path)
	}
	return lk, nil
}

// normalizeHeaders lowercases headers, collapses spaces to underscores, and
// strips a UTF-8 BOM from the first cell.
func normalizeHeaders(h []string) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		res[i] = strings.ReplaceAll(strings.ToLower(c), " ", "_")
	}
	return res
}

func syntheticHeaders(n int) []string {
	h := make([]string, n)
	for i := range h {
		h[i] = fmt.Sprintf("col_%d", i)
	}
	return h
}

// emptyToNil converts an empty string to nil; all other values pass through.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/plsense/internal/model"
	"github.com/cleared-dev/plsense/internal/normalize"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVReader reads delimited text. Comma defaults to ','; a tab makes it the
// "tsv" reader.
type CSVReader struct {
	Comma rune
}

// Format returns the reader name.
func (c *CSVReader) Format() string {
	if c.Comma == '\t' {
		return "tsv"
	}
	return "csv"
}

// Read parses every record. Rows may be ragged and quotes lenient, since
// spreadsheet exports rarely agree on either.
func (c *CSVReader) Read(r io.Reader, source string) (*model.RawTable, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	if c.Comma != 0 {
		cr.Comma = c.Comma
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", c.Format(), err)
	}

	t := &model.RawTable{Source: source, Rows: make([][]model.Cell, len(records))}
	for i, rec := range records {
		row := make([]model.Cell, len(rec))
		for j, s := range rec {
			row[j] = inferCell(s)
		}
		t.Rows[i] = row
	}
	return t, nil
}

// inferCell types a text field: plain numbers become number cells, anything
// else stays text for the normalizers.
func inferCell(s string) model.Cell {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return model.Cell{}
	}
	if d, ok := normalize.Number(trimmed); ok {
		c := model.NumberCell(d)
		c.Text = trimmed
		return c
	}
	return model.TextCell(s)
}

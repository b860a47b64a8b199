// Package runlog keeps a CSV history of analyzed files.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Status is the outcome of analyzing one file.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp   time.Time `json:"timestamp"`
	File        string    `json:"file"`
	StatementID string    `json:"statement_id,omitempty"`
	Status      Status    `json:"status"`
	Rows        int       `json:"rows"`
	Periods     int       `json:"periods"`
	NeedsReview int       `json:"needs_review"`
	Details     string    `json:"details,omitempty"`
}

// Header is the CSV header for run-log.csv.
const Header = "timestamp,file,statement_id,status,rows,periods,needs_review,details"

const (
	numFields      = 8
	logDir         = "logs"
	logFile        = "logs/run-log.csv"
	colTimestamp   = 0
	colFile        = 1
	colStatementID = 2
	colStatus      = 3
	colRows        = 4
	colPeriods     = 5
	colNeedsReview = 6
	colDetails     = 7
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colFile] = e.File
	row[colStatementID] = e.StatementID
	row[colStatus] = string(e.Status)
	row[colRows] = strconv.Itoa(e.Rows)
	row[colPeriods] = strconv.Itoa(e.Periods)
	row[colNeedsReview] = strconv.Itoa(e.NeedsReview)
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	var counts [3]int
	for i, col := range []int{colRows, colPeriods, colNeedsReview} {
		n, err := strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[col], err)
		}
		counts[i] = n
	}

	return Entry{
		Timestamp:   ts,
		File:        record[colFile],
		StatementID: record[colStatementID],
		Status:      Status(record[colStatus]),
		Rows:        counts[0],
		Periods:     counts[1],
		NeedsReview: counts[2],
		Details:     record[colDetails],
	}, nil
}

// Path returns the run log location under dir.
func Path(dir string) string {
	return filepath.Join(dir, logFile)
}

// Append writes entries to <dir>/logs/run-log.csv, creating the file and
// header if needed.
func Append(dir string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Join(dir, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := Path(dir)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <dir>/logs/run-log.csv.
// Returns an empty slice if the file does not exist.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(Path(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

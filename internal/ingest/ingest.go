// Package ingest reads spreadsheet exports into raw cell grids.
package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cleared-dev/plsense/internal/model"
)

// Reader converts a file into a RawTable.
type Reader interface {
	Read(r io.Reader, source string) (*model.RawTable, error)
	Format() string
}

// Registry holds readers keyed by format, which doubles as the file
// extension.
type Registry struct {
	readers map[string]Reader
}

// FileInfo describes a readable file in an import directory.
type FileInfo struct {
	Name   string
	Path   string
	Size   int64
	Format string
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]Reader)}
}

// Register adds a reader. Panics on duplicate format.
func (r *Registry) Register(rd Reader) {
	key := strings.ToLower(rd.Format())
	if _, ok := r.readers[key]; ok {
		panic("duplicate reader format: " + key)
	}
	r.readers[key] = rd
}

// Get returns the reader for format, or nil.
func (r *Registry) Get(format string) Reader {
	return r.readers[strings.ToLower(format)]
}

// Formats returns the registered formats in sorted order.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.readers))
	for k := range r.readers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry returns a registry with all built-in readers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVReader{})
	r.Register(&CSVReader{Comma: '\t'})
	r.Register(&XLSXReader{})
	return r
}

// ForFile returns the reader matching the file extension.
func (r *Registry) ForFile(path string) (Reader, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if rd := r.Get(ext); rd != nil {
		return rd, nil
	}
	return nil, fmt.Errorf("unsupported file type %q (want one of %s)", filepath.Ext(path), strings.Join(r.Formats(), ", "))
}

// ReadFile opens path and reads it with the reader for its extension.
func (r *Registry) ReadFile(path string) (*model.RawTable, error) {
	rd, err := r.ForFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	t, err := rd.Read(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return t, nil
}

// ProcessedDir is the subdirectory analyzed files are moved to.
const ProcessedDir = "processed"

// Scan returns the readable files directly inside dir. A missing directory
// yields no files.
func (r *Registry) Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		rd, err := r.ForFile(e.Name())
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name:   e.Name(),
			Path:   filepath.Join(dir, e.Name()),
			Size:   info.Size(),
			Format: rd.Format(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from dir to dir/processed.
func MarkProcessed(dir, fileName string) error {
	src := filepath.Join(dir, fileName)
	dstDir := filepath.Join(dir, ProcessedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

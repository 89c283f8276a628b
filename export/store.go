// Package export writes overlay reports and graph images to disk.
//
// Files are stored in a flat directory structure:
//
//	~/.cache/perf-pulse/
//	  report.json
//	  fps.png
//	  cpu.png
//	  memory.png
package export

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"gitlab.com/tinyland/lab/perf-pulse/overlay"
)

// ReportFile is the name of the JSON report inside the store directory.
const ReportFile = "report.json"

// Store writes export files atomically into one directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a store at the given directory.
// The directory is created with 0700 permissions if it does not exist.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("export: create directory %s: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the filesystem path for a file name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// WriteReport writes r as indented JSON to report.json.
func (s *Store) WriteReport(r overlay.Report) error {
	encoded, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshal report: %w", err)
	}
	if err := s.writeAtomic(ReportFile, func(w io.Writer) error {
		_, err := w.Write(encoded)
		return err
	}); err != nil {
		return err
	}
	s.logger.Debug("report written", slog.String("path", s.Path(ReportFile)))
	return nil
}

// ReadReport reads report.json back. It returns nil, nil when no report
// has been written.
func (s *Store) ReadReport() (*overlay.Report, error) {
	data, err := os.ReadFile(s.Path(ReportFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("export: read report: %w", err)
	}

	var r overlay.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("export: decode report: %w", err)
	}
	return &r, nil
}

// writeAtomic writes a file with an atomic write (write to temp file, then
// rename). This prevents readers from seeing a partial file.
func (s *Store) writeAtomic(name string, write func(io.Writer) error) error {
	path := s.Path(name)
	ext := filepath.Ext(name)

	tmp, err := os.CreateTemp(s.dir, ".tmp-"+strings.TrimSuffix(name, ext)+"-*"+ext)
	if err != nil {
		return fmt.Errorf("export: create temp for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	// Clean up the temp file on any failure path.
	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
	}()

	if err := os.Chmod(tmpName, 0600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("export: chmod temp for %s: %w", name, err)
	}

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("export: write temp for %s: %w", name, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("export: close temp for %s: %w", name, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("export: rename temp for %s: %w", name, err)
	}

	success = true
	return nil
}

// Files returns the exported file names, skipping temp files.
func (s *Store) Files() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".tmp-") {
			continue
		}
		names = append(names, name)
	}
	return names
}

// Clear removes all export files from the store directory.
func (s *Store) Clear() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("export: clear read dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("export: clear remove %s: %w", e.Name(), err)
		}
	}
	return nil
}

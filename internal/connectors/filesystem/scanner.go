// Package filesystem reads source documents from a local directory and
// watches it for changes.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/yonerge/internal/core/ports/driven"
)

// Scan returns the paths of files directly inside dir whose extension is one
// of exts, compared case-insensitively, sorted by name. Subdirectories and
// hidden files are skipped. A missing directory is an error wrapping
// os.ErrNotExist.
func Scan(dir string, exts []string) ([]string, error) {
	dir = ResolvePath(dir)

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("document directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("document directory: %s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading document directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || isHidden(e.Name()) {
			continue
		}
		if !hasExtension(e.Name(), exts) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// ScanPDFs returns the PDF files in dir.
func ScanPDFs(dir string) ([]string, error) {
	return Scan(dir, []string{".pdf"})
}

func hasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// isHidden reports dot files, including editor lock files like .~lock.a.pdf#.
func isHidden(name string) bool {
	return strings.HasPrefix(filepath.Base(name), ".")
}

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// Source lists PDF documents in a directory.
type Source struct {
	exts []string
}

// NewPDFSource creates a Source for .pdf files.
func NewPDFSource() *Source {
	return &Source{exts: []string{".pdf"}}
}

// List implements driven.DocumentSource.
func (s *Source) List(_ context.Context, dir string) ([]string, error) {
	return Scan(dir, s.exts)
}

// Package pdf extracts per-page text from PDF files, using poppler's
// pdftotext when installed and a pure Go reader otherwise.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/custodia-labs/yonerge/internal/core/domain"
	"github.com/custodia-labs/yonerge/internal/core/ports/driven"
	"github.com/custodia-labs/yonerge/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

const pdftotextBin = "pdftotext"

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil && stderr.Len() > 0 {
		return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, err
}

// CheckAvailable reports whether pdftotext can be found.
func CheckAvailable() error {
	if _, err := exec.LookPath(pdftotextBin); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions explains how to install pdftotext.
func InstallInstructions() string {
	return "pdftotext gives the most accurate PDF text. Install poppler:\n" +
		"  macOS:  brew install poppler\n" +
		"  Debian: apt install poppler-utils\n" +
		"Without it the built-in Go reader is used."
}

// Extractor reads page text from PDF files.
type Extractor struct {
	backend domain.PDFBackend
	runner  CommandRunner
	native  func(ctx context.Context, path string) ([]string, error)
}

// New creates an extractor for the given backend. With PDFBackendAuto,
// pdftotext is used when installed and the native reader otherwise.
func New(backend domain.PDFBackend) *Extractor {
	if backend == "" {
		backend = domain.PDFBackendAuto
	}
	if backend == domain.PDFBackendAuto {
		if err := CheckAvailable(); err != nil {
			logger.Debug("pdf: %v, using native reader", err)
			backend = domain.PDFBackendNative
		} else {
			backend = domain.PDFBackendPdftotext
		}
	}
	return &Extractor{
		backend: backend,
		runner:  execRunner{},
		native:  readNative,
	}
}

// NewWithRunner creates a pdftotext extractor that runs commands through runner.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{
		backend: domain.PDFBackendPdftotext,
		runner:  runner,
		native:  readNative,
	}
}

// Name returns the backend in use.
func (e *Extractor) Name() string {
	return "pdf/" + string(e.backend)
}

// SupportedExtensions returns the file extensions handled.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".pdf"}
}

// Extract returns the non-empty pages of the PDF at path in page order.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.Page, error) {
	var (
		texts []string
		err   error
	)
	switch e.backend {
	case domain.PDFBackendNative:
		texts, err = e.native(ctx, path)
	default:
		texts, err = e.pdftotext(ctx, path)
	}
	if err != nil {
		return nil, &domain.ExtractionError{Path: path, Err: err}
	}
	return nonEmptyPages(texts), nil
}

func (e *Extractor) pdftotext(ctx context.Context, path string) ([]string, error) {
	out, err := e.runner.Run(ctx, pdftotextBin, "-enc", "UTF-8", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}
	// pdftotext ends every page with a form feed.
	return strings.Split(string(out), "\f"), nil
}

// nonEmptyPages trims page texts and drops the empty ones, keeping each
// page's original index.
func nonEmptyPages(texts []string) []domain.Page {
	pages := make([]domain.Page, 0, len(texts))
	for i, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		pages = append(pages, domain.Page{Index: i, Text: t})
	}
	return pages
}

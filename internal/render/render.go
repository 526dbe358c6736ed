// Package render rasterizes the first page of the menu PDF for publishing.
package render

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
)

// Default rendering parameters.
const (
	DefaultDPI     = 200
	DefaultQuality = 90
)

// Error represents a failure while rendering a page.
type Error struct {
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("render error for %s: %s", e.Path, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures rasterization.
type Options struct {
	DPI     float64
	Quality int
}

// Document is the subset of a rendered PDF the rasterizer needs.
type Document interface {
	NumPage() int
	ImageDPI(pageNumber int, dpi float64) (*image.RGBA, error)
	Close() error
}

// Opener opens a document for rendering.
type Opener func(path string) (Document, error)

// OpenFitz opens a PDF with MuPDF.
func OpenFitz(path string) (Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Rasterizer writes page one of a document as a JPEG.
type Rasterizer struct {
	Options Options
	Open    Opener
}

// NewRasterizer returns a Rasterizer backed by MuPDF.
func NewRasterizer(opts Options) *Rasterizer {
	return &Rasterizer{Options: opts, Open: OpenFitz}
}

// FirstPage renders page one of pdfPath to outPath. It reports false, and writes
// nothing, when the document has no pages.
func (r *Rasterizer) FirstPage(ctx context.Context, pdfPath, outPath string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	dpi := r.Options.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	quality := r.Options.Quality
	if quality <= 0 {
		quality = DefaultQuality
	}
	if quality > 100 {
		return false, &Error{Path: pdfPath, Message: fmt.Sprintf("quality must be between 1 and 100, got %d", quality)}
	}

	open := r.Open
	if open == nil {
		open = OpenFitz
	}
	doc, err := open(pdfPath)
	if err != nil {
		return false, &Error{Path: pdfPath, Message: "failed to open PDF", Cause: err}
	}
	defer func() { _ = doc.Close() }()

	if doc.NumPage() == 0 {
		return false, nil
	}

	img, err := doc.ImageDPI(0, dpi)
	if err != nil {
		return false, &Error{Path: pdfPath, Message: "failed to render page 1", Cause: err}
	}

	if err := writeJPEG(outPath, img, quality); err != nil {
		return false, &Error{Path: outPath, Message: "failed to write image", Cause: err}
	}
	return true, nil
}

func writeJPEG(path string, img image.Image, quality int) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".render-*.jpg")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := jpeg.Encode(tmp, img, &jpeg.Options{Quality: quality}); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

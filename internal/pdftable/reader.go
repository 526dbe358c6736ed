package pdftable

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// Error represents a failure to read a table from a PDF.
type Error struct {
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pdftable error for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("pdftable error for %s: %s", e.Path, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// FirstPage reads page one of the PDF at path and returns its table grid.
func FirstPage(path string, opts Options) (Grid, error) {
	return Page(path, 1, opts)
}

// Page reads the given 1-based page of the PDF at path and returns its table grid.
func Page(path string, pageNum int, opts Options) (grid Grid, err error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, &Error{Path: path, Message: "failed to open PDF", Cause: err}
	}
	defer func() { _ = f.Close() }()

	if pageNum < 1 || pageNum > r.NumPage() {
		return nil, &Error{Path: path, Message: fmt.Sprintf("page %d out of range (document has %d)", pageNum, r.NumPage())}
	}

	page := r.Page(pageNum)
	if page.V.IsNull() {
		return nil, &Error{Path: path, Message: fmt.Sprintf("page %d has no content", pageNum)}
	}

	// The content interpreter panics on malformed streams.
	defer func() {
		if rec := recover(); rec != nil {
			grid = nil
			err = &Error{Path: path, Message: fmt.Sprintf("failed to interpret page %d: %v", pageNum, rec)}
		}
	}()

	content := page.Content()
	glyphs := make([]Glyph, 0, len(content.Text))
	for _, t := range content.Text {
		glyphs = append(glyphs, Glyph{X: t.X, Y: t.Y, W: t.W, Size: t.FontSize, S: t.S})
	}
	rules := make([]Rule, 0, len(content.Rect))
	for _, rect := range content.Rect {
		rules = append(rules, Rule{X0: rect.Min.X, Y0: rect.Min.Y, X1: rect.Max.X, Y1: rect.Max.Y})
	}

	return BuildGrid(glyphs, rules, opts), nil
}

package render

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDoc struct {
	pages     int
	renderErr error
	gotPage   int
	gotDPI    float64
	closed    bool
}

func (d *fakeDoc) NumPage() int { return d.pages }

func (d *fakeDoc) ImageDPI(page int, dpi float64) (*image.RGBA, error) {
	d.gotPage, d.gotDPI = page, dpi
	if d.renderErr != nil {
		return nil, d.renderErr
	}
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		img.Set(x, 10, color.Black)
	}
	return img, nil
}

func (d *fakeDoc) Close() error {
	d.closed = true
	return nil
}

func rasterizerFor(doc *fakeDoc, opts Options) *Rasterizer {
	return &Rasterizer{Options: opts, Open: func(string) (Document, error) { return doc, nil }}
}

func TestFirstPage_WritesJPEG(t *testing.T) {
	doc := &fakeDoc{pages: 3}
	out := filepath.Join(t.TempDir(), "img", "weekly_menu.jpg")

	ok, err := rasterizerFor(doc, Options{DPI: 150, Quality: 80}).FirstPage(context.Background(), "weekly_menu.pdf", out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, doc.gotPage)
	assert.Equal(t, 150.0, doc.gotDPI)
	assert.True(t, doc.closed)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	img, err := jpeg.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
}

func TestFirstPage_DefaultsDPI(t *testing.T) {
	doc := &fakeDoc{pages: 1}
	out := filepath.Join(t.TempDir(), "weekly_menu.jpg")

	_, err := rasterizerFor(doc, Options{}).FirstPage(context.Background(), "in.pdf", out)
	require.NoError(t, err)
	assert.Equal(t, float64(DefaultDPI), doc.gotDPI)
}

func TestFirstPage_NoPagesIsNoop(t *testing.T) {
	doc := &fakeDoc{pages: 0}
	out := filepath.Join(t.TempDir(), "weekly_menu.jpg")

	ok, err := rasterizerFor(doc, Options{}).FirstPage(context.Background(), "in.pdf", out)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoFileExists(t, out)
}

func TestFirstPage_RenderError(t *testing.T) {
	doc := &fakeDoc{pages: 1, renderErr: errors.New("bad xref")}
	out := filepath.Join(t.TempDir(), "weekly_menu.jpg")

	_, err := rasterizerFor(doc, Options{}).FirstPage(context.Background(), "in.pdf", out)
	var renderErr *Error
	require.ErrorAs(t, err, &renderErr)
	assert.Contains(t, err.Error(), "bad xref")
	assert.NoFileExists(t, out)
}

func TestFirstPage_OpenError(t *testing.T) {
	r := &Rasterizer{Open: func(string) (Document, error) { return nil, errors.New("no such file") }}

	_, err := r.FirstPage(context.Background(), "missing.pdf", filepath.Join(t.TempDir(), "x.jpg"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open PDF")
}

func TestFirstPage_InvalidQuality(t *testing.T) {
	_, err := rasterizerFor(&fakeDoc{pages: 1}, Options{Quality: 101}).FirstPage(context.Background(), "in.pdf", "out.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quality")
}

//go:build cgo && !nofitz

package pdf

import (
	"fmt"
	"image"
	"sync"

	"github.com/gen2brain/go-fitz"
)

func init() {
	register(Fitz, openFitz)
}

// fitzDocument wraps a MuPDF document. MuPDF contexts are not safe for
// concurrent use, so calls are serialized.
type fitzDocument struct {
	mu   sync.Mutex
	doc  *fitz.Document
	path string
}

func openFitz(path string) (Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}
	return &fitzDocument{doc: doc, path: path}, nil
}

func (d *fitzDocument) Path() string {
	return d.path
}

func (d *fitzDocument) NumPages() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.NumPage()
}

func (d *fitzDocument) PageSize(page int) (float64, float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := checkPage(page, d.doc.NumPage()); err != nil {
		return 0, 0, err
	}

	// Bound is reported at 72 dpi, so one unit is one point.
	r, err := d.doc.Bound(page)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: page %d: %v", ErrRender, page, err)
	}
	return float64(r.Dx()), float64(r.Dy()), nil
}

func (d *fitzDocument) RenderPage(page int, scale float64) (image.Image, error) {
	if !(scale > 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, scale)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := checkPage(page, d.doc.NumPage()); err != nil {
		return nil, err
	}

	img, err := d.doc.ImageDPI(page, 72*scale)
	if err != nil {
		return nil, fmt.Errorf("%w: page %d: %v", ErrRender, page, err)
	}
	return img, nil
}

func (d *fitzDocument) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Close()
}

package pdf

import (
	"fmt"
	"image"
	"os"
	"sync"

	pdflib "github.com/ledongthuc/pdf"
)

func init() {
	register(Outline, openOutline)
}

// US Letter, used when a page has no readable MediaBox.
const (
	defaultPageWidth  = 612
	defaultPageHeight = 792
)

type pageBox struct {
	width, height float64
}

// outlineDocument reads page boxes with a pure Go parser. Page content is not
// drawn; each page renders as a blank sheet of the right size.
type outlineDocument struct {
	mu    sync.Mutex
	f     *os.File
	path  string
	boxes []pageBox
}

func openOutline(path string) (doc Document, err error) {
	var f *os.File

	// The parser reports malformed input by panicking.
	defer func() {
		if r := recover(); r != nil {
			if f != nil {
				f.Close()
			}
			doc, err = nil, fmt.Errorf("%w: %s: %v", ErrOpen, path, r)
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}

	numPages := reader.NumPage()
	if numPages < 0 {
		f.Close()
		return nil, fmt.Errorf("%w: %s: negative page count", ErrOpen, path)
	}

	boxes := make([]pageBox, numPages)
	for i := range numPages {
		boxes[i] = readMediaBox(reader.Page(i + 1))
	}

	return &outlineDocument{f: f, path: path, boxes: boxes}, nil
}

var readMediaBox = mediaBox

// mediaBox returns the page's MediaBox, inherited from the page tree if the
// page does not carry one.
func mediaBox(page pdflib.Page) pageBox {
	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.IsNull() {
			continue
		}
		if box.Len() != 4 {
			break
		}

		width := box.Index(2).Float64() - box.Index(0).Float64()
		height := box.Index(3).Float64() - box.Index(1).Float64()
		if width < 0 {
			width = -width
		}
		if height < 0 {
			height = -height
		}
		if width == 0 || height == 0 {
			break
		}
		return pageBox{width: width, height: height}
	}
	return pageBox{width: defaultPageWidth, height: defaultPageHeight}
}

func (d *outlineDocument) Path() string {
	return d.path
}

func (d *outlineDocument) NumPages() int {
	return len(d.boxes)
}

func (d *outlineDocument) PageSize(page int) (float64, float64, error) {
	if err := checkPage(page, len(d.boxes)); err != nil {
		return 0, 0, err
	}
	box := d.boxes[page]
	return box.width, box.height, nil
}

func (d *outlineDocument) RenderPage(page int, scale float64) (image.Image, error) {
	width, height, err := d.PageSize(page)
	if err != nil {
		return nil, err
	}

	w, h, err := PixelSize(width, height, scale)
	if err != nil {
		return nil, err
	}
	return blankPage(w, h), nil
}

func (d *outlineDocument) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	return err
}

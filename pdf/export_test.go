package pdf

import (
	"testing"

	pdflib "github.com/ledongthuc/pdf"
)

// PanicOnMediaBox makes the outline backend panic while reading page boxes,
// as the parser does on malformed page trees.
func PanicOnMediaBox(t *testing.T) {
	t.Helper()

	saved := readMediaBox
	readMediaBox = func(pdflib.Page) pageBox {
		panic("malformed page tree")
	}
	t.Cleanup(func() { readMediaBox = saved })
}

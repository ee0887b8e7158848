// Package pdf opens PDF documents and rasterizes their pages.
//
// Several rendering backends are available. The poppler and fitz backends
// link against C libraries; the outline backend is pure Go and produces blank
// pages of the correct size.
package pdf

import (
	"errors"
	"fmt"
	"image"
	"math"
	"slices"
	"sync"
)

// Backend names a rendering implementation.
type Backend string

const (
	Poppler Backend = "poppler" // poppler-glib + cairo
	Fitz    Backend = "fitz"    // MuPDF via go-fitz
	Outline Backend = "outline" // page boxes only, no content
)

var (
	ErrOpen        = errors.New("unable to open document")
	ErrPageRange   = errors.New("page number is out of range of this document")
	ErrRender      = errors.New("unable to render page")
	ErrBackend     = errors.New("unsupported backend")
	ErrInvalidSize = errors.New("invalid scale")
)

// Document is an opened PDF file.
type Document interface {
	Path() string

	// NumPages returns the number of pages in the document.
	NumPages() int

	// PageSize returns the size of page in points (1/72 inch).
	// Pages are zero-indexed.
	PageSize(page int) (width, height float64, err error)

	// RenderPage rasterizes page at the given scale. A scale of 1 renders
	// one pixel per point.
	RenderPage(page int, scale float64) (image.Image, error)

	Close() error
}

type openFunc func(path string) (Document, error)

var (
	backendsMu sync.RWMutex
	backends   = make(map[Backend]openFunc)
)

func register(b Backend, open openFunc) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[b] = open
}

// Backends returns the backends compiled into this binary.
func Backends() []Backend {
	backendsMu.RLock()
	defer backendsMu.RUnlock()

	names := make([]Backend, 0, len(backends))
	for b := range backends {
		names = append(names, b)
	}
	slices.Sort(names)
	return names
}

// Source opens documents with one backend.
type Source struct {
	backend Backend
	open    openFunc
}

func NewSource(backend Backend) (*Source, error) {
	backendsMu.RLock()
	open, ok := backends[backend]
	backendsMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrBackend, backend, Backends())
	}
	return &Source{backend: backend, open: open}, nil
}

func (s *Source) Backend() Backend {
	return s.backend
}

// Open opens the document at path. Errors wrap ErrOpen.
func (s *Source) Open(path string) (Document, error) {
	doc, err := s.open(path)
	if err != nil {
		if errors.Is(err, ErrOpen) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}
	return doc, nil
}

// Largest bitmap side accepted by PixelSize.
const maxPixels = math.MaxInt32

// PixelSize converts a page size in points to whole pixels at scale.
// Partial pixels round up so the page is never clipped.
func PixelSize(width, height, scale float64) (int, int, error) {
	if !(scale > 0) || math.IsInf(scale, 0) {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidSize, scale)
	}

	fw := math.Ceil(width*scale - 1e-9)
	fh := math.Ceil(height*scale - 1e-9)
	if math.IsNaN(fw) || math.IsNaN(fh) || fw > maxPixels || fh > maxPixels {
		return 0, 0, fmt.Errorf("%w: %vx%v pt at scale %v", ErrInvalidSize, width, height, scale)
	}
	return max(int(fw), 1), max(int(fh), 1), nil
}

func checkPage(page, numPages int) error {
	if page < 0 || page >= numPages {
		return fmt.Errorf("%w: page %d of %d", ErrPageRange, page, numPages)
	}
	return nil
}

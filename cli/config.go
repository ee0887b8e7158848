package cli

import (
	"slices"

	"github.com/abiiranathan/pdfview/layout"
	"github.com/abiiranathan/pdfview/pdf"
	"github.com/abiiranathan/pdfview/viewer"
)

// Config holds the configuration for the CLI.
type Config struct {
	// Rendering backend: poppler, fitz or outline.
	Backend string

	// Max pages rasterized at a time.
	// Default is 4.
	MaxConcurrency int

	// Full page panel.
	PageScale  float64
	PageGap    float64
	PageMargin float64

	// Thumbnail panel.
	ThumbScale  float64
	ThumbGap    float64
	ThumbMargin float64

	// The PDF file to open
	Filename string

	// Where rendered panels are written.
	OutDir string

	// server port. default is 8080
	Port int

	// Size of the visible part of the page panel.
	ViewportWidth  int
	ViewportHeight int

	// BCP 47 tag used to format page numbers.
	Lang string
}

var DefaultConfig = Config{
	Backend:        string(defaultBackend()),
	MaxConcurrency: 4,
	PageScale:      layout.DefaultPages.Scale,
	PageGap:        layout.DefaultPages.GapRatio,
	PageMargin:     layout.DefaultPages.StartX,
	ThumbScale:     layout.DefaultThumbnails.Scale,
	ThumbGap:       layout.DefaultThumbnails.GapRatio,
	ThumbMargin:    layout.DefaultThumbnails.StartX,
	OutDir:         ".",
	Port:           8080,
	ViewportWidth:  600,
	ViewportHeight: 650,
	Lang:           "en",
}

// Prefer real rendering when it was compiled in.
func defaultBackend() pdf.Backend {
	available := pdf.Backends()
	for _, b := range []pdf.Backend{pdf.Poppler, pdf.Fitz} {
		if slices.Contains(available, b) {
			return b
		}
	}
	return pdf.Outline
}

// Viewer converts the flags into a validated viewer configuration.
func (c *Config) Viewer() (viewer.Config, error) {
	cfg := viewer.Config{
		Pages: layout.Config{
			Scale:    c.PageScale,
			GapRatio: c.PageGap,
			StartX:   c.PageMargin,
			StartY:   c.PageMargin,
		},
		Thumbnails: layout.Config{
			Scale:    c.ThumbScale,
			GapRatio: c.ThumbGap,
			StartX:   c.ThumbMargin,
			StartY:   c.ThumbMargin,
		},
		Concurrency: c.MaxConcurrency,
	}
	return cfg, cfg.Validate()
}

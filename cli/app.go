package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/abiiranathan/pdfview/pdf"
	"github.com/abiiranathan/pdfview/surface"
	"github.com/abiiranathan/pdfview/viewer"
)

// Width of the thumbnail column.
const thumbnailViewportWidth = 120

// NewLogger returns a text logger. PDFVIEW_LOG_LEVEL=debug enables debug output.
func NewLogger(out io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if strings.EqualFold(os.Getenv("PDFVIEW_LOG_LEVEL"), "debug") {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level:     level,
		AddSource: false,
	}))
}

// Viewer bundles an app with the canvases it paints on.
type Viewer struct {
	App        *viewer.App
	Pages      *surface.Canvas
	Thumbnails *surface.Canvas
}

func NewViewer(config *Config, log *slog.Logger) (*Viewer, error) {
	cfg, err := config.Viewer()
	if err != nil {
		return nil, err
	}

	source, err := pdf.NewSource(pdf.Backend(config.Backend))
	if err != nil {
		return nil, err
	}

	return newViewer(cfg, source, config.ViewportWidth, config.ViewportHeight, log)
}

func newViewer(cfg viewer.Config, source viewer.Source, width, height int, log *slog.Logger) (*Viewer, error) {
	pages := surface.New(width, height)
	thumbnails := surface.New(thumbnailViewportWidth, height)

	app, err := viewer.New(cfg, source, pages, thumbnails, log)
	if err != nil {
		return nil, err
	}
	return &Viewer{App: app, Pages: pages, Thumbnails: thumbnails}, nil
}

// Canvas returns the canvas of the named panel.
func (v *Viewer) Canvas(name viewer.PanelName) (*surface.Canvas, bool) {
	switch name {
	case viewer.PagesPanel:
		return v.Pages, true
	case viewer.ThumbnailsPanel:
		return v.Thumbnails, true
	}
	return nil, false
}

// Save writes both panels as PNG files into dir.
func (v *Viewer) Save(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("unable to create directory: %s: %w", dir, err)
	}

	var written []string
	for _, name := range []viewer.PanelName{viewer.ThumbnailsPanel, viewer.PagesPanel} {
		canvas, _ := v.Canvas(name)
		path := filepath.Join(dir, string(name)+".png")
		if err := canvas.WritePNG(path); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// Package viewer holds the state of an open document and the commands that
// act on it. Front ends (terminal, HTTP) drive an App through Dispatch.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/abiiranathan/pdfview/layout"
	"github.com/abiiranathan/pdfview/pdf"
	"golang.org/x/sync/errgroup"
)

// Title of the window before a document is opened.
const DefaultTitle = "PDF Viewer"

// Source opens documents.
type Source interface {
	Open(path string) (pdf.Document, error)
}

// Surface is a scrollable panel the app paints rendered pages onto.
type Surface interface {
	Clear()
	Place(img image.Image, x, y float64)
	SetScrollRegion(width, height float64)
	ScrollTo(y float64)
	ScrollBy(units int)
	ScrollXBy(units int)
	Resize(width, height int)
	ScrollOffset() (x, y float64)
	ScrollLimit() (x, y float64)
}

// PanelName identifies one of the two panels.
type PanelName string

const (
	PagesPanel      PanelName = "pages"
	ThumbnailsPanel PanelName = "thumbnails"
)

type Config struct {
	Pages      layout.Config
	Thumbnails layout.Config

	// Pages rasterized at once. Zero means one per CPU.
	Concurrency int
}

var DefaultConfig = Config{
	Pages:      layout.DefaultPages,
	Thumbnails: layout.DefaultThumbnails,
}

func (c Config) Validate() error {
	if err := c.Pages.Validate(); err != nil {
		return fmt.Errorf("pages: %w", err)
	}
	if err := c.Thumbnails.Validate(); err != nil {
		return fmt.Errorf("thumbnails: %w", err)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("%w: concurrency must not be negative", layout.ErrInvalidConfig)
	}
	return nil
}

// Panel is the rendered content of one surface.
type Panel struct {
	Bitmaps []image.Image
	Layout  layout.Result
}

// State is everything that belongs to the open document. It is replaced as a
// whole when another document is opened.
type State struct {
	Document   pdf.Document
	Title      string
	Pages      Panel
	Thumbnails Panel
	Nav        Navigator
}

// App is the controller. It is not safe for concurrent use.
type App struct {
	cfg        Config
	source     Source
	pages      Surface
	thumbnails Surface
	log        *slog.Logger

	state    State
	commands map[Action]Command
}

func New(cfg Config, source Source, pages, thumbnails Surface, log *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = runtime.NumCPU()
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &App{
		cfg:        cfg,
		source:     source,
		pages:      pages,
		thumbnails: thumbnails,
		log:        log,
		state:      State{Title: DefaultTitle},
		commands:   defaultCommands(),
	}, nil
}

// State returns the current state. The caller must not modify it.
func (a *App) State() *State {
	return &a.state
}

func (a *App) Title() string {
	return a.state.Title
}

// Surface returns the surface of the named panel.
func (a *App) Surface(name PanelName) (Surface, bool) {
	switch name {
	case PagesPanel:
		return a.pages, true
	case ThumbnailsPanel:
		return a.thumbnails, true
	}
	return nil, false
}

// Open loads the document at path, renders thumbnails and then pages, and
// replaces the current document. On error the current document and both
// panels are left untouched.
func (a *App) Open(ctx context.Context, path string) error {
	doc, err := a.source.Open(path)
	if err != nil {
		return err
	}

	thumbnails, err := a.render(ctx, doc, a.cfg.Thumbnails)
	if err != nil {
		doc.Close()
		return fmt.Errorf("render thumbnails: %w", err)
	}

	pages, err := a.render(ctx, doc, a.cfg.Pages)
	if err != nil {
		doc.Close()
		return fmt.Errorf("render pages: %w", err)
	}

	if old := a.state.Document; old != nil {
		if err := old.Close(); err != nil {
			a.log.Warn("closing previous document", "path", old.Path(), "error", err)
		}
	}

	a.state = State{
		Document:   doc,
		Title:      fmt.Sprintf("%s - %s", DefaultTitle, filepath.Base(path)),
		Pages:      pages,
		Thumbnails: thumbnails,
	}
	a.state.Nav.Reset(doc.NumPages())

	paint(a.thumbnails, thumbnails)
	paint(a.pages, pages)

	a.log.Info("opened document", "path", path, "pages", doc.NumPages(),
		"width", pages.Layout.Extent.ContentWidth, "height", pages.Layout.Extent.ContentHeight)
	return nil
}

// render rasterizes every page of doc at cfg.Scale and lays them out. Pages
// are rendered in parallel but the result is in page order.
func (a *App) render(ctx context.Context, doc pdf.Document, cfg layout.Config) (Panel, error) {
	n := doc.NumPages()
	bitmaps := make([]image.Image, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Concurrency)

	for page := range n {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			img, err := doc.RenderPage(page, cfg.Scale)
			if err != nil {
				return fmt.Errorf("page %d: %w", page+1, err)
			}
			bitmaps[page] = img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Panel{}, err
	}

	sizes := make([]layout.Size, n)
	for i, img := range bitmaps {
		b := img.Bounds()
		sizes[i] = layout.Size{Width: float64(b.Dx()), Height: float64(b.Dy())}
	}

	return Panel{Bitmaps: bitmaps, Layout: layout.Compute(cfg, sizes)}, nil
}

func paint(s Surface, p Panel) {
	if s == nil {
		return
	}

	s.Clear()
	for _, e := range p.Layout.Entries {
		s.Place(p.Bitmaps[e.PageIndex], e.X, e.Y)
	}
	s.SetScrollRegion(p.Layout.Extent.ContentWidth, p.Layout.Extent.ContentHeight)
}

// Close releases the open document.
func (a *App) Close() error {
	doc := a.state.Document
	if doc == nil {
		return nil
	}
	a.state.Document = nil
	return doc.Close()
}

// Next moves to the next page. Out of range requests are ignored.
func (a *App) Next() bool {
	if !a.state.Nav.Advance() {
		return false
	}
	a.jump()
	return true
}

// Previous moves to the previous page. Out of range requests are ignored.
func (a *App) Previous() bool {
	if !a.state.Nav.Retreat() {
		return false
	}
	a.jump()
	return true
}

// GoTo moves to page (1-based). Out of range requests are ignored.
func (a *App) GoTo(page int) bool {
	if !a.state.Nav.GoTo(page) {
		return false
	}
	a.jump()
	return true
}

// jump scrolls the page strip so the current page is at the top.
func (a *App) jump() {
	page := a.state.Nav.Current()
	y, ok := a.state.Pages.Layout.Offset(page - 1)
	if !ok {
		return
	}
	if a.pages != nil {
		a.pages.ScrollTo(y)
	}
	a.log.Debug("jump to page", "page", page, "offset", y)
}

var ErrUnknownPanel = errors.New("unknown panel")

// Scroll scrolls a panel vertically by wheel units; positive units move
// down. Scrolling the page strip moves the current page to the one under the
// top of the viewport. Once the strip is scrolled to its end the current page
// is never moved back, since the last pages may not reach the top.
func (a *App) Scroll(name PanelName, units int) error {
	s, ok := a.Surface(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPanel, name)
	}
	if s == nil {
		return nil
	}

	_, before := s.ScrollOffset()
	s.ScrollBy(units)
	if name != PagesPanel {
		return nil
	}

	_, y := s.ScrollOffset()
	if y == before {
		return nil
	}

	i, ok := a.state.Pages.Layout.EntryAt(y)
	if !ok {
		return nil
	}
	if _, limit := s.ScrollLimit(); y >= limit && i+1 < a.state.Nav.Current() {
		return nil
	}
	a.state.Nav.GoTo(i + 1)
	return nil
}

// ScrollX scrolls a panel horizontally by wheel units.
func (a *App) ScrollX(name PanelName, units int) error {
	s, ok := a.Surface(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPanel, name)
	}
	if s != nil {
		s.ScrollXBy(units)
	}
	return nil
}

var ErrInvalidViewport = errors.New("invalid viewport size")

// Resize changes the viewport of a panel, as when the window is resized.
// The scroll position is clamped to the new viewport.
func (a *App) Resize(name PanelName, width, height int) error {
	s, ok := a.Surface(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPanel, name)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, width, height)
	}
	if s != nil {
		s.Resize(width, height)
	}
	a.log.Debug("resized panel", "panel", name, "width", width, "height", height)
	return nil
}

// Status returns the page indicator, e.g. "3 / 12".
func (a *App) Status() string {
	return fmt.Sprintf("%d / %d", a.state.Nav.Current(), a.state.Nav.Count())
}

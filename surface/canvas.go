// Package surface implements a passive scrollable canvas that pages and
// thumbnails are painted onto.
package surface

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/draw"
)

var ErrEmpty = errors.New("canvas has no content")

// Background used by both panels.
var Gray = color.RGBA{R: 0xbe, G: 0xbe, B: 0xbe, A: 0xff}

// An item placed on the canvas with its top-left corner at X, Y.
type Item struct {
	Image image.Image
	X, Y  float64
}

// Canvas keeps the placed bitmaps and the scroll state of one panel.
// It does not rasterize anything until Render or Viewport is called.
type Canvas struct {
	Background color.Color

	items          []Item
	width, height  float64
	scrollX        float64
	scrollY        float64
	viewportWidth  float64
	viewportHeight float64
}

func New(viewportWidth, viewportHeight int) *Canvas {
	return &Canvas{
		Background:     Gray,
		viewportWidth:  float64(viewportWidth),
		viewportHeight: float64(viewportHeight),
	}
}

// Clear removes every item and resets the scroll position.
func (c *Canvas) Clear() {
	c.items = nil
	c.width, c.height = 0, 0
	c.scrollX, c.scrollY = 0, 0
}

func (c *Canvas) Place(img image.Image, x, y float64) {
	c.items = append(c.items, Item{Image: img, X: x, Y: y})
}

// SetScrollRegion sets the scrollable content size.
func (c *Canvas) SetScrollRegion(width, height float64) {
	c.width, c.height = width, height
	c.scrollX = c.clampX(c.scrollX)
	c.scrollY = c.clampY(c.scrollY)
}

// ScrollTo moves the top of the viewport to y, clamped to the scroll region.
func (c *Canvas) ScrollTo(y float64) {
	c.scrollY = c.clampY(y)
}

// ScrollBy scrolls vertically by units of a tenth of the viewport height.
func (c *Canvas) ScrollBy(units int) {
	c.ScrollTo(c.scrollY + float64(units)*c.unit(c.viewportHeight))
}

// ScrollXBy scrolls horizontally by units of a tenth of the viewport width.
func (c *Canvas) ScrollXBy(units int) {
	c.scrollX = c.clampX(c.scrollX + float64(units)*c.unit(c.viewportWidth))
}

// Resize changes the viewport size and clamps the scroll position to it.
func (c *Canvas) Resize(viewportWidth, viewportHeight int) {
	c.viewportWidth = float64(viewportWidth)
	c.viewportHeight = float64(viewportHeight)
	c.scrollX = c.clampX(c.scrollX)
	c.scrollY = c.clampY(c.scrollY)
}

func (c *Canvas) Items() []Item {
	return c.items
}

func (c *Canvas) ScrollRegion() (width, height float64) {
	return c.width, c.height
}

func (c *Canvas) ScrollOffset() (x, y float64) {
	return c.scrollX, c.scrollY
}

// ScrollLimit returns the largest offsets the viewport can scroll to.
func (c *Canvas) ScrollLimit() (x, y float64) {
	return c.clampX(c.width), c.clampY(c.height)
}

func (c *Canvas) ViewportSize() (width, height int) {
	return int(math.Ceil(c.viewportWidth)), int(math.Ceil(c.viewportHeight))
}

func (c *Canvas) unit(size float64) float64 {
	if size <= 0 {
		return 1
	}
	return size / 10
}

func (c *Canvas) clampX(x float64) float64 {
	return clamp(x, c.width-c.viewportWidth)
}

func (c *Canvas) clampY(y float64) float64 {
	return clamp(y, c.height-c.viewportHeight)
}

func clamp(v, max float64) float64 {
	if v > max {
		v = max
	}
	if v < 0 {
		v = 0
	}
	return v
}

// Render paints the whole scroll region.
func (c *Canvas) Render() (*image.RGBA, error) {
	w, h := int(math.Ceil(c.width)), int(math.Ceil(c.height))
	if w <= 0 || h <= 0 {
		return nil, ErrEmpty
	}
	return c.paint(image.Rect(0, 0, w, h)), nil
}

// Viewport paints the visible window at the current scroll offset.
// If width and height are given and differ from the canvas viewport, the
// visible area is scaled to fit.
func (c *Canvas) Viewport(width, height int) (*image.RGBA, error) {
	vw, vh := int(math.Ceil(c.viewportWidth)), int(math.Ceil(c.viewportHeight))
	if vw <= 0 || vh <= 0 {
		return nil, ErrEmpty
	}

	x0, y0 := int(math.Round(c.scrollX)), int(math.Round(c.scrollY))
	visible := c.paint(image.Rect(x0, y0, x0+vw, y0+vh))

	if width <= 0 || height <= 0 || (width == vw && height == vh) {
		return visible, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), visible, visible.Bounds(), draw.Src, nil)
	return dst, nil
}

// paint draws the background and every item intersecting area. The returned
// image has its origin moved to area.Min.
func (c *Canvas) paint(area image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, area.Dx(), area.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c.background()), image.Point{}, draw.Src)

	for _, item := range c.items {
		b := item.Image.Bounds()
		at := image.Pt(int(math.Round(item.X)), int(math.Round(item.Y)))
		r := image.Rectangle{Min: at, Max: at.Add(b.Size())}.Intersect(area)
		if r.Empty() {
			continue
		}

		target := r.Sub(area.Min)
		src := b.Min.Add(r.Min.Sub(at))
		draw.Draw(dst, target, item.Image, src, draw.Over)
	}
	return dst
}

func (c *Canvas) background() color.Color {
	if c.Background == nil {
		return Gray
	}
	return c.Background
}

// EncodePNG writes the full scroll region as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	img, err := c.Render()
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// WritePNG writes the full scroll region to a PNG file.
func (c *Canvas) WritePNG(path string) error {
	img, err := c.Render()
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return err
	}
	return f.Close()
}

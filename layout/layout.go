// Package layout computes where rendered pages sit inside a scrollable panel.
//
// Pages are stacked top to bottom in page order. Each page is followed by a
// gap proportional to its own height, so a panel of thumbnails and a panel of
// full pages share the same arithmetic with different parameters.
package layout

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrInvalidConfig = errors.New("invalid layout config")

// Config describes one panel.
type Config struct {
	// Scale applied to each page's native size before layout.
	Scale float64

	// Extra vertical space after each page, as a fraction of its height.
	GapRatio float64

	// Leading margin of the first page.
	StartX float64
	StartY float64

	// Added to the widest page when computing the content width.
	Padding float64
}

// Default panel configurations.
var (
	DefaultPages      = Config{Scale: 1.0, GapRatio: 0.05, StartX: 20, StartY: 20}
	DefaultThumbnails = Config{Scale: 0.163, GapRatio: 0.10, StartX: 6, StartY: 6}
)

// Validate rejects non-finite values as well as non-positive scales and
// negative spacing.
func (c Config) Validate() error {
	switch {
	case !(c.Scale > 0) || math.IsInf(c.Scale, 0):
		return fmt.Errorf("%w: scale must be positive and finite, got %v", ErrInvalidConfig, c.Scale)
	case !finite(c.GapRatio) || c.GapRatio < 0:
		return fmt.Errorf("%w: gap ratio must not be negative, got %v", ErrInvalidConfig, c.GapRatio)
	case !finite(c.StartX) || !finite(c.StartY) || c.StartX < 0 || c.StartY < 0:
		return fmt.Errorf("%w: margins must not be negative", ErrInvalidConfig)
	case !finite(c.Padding) || c.Padding < 0:
		return fmt.Errorf("%w: padding must not be negative", ErrInvalidConfig)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Size is a rendered page size in pixels.
type Size struct {
	Width  float64
	Height float64
}

// Entry is the placement of one page inside its panel.
type Entry struct {
	PageIndex int
	X, Y      float64
	Width     float64
	Height    float64
}

// Bottom returns the y coordinate of the entry's lower edge.
func (e Entry) Bottom() float64 {
	return e.Y + e.Height
}

// Extent is the scrollable content size of a panel.
type Extent struct {
	ContentWidth  float64
	ContentHeight float64
}

// Empty reports whether the extent has no area.
func (e Extent) Empty() bool {
	return e.ContentWidth <= 0 || e.ContentHeight <= 0
}

type Result struct {
	Entries []Entry
	Extent  Extent
}

// Compute lays out pages of the given sizes. The whole sequence is recomputed
// on every call.
func Compute(cfg Config, sizes []Size) Result {
	if len(sizes) == 0 {
		return Result{}
	}

	entries := make([]Entry, len(sizes))
	y := cfg.StartY
	widest := 0.0

	for i, size := range sizes {
		entries[i] = Entry{
			PageIndex: i,
			X:         cfg.StartX,
			Y:         y,
			Width:     size.Width,
			Height:    size.Height,
		}
		y += size.Height * (1 + cfg.GapRatio)

		if size.Width > widest {
			widest = size.Width
		}
	}

	return Result{
		Entries: entries,
		Extent: Extent{
			ContentWidth:  widest + cfg.Padding,
			ContentHeight: y,
		},
	}
}

// Offset returns the vertical offset of page i.
func (r Result) Offset(i int) (float64, bool) {
	if i < 0 || i >= len(r.Entries) {
		return 0, false
	}
	return r.Entries[i].Y, true
}

// EntryAt returns the index of the page shown at vertical offset y: the last
// entry whose top is at or above y. Offsets above the first page map to it.
func (r Result) EntryAt(y float64) (int, bool) {
	if len(r.Entries) == 0 {
		return 0, false
	}

	i := sort.Search(len(r.Entries), func(i int) bool {
		return r.Entries[i].Y > y
	})
	if i == 0 {
		return 0, true
	}
	return i - 1, true
}

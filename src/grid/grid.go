package grid

import (
	"errors"
	"fmt"
	"math"
)

// Point is a position in screen pixels (or surface units for non-pixel
// renderers).
type Point struct {
	X int
	Y int
}

// HitKind tags the variant held by a HitResult.
type HitKind int

const (
	HitNone HitKind = iota
	HitCell
	HitAux
)

// OptionID names an auxiliary option shown around the grid.
type OptionID string

const (
	OptCustom1  OptionID = "custom1"
	OptCustom2  OptionID = "custom2"
	OptCustom3  OptionID = "custom3"
	OptCompMode OptionID = "compmode"
	OptMaskMode OptionID = "maskmode"
	OptSettings OptionID = "settings"
	OptCopy     OptionID = "copy"
	OptPaste    OptionID = "paste"
)

var knownOptions = map[OptionID]bool{
	OptCustom1:  true,
	OptCustom2:  true,
	OptCustom3:  true,
	OptCompMode: true,
	OptMaskMode: true,
	OptSettings: true,
	OptCopy:     true,
	OptPaste:    true,
}

// ValidOption reports whether id is one of the auxiliary options this tool
// knows how to apply.
func ValidOption(id OptionID) bool { return knownOptions[id] }

// HitResult is the outcome of mapping a point against a Config. It is a
// comparable value; hover changes are detected with ==.
type HitResult struct {
	Kind   HitKind
	X      int
	Y      int
	Option OptionID
}

func None() HitResult { return HitResult{} }

func Cell(x, y int) HitResult { return HitResult{Kind: HitCell, X: x, Y: y} }

func Aux(id OptionID) HitResult { return HitResult{Kind: HitAux, Option: id} }

func (r HitResult) IsNone() bool { return r.Kind == HitNone }

func (r HitResult) String() string {
	switch r.Kind {
	case HitCell:
		return fmt.Sprintf("cell(%d,%d)", r.X, r.Y)
	case HitAux:
		return "aux(" + string(r.Option) + ")"
	default:
		return "none"
	}
}

// AuxLayout lists the options placed along each side of the grid, in order
// (left to right for top/bottom, top to bottom for left/right).
type AuxLayout struct {
	Top    []OptionID
	Bottom []OptionID
	Left   []OptionID
	Right  []OptionID
}

// DefaultAuxLayout puts the custom presets on the left, the mode toggles on
// the right and anchor copy/paste above and below the grid.
func DefaultAuxLayout() AuxLayout {
	return AuxLayout{
		Top:    []OptionID{OptCopy},
		Bottom: []OptionID{OptPaste},
		Left:   []OptionID{OptCustom1, OptCustom2, OptCustom3},
		Right:  []OptionID{OptCompMode, OptMaskMode, OptSettings},
	}
}

// Config describes the geometry of one overlay presentation. It is built
// when the overlay is shown and read-only afterwards.
type Config struct {
	Cols     int
	Rows     int
	CellSize int
	Spacing  int
	Margin   int
	// AuxZone is the thickness of the auxiliary bands outside each grid edge.
	AuxZone int
	Aux     AuxLayout
}

const baseCellSize = 40

var scaleFactors = []float64{0.8, 0.9, 1.0, 1.1, 1.2, 1.3, 1.4, 1.5, 1.6, 1.7}

// DefaultScale is the scale index that keeps the base cell size.
const DefaultScale = 2

// CellSizeForScale maps a scale index (0..9) to a cell size in pixels.
// Out-of-range indexes fall back to DefaultScale.
func CellSizeForScale(index int) int {
	if index < 0 || index >= len(scaleFactors) {
		index = DefaultScale
	}
	return int(math.Round(baseCellSize * scaleFactors[index]))
}

// Validate rejects geometry that cannot produce a grid.
func (c Config) Validate() error {
	if c.Cols < 1 || c.Rows < 1 {
		return fmt.Errorf("grid must have at least one column and row, got %dx%d", c.Cols, c.Rows)
	}
	if c.CellSize < 1 {
		return errors.New("cell size must be positive")
	}
	if c.Spacing < 0 || c.Margin < 0 || c.AuxZone < 0 {
		return errors.New("spacing, margin and auxiliary zone must not be negative")
	}
	for _, side := range [][]OptionID{c.Aux.Top, c.Aux.Bottom, c.Aux.Left, c.Aux.Right} {
		for _, id := range side {
			if !ValidOption(id) {
				return fmt.Errorf("unknown auxiliary option %q", id)
			}
		}
	}
	return nil
}

func (c Config) pitch() int { return c.CellSize + c.Spacing }

// Span returns the visual size of the cell matrix without margins.
func (c Config) Span() (w, h int) {
	return span(c.Cols, c.CellSize, c.Spacing), span(c.Rows, c.CellSize, c.Spacing)
}

func span(n, size, spacing int) int {
	if n < 1 {
		return 0
	}
	return n*size + (n-1)*spacing
}

// WindowSize returns the overlay window size: the cell matrix plus a margin
// on every side.
func (c Config) WindowSize() (w, h int) {
	sw, sh := c.Span()
	return sw + 2*c.Margin, sh + 2*c.Margin
}

// Footprint returns the screen area the overlay reaches: the window plus
// whatever part of the auxiliary bands extends past the margin.
func (c Config) Footprint() (w, h int) {
	w, h = c.WindowSize()
	over := max(0, c.AuxZone-c.Margin)
	return w + 2*over, h + 2*over
}

// OriginFor returns the window origin that centers the overlay on center.
func (c Config) OriginFor(center Point) Point {
	w, h := c.WindowSize()
	return Point{X: center.X - w/2, Y: center.Y - h/2}
}

// GridOrigin returns the top-left corner of the first cell for a window
// placed at origin.
func (c Config) GridOrigin(origin Point) Point {
	return Point{X: origin.X + c.Margin, Y: origin.Y + c.Margin}
}

// CellRatio converts a cell index to an anchor ratio in [0,1]². An axis
// with a single cell maps to the middle.
func CellRatio(x, y int, c Config) (rx, ry float64) {
	return axisRatio(x, c.Cols), axisRatio(y, c.Rows)
}

func axisRatio(i, n int) float64 {
	if n <= 1 {
		return 0.5
	}
	if i <= 0 {
		return 0
	}
	if i >= n-1 {
		return 1
	}
	return float64(i) / float64(n-1)
}

// Package display keeps the overlay on a visible monitor.
package display

import (
	"image"

	"github.com/kbinani/screenshot"

	"anchor-grid/src/grid"
)

// Displays returns the bounds of every active display in virtual-screen
// coordinates.
func Displays() []image.Rectangle {
	n := screenshot.NumActiveDisplays()
	out := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, screenshot.GetDisplayBounds(i))
	}
	return out
}

// Placer moves an overlay center so the whole window fits on the display
// under the cursor.
type Placer struct {
	displays func() []image.Rectangle
}

func NewPlacer() *Placer { return &Placer{displays: Displays} }

func (p *Placer) Place(center grid.Point, w, h int) grid.Point {
	screens := p.displays()
	if len(screens) == 0 {
		return center
	}
	return Clamp(center, w, h, pick(screens, center))
}

// pick returns the display containing pt, or the nearest one.
func pick(screens []image.Rectangle, pt grid.Point) image.Rectangle {
	ip := image.Pt(pt.X, pt.Y)
	best, bestDist := screens[0], -1
	for _, r := range screens {
		if ip.In(r) {
			return r
		}
		d := distSq(ip, r)
		if bestDist < 0 || d < bestDist {
			best, bestDist = r, d
		}
	}
	return best
}

func distSq(p image.Point, r image.Rectangle) int {
	dx, dy := 0, 0
	switch {
	case p.X < r.Min.X:
		dx = r.Min.X - p.X
	case p.X >= r.Max.X:
		dx = p.X - r.Max.X + 1
	}
	switch {
	case p.Y < r.Min.Y:
		dy = r.Min.Y - p.Y
	case p.Y >= r.Max.Y:
		dy = p.Y - r.Max.Y + 1
	}
	return dx*dx + dy*dy
}

// Clamp returns the center of a w×h window centered as close to center as
// possible while staying inside r. A window larger than r is pinned to
// its top-left corner.
func Clamp(center grid.Point, w, h int, r image.Rectangle) grid.Point {
	x := clampAxis(center.X-w/2, w, r.Min.X, r.Max.X)
	y := clampAxis(center.Y-h/2, h, r.Min.Y, r.Max.Y)
	return grid.Point{X: x + w/2, Y: y + h/2}
}

func clampAxis(origin, size, lo, hi int) int {
	if origin+size > hi {
		origin = hi - size
	}
	if origin < lo {
		origin = lo
	}
	return origin
}

// Package transform computes anchor point changes that leave a layer where
// it is on screen.
//
// A layer maps a point p in its local space to its parent as
//
//	parent = position + S·R(θ)·(p − anchor)
//
// where R rotates by θ radians (clockwise on a y-down screen) and S scales
// each parent axis by scale/100. Moving the anchor by d therefore needs a
// position change of S·R(θ)·d.
package transform

import "math"

type Vec2 struct {
	X float64
	Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Mul multiplies component-wise.
func (v Vec2) Mul(o Vec2) Vec2 { return Vec2{v.X * o.X, v.Y * o.Y} }

// Rotate turns v by theta radians.
func (v Vec2) Rotate(theta float64) Vec2 {
	sin, cos := math.Sincos(theta)
	return Vec2{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

func (v Vec2) finite() bool { return finite(v.X) && finite(v.Y) }

// Rect is an axis-aligned box in layer-local units.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// At returns the point at ratio within r; (0,0) is the top-left corner.
func (r Rect) At(ratio Vec2) Vec2 {
	return Vec2{r.Left + r.Width*ratio.X, r.Top + r.Height*ratio.Y}
}

func (r Rect) usable() bool {
	return finite(r.Left) && finite(r.Top) && finite(r.Width) && finite(r.Height) &&
		r.Width > 0 && r.Height > 0
}

// Layer is the geometry read from a layer for one computation.
type Layer struct {
	Bounds Rect
	Anchor Vec2
	// Position has two or three components; only the first two move.
	Position []float64
	// Scale is in percent, 100 being unscaled.
	Scale    Vec2
	Rotation float64
}

func (l Layer) pos() Vec2 { return Vec2{l.Position[0], l.Position[1]} }

func (l Layer) factor() Vec2 { return Vec2{l.Scale.X / 100, l.Scale.Y / 100} }

func (l Layer) valid() bool {
	if len(l.Position) < 2 || !l.Anchor.finite() || !l.Scale.finite() || !finite(l.Rotation) {
		return false
	}
	for _, c := range l.Position {
		if !finite(c) {
			return false
		}
	}
	return l.Scale.X != 0 && l.Scale.Y != 0
}

// Result is the outcome of an anchor computation. A Skipped result carries
// the old anchor and a zero delta and must not be applied.
type Result struct {
	NewAnchor     Vec2
	PositionDelta Vec2
	Skipped       bool
}

func skipped(l Layer) Result { return Result{NewAnchor: l.Anchor, Skipped: true} }

// Compute moves the anchor to ratio within the layer bounds. Ratios are
// clamped to [0,1]. Empty bounds, zero scale or non-finite inputs give a
// skipped result.
func Compute(l Layer, ratio Vec2) Result {
	if !l.Bounds.usable() || !ratio.finite() {
		return skipped(l)
	}
	return ComputeToAnchor(l, l.Bounds.At(ClampRatio(ratio)))
}

// ComputeToAnchor moves the anchor to an explicit local point.
func ComputeToAnchor(l Layer, anchor Vec2) Result {
	if !l.valid() || !anchor.finite() {
		return skipped(l)
	}
	d := anchor.Sub(l.Anchor)
	delta := d.Rotate(l.Rotation).Mul(l.factor())
	if !delta.finite() {
		return skipped(l)
	}
	return Result{NewAnchor: anchor, PositionDelta: delta}
}

// Apply writes r back into l. Components of Position past the first two
// are left alone. It reports whether anything was written.
func Apply(l *Layer, r Result) bool {
	if r.Skipped || len(l.Position) < 2 || !r.NewAnchor.finite() || !r.PositionDelta.finite() {
		return false
	}
	l.Anchor = r.NewAnchor
	l.Position[0] += r.PositionDelta.X
	l.Position[1] += r.PositionDelta.Y
	return true
}

// ToParent maps a local point to the parent (composition) space. ok is
// false for a malformed layer.
func ToParent(l Layer, p Vec2) (Vec2, bool) {
	if !l.valid() || !p.finite() {
		return Vec2{}, false
	}
	return l.pos().Add(p.Sub(l.Anchor).Rotate(l.Rotation).Mul(l.factor())), true
}

// CompToLocal maps a parent-space point back into layer space. ok is false
// for a layer that cannot be inverted.
func CompToLocal(l Layer, q Vec2) (Vec2, bool) {
	if !l.valid() || !q.finite() {
		return Vec2{}, false
	}
	f := l.factor()
	v := q.Sub(l.pos())
	v = Vec2{v.X / f.X, v.Y / f.Y}
	return l.Anchor.Add(v.Rotate(-l.Rotation)), true
}

// RatioOf returns where the anchor sits within the bounds, unclamped.
func RatioOf(l Layer) (Vec2, bool) {
	if !l.Bounds.usable() || !l.Anchor.finite() {
		return Vec2{}, false
	}
	return Vec2{
		(l.Anchor.X - l.Bounds.Left) / l.Bounds.Width,
		(l.Anchor.Y - l.Bounds.Top) / l.Bounds.Height,
	}, true
}

// MaskBounds returns the box around every vertex of the given mask paths.
// ok is false when there are no vertices or the box is empty.
func MaskBounds(paths [][]Vec2) (Rect, bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, path := range paths {
		for _, v := range path {
			if !v.finite() {
				continue
			}
			minX = math.Min(minX, v.X)
			minY = math.Min(minY, v.Y)
			maxX = math.Max(maxX, v.X)
			maxY = math.Max(maxY, v.Y)
		}
	}
	r := Rect{Left: minX, Top: minY, Width: maxX - minX, Height: maxY - minY}
	if !r.usable() {
		return Rect{}, false
	}
	return r, true
}

// Degrees converts a rotation in degrees to radians.
func Degrees(deg float64) float64 { return deg * math.Pi / 180 }

// ClampRatio clamps both components to [0,1].
func ClampRatio(v Vec2) Vec2 { return Vec2{clamp01(v.X), clamp01(v.Y)} }

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

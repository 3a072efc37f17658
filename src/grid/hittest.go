package grid

// HitTest maps a point to a selection for an overlay window placed at
// origin. It never fails: anything outside the cells and the auxiliary
// bands is None, and so is every point for a degenerate config.
//
// Auxiliary bands are tested before cells. Each band lies outside one grid
// edge, is AuxZone thick and runs along the grid span extended by AuxZone
// at both ends, so the outer corner squares belong to the top/bottom bands.
// The gutter after the last row/column counts as part of that cell and also
// lies inside the bottom/right band; the band wins there.
func HitTest(p, origin Point, c Config) HitResult {
	g := c.GridOrigin(origin)
	rx, ry := p.X-g.X, p.Y-g.Y
	w, h := c.Span()

	if r, ok := auxAt(rx, ry, w, h, c); ok {
		return r
	}
	return cellAt(rx, ry, c)
}

// HitTestCentered is HitTest for an overlay centered on showPos.
func HitTestCentered(p, showPos Point, c Config) HitResult {
	return HitTest(p, c.OriginFor(showPos), c)
}

func auxAt(rx, ry, w, h int, c Config) (HitResult, bool) {
	t := c.AuxZone
	if t <= 0 || w <= 0 || h <= 0 {
		return HitResult{}, false
	}
	inX := rx >= -t && rx < w+t
	inY := ry >= -t && ry < h+t

	switch {
	case ry >= -t && ry < 0 && inX && len(c.Aux.Top) > 0:
		return Aux(pick(c.Aux.Top, rx+t, w+2*t)), true
	case ry >= h && ry < h+t && inX && len(c.Aux.Bottom) > 0:
		return Aux(pick(c.Aux.Bottom, rx+t, w+2*t)), true
	case rx >= -t && rx < 0 && inY && len(c.Aux.Left) > 0:
		return Aux(pick(c.Aux.Left, ry+t, h+2*t)), true
	case rx >= w && rx < w+t && inY && len(c.Aux.Right) > 0:
		return Aux(pick(c.Aux.Right, ry+t, h+2*t)), true
	}
	return HitResult{}, false
}

// pick divides a band of the given length evenly among opts.
func pick(opts []OptionID, along, length int) OptionID {
	i := along * len(opts) / length
	if i < 0 {
		i = 0
	}
	if i >= len(opts) {
		i = len(opts) - 1
	}
	return opts[i]
}

func cellAt(rx, ry int, c Config) HitResult {
	pitch := c.pitch()
	if pitch <= 0 || c.Cols < 1 || c.Rows < 1 {
		return None()
	}
	cx, cy := floorDiv(rx, pitch), floorDiv(ry, pitch)
	if cx < 0 || cx >= c.Cols || cy < 0 || cy >= c.Rows {
		return None()
	}
	return Cell(cx, cy)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

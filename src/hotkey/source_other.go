//go:build !windows

package hotkey

import (
	"github.com/go-vgo/robotgo"

	"anchor-grid/src/grid"
)

type systemCursor struct {
	t *Tracker
}

// Cursor asks robotgo for the pointer and falls back to the last hook
// mouse event when robotgo reports the origin, which it does when no
// display is reachable.
func (c systemCursor) Cursor() (grid.Point, error) {
	x, y := robotgo.Location()
	if x == 0 && y == 0 {
		if p, ok := c.t.LastMouse(); ok {
			return p, nil
		}
	}
	return grid.Point{X: x, Y: y}, nil
}

func openPlatform(trigger, modifier Key) (*Source, error) {
	t := NewTracker(trigger, modifier)
	if err := t.Start(); err != nil {
		return nil, err
	}
	return &Source{Keys: t, Cursor: systemCursor{t: t}, close: t.Stop}, nil
}

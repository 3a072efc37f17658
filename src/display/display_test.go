package display

import (
	"image"
	"testing"

	"anchor-grid/src/grid"
)

func TestClamp(t *testing.T) {
	screen := image.Rect(0, 0, 1920, 1080)
	tests := []struct {
		name   string
		center grid.Point
		want   grid.Point
	}{
		{"inside", grid.Point{X: 500, Y: 500}, grid.Point{X: 500, Y: 500}},
		{"left edge", grid.Point{X: 10, Y: 500}, grid.Point{X: 100, Y: 500}},
		{"bottom-right corner", grid.Point{X: 1919, Y: 1079}, grid.Point{X: 1820, Y: 1030}},
		{"top edge", grid.Point{X: 800, Y: 0}, grid.Point{X: 800, Y: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.center, 200, 100, screen); got != tt.want {
				t.Errorf("Clamp(%v) = %v, expected %v", tt.center, got, tt.want)
			}
		})
	}
}

func TestClampLargerThanScreen(t *testing.T) {
	got := Clamp(grid.Point{X: 50, Y: 50}, 400, 400, image.Rect(0, 0, 300, 300))
	if got != (grid.Point{X: 200, Y: 200}) {
		t.Errorf("Clamp() = %v, expected the window pinned to the top-left", got)
	}
}

func TestPlacerPicksDisplay(t *testing.T) {
	screens := []image.Rectangle{
		image.Rect(0, 0, 1920, 1080),
		image.Rect(1920, 0, 3840, 1080),
	}
	p := &Placer{displays: func() []image.Rectangle { return screens }}

	// Near the left edge of the second display.
	if got := p.Place(grid.Point{X: 1925, Y: 500}, 200, 100); got != (grid.Point{X: 2020, Y: 500}) {
		t.Errorf("Place() = %v, expected clamped into the second display", got)
	}
	// Below every display: nearest is the first.
	if got := p.Place(grid.Point{X: 100, Y: 2000}, 200, 100); got != (grid.Point{X: 100, Y: 1030}) {
		t.Errorf("Place() = %v, expected clamped to the first display", got)
	}

	none := &Placer{displays: func() []image.Rectangle { return nil }}
	if got := none.Place(grid.Point{X: -5, Y: -5}, 200, 100); got != (grid.Point{X: -5, Y: -5}) {
		t.Errorf("Place() with no displays = %v, expected unchanged", got)
	}
}

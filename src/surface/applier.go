package surface

import (
	"errors"
	"fmt"
	"log"

	"anchor-grid/src/clipboard"
	"anchor-grid/src/config"
	"anchor-grid/src/grid"
	"anchor-grid/src/layers"
	"anchor-grid/src/transform"
)

// Modes are the toggles that change which rectangle a ratio is taken from.
type Modes struct {
	// CompMode measures the ratio across the composition frame instead of
	// the layer's own bounds.
	CompMode bool
	// MaskMode uses the bounding box of a layer's masks when it has any.
	MaskMode bool
}

// Presets resolves custom1..custom3 to anchor ratios.
type Presets func(id grid.OptionID) (transform.Vec2, bool)

// Outcome describes what an Apply did.
type Outcome struct {
	Action  string
	Applied int
	Skipped int
	Message string
}

func (o Outcome) String() string {
	if o.Message != "" {
		return o.Action + ": " + o.Message
	}
	return fmt.Sprintf("%s: %d applied, %d skipped", o.Action, o.Applied, o.Skipped)
}

// Applier turns a committed selection into edits of the layer document.
type Applier struct {
	layersPath string
	grid       grid.Config
	presets    Presets
	board      clipboard.Board
	modes      Modes
}

func NewApplier(layersPath string, g grid.Config, presets Presets, board clipboard.Board, modes Modes) *Applier {
	return &Applier{layersPath: layersPath, grid: g, presets: presets, board: board, modes: modes}
}

func (a *Applier) Modes() Modes { return a.modes }

// Apply resolves sel. None is a no-op; a cell outside the grid is an error.
func (a *Applier) Apply(sel grid.HitResult) (Outcome, error) {
	switch sel.Kind {
	case grid.HitNone:
		return Outcome{Action: "none"}, nil
	case grid.HitCell:
		if sel.X < 0 || sel.X >= a.grid.Cols || sel.Y < 0 || sel.Y >= a.grid.Rows {
			return Outcome{Action: "cell"}, fmt.Errorf("cell %d,%d outside %dx%d grid", sel.X, sel.Y, a.grid.Cols, a.grid.Rows)
		}
		rx, ry := grid.CellRatio(sel.X, sel.Y, a.grid)
		o, err := a.ApplyRatio(transform.Vec2{X: rx, Y: ry})
		o.Action = fmt.Sprintf("cell %d,%d", sel.X, sel.Y)
		return o, err
	case grid.HitAux:
		return a.applyOption(sel.Option)
	}
	return Outcome{}, fmt.Errorf("unknown selection kind %d", sel.Kind)
}

func (a *Applier) applyOption(id grid.OptionID) (Outcome, error) {
	action := string(id)
	switch id {
	case grid.OptCustom1, grid.OptCustom2, grid.OptCustom3:
		if a.presets == nil {
			return Outcome{Action: action}, fmt.Errorf("no preset configured for %s", id)
		}
		ratio, ok := a.presets(id)
		if !ok {
			return Outcome{Action: action}, fmt.Errorf("no preset configured for %s", id)
		}
		o, err := a.ApplyRatio(ratio)
		o.Action = action
		return o, err
	case grid.OptCompMode:
		a.modes.CompMode = !a.modes.CompMode
		return Outcome{Action: action, Message: onOff(a.modes.CompMode)}, nil
	case grid.OptMaskMode:
		a.modes.MaskMode = !a.modes.MaskMode
		return Outcome{Action: action, Message: onOff(a.modes.MaskMode)}, nil
	case grid.OptSettings:
		log.Printf("Settings requested; edit the .env file to change options")
		return Outcome{Action: action, Message: "edit .env to change settings"}, nil
	case grid.OptCopy:
		return a.copyRatio()
	case grid.OptPaste:
		return a.pasteRatio()
	}
	return Outcome{Action: action}, fmt.Errorf("unknown option %q", id)
}

func (a *Applier) copyRatio() (Outcome, error) {
	o := Outcome{Action: string(grid.OptCopy)}
	if a.board == nil {
		return o, errors.New("no clipboard available")
	}
	doc, err := layers.Load(a.layersPath)
	if err != nil {
		return o, err
	}
	sel := doc.Selected()
	if len(sel) == 0 {
		return o, layers.ErrNoSelection
	}
	g, err := sel[0].Geometry()
	if err != nil {
		return o, err
	}
	ratio, ok := transform.RatioOf(g)
	if !ok {
		return o, fmt.Errorf("layer %q has empty bounds", sel[0].Name)
	}
	text := config.FormatRatio(transform.ClampRatio(ratio))
	if err := a.board.WriteText(text); err != nil {
		return o, fmt.Errorf("write clipboard: %w", err)
	}
	o.Message = text
	return o, nil
}

func (a *Applier) pasteRatio() (Outcome, error) {
	o := Outcome{Action: string(grid.OptPaste)}
	if a.board == nil {
		return o, errors.New("no clipboard available")
	}
	text, err := a.board.ReadText()
	if err != nil {
		return o, fmt.Errorf("read clipboard: %w", err)
	}
	ratio, err := config.ParseRatio(text)
	if err != nil {
		return o, err
	}
	o, err = a.ApplyRatio(ratio)
	o.Action = string(grid.OptPaste)
	return o, err
}

// ApplyRatio moves the anchor of every selected layer to ratio and saves the
// document if any layer changed. Layers whose geometry cannot take the new
// anchor are skipped and left untouched.
func (a *Applier) ApplyRatio(ratio transform.Vec2) (Outcome, error) {
	o := Outcome{Action: "ratio " + config.FormatRatio(ratio)}
	doc, err := layers.Load(a.layersPath)
	if err != nil {
		return o, err
	}
	selected := doc.Selected()
	if len(selected) == 0 {
		return o, layers.ErrNoSelection
	}
	for _, l := range selected {
		g, err := l.Geometry()
		if err != nil {
			log.Printf("WARNING: skipping layer: %v", err)
			o.Skipped++
			continue
		}
		if !transform.Apply(&g, a.resolve(doc, l, g, ratio)) {
			log.Printf("Skipping layer %q: anchor cannot be moved", l.Name)
			o.Skipped++
			continue
		}
		l.SetGeometry(g)
		o.Applied++
	}
	if o.Applied == 0 {
		return o, nil
	}
	if err := doc.Save(a.layersPath); err != nil {
		return o, fmt.Errorf("save layers: %w", err)
	}
	return o, nil
}

func (a *Applier) resolve(doc *layers.Document, l *layers.Layer, g transform.Layer, ratio transform.Vec2) transform.Result {
	if a.modes.CompMode {
		frame := doc.CompFrame()
		if frame.Width <= 0 || frame.Height <= 0 {
			return transform.Result{NewAnchor: g.Anchor, Skipped: true}
		}
		local, ok := transform.CompToLocal(g, frame.At(transform.ClampRatio(ratio)))
		if !ok {
			return transform.Result{NewAnchor: g.Anchor, Skipped: true}
		}
		return transform.ComputeToAnchor(g, local)
	}
	if a.modes.MaskMode {
		if box, ok := transform.MaskBounds(l.MaskPaths()); ok {
			g.Bounds = box
		}
	}
	return transform.Compute(g, ratio)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

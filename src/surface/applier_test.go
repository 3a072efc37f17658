package surface

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"anchor-grid/src/clipboard"
	"anchor-grid/src/grid"
	"anchor-grid/src/layers"
	"anchor-grid/src/transform"
)

const testDoc = `composition:
  width: 1000
  height: 500
layers:
  - name: A
    selected: true
    bounds: {left: 0, top: 0, width: 200, height: 100}
    anchor: [100, 50]
    position: [500, 250]
  - name: B
    bounds: {left: 0, top: 0, width: 50, height: 50}
    anchor: [25, 25]
    position: [25, 25]
  - name: M
    selected: true
    bounds: {left: 0, top: 0, width: 100, height: 100}
    anchor: [0, 0]
    position: [0, 0]
    masks:
      - [[10, 10], [30, 10], [30, 40]]
`

func writeDoc(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layers.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func layerByName(t *testing.T, path, name string) layers.Layer {
	t.Helper()
	doc, err := layers.Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	for _, l := range doc.Layers {
		if l.Name == name {
			return l
		}
	}
	t.Fatalf("layer %q not found", name)
	return layers.Layer{}
}

func assertPair(t *testing.T, what string, got []float64, x, y float64) {
	t.Helper()
	if len(got) < 2 || got[0] != x || got[1] != y {
		t.Errorf("%s = %v, expected [%v %v]", what, got, x, y)
	}
}

func testPresets(id grid.OptionID) (transform.Vec2, bool) {
	if id == grid.OptCustom1 {
		return transform.Vec2{X: 0.5, Y: 0.5}, true
	}
	return transform.Vec2{}, false
}

func newTestApplier(path string, board clipboard.Board, modes Modes) *Applier {
	return NewApplier(path, TerminalGrid(3, 3), testPresets, board, modes)
}

func TestApplyCell(t *testing.T) {
	path := writeDoc(t, testDoc)
	a := newTestApplier(path, nil, Modes{})

	o, err := a.Apply(grid.Cell(0, 0))
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if o.Applied != 2 || o.Skipped != 0 {
		t.Errorf("Apply() = %+v, expected 2 applied", o)
	}
	l := layerByName(t, path, "A")
	assertPair(t, "A anchor", l.Anchor, 0, 0)
	assertPair(t, "A position", l.Position, 400, 200)

	b := layerByName(t, path, "B")
	assertPair(t, "unselected B anchor", b.Anchor, 25, 25)
}

func TestApplyMaskMode(t *testing.T) {
	path := writeDoc(t, testDoc)
	a := newTestApplier(path, nil, Modes{MaskMode: true})

	if _, err := a.Apply(grid.Cell(2, 2)); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	m := layerByName(t, path, "M")
	assertPair(t, "M anchor", m.Anchor, 30, 40)
	assertPair(t, "M position", m.Position, 30, 40)

	l := layerByName(t, path, "A")
	assertPair(t, "A anchor without masks", l.Anchor, 200, 100)
}

func TestApplyCompMode(t *testing.T) {
	path := writeDoc(t, testDoc)
	a := newTestApplier(path, nil, Modes{CompMode: true})

	if _, err := a.Apply(grid.Cell(2, 2)); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	l := layerByName(t, path, "A")
	assertPair(t, "A anchor", l.Anchor, 600, 300)
	assertPair(t, "A position", l.Position, 1000, 500)
}

func TestApplySkipsDegenerateLayers(t *testing.T) {
	doc := `composition: {width: 100, height: 100}
layers:
  - name: flat
    selected: true
    bounds: {left: 0, top: 0, width: 10, height: 10}
    anchor: [5, 5]
    position: [5, 5]
    scale: [0, 100]
  - name: ok
    selected: true
    bounds: {left: 0, top: 0, width: 10, height: 10}
    anchor: [5, 5]
    position: [5, 5]
`
	path := writeDoc(t, doc)
	a := newTestApplier(path, nil, Modes{})

	o, err := a.Apply(grid.Cell(0, 0))
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if o.Applied != 1 || o.Skipped != 1 {
		t.Errorf("Apply() = %+v, expected 1 applied 1 skipped", o)
	}
	flat := layerByName(t, path, "flat")
	assertPair(t, "skipped anchor", flat.Anchor, 5, 5)
	assertPair(t, "skipped position", flat.Position, 5, 5)
}

func TestApplyErrors(t *testing.T) {
	path := writeDoc(t, testDoc)
	a := newTestApplier(path, nil, Modes{})

	if _, err := a.Apply(grid.Cell(3, 0)); err == nil {
		t.Error("Apply() of a cell outside the grid expected error")
	}
	if o, err := a.Apply(grid.None()); err != nil || o.Action != "none" {
		t.Errorf("Apply(None) = %+v, %v", o, err)
	}
	if _, err := a.Apply(grid.Aux(grid.OptCustom2)); err == nil {
		t.Error("Apply(custom2) without a preset expected error")
	}
	if _, err := a.Apply(grid.Aux(grid.OptCopy)); err == nil {
		t.Error("copy without a clipboard expected error")
	}

	noSel := writeDoc(t, "layers:\n  - name: x\n    anchor: [0, 0]\n    position: [0, 0]\n")
	_, err := newTestApplier(noSel, nil, Modes{}).Apply(grid.Cell(0, 0))
	if !errors.Is(err, layers.ErrNoSelection) {
		t.Errorf("Apply() with nothing selected error = %v, expected ErrNoSelection", err)
	}
}

func TestApplyOptions(t *testing.T) {
	path := writeDoc(t, testDoc)
	board := &clipboard.Memory{}
	a := newTestApplier(path, board, Modes{})

	o, err := a.Apply(grid.Aux(grid.OptCustom1))
	if err != nil || o.Action != "custom1" || o.Applied != 2 {
		t.Errorf("Apply(custom1) = %+v, %v", o, err)
	}
	assertPair(t, "A anchor after custom1", layerByName(t, path, "A").Anchor, 100, 50)

	for _, id := range []grid.OptionID{grid.OptCompMode, grid.OptMaskMode} {
		o, err := a.Apply(grid.Aux(id))
		if err != nil || o.Message != "on" {
			t.Errorf("Apply(%s) = %+v, %v, expected on", id, o, err)
		}
	}
	if m := a.Modes(); !m.CompMode || !m.MaskMode {
		t.Errorf("Modes() = %+v, expected both on", m)
	}
	if o, _ := a.Apply(grid.Aux(grid.OptCompMode)); o.Message != "off" {
		t.Errorf("second compmode toggle = %+v, expected off", o)
	}

	if o, err := a.Apply(grid.Aux(grid.OptSettings)); err != nil || o.Message == "" {
		t.Errorf("Apply(settings) = %+v, %v", o, err)
	}
}

func TestCopyAndPaste(t *testing.T) {
	path := writeDoc(t, testDoc)
	board := &clipboard.Memory{}
	a := newTestApplier(path, board, Modes{})

	if _, err := a.Apply(grid.Aux(grid.OptPaste)); err == nil {
		t.Error("paste from an empty clipboard expected error")
	}

	if _, err := a.Apply(grid.Aux(grid.OptCopy)); err != nil {
		t.Fatalf("copy error: %v", err)
	}
	if text, _ := board.ReadText(); text != "0.5000,0.5000" {
		t.Errorf("clipboard = %q, expected 0.5000,0.5000", text)
	}

	_ = board.WriteText("0,1")
	o, err := a.Apply(grid.Aux(grid.OptPaste))
	if err != nil {
		t.Fatalf("paste error: %v", err)
	}
	if o.Action != "paste" || o.Applied != 2 {
		t.Errorf("paste = %+v", o)
	}
	l := layerByName(t, path, "A")
	assertPair(t, "A anchor after paste", l.Anchor, 0, 100)
	assertPair(t, "A position after paste", l.Position, 400, 300)

	_ = board.WriteText("left,top")
	if _, err := a.Apply(grid.Aux(grid.OptPaste)); err == nil {
		t.Error("paste of garbage expected error")
	}
}

func TestOutcomeString(t *testing.T) {
	o := Outcome{Action: "cell 1,1", Applied: 2, Skipped: 1}
	if got := o.String(); !strings.Contains(got, "2 applied") || !strings.Contains(got, "1 skipped") {
		t.Errorf("String() = %q", got)
	}
	o = Outcome{Action: "copy", Message: "0.5,0.5"}
	if got := o.String(); got != "copy: 0.5,0.5" {
		t.Errorf("String() = %q", got)
	}
}

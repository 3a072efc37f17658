package surface

import (
	"github.com/gdamore/tcell/v2"

	"anchor-grid/src/grid"
)

// Terminal cells are roughly twice as tall as they are wide, so grid units
// run one per column and two per row.
const rowUnits = 2

// TerminalGrid returns a grid geometry sized for a character terminal.
func TerminalGrid(cols, rows int) grid.Config {
	return grid.Config{
		Cols:     cols,
		Rows:     rows,
		CellSize: 6,
		Spacing:  2,
		Margin:   4,
		AuxZone:  4,
		Aux:      grid.DefaultAuxLayout(),
	}
}

var (
	cellStyle   = tcell.StyleDefault.Background(tcell.ColorDarkSlateGray)
	auxStyle    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

var optionGlyphs = map[grid.OptionID]rune{
	grid.OptCustom1:  '1',
	grid.OptCustom2:  '2',
	grid.OptCustom3:  '3',
	grid.OptCompMode: 'C',
	grid.OptMaskMode: 'M',
	grid.OptSettings: 'S',
	grid.OptCopy:     'c',
	grid.OptPaste:    'p',
}

// View is what one frame shows.
type View struct {
	Visible bool
	Hover   grid.HitResult
	Status  string
}

// Renderer draws the grid at the top-left of a tcell screen.
type Renderer struct {
	screen tcell.Screen
	grid   grid.Config
}

func NewRenderer(screen tcell.Screen, g grid.Config) *Renderer {
	return &Renderer{screen: screen, grid: g}
}

func toUnits(tx, ty int) grid.Point { return grid.Point{X: tx, Y: ty * rowUnits} }

// Hit maps a terminal cell to a selection.
func (r *Renderer) Hit(tx, ty int) grid.HitResult {
	return grid.HitTest(toUnits(tx, ty), grid.Point{}, r.grid)
}

// Rows returns how many terminal rows the grid window takes.
func (r *Renderer) Rows() int {
	_, h := r.grid.WindowSize()
	return (h + rowUnits - 1) / rowUnits
}

func (r *Renderer) Draw(v View) {
	r.screen.Clear()
	statusRow := 0
	if v.Visible {
		r.drawGrid(v.Hover)
		statusRow = r.Rows()
	} else {
		r.drawText(0, statusRow, "hidden", statusStyle)
		statusRow++
	}
	r.drawText(0, statusRow, v.Status, statusStyle)
	r.screen.Show()
}

func (r *Renderer) drawGrid(hover grid.HitResult) {
	w, _ := r.grid.WindowSize()
	g := r.grid.GridOrigin(grid.Point{})
	pitch := r.grid.CellSize + r.grid.Spacing
	for ty := 0; ty < r.Rows(); ty++ {
		for tx := 0; tx < w; tx++ {
			hit := r.Hit(tx, ty)
			var (
				ch    rune
				style tcell.Style
			)
			switch hit.Kind {
			case grid.HitCell:
				p := toUnits(tx, ty)
				if (p.X-g.X)%pitch >= r.grid.CellSize || (p.Y-g.Y)%pitch >= r.grid.CellSize {
					continue
				}
				ch, style = ' ', cellStyle
			case grid.HitAux:
				ch, style = optionGlyphs[hit.Option], auxStyle
			default:
				continue
			}
			if hit == hover {
				style = style.Reverse(true)
			}
			r.screen.SetContent(tx, ty, ch, nil, style)
		}
	}
}

func (r *Renderer) drawText(x, y int, text string, style tcell.Style) {
	for _, ch := range text {
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

package channel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"anchor-grid/src/grid"
)

// CommandKind is the verb written to the command slot.
type CommandKind int

const (
	CmdShow CommandKind = iota + 1
	CmdHide
	CmdToggle
	CmdApply
)

func (k CommandKind) String() string {
	switch k {
	case CmdShow:
		return "show"
	case CmdHide:
		return "hide"
	case CmdToggle:
		return "toggle"
	case CmdApply:
		return "apply"
	default:
		return "unknown"
	}
}

// Command is the single pending instruction for the remote surface.
// Selection is only meaningful for CmdApply.
type Command struct {
	Kind      CommandKind
	Selection grid.HitResult
}

func Show() Command { return Command{Kind: CmdShow} }
func Hide() Command { return Command{Kind: CmdHide} }
func Toggle() Command { return Command{Kind: CmdToggle} }

func Apply(sel grid.HitResult) Command { return Command{Kind: CmdApply, Selection: sel} }

func (c Command) String() string {
	s, err := EncodeCommand(c)
	if err != nil {
		return "invalid(" + c.Kind.String() + ")"
	}
	return s
}

const (
	applyPrefix = "apply:"
	auxPrefix   = "aux:"
	outside     = "outside"
)

var errApplyNone = errors.New("apply needs a cell or auxiliary selection")

// EncodeCommand renders c in its wire form.
func EncodeCommand(c Command) (string, error) {
	switch c.Kind {
	case CmdShow, CmdHide, CmdToggle:
		return c.Kind.String(), nil
	case CmdApply:
		if c.Selection.IsNone() {
			return "", errApplyNone
		}
		return applyPrefix + encodeSelection(c.Selection), nil
	}
	return "", fmt.Errorf("unknown command kind %d", c.Kind)
}

// ParseCommand reads the wire form of a command.
func ParseCommand(s string) (Command, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "show":
		return Show(), nil
	case "hide":
		return Hide(), nil
	case "toggle":
		return Toggle(), nil
	}
	if rest, ok := strings.CutPrefix(s, applyPrefix); ok {
		sel, err := parseSelection(rest)
		if err != nil {
			return Command{}, err
		}
		if sel.IsNone() {
			return Command{}, errApplyNone
		}
		return Apply(sel), nil
	}
	return Command{}, fmt.Errorf("unknown command %q", s)
}

// EncodeHover renders a hover result for the state slot.
func EncodeHover(r grid.HitResult) (string, error) {
	if r.IsNone() {
		return outside, nil
	}
	return encodeSelection(r), nil
}

// ParseHover reads the state slot. An empty line means outside.
func ParseHover(s string) (grid.HitResult, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == outside {
		return grid.None(), nil
	}
	return parseSelection(s)
}

func encodeSelection(r grid.HitResult) string {
	if r.Kind == grid.HitAux {
		return auxPrefix + string(r.Option)
	}
	return strconv.Itoa(r.X) + "," + strconv.Itoa(r.Y)
}

func parseSelection(s string) (grid.HitResult, error) {
	if id, ok := strings.CutPrefix(s, auxPrefix); ok {
		opt := grid.OptionID(id)
		if !grid.ValidOption(opt) {
			return grid.HitResult{}, fmt.Errorf("unknown auxiliary option %q", id)
		}
		return grid.Aux(opt), nil
	}
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return grid.HitResult{}, fmt.Errorf("selection %q is not x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return grid.HitResult{}, fmt.Errorf("bad column in %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return grid.HitResult{}, fmt.Errorf("bad row in %q: %w", s, err)
	}
	if x < 0 || y < 0 {
		return grid.HitResult{}, fmt.Errorf("negative cell in %q", s)
	}
	return grid.Cell(x, y), nil
}

var (
	commandCodec = Codec[Command]{Encode: EncodeCommand, Decode: ParseCommand}
	hoverCodec   = Codec[grid.HitResult]{Encode: EncodeHover, Decode: ParseHover}
)

// Package overlay holds the selection session state machine. The controller
// is driven by key edges from the input monitor and by cursor samples, and
// talks to the grid surface only through the channel.
package overlay

import (
	"log"
	"time"

	"anchor-grid/src/channel"
	"anchor-grid/src/grid"
	"anchor-grid/src/input"
)

// State is the visibility mode of the overlay.
type State int

const (
	Hidden State = iota
	HoldVisible
	ClickVisible
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case HoldVisible:
		return "hold"
	case ClickVisible:
		return "click"
	default:
		return "unknown"
	}
}

func (s State) Visible() bool { return s == HoldVisible || s == ClickVisible }

// CommandSender delivers commands to the grid surface.
type CommandSender interface {
	Send(channel.Command) error
}

// HoverReader returns what the grid surface last reported under the cursor.
type HoverReader interface {
	ReadHover() channel.HoverSnapshot
}

// Remote is the controller's view of the channel.
type Remote interface {
	CommandSender
	HoverReader
}

// Gate decides whether the overlay may open, e.g. only while layers are
// selected.
type Gate interface {
	CanOpen() bool
}

// GateFunc adapts a function to Gate.
type GateFunc func() bool

func (f GateFunc) CanOpen() bool { return f() }

// Placer adjusts the point the overlay is centered on, typically to keep a
// window of size w×h on screen.
type Placer interface {
	Place(center grid.Point, w, h int) grid.Point
}

// Session is all mutable state of one controller.
type Session struct {
	State    State
	ShowPos  grid.Point
	OpenedAt time.Time
	// LocalHover mirrors the surface's hit-test for immediate feedback. It
	// is never used to decide what gets applied.
	LocalHover grid.HitResult
	Commits    int
}

// Commit describes one visible-to-hidden transition that ended a session.
type Commit struct {
	From      State
	Selection grid.HitResult
	Local     grid.HitResult
	Snapshot  channel.HoverSnapshot
	Sent      channel.Command
	SendErr   error
}

// Controller runs the overlay state machine. It is owned by a single poll
// loop and is not safe for concurrent use.
type Controller struct {
	grid   grid.Config
	remote Remote
	gate   Gate
	placer Placer
	now    func() time.Time
	sess   Session
}

func NewController(cfg grid.Config, remote Remote) *Controller {
	return &Controller{grid: cfg, remote: remote, now: time.Now}
}

// SetGate installs a precondition for opening. nil removes it.
func (c *Controller) SetGate(g Gate) { c.gate = g }

// SetPlacer installs a show-position adjuster. nil removes it.
func (c *Controller) SetPlacer(p Placer) { c.placer = p }

func (c *Controller) Session() Session { return c.sess }

func (c *Controller) State() State { return c.sess.State }

func (c *Controller) Grid() grid.Config { return c.grid }

// Handle applies one edge with the cursor position sampled on the same
// tick. When the edge closes a visible overlay the commit is returned.
func (c *Controller) Handle(e input.Edge, cursor grid.Point) (Commit, bool) {
	switch c.sess.State {
	case Hidden:
		switch e {
		case input.TriggerDown:
			c.open(HoldVisible, cursor)
		case input.ModifierComboDown:
			c.open(ClickVisible, cursor)
		}
	case HoldVisible:
		if e == input.TriggerUp {
			return c.commit(), true
		}
	case ClickVisible:
		if e == input.ModifierComboDown || e == input.TriggerDown {
			return c.commit(), true
		}
	}
	return Commit{}, false
}

// Move updates the local hover mirror. It reports whether the hover changed
// so the caller can redraw.
func (c *Controller) Move(cursor grid.Point) bool {
	if !c.sess.State.Visible() {
		return false
	}
	r := grid.HitTestCentered(cursor, c.sess.ShowPos, c.grid)
	if r == c.sess.LocalHover {
		return false
	}
	c.sess.LocalHover = r
	return true
}

// Cancel hides a visible overlay without applying anything.
func (c *Controller) Cancel() {
	if !c.sess.State.Visible() {
		return
	}
	log.Printf("Overlay cancelled from %s", c.sess.State)
	c.send(channel.Hide())
	c.reset()
}

func (c *Controller) open(s State, cursor grid.Point) {
	if c.gate != nil && !c.gate.CanOpen() {
		log.Printf("Overlay not opened: precondition not met")
		return
	}
	pos := cursor
	if c.placer != nil {
		w, h := c.grid.Footprint()
		pos = c.placer.Place(cursor, w, h)
	}
	c.sess.State = s
	c.sess.ShowPos = pos
	c.sess.OpenedAt = c.now()
	c.sess.LocalHover = grid.HitTestCentered(cursor, pos, c.grid)
	log.Printf("Overlay shown (%s) at %d,%d", s, pos.X, pos.Y)
	c.send(channel.Show())
}

// commit hides the overlay and applies what the surface last reported. The
// snapshot may lag the cursor by one poll interval on each side.
func (c *Controller) commit() Commit {
	var snap channel.HoverSnapshot
	if c.remote != nil {
		snap = c.remote.ReadHover()
	}
	cm := Commit{
		From:      c.sess.State,
		Selection: snap.Result,
		Local:     c.sess.LocalHover,
		Snapshot:  snap,
	}
	if snap.Result.IsNone() {
		cm.Sent = channel.Hide()
	} else {
		cm.Sent = channel.Apply(snap.Result)
	}
	if snap.Result != cm.Local {
		log.Printf("Overlay commit: surface reports %s, local mirror %s", snap.Result, cm.Local)
	}
	cm.SendErr = c.send(cm.Sent)
	log.Printf("Overlay committed from %s: %s", cm.From, cm.Sent)

	c.reset()
	c.sess.Commits++
	return cm
}

func (c *Controller) reset() {
	c.sess.State = Hidden
	c.sess.LocalHover = grid.None()
	c.sess.OpenedAt = time.Time{}
}

func (c *Controller) send(cmd channel.Command) error {
	if c.remote == nil {
		return channel.ErrDisabled
	}
	err := c.remote.Send(cmd)
	if err != nil && err != channel.ErrDisabled {
		log.Printf("Overlay: send %s failed: %v", cmd, err)
	}
	return err
}

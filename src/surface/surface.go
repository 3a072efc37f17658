// Package surface is the remote side of the channel: a terminal rendition
// of the grid that follows show/hide/toggle/apply commands from the host,
// publishes the hovered selection back and applies committed selections to
// the layer document.
package surface

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"anchor-grid/src/channel"
	"anchor-grid/src/eventloop"
	"anchor-grid/src/grid"
)

// KeepAliveEvery is how often an unchanged hover is rewritten so the host
// can tell the surface is still running.
const KeepAliveEvery = 2 * time.Second

type Surface struct {
	screen  tcell.Screen
	ch      *channel.Channel
	applier *Applier
	render  *Renderer
	ticker  eventloop.Ticker

	visible  bool
	hover    grid.HitResult
	mouse    grid.Point
	hasMouse bool
	pressed  bool
	status   string

	publishFailing bool
}

func New(screen tcell.Screen, ch *channel.Channel, applier *Applier, g grid.Config, ticker eventloop.Ticker) *Surface {
	return &Surface{
		screen:  screen,
		ch:      ch,
		applier: applier,
		render:  NewRenderer(screen, g),
		ticker:  ticker,
		status:  "waiting for host",
	}
}

func (s *Surface) Visible() bool { return s.visible }
func (s *Surface) Hover() grid.HitResult { return s.hover }
func (s *Surface) Status() string { return s.status }

// Run clears stale channel state and then serves terminal events and ticks
// until ctx ends or the user quits with Esc or Ctrl-C. The caller owns the
// screen and finalizes it.
func (s *Surface) Run(ctx context.Context) error {
	if err := s.ch.Reset(); err != nil && !errors.Is(err, channel.ErrDisabled) {
		log.Printf("WARNING: could not clear channel state: %v", err)
	}
	s.screen.EnableMouse()
	defer s.ticker.Stop()

	events := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	s.draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if s.HandleEvent(ev) {
				return nil
			}
		case now := <-s.ticker.C():
			s.Tick(now)
		}
	}
}

// Tick takes at most one pending command, refreshes the published hover
// and redraws.
func (s *Surface) Tick(now time.Time) {
	if cmd, ok := s.ch.Poll(); ok {
		s.execute(cmd)
	}
	s.updateHover()
	if err := s.ch.KeepAlive(now, KeepAliveEvery); err != nil {
		s.publishFailed(err)
	}
	s.draw()
}

// HandleEvent processes one terminal event and reports whether the user
// asked to quit.
func (s *Surface) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return true
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		s.mouse, s.hasMouse = grid.Point{X: x, Y: y}, true
		s.updateHover()
		down := ev.Buttons()&tcell.Button1 != 0
		if down && !s.pressed && s.visible && !s.hover.IsNone() {
			s.apply(s.hover)
			// The host still believes the overlay is open. Publishing none
			// makes its commit send hide instead of the same selection.
			s.visible = false
			s.updateHover()
		}
		s.pressed = down
	case *tcell.EventResize:
		s.screen.Sync()
	}
	s.draw()
	return false
}

func (s *Surface) execute(cmd channel.Command) {
	switch cmd.Kind {
	case channel.CmdShow:
		s.visible = true
	case channel.CmdHide:
		s.visible = false
	case channel.CmdToggle:
		s.visible = !s.visible
	case channel.CmdApply:
		s.apply(cmd.Selection)
		s.visible = false
	}
}

func (s *Surface) apply(sel grid.HitResult) {
	o, err := s.applier.Apply(sel)
	if err != nil {
		log.Printf("ERROR: apply %s failed: %v", sel, err)
		s.status = o.Action + ": " + err.Error()
		return
	}
	log.Printf("Applied %s", o)
	s.status = o.String()
}

func (s *Surface) updateHover() {
	hover := grid.None()
	if s.visible && s.hasMouse {
		hover = s.render.Hit(s.mouse.X, s.mouse.Y)
	}
	s.hover = hover
	if err := s.ch.PublishHover(hover); err != nil {
		s.publishFailed(err)
		return
	}
	if s.publishFailing {
		log.Printf("Hover publishing recovered")
		s.publishFailing = false
	}
}

func (s *Surface) publishFailed(err error) {
	if errors.Is(err, channel.ErrDisabled) || s.publishFailing {
		return
	}
	log.Printf("ERROR: publishing hover failed: %v", err)
	s.publishFailing = true
}

func (s *Surface) draw() {
	s.render.Draw(View{Visible: s.visible, Hover: s.hover, Status: s.status})
}

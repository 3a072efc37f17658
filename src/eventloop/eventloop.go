package eventloop

import (
	"context"
	"fmt"
	"log"
	"time"

	"anchor-grid/src/grid"
	"anchor-grid/src/input"
	"anchor-grid/src/overlay"
	"anchor-grid/src/singleinstance"
)

// CursorSource reports the global pointer position.
type CursorSource interface {
	Cursor() (grid.Point, error)
}

// Loop is the single-threaded coordinator on the host side. Key edges,
// cursor samples and status requests are all handled on the goroutine
// running Run, so the controller never sees concurrent calls.
type Loop struct {
	monitor *input.Monitor
	ctrl    *overlay.Controller
	cursor  CursorSource
	ticker  Ticker
	srv     singleinstance.Server

	lastCursor    grid.Point
	cursorFailing bool

	onState func(overlay.State)
	onQuit  func()
	detail  func() string
}

func New(m *input.Monitor, ctrl *overlay.Controller, cursor CursorSource, ticker Ticker) *Loop {
	return &Loop{monitor: m, ctrl: ctrl, cursor: cursor, ticker: ticker}
}

// SetServer lets the loop answer status and control requests from the
// single-instance endpoint.
func (l *Loop) SetServer(srv singleinstance.Server) { l.srv = srv }

// OnStateChange registers a callback run on the loop goroutine whenever the
// overlay state changes.
func (l *Loop) OnStateChange(fn func(overlay.State)) { l.onState = fn }

// OnQuit registers the handler for a QUIT request.
func (l *Loop) OnQuit(fn func()) { l.onQuit = fn }

// StatusDetail adds fn's text to STATUS replies.
func (l *Loop) StatusDetail(fn func() string) { l.detail = fn }

func (l *Loop) Controller() *overlay.Controller { return l.ctrl }

// Tick runs one poll: sample keys, sample the cursor, feed the controller.
func (l *Loop) Tick(now time.Time) {
	before := l.ctrl.State()

	edge, ok := l.monitor.Poll(now)
	cur := l.sampleCursor()
	if ok {
		l.ctrl.Handle(edge, cur)
	}
	if l.ctrl.State().Visible() {
		l.ctrl.Move(cur)
	}

	if after := l.ctrl.State(); after != before && l.onState != nil {
		l.onState(after)
	}
}

func (l *Loop) sampleCursor() grid.Point {
	if l.cursor == nil {
		return l.lastCursor
	}
	p, err := l.cursor.Cursor()
	if err != nil {
		if !l.cursorFailing {
			log.Printf("Cursor query failed, reusing last position: %v", err)
			l.cursorFailing = true
		}
		return l.lastCursor
	}
	l.cursorFailing = false
	l.lastCursor = p
	return p
}

// Run polls on every tick until ctx is cancelled. A visible overlay is
// hidden on the way out.
func (l *Loop) Run(ctx context.Context) error {
	defer l.ticker.Stop()
	defer l.ctrl.Cancel()

	var reqCh chan singleinstance.Conn
	if l.srv != nil {
		pumpCtx, stop := context.WithCancel(ctx)
		reqCh = make(chan singleinstance.Conn, 4)
		go func() {
			defer close(reqCh)
			for {
				conn, err := l.srv.Next(pumpCtx)
				if err != nil {
					return
				}
				select {
				case reqCh <- conn:
				case <-pumpCtx.Done():
					conn.Close()
					return
				}
			}
		}()
		pending := reqCh
		defer func() {
			stop()
			for conn := range pending {
				conn.Close()
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-l.ticker.C():
			l.Tick(now)
		case conn, ok := <-reqCh:
			if !ok {
				reqCh = nil
				continue
			}
			l.handleConn(conn)
		}
	}
}

func (l *Loop) handleConn(conn singleinstance.Conn) {
	defer conn.Close()
	req := conn.Request()
	switch req.Verb {
	case singleinstance.VerbStatus:
		s := l.ctrl.Session()
		reply := fmt.Sprintf("state=%s commits=%d", s.State, s.Commits)
		if l.detail != nil {
			reply += " " + l.detail()
		}
		_ = conn.Respond(reply)
	case singleinstance.VerbHide:
		before := l.ctrl.State()
		l.ctrl.Cancel()
		if before != l.ctrl.State() && l.onState != nil {
			l.onState(l.ctrl.State())
		}
		_ = conn.Respond("hidden")
	case singleinstance.VerbQuit:
		_ = conn.Respond("bye")
		if l.onQuit != nil {
			l.onQuit()
		}
	default:
		_ = conn.RespondError(fmt.Sprintf("unknown request %q", req.Verb))
	}
}

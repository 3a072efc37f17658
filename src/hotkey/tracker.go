package hotkey

import (
	"errors"
	"log"
	"sync"

	gohook "github.com/robotn/gohook"

	"anchor-grid/src/grid"
)

var errHookClosed = errors.New("global key hook stopped")

// Tracker maintains held state for the trigger and modifier from global
// hook events so the poll loop can ask for key state instead of reacting
// to callbacks. State is kept per configured key, not per raw code: X11
// reports a different keysym on release when Shift changed in between.
type Tracker struct {
	trigger  Key
	modifier Key

	mu           sync.Mutex
	triggerDown  bool
	modifierDown bool
	cursor   grid.Point
	hasMouse bool
	closed   bool
}

func NewTracker(trigger, modifier Key) *Tracker {
	return &Tracker{trigger: trigger, modifier: modifier}
}

// Start begins consuming global hook events on a background goroutine.
func (t *Tracker) Start() error {
	evChan := gohook.Start()
	if evChan == nil {
		return errors.New("gohook.Start() returned nil channel")
	}
	log.Printf("Key tracker started for %s+%s", t.modifier.Name, t.trigger.Name)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in key tracker goroutine: %v", r)
			}
			t.mu.Lock()
			t.closed = true
			t.mu.Unlock()
		}()
		for ev := range evChan {
			t.handle(ev)
		}
		log.Printf("Event channel closed")
	}()
	return nil
}

// Stop ends the global hook.
func (t *Tracker) Stop() { gohook.End() }

func (t *Tracker) handle(ev gohook.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch ev.Kind {
	case gohook.KeyDown, gohook.KeyHold:
		if t.trigger.Matches(ev.Rawcode) {
			t.triggerDown = true
		}
		if t.modifier.Matches(ev.Rawcode) {
			t.modifierDown = true
		}
	case gohook.KeyUp:
		if t.trigger.Matches(ev.Rawcode) {
			t.triggerDown = false
		}
		if t.modifier.Matches(ev.Rawcode) {
			t.modifierDown = false
		}
	case gohook.MouseMove, gohook.MouseDrag:
		t.cursor = grid.Point{X: int(ev.X), Y: int(ev.Y)}
		t.hasMouse = true
	}
}

func (t *Tracker) held(down *bool) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return false, errHookClosed
	}
	return *down, nil
}

func (t *Tracker) TriggerHeld() (bool, error) { return t.held(&t.triggerDown) }
func (t *Tracker) ModifierHeld() (bool, error) { return t.held(&t.modifierDown) }

// LastMouse returns the last pointer position seen by the hook.
func (t *Tracker) LastMouse() (grid.Point, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cursor, t.hasMouse
}

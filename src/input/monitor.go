package input

import (
	"log"
	"time"
)

// KeyQuery reports the instantaneous state of the two keys the monitor
// watches. Implementations may fail; a failed query counts as not held.
type KeyQuery interface {
	TriggerHeld() (bool, error)
	ModifierHeld() (bool, error)
}

// KeySample is one observation of the key state.
type KeySample struct {
	TriggerHeld  bool
	ModifierHeld bool
	At           time.Time
}

// Edge is a transition synthesized from two consecutive samples.
type Edge int

const (
	TriggerDown Edge = iota + 1
	TriggerUp
	ModifierComboDown
)

func (e Edge) String() string {
	switch e {
	case TriggerDown:
		return "TriggerDown"
	case TriggerUp:
		return "TriggerUp"
	case ModifierComboDown:
		return "ModifierComboDown"
	default:
		return "Edge(?)"
	}
}

// DefaultInterval is the polling cadence used when none is configured.
const DefaultInterval = 50 * time.Millisecond

// Monitor turns periodic key samples into edges. It is not safe for
// concurrent use; the owning poll loop calls Poll once per tick.
type Monitor struct {
	q    KeyQuery
	prev KeySample

	// disarmed suppresses rising edges after a failed query until a clean
	// sample with the trigger released has been seen.
	disarmed bool
	failing  bool
}

func NewMonitor(q KeyQuery) *Monitor {
	return &Monitor{q: q}
}

// Last returns the most recent sample.
func (m *Monitor) Last() KeySample { return m.prev }

// Poll samples the keys and returns the edge, if any, between the previous
// sample and this one. At most one edge is produced per call.
func (m *Monitor) Poll(now time.Time) (Edge, bool) {
	cur, failed := m.sample(now)
	prev := m.prev
	m.prev = cur

	if failed {
		m.disarmed = true
	} else if !cur.TriggerHeld {
		m.disarmed = false
	}

	combo := cur.TriggerHeld && cur.ModifierHeld
	prevCombo := prev.TriggerHeld && prev.ModifierHeld

	switch {
	case combo && !prevCombo:
		if m.disarmed {
			return 0, false
		}
		return ModifierComboDown, true
	case cur.TriggerHeld && !prev.TriggerHeld && !cur.ModifierHeld:
		if m.disarmed {
			return 0, false
		}
		return TriggerDown, true
	case !cur.TriggerHeld && prev.TriggerHeld:
		return TriggerUp, true
	}
	return 0, false
}

func (m *Monitor) sample(now time.Time) (KeySample, bool) {
	s := KeySample{At: now}
	var errs []error

	held, err := m.q.TriggerHeld()
	if err != nil {
		errs = append(errs, err)
	} else {
		s.TriggerHeld = held
	}
	held, err = m.q.ModifierHeld()
	if err != nil {
		errs = append(errs, err)
	} else {
		s.ModifierHeld = held
	}

	if len(errs) > 0 {
		if !m.failing {
			log.Printf("Key state query failed, treating keys as released: %v", errs[0])
			m.failing = true
		}
		return s, true
	}
	if m.failing {
		log.Printf("Key state query recovered")
		m.failing = false
	}
	return s, false
}

package hotkey

import (
	"fmt"

	"anchor-grid/src/grid"
	"anchor-grid/src/input"
)

// Source bundles the platform key state and pointer queries used by the
// host loop.
type Source struct {
	Keys   input.KeyQuery
	Cursor interface {
		Cursor() (grid.Point, error)
	}
	close func()
}

func (s *Source) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open resolves the configured key names and starts the platform backend.
func Open(triggerName, modifierName string) (*Source, error) {
	trigger, err := ParseKey(triggerName)
	if err != nil {
		return nil, fmt.Errorf("trigger key: %w", err)
	}
	modifier, err := ParseKey(modifierName)
	if err != nil {
		return nil, fmt.Errorf("modifier key: %w", err)
	}
	return openPlatform(trigger, modifier)
}

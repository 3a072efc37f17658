package channel

import (
	"log"
	"time"
)

// Codec converts slot values to and from their one-line wire form.
type Codec[T any] struct {
	Encode func(T) (string, error)
	Decode func(string) (T, error)
}

// Cell is a typed view of a Slot. Overwrite-wins and clear-before-act are
// inherited from the slot; the cell adds encoding and drops malformed text.
type Cell[T any] struct {
	slot  *Slot
	codec Codec[T]
}

func NewCell[T any](slot *Slot, codec Codec[T]) *Cell[T] {
	return &Cell[T]{slot: slot, codec: codec}
}

func (c *Cell[T]) Slot() *Slot { return c.slot }

// Put encodes v and overwrites the slot.
func (c *Cell[T]) Put(v T) error {
	line, err := c.codec.Encode(v)
	if err != nil {
		return err
	}
	return c.slot.Write(line)
}

// Take consumes the slot. ok is false when it was empty, unreadable or
// held text that does not decode.
func (c *Cell[T]) Take() (v T, ok bool) {
	line, present := c.slot.TakeIfPresent()
	if !present {
		return v, false
	}
	v, err := c.codec.Decode(line)
	if err != nil {
		log.Printf("Discarding malformed %s value %q: %v", c.slot.name, line, err)
		return v, false
	}
	return v, true
}

// Load reads the slot without consuming it. present is false for an empty,
// missing, unreadable or malformed slot.
func (c *Cell[T]) Load() (v T, modTime time.Time, present bool) {
	line, mod, err := c.slot.Peek()
	if err != nil || line == "" {
		return v, mod, false
	}
	v, err = c.codec.Decode(line)
	if err != nil {
		return v, mod, false
	}
	return v, mod, true
}

package channel

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"anchor-grid/src/atomicfile"
)

// Slot is a single-line file shared between two processes. Writes replace
// the whole file; there is no queue, so the last write wins.
type Slot struct {
	name    string
	path    string
	version uint64
	failing bool
}

func NewSlot(name, path string) *Slot {
	return &Slot{name: name, path: path}
}

func (s *Slot) Path() string { return s.path }

// Version counts successful writes made through this Slot value.
func (s *Slot) Version() uint64 { return s.version }

// Write replaces the slot contents with line.
func (s *Slot) Write(line string) error {
	if err := atomicfile.WriteFile(s.path, []byte(line), 0); err != nil {
		s.fail("write", err)
		return err
	}
	s.healed()
	s.version++
	return nil
}

// Peek returns the current line and the file modification time without
// consuming it. A missing file reads as an empty line.
func (s *Slot) Peek() (string, time.Time, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.healed()
		return "", time.Time{}, nil
	}
	if err != nil {
		s.fail("read", err)
		return "", time.Time{}, err
	}
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", time.Time{}, nil
		}
		s.fail("stat", err)
		return "", time.Time{}, err
	}
	s.healed()
	return strings.TrimSpace(string(data)), info.ModTime(), nil
}

// TakeIfPresent consumes the slot. The file is moved aside before it is
// read, so the value is cleared before the caller acts on it and a write
// racing with the take lands in a fresh file instead of being lost.
func (s *Slot) TakeIfPresent() (string, bool) {
	taken := s.path + ".take"
	if err := os.Rename(s.path, taken); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.healed()
			return "", false
		}
		s.fail("take", err)
		return "", false
	}
	data, err := os.ReadFile(taken)
	_ = os.Remove(taken)
	if err != nil {
		s.fail("read", err)
		return "", false
	}
	s.healed()
	line := strings.TrimSpace(string(data))
	return line, line != ""
}

// Clear empties the slot.
func (s *Slot) Clear() error {
	if err := atomicfile.Remove(s.path); err != nil {
		s.fail("clear", err)
		return err
	}
	return nil
}

// fail logs the first error of a run; later ones stay quiet until the slot
// works again.
func (s *Slot) fail(op string, err error) {
	if s.failing {
		return
	}
	s.failing = true
	log.Printf("ERROR: %s slot %s failed: %v", s.name, op, err)
}

func (s *Slot) healed() {
	if s.failing {
		log.Printf("%s slot recovered", s.name)
		s.failing = false
	}
}

func (s *Slot) String() string { return fmt.Sprintf("%s(%s)", s.name, s.path) }

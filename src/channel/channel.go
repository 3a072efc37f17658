// Package channel carries overlay commands from the resident host to the
// grid surface and hover state back, through two one-line files in a shared
// directory. Each file has a single writer; no locking is involved.
package channel

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"anchor-grid/src/grid"
)

const (
	CommandFile = "command"
	StateFile   = "state"

	// DirName is the folder created under the user config directory when no
	// explicit directory is configured.
	DirName = "AnchorGrid"
)

// ErrDisabled is returned by operations on a channel whose directory could
// not be created.
var ErrDisabled = errors.New("channel disabled")

// HoverSnapshot is the remote surface's last published hover and when it
// was written.
type HoverSnapshot struct {
	Result     grid.HitResult
	ProducedAt time.Time
}

// Channel is one side's handle on the shared directory.
type Channel struct {
	dir      string
	disabled bool

	cmd   *Cell[Command]
	hover *Cell[grid.HitResult]

	lastHover grid.HitResult
	published bool
}

// DefaultDir returns <UserConfigDir>/AnchorGrid.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, DirName), nil
}

// Open creates dir if needed and returns a channel on it. When the
// directory cannot be created the failure is logged and the channel is
// returned disabled: every operation becomes a no-op.
func Open(dir string) *Channel {
	c := &Channel{dir: dir}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("ERROR: cannot create channel directory %s, cross-process sync disabled: %v", dir, err)
		c.disabled = true
		return c
	}
	c.cmd = NewCell(NewSlot("command", filepath.Join(dir, CommandFile)), commandCodec)
	c.hover = NewCell(NewSlot("state", filepath.Join(dir, StateFile)), hoverCodec)
	return c
}

func (c *Channel) Dir() string { return c.dir }
func (c *Channel) Disabled() bool { return c.disabled }

// Send overwrites any unread command.
func (c *Channel) Send(cmd Command) error {
	if c.disabled {
		return ErrDisabled
	}
	return c.cmd.Put(cmd)
}

// Poll takes the pending command, if any. The slot is empty when Poll
// returns, whether or not the command decoded.
func (c *Channel) Poll() (Command, bool) {
	if c.disabled {
		return Command{}, false
	}
	return c.cmd.Take()
}

// PendingCommand reports the unread command without consuming it.
func (c *Channel) PendingCommand() (Command, bool) {
	if c.disabled {
		return Command{}, false
	}
	cmd, _, ok := c.cmd.Load()
	return cmd, ok
}

// PublishHover writes r to the state slot when it differs from the last
// value this channel published.
func (c *Channel) PublishHover(r grid.HitResult) error {
	if c.disabled {
		return ErrDisabled
	}
	if c.published && r == c.lastHover {
		return nil
	}
	if err := c.hover.Put(r); err != nil {
		return err
	}
	c.lastHover = r
	c.published = true
	return nil
}

// HoverVersion counts hover writes made through this channel.
func (c *Channel) HoverVersion() uint64 {
	if c.disabled {
		return 0
	}
	return c.hover.Slot().Version()
}

// ReadHover returns the remote hover. A missing, unreadable or malformed
// state file reads as None with a zero timestamp.
func (c *Channel) ReadHover() HoverSnapshot {
	if c.disabled {
		return HoverSnapshot{}
	}
	r, mod, ok := c.hover.Load()
	if !ok {
		return HoverSnapshot{Result: grid.None(), ProducedAt: mod}
	}
	return HoverSnapshot{Result: r, ProducedAt: mod}
}

// RemoteActive reports whether the surface has published hover state within
// maxAge of now.
func (c *Channel) RemoteActive(now time.Time, maxAge time.Duration) bool {
	if c.disabled {
		return false
	}
	_, mod, err := c.hover.Slot().Peek()
	if err != nil || mod.IsZero() {
		return false
	}
	return now.Sub(mod) < maxAge
}

// KeepAlive rewrites the last published hover once the state file is older
// than every, so RemoteActive holds while the pointer is idle.
func (c *Channel) KeepAlive(now time.Time, every time.Duration) error {
	if c.disabled || !c.published {
		return nil
	}
	_, mod, err := c.hover.Slot().Peek()
	if err == nil && !mod.IsZero() && now.Sub(mod) < every {
		return nil
	}
	return c.hover.Put(c.lastHover)
}

// Reset clears both slots. The surface calls it on startup so a stale
// command from an earlier run is not replayed.
func (c *Channel) Reset() error {
	if c.disabled {
		return ErrDisabled
	}
	c.published = false
	return errors.Join(c.cmd.Slot().Clear(), c.hover.Slot().Clear())
}

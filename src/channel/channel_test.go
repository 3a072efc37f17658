package channel

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"anchor-grid/src/grid"
)

func openTemp(t *testing.T) *Channel {
	t.Helper()
	c := Open(filepath.Join(t.TempDir(), "ipc"))
	if c.Disabled() {
		t.Fatal("Open() returned a disabled channel")
	}
	return c
}

func TestSendOverwritesUnreadCommand(t *testing.T) {
	c := openTemp(t)

	if err := c.Send(Show()); err != nil {
		t.Fatalf("Send(show) error: %v", err)
	}
	if err := c.Send(Apply(grid.Cell(1, 2))); err != nil {
		t.Fatalf("Send(apply) error: %v", err)
	}

	got, ok := c.Poll()
	if !ok {
		t.Fatal("Poll() found no command")
	}
	if want := Apply(grid.Cell(1, 2)); got != want {
		t.Errorf("Poll() = %v, expected %v", got, want)
	}
	if got, ok := c.Poll(); ok {
		t.Errorf("second Poll() = %v, expected empty slot", got)
	}
}

func TestPollClearsBeforeReturning(t *testing.T) {
	c := openTemp(t)
	if err := c.Send(Toggle()); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Poll(); !ok {
		t.Fatal("Poll() found no command")
	}
	if _, ok := c.PendingCommand(); ok {
		t.Error("command still pending after Poll()")
	}
	if _, err := os.Stat(filepath.Join(c.Dir(), CommandFile+".take")); !os.IsNotExist(err) {
		t.Error("take file left behind")
	}
}

func TestPollMissingAndMalformed(t *testing.T) {
	c := openTemp(t)
	if _, ok := c.Poll(); ok {
		t.Error("Poll() on missing file reported a command")
	}

	path := filepath.Join(c.Dir(), CommandFile)
	for _, bad := range []string{"jump", "apply:", "apply:1", "apply:a,b", "apply:aux:nope", "apply:-1,0"} {
		if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
			t.Fatal(err)
		}
		if got, ok := c.Poll(); ok {
			t.Errorf("Poll() of %q = %v, expected it discarded", bad, got)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("malformed %q was not cleared", bad)
		}
	}
}

func TestPollAcceptsHandWrittenCommand(t *testing.T) {
	c := openTemp(t)
	path := filepath.Join(c.Dir(), CommandFile)
	if err := os.WriteFile(path, []byte("apply:aux:custom2\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, ok := c.Poll()
	if !ok || got != Apply(grid.Aux(grid.OptCustom2)) {
		t.Errorf("Poll() = %v, %v, expected apply:aux:custom2", got, ok)
	}
}

func TestPublishHoverOnlyOnChange(t *testing.T) {
	c := openTemp(t)

	seq := []grid.HitResult{grid.None(), grid.None(), grid.Cell(0, 0), grid.Cell(0, 0), grid.Aux(grid.OptCopy), grid.None()}
	for _, r := range seq {
		if err := c.PublishHover(r); err != nil {
			t.Fatalf("PublishHover(%v) error: %v", r, err)
		}
	}
	if v := c.HoverVersion(); v != 4 {
		t.Errorf("HoverVersion() = %d, expected 4 writes", v)
	}
	if got := c.ReadHover().Result; got != grid.None() {
		t.Errorf("ReadHover() = %v, expected none", got)
	}
}

func TestReadHover(t *testing.T) {
	host := openTemp(t)
	if snap := host.ReadHover(); snap.Result != grid.None() || !snap.ProducedAt.IsZero() {
		t.Errorf("ReadHover() with no state file = %+v", snap)
	}

	surface := Open(host.Dir())
	before := time.Now().Add(-time.Second)
	if err := surface.PublishHover(grid.Cell(2, 1)); err != nil {
		t.Fatal(err)
	}
	snap := host.ReadHover()
	if snap.Result != grid.Cell(2, 1) {
		t.Errorf("ReadHover().Result = %v, expected cell(2,1)", snap.Result)
	}
	if snap.ProducedAt.Before(before) {
		t.Errorf("ReadHover().ProducedAt = %v, expected a recent time", snap.ProducedAt)
	}

	path := filepath.Join(host.Dir(), StateFile)
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := host.ReadHover().Result; got != grid.None() {
		t.Errorf("ReadHover() of malformed state = %v, expected none", got)
	}
}

func TestRemoteActive(t *testing.T) {
	c := openTemp(t)
	now := time.Now()
	if c.RemoteActive(now, 5*time.Second) {
		t.Error("RemoteActive() with no state file")
	}
	if err := c.PublishHover(grid.None()); err != nil {
		t.Fatal(err)
	}
	if !c.RemoteActive(time.Now(), 5*time.Second) {
		t.Error("RemoteActive() right after publishing = false")
	}
	if c.RemoteActive(time.Now().Add(time.Minute), 5*time.Second) {
		t.Error("RemoteActive() a minute later = true")
	}
}

func TestDisabledChannel(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	c := Open(filepath.Join(file, "ipc"))
	if !c.Disabled() {
		t.Fatal("Open() under a regular file should be disabled")
	}
	if err := c.Send(Show()); err != ErrDisabled {
		t.Errorf("Send() error = %v, expected ErrDisabled", err)
	}
	if _, ok := c.Poll(); ok {
		t.Error("Poll() on disabled channel reported a command")
	}
	if err := c.PublishHover(grid.Cell(0, 0)); err != ErrDisabled {
		t.Errorf("PublishHover() error = %v, expected ErrDisabled", err)
	}
	if snap := c.ReadHover(); snap.Result != grid.None() {
		t.Errorf("ReadHover() = %v, expected none", snap.Result)
	}
}

func TestReset(t *testing.T) {
	c := openTemp(t)
	_ = c.Send(Show())
	_ = c.PublishHover(grid.Cell(1, 1))
	if err := c.Reset(); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}
	if _, ok := c.PendingCommand(); ok {
		t.Error("command survived Reset()")
	}
	if got := c.ReadHover().Result; got != grid.None() {
		t.Errorf("hover after Reset() = %v", got)
	}
	if err := c.PublishHover(grid.Cell(1, 1)); err != nil {
		t.Fatal(err)
	}
	if got := c.ReadHover().Result; got != grid.Cell(1, 1) {
		t.Errorf("same hover after Reset() not republished, got %v", got)
	}
}

func TestKeepAlive(t *testing.T) {
	c := openTemp(t)
	if err := c.KeepAlive(time.Now(), time.Second); err != nil {
		t.Fatalf("KeepAlive() before any publish error: %v", err)
	}
	if v := c.HoverVersion(); v != 0 {
		t.Fatalf("KeepAlive() wrote before a hover was published, version %d", v)
	}

	_ = c.PublishHover(grid.Cell(2, 1))
	if err := c.KeepAlive(time.Now(), time.Minute); err != nil {
		t.Fatal(err)
	}
	if v := c.HoverVersion(); v != 1 {
		t.Errorf("KeepAlive() on a fresh file rewrote it, version %d", v)
	}

	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(filepath.Join(c.Dir(), StateFile), old, old); err != nil {
		t.Fatal(err)
	}
	if c.RemoteActive(time.Now(), time.Minute) {
		t.Fatal("RemoteActive() on an hour-old file")
	}
	if err := c.KeepAlive(time.Now(), time.Minute); err != nil {
		t.Fatal(err)
	}
	if v := c.HoverVersion(); v != 2 {
		t.Errorf("KeepAlive() on a stale file did not rewrite, version %d", v)
	}
	if !c.RemoteActive(time.Now(), time.Minute) {
		t.Error("RemoteActive() after KeepAlive() = false")
	}
	if got := c.ReadHover().Result; got != grid.Cell(2, 1) {
		t.Errorf("KeepAlive() changed the hover to %v", got)
	}
}

package eventloop

import "time"

// Ticker is the cadence source for a poll loop.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct{ t *time.Ticker }

// NewTicker returns a Ticker backed by time.Ticker.
func NewTicker(d time.Duration) Ticker { return realTicker{t: time.NewTicker(d)} }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop() { r.t.Stop() }

// ManualTicker delivers ticks only when Tick is called. Tick blocks until
// the loop receives the value.
type ManualTicker struct {
	ch chan time.Time
}

func NewManualTicker() *ManualTicker { return &ManualTicker{ch: make(chan time.Time)} }

func (m *ManualTicker) C() <-chan time.Time { return m.ch }
func (m *ManualTicker) Stop() {}

func (m *ManualTicker) Tick(now time.Time) { m.ch <- now }

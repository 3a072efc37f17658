// Package tray shows the host's overlay state in the system tray and offers
// a Quit item.
package tray

import (
	"fmt"
	"log"

	"github.com/getlantern/systray"

	"anchor-grid/src/overlay"
)

const title = "Anchor Grid"

type Tray struct {
	onQuit func()
	ready  chan struct{}
	status *systray.MenuItem
}

func New(onQuit func()) *Tray {
	return &Tray{onQuit: onQuit, ready: make(chan struct{})}
}

// Run blocks until Quit is called or the Quit item is chosen. It must run
// on the main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() { log.Printf("Tray closed") })
}

// Quit closes the tray, making Run return.
func (t *Tray) Quit() { systray.Quit() }

func (t *Tray) onReady() {
	if icon, err := Icon(); err != nil {
		log.Printf("WARNING: tray icon unavailable: %v", err)
	} else {
		systray.SetIcon(icon)
	}
	systray.SetTitle(title)
	systray.SetTooltip(tooltip(overlay.Hidden))

	t.status = systray.AddMenuItem(statusLabel(overlay.Hidden), "Overlay state")
	t.status.Disable()
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Stop the anchor grid host")
	close(t.ready)

	go func() {
		<-mQuit.ClickedCh
		log.Printf("Quit selected from tray")
		if t.onQuit != nil {
			t.onQuit()
		}
	}()
}

// SetState updates the tooltip and status item. Calls made before the tray
// is ready are dropped.
func (t *Tray) SetState(s overlay.State) {
	select {
	case <-t.ready:
	default:
		return
	}
	systray.SetTooltip(tooltip(s))
	t.status.SetTitle(statusLabel(s))
}

func tooltip(s overlay.State) string {
	return fmt.Sprintf("%s (%s)", title, s)
}

func statusLabel(s overlay.State) string {
	return "Overlay: " + s.String()
}

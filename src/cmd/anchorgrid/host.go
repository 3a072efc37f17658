package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"anchor-grid/src/channel"
	"anchor-grid/src/config"
	"anchor-grid/src/display"
	"anchor-grid/src/eventloop"
	"anchor-grid/src/hotkey"
	"anchor-grid/src/input"
	"anchor-grid/src/layers"
	"anchor-grid/src/overlay"
	"anchor-grid/src/singleinstance"
	"anchor-grid/src/surface"
	"anchor-grid/src/tray"
)

func newHostCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "host",
		Short: "Run the resident key watcher that drives the grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			defer setupLogging(opts, cfg.EnableFileLogging, cfg.LogFile)()
			return runHost(cmd.Context(), cfg)
		},
	}
}

func runHost(ctx context.Context, cfg *config.Config) error {
	enableDPIAwareness()

	g := cfg.Grid()
	if err := g.Validate(); err != nil {
		return fmt.Errorf("invalid grid settings: %w", err)
	}

	srv := singleinstance.NewServer(cfg.SingleInstancePort)
	if err := srv.Start(ctx); err != nil {
		if errors.Is(err, singleinstance.ErrAlreadyRunning) {
			msg := fmt.Sprintf("Anchor Grid is already running on port %d", cfg.SingleInstancePort)
			if cfg.EnableTray {
				tray.ShowMessage("Anchor Grid", msg)
			}
			return errors.New(msg)
		}
		return err
	}
	defer srv.Close()

	ch, err := openChannel(cfg)
	if err != nil {
		return err
	}
	src, err := hotkey.Open(cfg.TriggerKey, cfg.ModifierKey)
	if err != nil {
		return err
	}
	defer src.Close()
	log.Printf("Host started: trigger=%s modifier=%s grid=%dx%d channel=%s",
		cfg.TriggerKey, cfg.ModifierKey, g.Cols, g.Rows, ch.Dir())

	ctrl := overlay.NewController(g, ch)
	ctrl.SetPlacer(display.NewPlacer())
	ctrl.SetGate(selectionGate(cfg.LayersFile))

	loop := eventloop.New(input.NewMonitor(src.Keys), ctrl, src.Cursor, eventloop.NewTicker(cfg.PollInterval))
	loop.SetServer(srv)
	loop.StatusDetail(func() string { return surfaceDetail(ch, time.Now()) })

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	loop.OnQuit(cancel)

	var t *tray.Tray
	if cfg.EnableTray {
		t = tray.New(cancel)
		loop.OnStateChange(t.SetState)
	}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error { return loop.Run(gctx) })
	if t != nil {
		group.Go(func() error {
			<-gctx.Done()
			t.Quit()
			return nil
		})
		t.Run()
		cancel()
	}

	err = group.Wait()
	log.Printf("Host stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// selectionGate keeps the grid closed while the layer document has nothing
// selected. An unreadable document does not block it; the surface reports
// that when it applies.
func selectionGate(path string) overlay.Gate {
	return overlay.GateFunc(func() bool {
		doc, err := layers.Load(path)
		if err != nil {
			log.Printf("Layer document unavailable, opening grid anyway: %v", err)
			return true
		}
		if len(doc.Selected()) == 0 {
			log.Printf("No layers selected in %s, grid not shown", path)
			return false
		}
		return true
	})
}

func surfaceDetail(ch *channel.Channel, now time.Time) string {
	if ch.RemoteActive(now, 3*surface.KeepAliveEvery) {
		return "surface=active"
	}
	return "surface=idle"
}

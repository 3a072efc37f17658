package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"anchor-grid/src/clipboard"
	"anchor-grid/src/config"
	"anchor-grid/src/eventloop"
	"anchor-grid/src/surface"
)

func newSurfaceCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "surface",
		Short: "Show the grid in this terminal and apply picks to the layer document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			// The terminal belongs to the grid, so logs only ever go to a file.
			defer setupLogging(&rootOptions{}, cfg.EnableFileLogging || opts.verbose, surfaceLogPath(cfg.LogFile))()
			return runSurface(cmd.Context(), cfg)
		},
	}
}

// surfaceLogPath keeps the surface from rotating the host's log file.
func surfaceLogPath(hostLog string) string {
	ext := filepath.Ext(hostLog)
	return strings.TrimSuffix(hostLog, ext) + "_surface" + ext
}

func runSurface(ctx context.Context, cfg *config.Config) error {
	ch, err := openChannel(cfg)
	if err != nil {
		return err
	}
	if ch.Disabled() {
		log.Printf("WARNING: surface running without a channel; commands from the host will not arrive")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	modes := surface.Modes{CompMode: cfg.UseCompMode, MaskMode: cfg.UseMaskRecognition}
	a := surface.NewApplier(cfg.LayersFile, cfg.Grid(), cfg.CustomAnchor, clipboard.System{}, modes)
	s := surface.New(screen, ch, a, surface.TerminalGrid(cfg.GridCols, cfg.GridRows), eventloop.NewTicker(cfg.PollInterval))

	log.Printf("Surface started: layers=%s channel=%s", cfg.LayersFile, ch.Dir())
	err = s.Run(ctx)
	log.Printf("Surface stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"anchor-grid/src/channel"
	"anchor-grid/src/clipboard"
	"anchor-grid/src/config"
	"anchor-grid/src/logutil"
	"anchor-grid/src/singleinstance"
	"anchor-grid/src/surface"
)

const queryTimeout = 3 * time.Second

type rootOptions struct {
	envFile    string
	ipcDir     string
	layersFile string
	port       int
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := runWithArgs(ctx, os.Args, os.Stdout)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runWithArgs(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		args = []string{"anchorgrid"}
	}
	cmd := newRootCmd(&rootOptions{})
	cmd.SetArgs(args[1:])
	cmd.SetOut(out)
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "anchorgrid",
		Short:         "Hold-to-pick anchor point grid for layer transforms",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.envFile, "env", "", "Path to .env file (overrides the one beside the executable)")
	flags.StringVar(&opts.ipcDir, "ipc-dir", "", "Directory shared with the grid surface")
	flags.StringVar(&opts.layersFile, "layers", "", "Layer document the surface edits")
	flags.IntVar(&opts.port, "port", 0, "Single-instance port (0 uses SINGLEINSTANCE_PORT)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr")

	cmd.AddCommand(
		newHostCmd(opts),
		newSurfaceCmd(opts),
		newSendCmd(opts),
		newHoverCmd(opts),
		newApplyCmd(opts),
		newQueryCmd(opts, "status", "Show the resident host's overlay state", singleinstance.VerbStatus),
		newQueryCmd(opts, "hide", "Hide the resident host's overlay", singleinstance.VerbHide),
		newQueryCmd(opts, "quit", "Stop the resident host", singleinstance.VerbQuit),
	)
	return cmd
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		EnvFileOverride:    opts.envFile,
		IPCDirOverride:     opts.ipcDir,
		LayersFileOverride: opts.layersFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.port != 0 {
		cfg.SingleInstancePort = singleinstance.ResolvePort(opts.port)
	}
	return cfg, nil
}

// setupLogging sends logs to stderr in verbose mode and otherwise follows
// the file logging settings.
func setupLogging(opts *rootOptions, enableFile bool, path string) func() {
	if opts.verbose {
		logutil.SetupWriter(os.Stderr)
		return func() {}
	}
	return logutil.Setup(enableFile, path)
}

func openChannel(cfg *config.Config) (*channel.Channel, error) {
	dir := cfg.IPCDir
	if dir == "" {
		var err error
		if dir, err = channel.DefaultDir(); err != nil {
			return nil, err
		}
	}
	return channel.Open(dir), nil
}

func openEnabledChannel(cfg *config.Config) (*channel.Channel, error) {
	ch, err := openChannel(cfg)
	if err != nil {
		return nil, err
	}
	if ch.Disabled() {
		return nil, fmt.Errorf("channel directory %s is not usable", ch.Dir())
	}
	return ch, nil
}

func newSendCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "send <show|hide|toggle|apply:x,y|apply:aux:option>",
		Short: "Write a command for the grid surface",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := channel.ParseCommand(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			defer setupLogging(opts, false, "")()
			ch, err := openEnabledChannel(cfg)
			if err != nil {
				return err
			}
			if err := ch.Send(c); err != nil {
				return fmt.Errorf("send %s: %w", c, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent %s\n", c)
			return nil
		},
	}
}

func newHoverCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hover",
		Short: "Print the selection the grid surface is hovering",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			defer setupLogging(opts, false, "")()
			ch, err := openEnabledChannel(cfg)
			if err != nil {
				return err
			}
			snap := ch.ReadHover()
			line, _ := channel.EncodeHover(snap.Result)
			if snap.ProducedAt.IsZero() {
				fmt.Fprintln(cmd.OutOrStdout(), line)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s ago)\n", line, time.Since(snap.ProducedAt).Round(time.Millisecond))
			return nil
		},
	}
}

func newApplyCmd(opts *rootOptions) *cobra.Command {
	var (
		ratio      string
		comp, mask bool
	)
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Move the anchor of the selected layers to a ratio of their bounds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := config.ParseRatio(ratio)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			defer setupLogging(opts, false, "")()
			modes := surface.Modes{
				CompMode: cfg.UseCompMode || comp,
				MaskMode: cfg.UseMaskRecognition || mask,
			}
			a := surface.NewApplier(cfg.LayersFile, cfg.Grid(), cfg.CustomAnchor, clipboard.System{}, modes)
			o, err := a.ApplyRatio(r)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), o)
			return nil
		},
	}
	cmd.Flags().StringVar(&ratio, "ratio", "", "Anchor ratio as rx,ry (0..1)")
	cmd.Flags().BoolVar(&comp, "comp", false, "Measure the ratio across the composition")
	cmd.Flags().BoolVar(&mask, "mask", false, "Use mask bounds where layers have masks")
	_ = cmd.MarkFlagRequired("ratio")
	return cmd
}

func newQueryCmd(opts *rootOptions, use, short, verb string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			defer setupLogging(opts, false, "")()
			ctx, cancel := context.WithTimeout(cmd.Context(), queryTimeout)
			defer cancel()
			reply, err := singleinstance.NewClient(cfg.SingleInstancePort).Query(ctx, verb)
			if errors.Is(err, singleinstance.ErrNotRunning) {
				return fmt.Errorf("no host running on port %d", cfg.SingleInstancePort)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(reply))
			return nil
		},
	}
}

// Command arbordemo animates a small arbor scene in the terminal or in a
// window. Actions come from a YAML script; see the script package.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	charmLog "github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/phanxgames/arbor"
	"github.com/phanxgames/arbor/ebitenrender"
	"github.com/phanxgames/arbor/script"
	"github.com/phanxgames/arbor/termrender"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// options holds the persistent flags shared by every subcommand.
type options struct {
	configPath string
	scriptPath string
	logLevel   string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "arbordemo",
		Short:         "Animate an arbor scene",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config TOML")
	root.PersistentFlags().StringVar(&opts.scriptPath, "script", "", "path to action script YAML (default: built-in)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug|info|warn|error)")

	root.AddCommand(newTermCmd(opts), newWindowCmd(opts), newListCmd(opts))
	return root
}

func newTermCmd(opts *options) *cobra.Command {
	var tps int
	cmd := &cobra.Command{
		Use:   "term",
		Short: "Run the demo in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, lib, logger, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("open terminal: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("init terminal: %w", err)
			}
			defer screen.Fini()
			screen.EnableMouse()

			scene, err := buildScene(cfg, lib, logger)
			if err != nil {
				return err
			}
			return termrender.Run(cmd.Context(), scene, screen, tps)
		},
	}
	cmd.Flags().IntVar(&tps, "tps", 30, "ticks per second")
	return cmd
}

func newWindowCmd(opts *options) *cobra.Command {
	var (
		width, height int
		showFPS       bool
	)
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Run the demo in a window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, lib, logger, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			scene, err := buildScene(cfg, lib, logger)
			if err != nil {
				return err
			}
			fitCamera(scene, width, height)
			return ebitenrender.Run(scene, ebitenrender.RunConfig{
				Title:      "arbor demo",
				Width:      width,
				Height:     height,
				ClearColor: arbor.Color{R: 0.08, G: 0.08, B: 0.12, A: 1},
				ShowFPS:    showFPS,
				OnClick: func(hit *arbor.Node, x, y float64) {
					if hit != nil {
						logger.Info("hit", "node", hit.Name(), "x", x, "y", y)
					}
				},
			})
		},
	}
	cmd.Flags().IntVar(&width, "width", 640, "window width")
	cmd.Flags().IntVar(&height, "height", 480, "window height")
	cmd.Flags().BoolVar(&showFPS, "fps", false, "show the FPS readout")
	return cmd
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the actions in the script",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, lib, _, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			for _, name := range lib.Names() {
				a, _ := lib.Get(name)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%gs\n", name, a.Duration())
			}
			return nil
		},
	}
}

// load reads the config and script and builds the logger.
func (o *options) load(stderr io.Writer) (arbor.Config, *script.Library, *charmLog.Logger, error) {
	cfg, err := arbor.LoadConfigFile(o.configPath)
	if err != nil {
		return arbor.Config{}, nil, nil, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	level, err := charmLog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return arbor.Config{}, nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logger := charmLog.NewWithOptions(stderr, charmLog.Options{
		Level:           level,
		Prefix:          "arbordemo",
		ReportTimestamp: true,
		Formatter:       charmLog.TextFormatter,
	})

	var lib *script.Library
	if o.scriptPath == "" {
		lib, err = script.Parse([]byte(defaultScript))
	} else {
		lib, err = script.Load(o.scriptPath)
	}
	if err != nil {
		return arbor.Config{}, nil, nil, err
	}
	logger.Debug("loaded", "config", o.configPath, "script", o.scriptPath, "actions", lib.Len())
	return cfg, lib, logger, nil
}

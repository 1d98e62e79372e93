package cmd

import (
	"fmt"
	"os"

	"inputcommands/input"
	"inputcommands/internal/commands"
	"inputcommands/internal/config"
	"inputcommands/internal/display"
	"inputcommands/internal/ui"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version = "1.0"

type globalFlags struct {
	config      string
	logLevel    string
	dryRun      bool
	boundsCheck bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "inputcommands",
		Short: "Drive the mouse and keyboard with line-oriented text commands",
		Long: `inputcommands reads one command per line from standard input and turns it
into synthetic mouse and keyboard input on this machine.

  SetMousePosition 100|200
  MouseLeftClick
  SendKeys Hello World
  Exit

Type Help for the full command list.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, g, config.Flags{})
			if err != nil {
				return err
			}
			ui.New(cmd.OutOrStdout()).Banner(version)

			opts := append([]commands.Option{commands.WithLogger(rt.logger)}, rt.opts...)
			interp := commands.New(rt.dev, cmd.OutOrStdout(), opts...)
			state, err := interp.Run(cmd.InOrStdin())
			rt.logger.WithField("state", state).Debug("command loop finished")
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.config, "config", "", "Config file (default: ~/.inputcommands/config.yaml)")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level for stderr diagnostics (debug, info, warn, error)")
	pf.BoolVar(&g.dryRun, "dry-run", false, "Log input events instead of injecting them")
	pf.BoolVar(&g.boundsCheck, "bounds-check", false, "Reject positions outside every active display")

	root.AddCommand(newServeCmd(g), newPeerCmd(g), newVersionCmd())
	return root
}

// env is what every subcommand needs once configuration is resolved.
type env struct {
	cfg    *config.Config
	logger *log.Logger
	dev    input.Device
	// opts are interpreter options derived from config; callers add
	// their own logger.
	opts []commands.Option
}

// setup merges the persistent flags into f, loads the configuration and
// builds the logger, device and interpreter options from it.
func setup(cmd *cobra.Command, g *globalFlags, f config.Flags) (*env, error) {
	f.ConfigPath = g.config
	f.LogLevel = g.logLevel
	if cmd.Flags().Changed("dry-run") {
		f.DryRun = &g.dryRun
	}
	if cmd.Flags().Changed("bounds-check") {
		f.BoundsCheck = &g.boundsCheck
	}

	cfg, err := config.Load(f)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	lvl, err := cfg.Level()
	if err != nil {
		return nil, err
	}

	logger := log.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetLevel(lvl)

	rt := &env{cfg: cfg, logger: logger}
	if cfg.DryRun {
		rt.dev = input.NewLogDevice(logger)
	} else {
		rt.dev = input.New()
	}
	if cfg.BoundsCheck {
		rt.opts = append(rt.opts, commands.WithBounds(display.NewChecker(nil).Contains))
	}
	return rt, nil
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"inputcommands/internal/config"
	"inputcommands/internal/peer"

	"github.com/spf13/cobra"
)

func newPeerCmd(g *globalFlags) *cobra.Command {
	var stun []string
	cmd := &cobra.Command{
		Use:   "peer",
		Short: "Accept commands over a WebRTC data channel",
		Long: `Reads a base64 SDP offer from standard input, prints the answer, then runs
every message on the "` + peer.ChannelLabel + `" data channel as a command line.
Exit closes the connection.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, g, config.Flags{STUN: stun})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return peer.Run(ctx, peer.Config{
				Device:  rt.dev,
				STUN:    rt.cfg.STUN,
				Logger:  rt.logger,
				Options: rt.opts,
				In:      cmd.InOrStdin(),
				Out:     cmd.OutOrStdout(),
			})
		},
	}
	cmd.Flags().StringSliceVar(&stun, "stun", nil, "STUN server URLs")
	return cmd
}

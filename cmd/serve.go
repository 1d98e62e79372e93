package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inputcommands/internal/config"
	"inputcommands/internal/server"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Accept commands over WebSocket",
		Long: `Serves the command loop over WebSocket at /ws. Every text message is one
command line and is answered with one message holding that command's output.
Exit ends only the session that sent it. A browser console is served at /.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, g, config.Flags{Listen: listen})
			if err != nil {
				return err
			}

			s := server.New(server.Config{
				Device:  rt.dev,
				Logger:  rt.logger,
				Options: rt.opts,
			})
			srv := &http.Server{Addr: rt.cfg.Listen, Handler: s.Handler()}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			grp, ctx := errgroup.WithContext(ctx)

			grp.Go(func() error {
				rt.logger.WithField("addr", rt.cfg.Listen).Info("http server started")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			grp.Go(func() error {
				<-ctx.Done()
				rt.logger.Info("shutting down server...")
				s.Close()
				sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(sctx)
			})
			return grp.Wait()
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default 127.0.0.1:8080)")
	return cmd
}

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/example/portplan/internal/core/tree"
	"github.com/example/portplan/internal/ports/primary"
	"github.com/example/portplan/internal/server"
	"github.com/example/portplan/internal/wire"
)

// ServeCmd returns the HTTP server command.
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the editor over HTTP and WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := wire.Config()
			if err != nil {
				return err
			}
			defer wire.Close()

			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = cfg.Server.Addr
			}
			autosave, _ := cmd.Flags().GetDuration("autosave")
			origins, _ := cmd.Flags().GetStringSlice("origin")

			fleet, err := wire.FleetService()
			if err != nil {
				return err
			}
			// Remote clients choose enumerated values with pick, so the
			// server session has no pickers.
			editor, err := wire.NewEditor(tree.Options{})
			if err != nil {
				return err
			}
			defer editor.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := wire.Logger()
			srv := server.New(editor, fleet, logger, server.WithOriginPatterns(origins...))
			return runServe(ctx, srv, editor, addr, autosave, logger)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default from config)")
	cmd.Flags().Duration("autosave", 0, "Save the fleet at this interval (0 disables)")
	cmd.Flags().StringSlice("origin", nil, "Extra browser origins allowed to open WebSocket sessions")
	return cmd
}

// runServe opens the fleet, then runs the server and the autosave loop
// until ctx ends or either fails.
func runServe(ctx context.Context, srv *server.Server, editor primary.EditorService, addr string, autosave time.Duration, logger zerolog.Logger) error {
	if _, err := editor.Open(ctx); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx, addr)
	})
	if autosave > 0 {
		g.Go(func() error {
			return autosaveLoop(ctx, editor, autosave, logger)
		})
	}
	return g.Wait()
}

// autosaveLoop saves on every tick and once more on shutdown. A failed save
// is logged and retried on the next tick.
func autosaveLoop(ctx context.Context, editor primary.EditorService, every time.Duration, logger zerolog.Logger) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if _, err := editor.Save(context.Background()); err != nil {
				logger.Error().Err(err).Msg("final autosave failed")
			}
			return nil
		case <-ticker.C:
			if _, err := editor.Save(ctx); err != nil {
				logger.Error().Err(err).Msg("autosave failed")
			}
		}
	}
}

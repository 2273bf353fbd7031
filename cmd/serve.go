package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yash-srivastava19/canopy/internal/server"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the project store over a JSON HTTP API",
		Long: `Expose saved projects to other tools.

  GET    /api/projects
  POST   /api/projects
  GET    /api/projects/{id}
  PUT    /api/projects/{id}
  DELETE /api/projects/{id}
  GET    /api/projects/{id}/export?format=json|markdown|svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.Server.Addr
			}
			gw, err := openGateway()
			if err != nil {
				return err
			}
			defer gw.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			Brand.Print("  canopy api ")
			Subtle.Printf("listening on http://%s (%s store)\n", addr, cfg.Store.Backend)
			err = server.ListenAndServe(ctx, addr, server.New(gw, cfg.Server.CORSOrigins))
			if errors.Is(err, http.ErrServerClosed) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}

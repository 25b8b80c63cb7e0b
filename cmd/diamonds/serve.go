package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		Long: `Loads the dataset once and serves the dashboard page, its JSON APIs,
chart images and exports until interrupted.

Example:
  diamonds serve --data data/diamonds.csv --addr :8050`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	return cmd
}

func (a *app) serve(ctx context.Context, addr string) error {
	ds, err := a.load()
	if err != nil {
		return err
	}

	cfg := a.cfg.Server
	if addr != "" {
		cfg.Addr = addr
	}
	srv, err := server.New(cfg, ds, a.logger,
		server.WithEngineOptions(a.cfg.EngineOptions()...),
		server.WithColumns(a.cfg.Dashboard.RangeColumn, a.cfg.Dashboard.CategoryColumn),
	)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

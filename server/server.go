// Package server exposes the dashboard over HTTP: the page, JSON APIs for
// every control change, rendered chart images and data exports.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/config"
	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/dataset"
	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/engine"
	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/render"
	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/schema"
)

//go:embed templates/index.html
var templates embed.FS

// Server serves one immutable dataset. Handlers share it without locking.
type Server struct {
	cfg    config.Server
	ds     *dataset.Dataset
	logger *zap.Logger

	engineOpts     []engine.Option
	rangeColumn    string
	categoryColumn string

	controls schema.Controls
	size     render.Size
	page     *template.Template
	metrics  *metrics
	handler  http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithEngineOptions passes options to every engine call.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(s *Server) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// WithColumns sets the range and category control columns.
func WithColumns(rangeColumn, categoryColumn string) Option {
	return func(s *Server) {
		if rangeColumn != "" {
			s.rangeColumn = rangeColumn
		}
		if categoryColumn != "" {
			s.categoryColumn = categoryColumn
		}
	}
}

// New builds a Server over ds. The control metadata is derived once here.
func New(cfg config.Server, ds *dataset.Dataset, logger *zap.Logger, opts ...Option) (*Server, error) {
	if ds == nil {
		return nil, engine.ErrNoData
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		cfg:            cfg,
		ds:             ds,
		logger:         logger,
		rangeColumn:    engine.DefaultRangeColumn,
		categoryColumn: engine.DefaultCategoryColumn,
		size:           render.Size{Width: cfg.ChartWidth, Height: cfg.ChartHeight},
	}
	for _, opt := range opts {
		opt(s)
	}
	// The range and category columns must agree between the controls and the
	// engine filter.
	s.engineOpts = append(s.engineOpts,
		engine.WithRangeColumn(s.rangeColumn),
		engine.WithCategoryColumn(s.categoryColumn),
		engine.WithLogger(logger),
	)

	page, err := template.ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	s.page = page
	s.controls = schema.BuildControls(ds.View(), s.rangeColumn, s.categoryColumn)
	s.metrics = newMetrics(ds.Len())
	s.handler = s.routes()
	return s, nil
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Controls returns the widget metadata served to the page.
func (s *Server) Controls() schema.Controls { return s.controls }

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully within
// the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.cfg.GetReadTimeout(),
		ReadTimeout:       s.cfg.GetReadTimeout(),
		WriteTimeout:      s.cfg.GetWriteTimeout(),
		ErrorLog:          zap.NewStdLog(s.logger),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("dashboard listening",
			zap.String("addr", ln.Addr().String()),
			zap.String("dataset", s.ds.Name()),
			zap.Int("records", s.ds.Len()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.GetShutdownTimeout())
		defer cancel()
		s.logger.Info("dashboard shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

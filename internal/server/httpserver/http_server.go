// Package httpserver wires the build and admin HTTP servers.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/appsmith/internal/config"
	derrors "git.home.luguber.info/inful/appsmith/internal/errors"
	"git.home.luguber.info/inful/appsmith/internal/history"
	"git.home.luguber.info/inful/appsmith/internal/pipeline"
	handlers "git.home.luguber.info/inful/appsmith/internal/server/handlers"
	smw "git.home.luguber.info/inful/appsmith/internal/server/middleware"
)

// Server manages the HTTP endpoints (build, admin).
type Server struct {
	buildServer *http.Server
	adminServer *http.Server
	cfg         *config.Config

	buildHandlers      *handlers.BuildHandlers
	monitoringHandlers *handlers.MonitoringHandlers
	registry           *prom.Registry

	// middleware chain
	mchain func(http.Handler) http.Handler
}

// New constructs a new HTTP server wiring instance. registry may be nil to
// skip the metrics endpoint; store may be nil to skip history listing.
func New(cfg *config.Config, pipe *pipeline.Pipeline, store *history.Store, registry *prom.Registry) *Server {
	s := &Server{
		cfg:                cfg,
		buildHandlers:      handlers.NewBuildHandlers(cfg, pipe),
		monitoringHandlers: handlers.NewMonitoringHandlers(store),
		registry:           registry,
	}
	s.mchain = smw.Chain(slog.Default(), derrors.NewHTTPErrorAdapter(slog.Default()))
	return s
}

// Start pre-binds all required ports so startup fails fast with aggregate
// errors instead of partial initialization, then launches both servers.
func (s *Server) Start(ctx context.Context) error {
	type preBind struct {
		name string
		port int
		ln   net.Listener
	}
	binds := []preBind{
		{name: "build", port: s.cfg.Server.ListenPort},
		{name: "admin", port: s.cfg.Server.AdminPort},
	}

	var bindErrs []error
	lc := net.ListenConfig{}
	for i := range binds {
		addr := fmt.Sprintf(":%d", binds[i].port)
		ln, err := lc.Listen(ctx, "tcp", addr)
		if err != nil {
			bindErrs = append(bindErrs, fmt.Errorf("%s port %d: %w", binds[i].name, binds[i].port, err))
			continue
		}
		binds[i].ln = ln
	}
	if len(bindErrs) > 0 {
		// Close any successful listeners before returning
		for _, b := range binds {
			if b.ln != nil {
				_ = b.ln.Close()
			}
		}
		return fmt.Errorf("http startup failed: %w", errors.Join(bindErrs...))
	}

	s.buildServer = &http.Server{
		Handler:           s.mchain(s.buildMux()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.adminServer = &http.Server{
		Handler:           s.mchain(s.adminMux()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.startServerWithListener("build", s.buildServer, binds[0].ln)
	s.startServerWithListener("admin", s.adminServer, binds[1].ln)

	slog.Info("HTTP servers started",
		slog.Int("build_port", s.cfg.Server.ListenPort),
		slog.Int("admin_port", s.cfg.Server.AdminPort))
	return nil
}

// Stop gracefully shuts down all HTTP servers.
func (s *Server) Stop(ctx context.Context) error {
	var errs []error

	// Stop servers in reverse order
	if s.adminServer != nil {
		if err := s.adminServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("admin server shutdown: %w", err))
		}
	}

	if s.buildServer != nil {
		if err := s.buildServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("build server shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	slog.Info("HTTP servers stopped")
	return nil
}

// buildMux routes the single build endpoint.
func (s *Server) buildMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/build", s.buildHandlers.HandleBuild)
	return mux
}

// adminMux routes health, history, and metrics.
func (s *Server) adminMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.monitoringHandlers.HandleHealth)
	mux.HandleFunc("/builds", s.monitoringHandlers.HandleBuilds)
	if s.registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return mux
}

// startServerWithListener launches an http.Server on a pre-bound listener.
// It standardizes goroutine startup and error logging across server types.
func (s *Server) startServerWithListener(kind string, srv *http.Server, ln net.Listener) {
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error(fmt.Sprintf("%s server error", kind), "error", err)
		}
	}()
}

// Package server is a development HTTP server publishing a built manifest and
// the content tree behind it.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type Config struct {
	Addr          string
	ContentDir    string
	OutDir        string
	ContentPrefix string
	// Rate is a limiter rate such as "600-M"; empty disables limiting.
	Rate string
}

type Server struct {
	config *Config
	server *http.Server
	log    *slog.Logger
}

func New(config *Config, logger *slog.Logger) (*Server, error) {
	if config.ContentDir == "" || config.OutDir == "" {
		return nil, fmt.Errorf("content and output directories are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	handler, err := SetupRoutes(*config, logger)
	if err != nil {
		return nil, err
	}
	return &Server{
		config: config,
		log:    logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func (s *Server) Handler() http.Handler { return s.server.Handler }

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server start http", "addr", s.config.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("server stopped")
	return nil
}

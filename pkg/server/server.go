// Package server provides HTTP server lifecycle management with
// graceful shutdown on OS signals.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const stopWaitTime = 5 * time.Second

type Config struct {
	Host string `env:"HOST" envDefault:"localhost"`
	Port string `env:"PORT"`
}

type Server interface {
	Start() error
	Stop() error
}

type httpServer struct {
	ctx      context.Context
	cancel   context.CancelFunc
	name     string
	address  string
	server   *http.Server
	logger   *slog.Logger
	protocol string
}

func NewServer(ctx context.Context, cancel context.CancelFunc, name string, config Config, handler http.Handler, logger *slog.Logger) Server {
	address := fmt.Sprintf("%s:%s", config.Host, config.Port)

	return &httpServer{
		ctx:      ctx,
		cancel:   cancel,
		name:     name,
		address:  address,
		server:   &http.Server{Addr: address, Handler: handler},
		logger:   logger,
		protocol: "http",
	}
}

func (s *httpServer) Start() error {
	errCh := make(chan error, 1)
	s.logger.Info(fmt.Sprintf("%s service %s server listening at %s", s.name, s.protocol, s.address))

	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case <-s.ctx.Done():
		return s.Stop()
	case err := <-errCh:
		s.cancel()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	}
}

func (s *httpServer) Stop() error {
	defer s.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), stopWaitTime)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error(fmt.Sprintf("%s service %s server failed to shutdown: %v", s.name, s.protocol, err))

		return s.server.Close()
	}
	s.logger.Info(fmt.Sprintf("%s service %s server stopped", s.name, s.protocol))

	return nil
}

// StopSignalHandler blocks until the context is cancelled or an
// interrupt signal arrives, then stops the given servers.
func StopSignalHandler(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger, svcName string, servers ...Server) error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGABRT)

	select {
	case s := <-sig:
		defer cancel()
		for _, server := range servers {
			if err := server.Stop(); err != nil {
				return err
			}
		}
		logger.Info(fmt.Sprintf("%s service shutdown by signal: %s", svcName, s))

		return nil
	case <-ctx.Done():
		return nil
	}
}

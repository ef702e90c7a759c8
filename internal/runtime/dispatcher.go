// Package runtime assembles the service from its configuration and runs the
// HTTP server until a termination signal or a fatal server error.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/architeacher/specargs/internal/config"
)

type (
	ServiceCtx struct {
		deps            *dependencies
		shutdownChannel chan os.Signal
		serverErrors    chan error
		serverCtx       context.Context
		serverStopFunc  context.CancelFunc
		serverReady     chan struct{}
	}

	ServiceOption func(*ServiceCtx)
)

// WithServiceTermination replaces the channel watched for SIGINT and
// SIGTERM, letting callers stop the service.
func WithServiceTermination(ch chan os.Signal) ServiceOption {
	return func(s *ServiceCtx) {
		s.shutdownChannel = ch
	}
}

// WithWaitingForServer enables WaitForServer.
func WithWaitingForServer() ServiceOption {
	return func(s *ServiceCtx) {
		s.serverReady = make(chan struct{})
	}
}

func New(opts ...ServiceOption) *ServiceCtx {
	ctx := &ServiceCtx{
		shutdownChannel: make(chan os.Signal, 1),
		serverErrors:    make(chan error, 1),
	}

	for _, opt := range opts {
		opt(ctx)
	}

	return ctx
}

// Run blocks until the service is stopped. Failing to build the service or
// to serve is fatal.
func (c *ServiceCtx) Run() {
	if err := c.build(); err != nil {
		log.Fatalf("failed to build service: %v", err)
	}

	signal.Notify(c.shutdownChannel, syscall.SIGINT, syscall.SIGTERM)

	if err := c.listen(); err != nil {
		log.Fatalf("failed to start service: %v", err)
	}

	var serveErr error

	select {
	case <-c.serverCtx.Done():
	case sig := <-c.shutdownChannel:
		c.deps.infra.logger.Info().Str("signal", sig.String()).Msg("termination requested")
	case serveErr = <-c.serverErrors:
		c.deps.infra.logger.Error().Err(serveErr).Msg("http server stopped unexpectedly")
	}

	signal.Stop(c.shutdownChannel)
	c.shutdown()

	if serveErr != nil {
		os.Exit(1)
	}
}

// WaitForServer blocks until the HTTP server accepts connections. The
// service must be created with WithWaitingForServer.
//
//	srv := runtime.New(runtime.WithWaitingForServer())
//	go srv.Run()
//
//	srv.WaitForServer()
func (c *ServiceCtx) WaitForServer() {
	if c.serverReady != nil {
		<-c.serverReady
	}
}

func (c *ServiceCtx) build() error {
	c.serverCtx, c.serverStopFunc = context.WithCancel(context.Background())

	deps, err := initializeDependencies(c.serverCtx)
	if err != nil {
		return fmt.Errorf("initializing dependencies: %w", err)
	}

	c.deps = deps

	return nil
}

// listen binds the server address before serving in the background, so a
// taken port fails the start rather than a goroutine.
func (c *ServiceCtx) listen() error {
	addr := c.deps.infra.httpServer.Addr

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	c.deps.infra.logger.Info().
		Str("address", listener.Addr().String()).
		Str("version", config.Version).
		Str("commit", config.Commit).
		Int("endpoints", len(c.deps.apps.catalog.Endpoints)).
		Msg("starting the http server")

	go func() {
		if err := c.deps.infra.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.serverErrors <- err
		}
	}()

	if c.serverReady != nil {
		close(c.serverReady)
	}

	return nil
}

func (c *ServiceCtx) shutdown() {
	logger := c.deps.infra.logger

	logger.Info().Msg("shutting down service...")

	c.serverStopFunc()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.deps.config.HTTPServer.ShutdownTimeout)
	defer cancel()

	// In-flight requests drain before the resources they use are released.
	if err := c.deps.infra.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to drain the http server")
	}

	for resource, cleanupFn := range c.deps.cleanupFuncs {
		if err := cleanupFn(shutdownCtx); err != nil {
			logger.Error().
				Err(err).
				Str("resource", resource).
				Msg("failed to release the resource gracefully")
		}
	}

	logger.Info().Msg("service shutdown complete")
}

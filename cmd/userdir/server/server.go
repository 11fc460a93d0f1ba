package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"user-directory-service/cmd/userdir/di"
	"user-directory-service/internal/config"
)

// Server holds the HTTP and gRPC listeners of the service.
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Server
	GRPC   *grpc.Server   // nil when GRPC_ENABLED is false
	Health *health.Server // nil when GRPC_ENABLED is false
}

// New creates a new server instance
func New(cfg *config.Config, l *zap.Logger, c *di.Container) *Server {
	s := &Server{
		Config: cfg,
		Logger: l,
		HTTP:   SetupGinServer(cfg.App.Env, c.GinHandler, c.HealthHandler, ":"+cfg.App.HTTPPort, l),
	}
	if cfg.App.GRPCEnabled {
		s.GRPC, s.Health = SetupGRPC(c.GRPCService, l)
	}
	return s
}

// Start binds both listeners and serves until one of them fails or is shut
// down. It returns nil after a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}

	httpLis, err := lc.Listen(ctx, "tcp", s.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.HTTP.Addr, err)
	}

	var grpcLis net.Listener
	if s.GRPC != nil {
		grpcLis, err = lc.Listen(ctx, "tcp", ":"+s.Config.App.GRPCPort)
		if err != nil {
			_ = httpLis.Close()
			return fmt.Errorf("failed to listen on :%s: %w", s.Config.App.GRPCPort, err)
		}
	}

	return s.Serve(httpLis, grpcLis)
}

// Serve runs the servers on already bound listeners. grpcLis may be nil.
func (s *Server) Serve(httpLis, grpcLis net.Listener) error {
	errCh := make(chan error, 2)

	go func() {
		s.Logger.Info("HTTP server running", zap.String("address", httpLis.Addr().String()))
		if err := s.HTTP.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
			return
		}
		errCh <- nil
	}()

	running := 1
	if s.GRPC != nil && grpcLis != nil {
		running++
		go func() {
			s.Logger.Info("gRPC server running", zap.String("address", grpcLis.Addr().String()))
			if err := s.GRPC.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				errCh <- fmt.Errorf("gRPC server: %w", err)
				return
			}
			errCh <- nil
		}()
	}

	for i := 0; i < running; i++ {
		if err := <-errCh; err != nil {
			return err
		}
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones within ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if s.Health != nil {
		s.Health.Shutdown()
	}

	s.Logger.Info("shutting down HTTP server")
	if err := s.HTTP.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
	}

	if s.GRPC != nil {
		s.Logger.Info("shutting down gRPC server")
		stopped := make(chan struct{})
		go func() {
			s.GRPC.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-ctx.Done():
			s.GRPC.Stop()
			errs = append(errs, fmt.Errorf("gRPC shutdown: %w", ctx.Err()))
		}
	}

	return errors.Join(errs...)
}

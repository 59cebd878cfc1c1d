package grpcserver

import (
	"context"
	"net"
	"time"

	"github.com/charmbracelet/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// HealthServer serves grpc.health.v1.Health so orchestrators can probe the process.
type HealthServer struct {
	srv    *grpc.Server
	health *health.Server
	lis    net.Listener
}

// StartGRPC starts the health server on addr and marks it SERVING.
// It returns nil, nil when addr is empty (health endpoint disabled).
func StartGRPC(addr string, logger *log.Logger) (*HealthServer, error) {
	if addr == "" {
		return nil, nil
	}
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithPrefix("grpc")

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	srv := grpc.NewServer(grpc.UnaryInterceptor(loggingInterceptor(logger)))
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	go func() {
		if err := srv.Serve(lis); err != nil {
			logger.Error("grpc server stopped", "err", err)
		}
	}()
	return &HealthServer{srv: srv, health: hs, lis: lis}, nil
}

// Addr returns the bound listen address.
func (s *HealthServer) Addr() net.Addr { return s.lis.Addr() }

// Shutdown reports NOT_SERVING, then stops gracefully, forcing a stop when ctx ends.
func (s *HealthServer) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	s.health.Shutdown()
	done := make(chan struct{})
	go func() { s.srv.GracefulStop(); close(done) }()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.srv.Stop()
		return ctx.Err()
	}
}

// loggingInterceptor logs every unary call at debug level with its status code.
func loggingInterceptor(logger *log.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Debug("rpc", "method", info.FullMethod, "code", status.Code(err).String(), "latency", time.Since(start))
		return resp, err
	}
}

package server

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/seu-repo/arremateai/internal/adapter/grpc/interceptors"
	"github.com/seu-repo/arremateai/internal/ports"
)

// ServiceName is the name reported by the gRPC health service.
const ServiceName = "arremateai"

// ReadinessFunc reports whether the process can take traffic.
type ReadinessFunc func(ctx context.Context) bool

type GRPCServer struct {
	server *grpc.Server
	health *health.Server
	log    *zap.Logger
}

func NewGRPCServer(auth ports.AuthService, log *zap.Logger) *GRPCServer {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(
		interceptors.UnaryMetricsInterceptor(),
		interceptors.UnaryLoggingInterceptor(log),
		interceptors.UnaryAuthInterceptor(auth),
	))

	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	// Enable reflection for debugging (e.g. grpcurl)
	reflection.Register(s)

	return &GRPCServer{server: s, health: hs, log: log}
}

func (s *GRPCServer) Serve(lis net.Listener) error {
	s.log.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
	return s.server.Serve(lis)
}

// SetServing updates the status of ServiceName and of the overall server.
func (s *GRPCServer) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(ServiceName, st)
	s.health.SetServingStatus("", st)
}

// WatchReadiness polls ready every interval until ctx is done.
func (s *GRPCServer) WatchReadiness(ctx context.Context, ready ReadinessFunc, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := false
	for {
		serving := ready(ctx)
		if serving != last {
			s.log.Info("gRPC serving status changed", zap.Bool("serving", serving))
			last = serving
		}
		s.SetServing(serving)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *GRPCServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}

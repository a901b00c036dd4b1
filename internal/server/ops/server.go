// Package opsserver runs the operator-facing gRPC endpoint: standard health
// checking and, in dev mode, server reflection.
package opsserver

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health-check service reported alongside the overall "" entry.
const ServiceName = "gallery"

// Pinger reports whether storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server owns the gRPC server and its health registry.
type Server struct {
	srv    *grpc.Server
	health *health.Server
	log    *zap.Logger
}

// New builds the ops server. Status starts as NOT_SERVING until Probe succeeds.
func New(log *zap.Logger, dev bool) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(RecoverUnary(log), LoggingUnary(log)),
		grpc.ChainStreamInterceptor(LoggingStream(log)),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	if dev {
		reflection.Register(srv)
	}

	s := &Server{srv: srv, health: hs, log: log}
	s.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

func (s *Server) set(st healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// Serve blocks accepting connections on lis.
func (s *Server) Serve(lis net.Listener) error {
	return s.srv.Serve(lis)
}

// Probe pings storage once and publishes the result.
func (s *Server) Probe(ctx context.Context, p Pinger) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		s.log.Warn("health probe", zap.Error(err))
		s.set(healthpb.HealthCheckResponse_NOT_SERVING)
		return err
	}
	s.set(healthpb.HealthCheckResponse_SERVING)
	return nil
}

// Monitor probes every interval until ctx is done.
func (s *Server) Monitor(ctx context.Context, p Pinger, every time.Duration) {
	_ = s.Probe(ctx, p)
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_ = s.Probe(ctx, p)
		}
	}
}

// Shutdown reports NOT_SERVING to watchers and drains in-flight calls. Open
// streams still running when ctx ends are cut off.
func (s *Server) Shutdown(ctx context.Context) {
	s.health.Shutdown()
	done := make(chan struct{})
	go func() {
		s.srv.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.srv.Stop()
	}
}

// ServiceInfo lists registered gRPC services.
func (s *Server) ServiceInfo() map[string]grpc.ServiceInfo {
	return s.srv.GetServiceInfo()
}

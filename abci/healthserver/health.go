// Package healthserver exposes a small gRPC health-checking service
// (grpc.health.v1.Health) tied to the ABCI listener's lifecycle, for load
// balancers and orchestrators that want a standard readiness probe rather
// than having to speak the raw ABCI framing protocol themselves.
package healthserver

import (
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server wraps grpc.health.v1.Health behind its own listener.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
}

// New builds a Server reporting NOT_SERVING for the "abci" service until
// SetServing(true) is called.
func New() *Server {
	h := health.NewServer()
	h.SetServingStatus("abci", healthpb.HealthCheckResponse_NOT_SERVING)

	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, h)

	return &Server{grpcServer: gs, health: h}
}

// SetServing flips the reported status for the "abci" service.
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("abci", status)
}

// Start binds addr and serves in a background goroutine.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("healthserver: listen %s: %w", addr, err)
	}
	go s.grpcServer.Serve(ln)
	return nil
}

// Stop gracefully stops the gRPC server.
func (s *Server) Stop() {
	s.grpcServer.GracefulStop()
}

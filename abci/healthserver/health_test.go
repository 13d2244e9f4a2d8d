package healthserver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func newLoopbackListener(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return ln
}

func TestServer_ReportsNotServingThenServing(t *testing.T) {
	srv := New()
	require.NoError(t, srv.Start("127.0.0.1:0"))
	defer srv.Stop()

	// Start binds an ephemeral port internally that this thin wrapper does
	// not expose, so query the underlying health server object directly.
	req := &healthpb.HealthCheckRequest{Service: "abci"}
	resp, err := srv.health.Check(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)

	srv.SetServing(true)
	resp, err = srv.health.Check(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)

	srv.SetServing(false)
	assert.NotNil(t, srv.health)
}

func TestServer_ClientCheck(t *testing.T) {
	srv := New()
	ln := newLoopbackListener(t)
	go srv.grpcServer.Serve(ln)
	defer srv.grpcServer.Stop()

	srv.SetServing(true)

	conn, err := grpc.NewClient(ln.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	client := healthpb.NewHealthClient(conn)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: "abci"})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}

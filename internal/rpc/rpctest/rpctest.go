// Package rpctest runs services on an in-memory listener for handler tests.
package rpctest

import (
	"context"
	"net"
	"testing"

	"github.com/fekuna/omnipos-retail-service/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
)

// Client invokes methods of one service over a bufconn connection.
type Client struct {
	Conn    *grpc.ClientConn
	Service string
}

// Start serves whatever register adds and returns a client for service. The
// server and connection are closed when the test ends.
func Start(t *testing.T, service string, register func(*grpc.Server), opts ...grpc.ServerOption) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(opts...)
	register(srv)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial bufconn: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return &Client{Conn: conn, Service: service}
}

func (c *Client) Call(ctx context.Context, method string, req, resp any) error {
	return c.Conn.Invoke(ctx, rpc.FullMethod(c.Service, method), req, resp, rpc.CallOption())
}

// WithBearer attaches a bearer token to outgoing calls.
func WithBearer(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}

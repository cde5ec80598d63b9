package rpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/fekuna/omnipos-retail-service/internal/apperror"
	"github.com/fekuna/omnipos-retail-service/internal/sale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func TestToStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"not found", apperror.NotFound("product", 4), codes.NotFound},
		{"invalid", apperror.Invalid("bad"), codes.InvalidArgument},
		{"invalid quantity in item", &apperror.ItemError{Err: apperror.ErrInvalidQuantity}, codes.InvalidArgument},
		{"insufficient", &apperror.StockError{Available: 1, Requested: 2}, codes.FailedPrecondition},
		{"sku conflict", apperror.Conflict("products_sku_key"), codes.AlreadyExists},
		{"number conflict", fmt.Errorf("retry: %w", apperror.Conflict(sale.ConstraintTransactionNumber)), codes.Aborted},
		{"deadlock", apperror.Retryable("deadlock detected"), codes.Aborted},
		{"persistence", apperror.Persistence("insert", errors.New("connection reset")), codes.Internal},
		{"unknown", errors.New("boom"), codes.Internal},
		{"already a status", status.Error(codes.Unauthenticated, "no token"), codes.Unauthenticated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st, ok := status.FromError(ToStatus(tc.err))
			require.True(t, ok)
			assert.Equal(t, tc.code, st.Code())
		})
	}

	assert.NoError(t, ToStatus(nil))

	st, _ := status.FromError(ToStatus(apperror.Persistence("insert", errors.New("password=secret"))))
	assert.NotContains(t, st.Message(), "secret")
}

type echoRequest struct {
	Text string `json:"text"`
}

type echoResponse struct {
	Text   string `json:"text"`
	Length int    `json:"length"`
}

type echoServer interface {
	Echo(ctx context.Context, req *echoRequest) (*echoResponse, error)
}

type echo struct{}

func (echo) Echo(_ context.Context, req *echoRequest) (*echoResponse, error) {
	if req.Text == "" {
		return nil, ToStatus(apperror.Invalid("text is required"))
	}
	return &echoResponse{Text: req.Text, Length: len(req.Text)}, nil
}

var echoDesc = grpc.ServiceDesc{
	ServiceName: "test.Echo",
	HandlerType: (*echoServer)(nil),
	Methods: []grpc.MethodDesc{
		Unary("test.Echo", "Echo", echoServer.Echo),
	},
}

func TestUnaryRoundTripWithJSONCodec(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	seen := make(chan string, 2)
	srv := grpc.NewServer(grpc.UnaryInterceptor(func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		seen <- info.FullMethod
		return handler(ctx, req)
	}))
	srv.RegisterService(&echoDesc, echo{})
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	var resp echoResponse
	err = conn.Invoke(context.Background(), FullMethod("test.Echo", "Echo"), &echoRequest{Text: "hello"}, &resp, CallOption())
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Text)
	assert.Equal(t, 5, resp.Length)
	assert.Equal(t, "/test.Echo/Echo", <-seen)

	err = conn.Invoke(context.Background(), FullMethod("test.Echo", "Echo"), &echoRequest{}, &resp, CallOption())
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const secret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	tok, err := GenerateToken(secret, 42, "cashier", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "cashier", claims.Role)

	_, err = ParseToken("other-secret", tok)
	assert.Error(t, err)
}

func TestParseTokenRejects(t *testing.T) {
	claims := &Claims{UserID: 42, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = ParseToken(secret, expired)
	assert.Error(t, err)

	anonymous, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{}).SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = ParseToken(secret, anonymous)
	assert.Error(t, err)

	_, err = ParseToken(secret, "not-a-token")
	assert.Error(t, err)
}

func call(t *testing.T, ctx context.Context, method string) (context.Context, error) {
	t.Helper()
	var got context.Context
	interceptor := UnaryInterceptor(secret, logger.NewNop())
	_, err := interceptor(ctx, struct{}{}, &grpc.UnaryServerInfo{FullMethod: method}, func(ctx context.Context, req any) (any, error) {
		got = ctx
		return "ok", nil
	})
	return got, err
}

func TestInterceptorResolvesUser(t *testing.T) {
	tok, err := GenerateToken(secret, 7, "manager", time.Hour)
	require.NoError(t, err)
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+tok))

	got, err := call(t, ctx, "/retail.v1.SaleService/PostSale")
	require.NoError(t, err)
	id, ok := GetUserID(got)
	require.True(t, ok)
	assert.Equal(t, int64(7), id)
	u, _ := FromContext(got)
	assert.Equal(t, "manager", u.Role)
}

func TestInterceptorRejectsMissingOrBadToken(t *testing.T) {
	cases := map[string]context.Context{
		"no metadata": context.Background(),
		"no header":   metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-other", "1")),
		"wrong type":  metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Basic abc")),
		"bad token":   metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer abc")),
	}
	for name, ctx := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := call(t, ctx, "/retail.v1.SaleService/PostSale")
			assert.Equal(t, codes.Unauthenticated, status.Code(err))
		})
	}
}

func TestInterceptorLetsHealthChecksThrough(t *testing.T) {
	got, err := call(t, context.Background(), "/grpc.health.v1.Health/Check")
	require.NoError(t, err)
	_, ok := GetUserID(got)
	assert.False(t, ok)
}

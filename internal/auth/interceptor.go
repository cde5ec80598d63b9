package auth

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const healthService = "/grpc.health.v1.Health/"

// UnaryInterceptor verifies the bearer token in the "authorization" metadata
// and stores the caller on the context. Health checks pass unauthenticated.
func UnaryInterceptor(secret string, log logger.ZapLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if strings.HasPrefix(info.FullMethod, healthService) {
			return handler(ctx, req)
		}

		tokenStr, err := bearerToken(ctx)
		if err != nil {
			return nil, err
		}
		claims, err := ParseToken(secret, tokenStr)
		if err != nil {
			log.Debug("rejected token", zap.String("method", info.FullMethod), zap.Error(err))
			return nil, status.Error(codes.Unauthenticated, "invalid or expired token")
		}

		ctx = WithUser(ctx, UserContext{UserID: claims.UserID, Role: claims.Role})
		return handler(ctx, req)
	}
}

func bearerToken(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing authorization metadata")
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return "", status.Error(codes.Unauthenticated, "missing authorization metadata")
	}
	parts := strings.SplitN(values[0], " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", status.Error(codes.Unauthenticated, "authorization must be 'Bearer <token>'")
	}
	return parts[1], nil
}

package rpc

import (
	"errors"

	"github.com/fekuna/omnipos-retail-service/internal/apperror"
	"github.com/fekuna/omnipos-retail-service/internal/sale"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToStatus converts a use case error into a gRPC status error. Persistence
// and unclassified errors are reported without their cause.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, apperror.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, apperror.ErrInsufficientStock):
		return status.Error(codes.FailedPrecondition, err.Error())
	case apperror.IsConflictOn(err, sale.ConstraintTransactionNumber), apperror.IsRetryable(err):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, apperror.ErrConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, apperror.ErrPersistence):
		return status.Error(codes.Internal, "storage failure")
	}
	return status.Error(codes.Internal, "internal error")
}

// Fail logs failures the caller cannot act on and converts err with ToStatus.
func Fail(log logger.ZapLogger, method string, err error) error {
	switch apperror.Kind(err) {
	case "persistence", "internal":
		log.Error("request failed", zap.String("method", method), zap.Error(err))
	}
	return ToStatus(err)
}

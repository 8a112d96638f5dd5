package mongo

import (
	"context"
	"errors"
	"net"

	apperrors "cleanbook/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// IsTransient reports whether a store error is an infrastructure failure (deadline,
// network, server selection) rather than a problem with the request.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return true
	}
	if errors.Is(err, mongo.ErrClientDisconnected) {
		return true
	}
	var srvErr mongo.ServerError
	if errors.As(err, &srvErr) && srvErr.HasErrorLabel("RetryableWriteError") {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Classify turns a repository error into an AppError, leaving existing AppErrors untouched.
func Classify(message string, err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if IsTransient(err) {
		return apperrors.Transient(message, err)
	}
	return apperrors.Internal(message, err)
}

package mongodb

import (
	"errors"

	"library-lending/internal/infra"
	"library-lending/internal/pkg/errs"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	labelRetryableWrite       = "RetryableWriteError"
	labelTransientTransaction = "TransientTransactionError"
)

// IsTransient reports network failures, server selection timeouts and errors the server
// labels as retryable.
func IsTransient(err error) bool {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	if errors.Is(err, mongo.ErrClientDisconnected) {
		return true
	}
	var se mongo.ServerError
	if errs.As(err, &se) {
		return se.HasErrorLabel(labelRetryableWrite) || se.HasErrorLabel(labelTransientTransaction)
	}
	return false
}

func wrapErr(msg string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return infra.WrapRepoErr(msg, err, infra.KindNotFound)
	case mongo.IsDuplicateKeyError(err):
		return infra.WrapRepoErr(msg, err, infra.KindDuplicateKey)
	case IsTransient(err):
		return infra.WrapRepoErr(msg, err, infra.KindTransient)
	default:
		return infra.WrapRepoErr(msg, err)
	}
}

package shared

import (
	"context"

	"library-lending/internal/infra"
	"library-lending/internal/pkg/errs"
)

var (
	ErrItemNotFound       = errs.New("item not found")
	ErrUserNotFound       = errs.New("user not found")
	ErrBorrowingNotFound  = errs.New("borrowing not found")
	ErrNotPermitted       = errs.New("operation not permitted for this user")
	ErrStorageUnavailable = errs.New("storage unavailable")
	ErrInvalidQuery       = errs.New("invalid query")
)

// MapStorageErr turns a storage failure into the error callers see. notFound replaces
// NOT_FOUND; transient failures become ErrStorageUnavailable; anything else stays opaque
// but keeps its chain for logging.
func MapStorageErr(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case infra.IsKind(err, infra.KindNotFound) && notFound != nil:
		return notFound
	case infra.IsKind(err, infra.KindTransient):
		return errs.Mark(err, ErrStorageUnavailable)
	case errs.Is(err, context.DeadlineExceeded):
		return errs.Mark(err, ErrStorageUnavailable)
	default:
		return err
	}
}

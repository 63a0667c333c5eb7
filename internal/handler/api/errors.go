package api

import (
	"net/http"

	"library-lending/internal/domain/borrowing"
	"library-lending/internal/domain/item"
	"library-lending/internal/domain/user"
	"library-lending/internal/handler/httperr"
	"library-lending/internal/pkg/errs"
	"library-lending/internal/usecase/commands"
	"library-lending/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	target  error
	status  int
	message string
}

// errorTable is checked in order; the first errs.Is match wins.
var errorTable = []errorMapping{
	{shared.ErrItemNotFound, http.StatusNotFound, "Item not found"},
	{shared.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{shared.ErrBorrowingNotFound, http.StatusNotFound, "Borrowing not found"},
	{shared.ErrNotPermitted, http.StatusForbidden, "Operation not permitted"},
	{shared.ErrInvalidQuery, http.StatusBadRequest, "Invalid query"},
	{shared.ErrStorageUnavailable, http.StatusServiceUnavailable, "Storage temporarily unavailable"},

	{commands.ErrInsufficientAvailability, http.StatusConflict, "No copies available"},
	{commands.ErrAlreadyReturned, http.StatusConflict, "Borrowing already returned"},
	{commands.ErrBorrowInProgress, http.StatusConflict, "Borrow with this idempotency key is in progress"},
	{commands.ErrIdempotencyKeyReused, http.StatusConflict, "Idempotency key already used for a different request"},
	{commands.ErrConcurrentExtension, http.StatusConflict, "Borrowing was modified concurrently"},
	{commands.ErrDuplicateItem, http.StatusConflict, "Item already exists"},
	{commands.ErrEmailTaken, http.StatusConflict, "Email already registered"},

	{commands.ErrInvalidExtension, http.StatusUnprocessableEntity, "Extension must be between 1 and 30 days"},
	{commands.ErrUserNotEligible, http.StatusUnprocessableEntity, "User is not eligible to borrow"},
	{commands.ErrInvalidReturnDate, http.StatusUnprocessableEntity, "Return date precedes borrow date"},
}

var validationErrors = []error{
	item.ErrEmptyTitle,
	item.ErrTitleTooLong,
	item.ErrEmptyAuthor,
	item.ErrAuthorTooLong,
	item.ErrGenreTooLong,
	item.ErrNegativeCopies,
	item.ErrInvalidStatus,
	user.ErrInvalidEmail,
	user.ErrInvalidRole,
	user.ErrEmptyName,
	user.ErrNameTooLong,
	borrowing.ErrNotesTooLong,
}

func abortWithUseCaseError(c *gin.Context, err error) {
	for _, m := range errorTable {
		if errs.Is(err, m.target) {
			httperr.AbortWithError(c, m.status, err, m.message, nil)
			return
		}
	}
	for _, target := range validationErrors {
		if errs.Is(err, target) {
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Validation failed", err.Error())
			return
		}
	}
	httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}

func abortBadRequest(c *gin.Context, err error, msg string) {
	httperr.AbortWithError(c, http.StatusBadRequest, err, msg, nil)
}

var errNoIdentity = httperr.Sentinel("identity missing from context")

func abortNoIdentity(c *gin.Context) {
	httperr.AbortWithError(c, http.StatusUnauthorized, errNoIdentity, "Unauthorized", nil)
}

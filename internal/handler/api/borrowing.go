package api

import (
	"errors"
	"io"
	"net/http"

	reqdto "library-lending/internal/handler/dto/request"
	resdto "library-lending/internal/handler/dto/response"
	"library-lending/internal/handler/httperr"
	"library-lending/internal/handler/middleware"
	"library-lending/internal/usecase/commands"
	"library-lending/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
)

var errInvalidIdempotencyKey = httperr.Sentinel("invalid idempotency key format")

type BorrowingHandler struct {
	cmds commands.LendingCommands
	q    queries.BorrowingQueries
}

func NewBorrowingHandler(cmds commands.LendingCommands, q queries.BorrowingQueries) *BorrowingHandler {
	return &BorrowingHandler{cmds: cmds, q: q}
}

// @Summary Borrow item
// @Description Borrow one copy of an item. Librarians and admins may pass user_id to borrow on behalf of a member.
// @Tags borrowings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "UUID; generated when absent"
// @Param request body reqdto.BorrowRequest true "Borrow request"
// @Success 201 {object} resdto.BorrowingResponse
// @Success 200 {object} resdto.BorrowingResponse "Replay of a completed request"
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /borrowings [post]
func (h *BorrowingHandler) Borrow(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		abortNoIdentity(c)
		return
	}
	key, err := idempotencyKey(c)
	if err != nil {
		abortBadRequest(c, err, "Invalid Idempotency-Key header")
		return
	}
	var req reqdto.BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err, "Invalid request")
		return
	}

	result, err := h.cmds.Borrow(c.Request.Context(), commands.BorrowRequest{
		Actor:          actor,
		UserID:         req.OnBehalfOf(),
		ItemID:         req.ItemID,
		Notes:          req.Notes,
		IdempotencyKey: key,
	})
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.Header(headerIdempotencyKey, key.String())
	status := http.StatusCreated
	if result.Replayed {
		c.Header(headerReplayed, "true")
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromBorrowingView(h.q.Present(result.Record)))
}

// @Summary Return borrowing
// @Description Close an open borrowing and charge any late fee
// @Tags borrowings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Borrowing ID"
// @Param request body reqdto.ReturnRequest false "Return request"
// @Success 200 {object} resdto.BorrowingResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /borrowings/{id}/return [post]
func (h *BorrowingHandler) Return(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortBadRequest(c, err, "Invalid borrowing id")
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		abortNoIdentity(c)
		return
	}
	// the body is optional
	var req reqdto.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortBadRequest(c, err, "Invalid request")
		return
	}

	rec, err := h.cmds.Return(c.Request.Context(), commands.ReturnRequest{
		Actor:       actor,
		BorrowingID: id,
		ReturnDate:  req.ReturnDate,
		Notes:       req.Notes,
	})
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBorrowingView(h.q.Present(rec)))
}

// @Summary Extend borrowing
// @Description Push the due date of an open borrowing by 1 to 30 days
// @Tags borrowings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Borrowing ID"
// @Param request body reqdto.ExtendRequest true "Extend request"
// @Success 200 {object} resdto.BorrowingResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /borrowings/{id}/extend [post]
func (h *BorrowingHandler) Extend(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortBadRequest(c, err, "Invalid borrowing id")
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		abortNoIdentity(c)
		return
	}
	var req reqdto.ExtendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err, "Invalid request")
		return
	}

	rec, err := h.cmds.Extend(c.Request.Context(), commands.ExtendRequest{
		Actor:          actor,
		BorrowingID:    id,
		AdditionalDays: req.AdditionalDays,
	})
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBorrowingView(h.q.Present(rec)))
}

// @Summary Get borrowing
// @Description Get a borrowing with its derived state and accrued fee
// @Tags borrowings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Borrowing ID"
// @Success 200 {object} resdto.BorrowingResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /borrowings/{id} [get]
func (h *BorrowingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortBadRequest(c, err, "Invalid borrowing id")
		return
	}
	viewer, ok := viewerFrom(c)
	if !ok {
		abortNoIdentity(c)
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), id, viewer)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBorrowingView(view))
}

// @Summary List borrowings
// @Description List borrowings with filters and keyset pagination. Members only see their own.
// @Tags borrowings
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "Borrower ID"
// @Param item_id query string false "Item ID"
// @Param state query string false "active, overdue or returned"
// @Param borrowed_from query string false "RFC3339, inclusive"
// @Param borrowed_to query string false "RFC3339, exclusive"
// @Param due_from query string false "RFC3339, inclusive"
// @Param due_to query string false "RFC3339, exclusive"
// @Param sort query string false "borrow_date (default) or due_date"
// @Param order query string false "asc or desc (default)"
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.BorrowingListResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /borrowings [get]
func (h *BorrowingHandler) List(c *gin.Context) {
	viewer, ok := viewerFrom(c)
	if !ok {
		abortNoIdentity(c)
		return
	}
	var q reqdto.ListBorrowingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBadRequest(c, err, "Invalid query")
		return
	}

	list, err := h.q.List(c.Request.Context(), queries.ListBorrowingsParams{
		UserID:       q.UserUUID(),
		ItemID:       q.ItemUUID(),
		State:        q.State,
		BorrowedFrom: q.BorrowedFrom,
		BorrowedTo:   q.BorrowedTo,
		DueFrom:      q.DueFrom,
		DueTo:        q.DueTo,
		Sort:         q.Sort,
		Order:        q.Order,
		Limit:        q.Limit,
		After:        q.After,
	}, viewer)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBorrowingList(list))
}

// idempotencyKey reads the header, minting a key when the client sent none.
func idempotencyKey(c *gin.Context) (uuid.UUID, error) {
	raw := c.GetHeader(headerIdempotencyKey)
	if raw == "" {
		return uuid.New(), nil
	}
	key, err := uuid.Parse(raw)
	if err != nil || key == uuid.Nil {
		return uuid.Nil, errInvalidIdempotencyKey
	}
	return key, nil
}

func actorFrom(c *gin.Context) (commands.Actor, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		return commands.Actor{}, false
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		return commands.Actor{}, false
	}
	return commands.Actor{ID: id, Role: role}, true
}

func viewerFrom(c *gin.Context) (queries.Viewer, bool) {
	actor, ok := actorFrom(c)
	return queries.Viewer{ID: actor.ID, Role: actor.Role}, ok
}

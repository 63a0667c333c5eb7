//go:build unit

package api_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"library-lending/internal/domain/borrowing"
	"library-lending/internal/domain/user"
	"library-lending/internal/handler/api"
	reqdto "library-lending/internal/handler/dto/request"
	resdto "library-lending/internal/handler/dto/response"
	"library-lending/internal/infra"
	"library-lending/internal/pkg/errs"
	"library-lending/internal/usecase/commands"
	"library-lending/internal/usecase/queries"
	"library-lending/internal/usecase/shared"
	"library-lending/tests/common/builder"
	"library-lending/tests/common/httptest"
	"library-lending/tests/common/testutil"
	commandsmock "library-lending/tests/mock/commands"
	queriesmock "library-lending/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const testRoleHeader = "X-Test-Role"

// fakeAuth stands in for RequireAuth: any bearer token authenticates as callerID with the
// role named in X-Test-Role (member by default).
func fakeAuth(callerID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		role := user.RoleMember
		if r := c.GetHeader(testRoleHeader); r != "" {
			role = user.Role(r)
		}
		c.Set("user_id", callerID)
		c.Set("user_role", role)
		c.Next()
	}
}

func viewOf(rec *borrowing.Record) *queries.BorrowingView {
	return &queries.BorrowingView{
		ID:           rec.ID(),
		UserID:       rec.UserID(),
		ItemID:       rec.ItemID(),
		BorrowDate:   rec.BorrowDate(),
		DueDate:      rec.DueDate(),
		ReturnDate:   rec.ReturnDate(),
		IsReturned:   rec.IsReturned(),
		LateFeeCents: rec.LateFee().Cents(),
		Notes:        rec.Notes(),
		State:        rec.State(rec.BorrowDate()),
		AsOf:         rec.BorrowDate(),
	}
}

type BorrowingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockLendingCommands
	mockQueries  *queriesmock.MockBorrowingQueries
	handler      *api.BorrowingHandler
	callerID     uuid.UUID
}

func (s *BorrowingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockLendingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBorrowingQueries(s.mockCtrl)
	s.handler = api.NewBorrowingHandler(s.mockCommands, s.mockQueries)
	s.callerID = uuid.New()

	s.mockQueries.EXPECT().Present(gomock.Any()).DoAndReturn(viewOf).AnyTimes()

	auth := fakeAuth(s.callerID)
	s.router.POST("/borrowings", auth, s.handler.Borrow)
	s.router.GET("/borrowings", auth, s.handler.List)
	s.router.GET("/borrowings/:id", auth, s.handler.Get)
	s.router.POST("/borrowings/:id/return", auth, s.handler.Return)
	s.router.POST("/borrowings/:id/extend", auth, s.handler.Extend)
	s.router.POST("/unauthenticated/borrowings", s.handler.Borrow)
}

func (s *BorrowingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBorrowingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BorrowingHandlerTestSuite))
}

type testCaseBorrow struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

// ================================================================================
// TestBorrow
// ================================================================================

func (s *BorrowingHandlerTestSuite) TestBorrow() {
	url := "/borrowings"
	itemID := uuid.New()
	reqBody := reqdto.BorrowRequest{ItemID: itemID, Notes: "weekend read"}
	rec := builder.NewBorrowingBuilder().With(func(b *builder.BorrowingBuilder) {
		b.UserID = s.callerID
		b.ItemID = itemID
	}).BuildDomain()

	s.Run("success: 201 with the idempotency key echoed", func() {
		key := uuid.New()
		s.mockCommands.EXPECT().Borrow(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req commands.BorrowRequest) (*commands.BorrowResult, error) {
				s.Equal(s.callerID, req.Actor.ID)
				s.Equal(user.RoleMember, req.Actor.Role)
				s.Equal(uuid.Nil, req.UserID)
				s.Equal(itemID, req.ItemID)
				s.Equal("weekend read", req.Notes)
				s.Equal(key, req.IdempotencyKey)
				return &commands.BorrowResult{Record: rec}, nil
			})

		w := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "token",
			map[string]string{"Idempotency-Key": key.String()})

		var body resdto.BorrowingResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &body)
		s.Equal(rec.ID(), body.ID)
		s.Equal(rec.DueDate(), body.DueDate)
		s.Equal("active", body.State)
		httptest.AssertHeaders(s.T(), w, map[string]string{"Idempotency-Key": key.String()})
		s.Empty(w.Header().Get("Idempotent-Replayed"))
	})

	s.Run("success: key is generated when the header is absent", func() {
		var sent uuid.UUID
		s.mockCommands.EXPECT().Borrow(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req commands.BorrowRequest) (*commands.BorrowResult, error) {
				sent = req.IdempotencyKey
				return &commands.BorrowResult{Record: rec}, nil
			})

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "token")

		s.Equal(http.StatusCreated, w.Code)
		s.NotEqual(uuid.Nil, sent)
		s.Equal(sent.String(), w.Header().Get("Idempotency-Key"))
	})

	s.Run("success: replay answers 200 and marks the response", func() {
		s.mockCommands.EXPECT().Borrow(gomock.Any(), gomock.Any()).
			Return(&commands.BorrowResult{Record: rec, Replayed: true}, nil)

		w := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "token",
			map[string]string{"Idempotency-Key": uuid.NewString()})

		var body resdto.BorrowingResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &body)
		s.Equal(rec.ID(), body.ID)
		httptest.AssertHeaders(s.T(), w, map[string]string{"Idempotent-Replayed": "true"})
	})

	s.Run("success: librarian borrows on behalf of a member", func() {
		member := uuid.New()
		s.mockCommands.EXPECT().Borrow(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req commands.BorrowRequest) (*commands.BorrowResult, error) {
				s.Equal(member, req.UserID)
				s.Equal(user.RoleLibrarian, req.Actor.Role)
				return &commands.BorrowResult{Record: rec}, nil
			})

		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("user_id", member.String()))
		w := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, body, "token",
			map[string]string{testRoleHeader: string(user.RoleLibrarian)})

		s.Equal(http.StatusCreated, w.Code)
	})

	s.Run("error: 400 on malformed idempotency key", func() {
		for _, key := range []string{"not-a-uuid", uuid.Nil.String()} {
			w := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "token",
				map[string]string{"Idempotency-Key": key})
			httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Idempotency-Key")
		}
	})

	s.Run("error: 400 on validation errors", func() {
		cases := []testCaseBorrow{
			{name: "missing field: item_id (required)", mutate: testutil.Field("item_id", nil), expectCode: http.StatusBadRequest},
			{name: "malformed item_id", mutate: testutil.Field("item_id", "abc"), expectCode: http.StatusBadRequest},
			{name: "notes length OK (1000 chars)", mutate: testutil.Field("notes", strings.Repeat("a", 1000)), expectCode: http.StatusCreated},
			{name: "notes length invalid (1001 chars)", mutate: testutil.Field("notes", strings.Repeat("a", 1001)), expectCode: http.StatusBadRequest},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				if tc.expectCode == http.StatusCreated {
					s.mockCommands.EXPECT().Borrow(gomock.Any(), gomock.Any()).
						Return(&commands.BorrowResult{Record: rec}, nil)
				}
				w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
					testutil.DtoMap(s.T(), reqBody, tc.mutate), "token")
				s.Equal(tc.expectCode, w.Code, w.Body.String())
			})
		}
	})

	s.Run("error: use case failures map to status codes", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
			expectMsg  string
		}{
			{"no copies", commands.ErrInsufficientAvailability, http.StatusConflict, "No copies available"},
			{"unknown item", shared.ErrItemNotFound, http.StatusNotFound, "Item not found"},
			{"unknown user", shared.ErrUserNotFound, http.StatusNotFound, "User not found"},
			{"inactive user", commands.ErrUserNotEligible, http.StatusUnprocessableEntity, "not eligible"},
			{"on behalf without permission", shared.ErrNotPermitted, http.StatusForbidden, "not permitted"},
			{"key reused", commands.ErrIdempotencyKeyReused, http.StatusConflict, "Idempotency key"},
			{"key in progress", commands.ErrBorrowInProgress, http.StatusConflict, "in progress"},
			{"notes too long", borrowing.ErrNotesTooLong, http.StatusUnprocessableEntity, "Validation failed"},
			{"storage outage", errs.Mark(infra.NewRepoErr(infra.KindTransient, "down"), shared.ErrStorageUnavailable),
				http.StatusServiceUnavailable, "unavailable"},
			{"unexpected", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Borrow(gomock.Any(), gomock.Any()).Return(nil, tc.err)
				w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "token")
				httptest.AssertErrorResponse(s.T(), w, tc.expectCode, tc.expectMsg)
			})
		}
	})

	s.Run("error: 401 without identity in context", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/unauthenticated/borrowings", reqBody, "")
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnauthorized, "Unauthorized")
	})
}

// ================================================================================
// TestReturn
// ================================================================================

func (s *BorrowingHandlerTestSuite) TestReturn() {
	open := builder.NewBorrowingBuilder().With(func(b *builder.BorrowingBuilder) { b.UserID = s.callerID })
	id := open.ID
	url := "/borrowings/" + id.String() + "/return"

	s.Run("success: body is optional", func() {
		returned := builder.NewBorrowingBuilder().With(func(b *builder.BorrowingBuilder) {
			b.ID = id
			b.UserID = s.callerID
		}).Returned(open.DueDate.Add(50*time.Hour), 300).BuildDomain()
		s.mockCommands.EXPECT().Return(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req commands.ReturnRequest) (*borrowing.Record, error) {
				s.Equal(id, req.BorrowingID)
				s.Nil(req.ReturnDate)
				s.Nil(req.Notes)
				return returned, nil
			})

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")

		var body resdto.BorrowingResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &body)
		s.True(body.IsReturned)
		s.Equal(int64(300), body.LateFeeCents)
	})

	s.Run("success: explicit return date and notes are passed through", func() {
		at := open.DueDate
		notes := "fine"
		s.mockCommands.EXPECT().Return(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req commands.ReturnRequest) (*borrowing.Record, error) {
				s.Require().NotNil(req.ReturnDate)
				s.True(at.Equal(*req.ReturnDate))
				s.Require().NotNil(req.Notes)
				s.Equal(notes, *req.Notes)
				return open.Returned(at, 0).BuildDomain(), nil
			})

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			reqdto.ReturnRequest{ReturnDate: &at, Notes: &notes}, "token")

		s.Equal(http.StatusOK, w.Code, w.Body.String())
	})

	s.Run("error: 400 on malformed id", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/borrowings/xyz/return", nil, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid borrowing id")
	})

	s.Run("error: 400 on malformed body", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"return_date": "yesterday"}, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: use case failures map to status codes", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
		}{
			{"already returned", commands.ErrAlreadyReturned, http.StatusConflict},
			{"return before borrow", commands.ErrInvalidReturnDate, http.StatusUnprocessableEntity},
			{"unknown borrowing", shared.ErrBorrowingNotFound, http.StatusNotFound},
			{"someone else's borrowing", shared.ErrNotPermitted, http.StatusForbidden},
			{"over-release defect", errs.Mark(errors.New("release"), commands.ErrOverRelease), http.StatusInternalServerError},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Return(gomock.Any(), gomock.Any()).Return(nil, tc.err)
				w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")
				s.Equal(tc.expectCode, w.Code, w.Body.String())
			})
		}
	})
}

// ================================================================================
// TestExtend
// ================================================================================

func (s *BorrowingHandlerTestSuite) TestExtend() {
	b := builder.NewBorrowingBuilder().With(func(b *builder.BorrowingBuilder) { b.UserID = s.callerID })
	url := "/borrowings/" + b.ID.String() + "/extend"

	s.Run("success: returns the new due date", func() {
		extended := b.With(func(b *builder.BorrowingBuilder) { b.DueDate = b.DueDate.AddDate(0, 0, 7) }).BuildDomain()
		s.mockCommands.EXPECT().Extend(gomock.Any(), commands.ExtendRequest{
			Actor:          commands.Actor{ID: s.callerID, Role: user.RoleMember},
			BorrowingID:    b.ID,
			AdditionalDays: 7,
		}).Return(extended, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqdto.ExtendRequest{AdditionalDays: 7}, "token")

		var body resdto.BorrowingResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &body)
		s.Equal(extended.DueDate(), body.DueDate)
	})

	s.Run("error: 400 when additional_days is missing", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: use case failures map to status codes", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
		}{
			{"out of range", commands.ErrInvalidExtension, http.StatusUnprocessableEntity},
			{"already returned", commands.ErrAlreadyReturned, http.StatusConflict},
			{"lost every compare", commands.ErrConcurrentExtension, http.StatusConflict},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Extend(gomock.Any(), gomock.Any()).Return(nil, tc.err)
				w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqdto.ExtendRequest{AdditionalDays: 31}, "token")
				s.Equal(tc.expectCode, w.Code, w.Body.String())
			})
		}
	})
}

// ================================================================================
// TestGet / TestList
// ================================================================================

func (s *BorrowingHandlerTestSuite) TestGet() {
	rec := builder.NewBorrowingBuilder().BuildDomain()
	url := "/borrowings/" + rec.ID().String()

	s.Run("success", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), rec.ID(), queries.Viewer{ID: s.callerID, Role: user.RoleMember}).
			Return(viewOf(rec), nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")

		var body resdto.BorrowingResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &body)
		s.Equal(rec.ID(), body.ID)
	})

	s.Run("error: 404 and 403", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, shared.ErrBorrowingNotFound)
		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusNotFound, "Borrowing not found")

		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, shared.ErrNotPermitted)
		w = httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusForbidden, "not permitted")
	})

	s.Run("error: 401 without token", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		s.Equal(http.StatusUnauthorized, w.Code)
	})
}

func (s *BorrowingHandlerTestSuite) TestList() {
	s.Run("success: query parameters are passed through", func() {
		userID, itemID := uuid.New(), uuid.New()
		from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		rec := builder.NewBorrowingBuilder().BuildDomain()

		s.mockQueries.EXPECT().List(gomock.Any(), gomock.Any(), queries.Viewer{ID: s.callerID, Role: user.RoleAdmin}).
			DoAndReturn(func(_ context.Context, p queries.ListBorrowingsParams, _ queries.Viewer) (*queries.BorrowingList, error) {
				s.Require().NotNil(p.UserID)
				s.Equal(userID, *p.UserID)
				s.Require().NotNil(p.ItemID)
				s.Equal(itemID, *p.ItemID)
				s.Equal("overdue", p.State)
				s.Require().NotNil(p.BorrowedFrom)
				s.True(from.Equal(*p.BorrowedFrom))
				s.Equal("due_date", p.Sort)
				s.Equal("asc", p.Order)
				s.Equal(5, p.Limit)
				s.Equal("cursor", p.After)
				return &queries.BorrowingList{Items: []*queries.BorrowingView{viewOf(rec)}, Next: "next"}, nil
			})

		url := "/borrowings?user_id=" + userID.String() + "&item_id=" + itemID.String() +
			"&state=overdue&borrowed_from=2024-01-01T00:00:00Z&sort=due_date&order=asc&limit=5&after=cursor"
		w := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodGet, url, nil, "token",
			map[string]string{testRoleHeader: string(user.RoleAdmin)})

		var body resdto.BorrowingListResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &body)
		s.Len(body.Items, 1)
		s.Equal("next", body.Next)
	})

	s.Run("error: 400 on malformed query parameters", func() {
		for _, q := range []string{"user_id=nope", "item_id=123", "borrowed_to=2024-13-45", "limit=-1"} {
			w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/borrowings?"+q, nil, "token")
			s.Equal(http.StatusBadRequest, w.Code, q)
		}
	})

	s.Run("error: 400 when the query is rejected downstream", func() {
		s.mockQueries.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(errors.New("bad state"), shared.ErrInvalidQuery))
		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/borrowings?state=lost", nil, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid query")
	})
}

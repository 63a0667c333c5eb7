//go:build e2e

package lending

import (
	"fmt"
	"net/http"
	nethttptest "net/http/httptest"
	"sync"
	"testing"
	"time"

	"library-lending/internal/domain/user"
	resdto "library-lending/internal/handler/dto/response"
	"library-lending/internal/pkg/config"
	"library-lending/tests/common/authtest"
	"library-lending/tests/common/httptest"
	"library-lending/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type LendingE2ESuite struct {
	e2e.SharedSuite
	jwt        *authtest.JWTHelper
	adminToken string
}

func TestLendingPostgres(t *testing.T) {
	suite.Run(t, &LendingE2ESuite{SharedSuite: e2e.SharedSuite{Driver: config.DriverPostgres}})
}

func TestLendingMongo(t *testing.T) {
	suite.Run(t, &LendingE2ESuite{SharedSuite: e2e.SharedSuite{Driver: config.DriverMongo}})
}

func (s *LendingE2ESuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
	s.adminToken = s.jwt.GenerateToken(s.T(), uuid.New(), user.RoleAdmin)
}

// ------------------------------------------------------------
// helpers
// ------------------------------------------------------------

type member struct {
	ID    uuid.UUID
	Token string
}

func (s *LendingE2ESuite) registerMember(name string) member {
	s.T().Helper()
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/users", map[string]any{
		"email": fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		"name":  name,
		"role":  "member",
	}, s.adminToken)
	var res resdto.UserResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &res)
	return member{ID: res.ID, Token: s.jwt.GenerateToken(s.T(), res.ID, user.RoleMember)}
}

func (s *LendingE2ESuite) registerItem(title string, copies int) uuid.UUID {
	s.T().Helper()
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/items", map[string]any{
		"title":        title,
		"author":       "Ursula K. Le Guin",
		"genre":        "fiction",
		"total_copies": copies,
	}, s.adminToken)
	var res resdto.ItemResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &res)
	return res.ID
}

func (s *LendingE2ESuite) item(id uuid.UUID) resdto.ItemResponse {
	s.T().Helper()
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/items/"+id.String(), nil, s.adminToken)
	var res resdto.ItemResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &res)
	return res
}

func (s *LendingE2ESuite) borrow(token string, itemID, key uuid.UUID) *nethttptest.ResponseRecorder {
	return httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodPost, "/api/borrowings",
		map[string]any{"item_id": itemID}, token, map[string]string{"Idempotency-Key": key.String()})
}

func (s *LendingE2ESuite) mustBorrow(m member, itemID uuid.UUID) resdto.BorrowingResponse {
	s.T().Helper()
	var res resdto.BorrowingResponse
	httptest.AssertSuccessResponse(s.T(), s.borrow(m.Token, itemID, uuid.New()), http.StatusCreated, &res)
	return res
}

// ------------------------------------------------------------
// scenarios
// ------------------------------------------------------------

func (s *LendingE2ESuite) TestBorrowAndReturnOnTime() {
	m := s.registerMember("alice")
	itemID := s.registerItem("The Dispossessed", 2)

	rec := s.mustBorrow(m, itemID)
	s.Equal(m.ID, rec.UserID)
	s.Equal("active", rec.State)
	s.Equal(14*24*time.Hour, rec.DueDate.Sub(rec.BorrowDate))
	s.Equal(1, s.item(itemID).AvailableCopies)

	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
		"/api/borrowings/"+rec.ID.String()+"/return", nil, m.Token)
	var returned resdto.BorrowingResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &returned)
	s.True(returned.IsReturned)
	s.Equal("returned", returned.State)
	s.Zero(returned.LateFeeCents)
	s.Equal(2, s.item(itemID).AvailableCopies)

	w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
		"/api/borrowings/"+rec.ID.String()+"/return", nil, m.Token)
	httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "already returned")
	s.Equal(2, s.item(itemID).AvailableCopies)
}

func (s *LendingE2ESuite) TestLateReturnChargesPerStartedDay() {
	m := s.registerMember("bob")
	itemID := s.registerItem("The Left Hand of Darkness", 1)
	rec := s.mustBorrow(m, itemID)

	returnDate := rec.DueDate.Add(2*24*time.Hour + time.Hour)
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
		"/api/borrowings/"+rec.ID.String()+"/return",
		map[string]any{"return_date": returnDate, "notes": "cover torn"}, m.Token)

	var returned resdto.BorrowingResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &returned)
	s.Equal(int64(300), returned.LateFeeCents)
	s.Equal("cover torn", returned.Notes)
}

func (s *LendingE2ESuite) TestIdempotentBorrow() {
	m := s.registerMember("carol")
	itemID := s.registerItem("A Wizard of Earthsea", 3)
	key := uuid.New()

	var first, replay resdto.BorrowingResponse
	httptest.AssertSuccessResponse(s.T(), s.borrow(m.Token, itemID, key), http.StatusCreated, &first)

	w := s.borrow(m.Token, itemID, key)
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &replay)
	httptest.AssertHeaders(s.T(), w, map[string]string{
		"Idempotent-Replayed": "true",
		"Idempotency-Key":     key.String(),
	})
	s.Equal(first.ID, replay.ID)
	s.Equal(2, s.item(itemID).AvailableCopies)

	otherItem := s.registerItem("Tehanu", 1)
	httptest.AssertErrorResponse(s.T(), s.borrow(m.Token, otherItem, key), http.StatusConflict, "Idempotency key")
	s.Equal(1, s.item(otherItem).AvailableCopies)
}

func (s *LendingE2ESuite) TestConcurrentBorrowsNeverOversell() {
	const copies, borrowers = 3, 12
	itemID := s.registerItem("The Lathe of Heaven", copies)
	members := make([]member, borrowers)
	for i := range members {
		members[i] = s.registerMember(fmt.Sprintf("reader%d", i))
	}

	codes := make([]int, borrowers)
	var wg sync.WaitGroup
	for i, m := range members {
		i, m := i, m
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes[i] = s.borrow(m.Token, itemID, uuid.New()).Code
		}()
	}
	wg.Wait()

	counts := map[int]int{}
	for _, c := range codes {
		counts[c]++
	}
	s.Equal(map[int]int{http.StatusCreated: copies, http.StatusConflict: borrowers - copies}, counts)
	s.Equal(0, s.item(itemID).AvailableCopies)
	s.Equal("fully_borrowed", s.item(itemID).Status)
}

func (s *LendingE2ESuite) TestExtend() {
	m := s.registerMember("dave")
	itemID := s.registerItem("Always Coming Home", 1)
	rec := s.mustBorrow(m, itemID)
	path := "/api/borrowings/" + rec.ID.String() + "/extend"

	var extended resdto.BorrowingResponse
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, path, map[string]any{"additional_days": 7}, m.Token)
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &extended)
	// stored timestamps may be coarser than the response of the borrow call
	s.WithinDuration(rec.DueDate.Add(7*24*time.Hour), extended.DueDate, time.Millisecond)

	w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, path, map[string]any{"additional_days": 31}, m.Token)
	httptest.AssertErrorResponse(s.T(), w, http.StatusUnprocessableEntity, "between 1 and 30")
}

func (s *LendingE2ESuite) TestInactiveMemberCannotBorrow() {
	m := s.registerMember("erin")
	itemID := s.registerItem("Four Ways to Forgiveness", 1)

	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPatch,
		"/api/users/"+m.ID.String()+"/active", map[string]any{"active": false}, s.adminToken)
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, nil)

	httptest.AssertErrorResponse(s.T(), s.borrow(m.Token, itemID, uuid.New()), http.StatusUnprocessableEntity, "not eligible")
	s.Equal(1, s.item(itemID).AvailableCopies)
}

func (s *LendingE2ESuite) TestMembersOnlySeeTheirOwnBorrowings() {
	owner := s.registerMember("frank")
	other := s.registerMember("grace")
	itemID := s.registerItem("The Word for World Is Forest", 2)
	rec := s.mustBorrow(owner, itemID)
	s.mustBorrow(other, itemID)

	w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/borrowings/"+rec.ID.String(), nil, other.Token)
	httptest.AssertErrorResponse(s.T(), w, http.StatusForbidden, "not permitted")

	w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
		"/api/borrowings/"+rec.ID.String()+"/return", nil, other.Token)
	httptest.AssertErrorResponse(s.T(), w, http.StatusForbidden, "not permitted")

	var list resdto.BorrowingListResponse
	w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/borrowings", nil, owner.Token)
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &list)
	require.Len(s.T(), list.Items, 1)
	s.Equal(rec.ID, list.Items[0].ID)

	w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/borrowings?item_id="+itemID.String(), nil, s.adminToken)
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &list)
	s.Len(list.Items, 2)
}

func (s *LendingE2ESuite) TestListPagesWithCursor() {
	m := s.registerMember("heidi")
	for i := 0; i < 5; i++ {
		s.mustBorrow(m, s.registerItem(fmt.Sprintf("Volume %d", i), 1))
	}

	seen := map[uuid.UUID]bool{}
	path := "/api/borrowings?limit=2&sort=borrow_date&order=asc"
	for page := 0; ; page++ {
		require.Less(s.T(), page, 5, "cursor never ran out")
		var list resdto.BorrowingListResponse
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, path, nil, m.Token)
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &list)
		for _, b := range list.Items {
			s.False(seen[b.ID], "borrowing %s returned twice", b.ID)
			seen[b.ID] = true
		}
		if list.Next == "" {
			break
		}
		path = "/api/borrowings?limit=2&sort=borrow_date&order=asc&after=" + list.Next
	}
	s.Len(seen, 5)
}

func (s *LendingE2ESuite) TestStatistics() {
	alice := s.registerMember("ivan")
	first := s.registerItem("The Telling", 2)
	second := s.registerItem("Lavinia", 1)
	rec := s.mustBorrow(alice, first)
	s.mustBorrow(alice, second)

	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
		"/api/borrowings/"+rec.ID.String()+"/return",
		map[string]any{"return_date": rec.DueDate.Add(23 * time.Hour)}, alice.Token)
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, nil)

	var stats resdto.StatisticsResponse
	w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/statistics", nil, s.adminToken)
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &stats)

	s.Equal(int64(2), stats.TotalTitles)
	s.Equal(int64(3), stats.TotalCopies)
	s.Equal(int64(2), stats.AvailableCopies)
	s.Equal(int64(1), stats.ActiveBorrowings)
	s.Equal(int64(1), stats.ReturnedBorrowings)
	s.Equal(int64(100), stats.TotalLateFeesCents)
	s.Equal(int64(2), stats.ItemsAddedInPeriod)
	require.NotEmpty(s.T(), stats.MostActiveUsers)
	s.Equal(alice.ID, stats.MostActiveUsers[0].UserID)
	s.Equal(int64(2), stats.MostActiveUsers[0].Count)

	w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/statistics", nil, alice.Token)
	httptest.AssertErrorResponse(s.T(), w, http.StatusForbidden, "Insufficient permissions")
}

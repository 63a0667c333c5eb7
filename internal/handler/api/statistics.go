package api

import (
	"net/http"

	resdto "library-lending/internal/handler/dto/response"
	"library-lending/internal/handler/httperr"
	"library-lending/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	q queries.StatisticsQueries
}

func NewStatisticsHandler(q queries.StatisticsQueries) *StatisticsHandler {
	return &StatisticsHandler{q: q}
}

// @Summary Library statistics
// @Description Catalog and lending totals, the current calendar month, and top borrowers and items
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.StatisticsResponse
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /statistics [get]
func (h *StatisticsHandler) Get(c *gin.Context) {
	view, err := h.q.Snapshot(c.Request.Context())
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	res, err := resdto.FromStatisticsView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

package api

import (
	"net/http"

	reqdto "library-lending/internal/handler/dto/request"
	resdto "library-lending/internal/handler/dto/response"
	"library-lending/internal/usecase/commands"
	"library-lending/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ItemHandler struct {
	cmds commands.CatalogCommands
	q    queries.ItemQueries
}

func NewItemHandler(cmds commands.CatalogCommands, q queries.ItemQueries) *ItemHandler {
	return &ItemHandler{cmds: cmds, q: q}
}

// @Summary Register item
// @Description Add an item to the catalog with every copy available
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.RegisterItemRequest true "Item"
// @Success 201 {object} resdto.ItemResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /items [post]
func (h *ItemHandler) Register(c *gin.Context) {
	var req reqdto.RegisterItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err, "Invalid request")
		return
	}
	it, err := h.cmds.RegisterItem(c.Request.Context(), commands.RegisterItemRequest{
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		TotalCopies: req.TotalCopies,
	})
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromItemView(queries.NewItemView(it)))
}

// @Summary Get item
// @Tags items
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 200 {object} resdto.ItemResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /items/{id} [get]
func (h *ItemHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortBadRequest(c, err, "Invalid item id")
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromItemView(view))
}

// @Summary List items
// @Description List catalog items, newest first, with optional filters
// @Tags items
// @Produce json
// @Security BearerAuth
// @Param genre query string false "Exact genre, case-insensitive"
// @Param author query string false "Exact author, case-insensitive"
// @Param status query string false "available, partially_available, fully_borrowed or not_available"
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.ItemListResponse
// @Failure 400 {object} httperr.Response
// @Router /items [get]
func (h *ItemHandler) List(c *gin.Context) {
	var q reqdto.ListItemsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBadRequest(c, err, "Invalid query")
		return
	}
	list, err := h.q.List(c.Request.Context(), queries.ListItemsParams{
		Genre:  q.Genre,
		Author: q.Author,
		Status: q.Status,
		Limit:  q.Limit,
		After:  q.After,
	})
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromItemList(list))
}

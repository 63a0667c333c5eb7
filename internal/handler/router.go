package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"library-lending/internal/domain/user"
	"library-lending/internal/handler/api"
	"library-lending/internal/handler/middleware"
	"library-lending/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Borrowings *api.BorrowingHandler
	Items      *api.ItemHandler
	Users      *api.UserHandler
	Statistics *api.StatisticsHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware, logger *slog.Logger) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery(logger))
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.ErrorHandler(logger))
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	can := authMiddleware.RequirePermission

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireAuth())
	{
		addRoutes(apiGroup.Group("/borrowings"), []route{
			{Method: http.MethodPost, Path: "", Handler: h.Borrowings.Borrow, Mw: []gin.HandlerFunc{can(user.PermBorrow)}},
			{Method: http.MethodGet, Path: "", Handler: h.Borrowings.List},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Borrowings.Get},
			{Method: http.MethodPost, Path: "/:id/return", Handler: h.Borrowings.Return},
			{Method: http.MethodPost, Path: "/:id/extend", Handler: h.Borrowings.Extend},
		})

		addRoutes(apiGroup.Group("/items"), []route{
			{Method: http.MethodPost, Path: "", Handler: h.Items.Register, Mw: []gin.HandlerFunc{can(user.PermManageCatalog)}},
			{Method: http.MethodGet, Path: "", Handler: h.Items.List},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Items.Get},
		})

		addRoutes(apiGroup.Group("/users"), []route{
			{Method: http.MethodPost, Path: "", Handler: h.Users.Register, Mw: []gin.HandlerFunc{can(user.PermManageUsers)}},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Users.Get},
			{Method: http.MethodPatch, Path: "/:id/active", Handler: h.Users.SetActive, Mw: []gin.HandlerFunc{can(user.PermManageUsers)}},
		})

		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/statistics", Handler: h.Statistics.Get, Mw: []gin.HandlerFunc{can(user.PermViewStatistics)}},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}

package middleware

import (
	"log/slog"
	"slices"

	"library-lending/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// lendingHeaders are always exposed so browser clients can read idempotency results.
var lendingHeaders = []string{"Idempotency-Key", "Idempotent-Replayed", headerRequestID}

func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	expose := slices.Clone(cfg.ExposeHeaders)
	for _, h := range lendingHeaders {
		if !slices.Contains(expose, h) {
			expose = append(expose, h)
		}
	}

	allow := slices.Clone(cfg.AllowHeaders)
	for _, h := range []string{"Idempotency-Key", headerRequestID} {
		if !slices.Contains(allow, h) {
			allow = append(allow, h)
		}
	}

	slog.Info("CORS middleware initialized", "allow_origins", cfg.AllowOrigins, "expose_headers", expose)
	return cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     allow,
		ExposeHeaders:    expose,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}

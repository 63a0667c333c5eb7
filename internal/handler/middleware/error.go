package middleware

import (
	"log/slog"
	"net/http"

	"library-lending/internal/handler/httperr"
	"library-lending/internal/infra"
	"library-lending/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const stackLinesLogged = 8

// ErrorHandler logs the errors handlers attached with httperr.AbortWithError and writes a
// response when the handler left none.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, ginErr := range c.Errors {
			logHandlerError(c, logger, ginErr)
		}

		if c.Writer.Written() {
			return
		}
		// the most recent public error wins
		for i := len(c.Errors) - 1; i >= 0; i-- {
			if resp, ok := c.Errors[i].Meta.(httperr.Response); ok && c.Errors[i].IsType(gin.ErrorTypePublic) {
				c.JSON(resp.Status, resp)
				return
			}
		}
		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}
		writeInternalError(c)
	}
}

// logHandlerError logs storage failures with their kind. Client errors stay at debug level
// since the request line already records the status.
func logHandlerError(c *gin.Context, logger *slog.Logger, ginErr *gin.Error) {
	status := http.StatusInternalServerError
	if resp, ok := ginErr.Meta.(httperr.Response); ok {
		status = resp.Status
	}

	attrs := []any{
		"request_id", GetRequestID(c),
		"status_code", status,
		"error", ginErr.Err.Error(),
	}
	if kind := infra.KindOf(ginErr.Err); kind != "" {
		attrs = append(attrs, "error_kind", string(kind))
	}

	switch {
	case status >= http.StatusInternalServerError:
		attrs = append(attrs, "stack", errs.ExtractStackLines(ginErr.Err, stackLinesLogged))
		logger.Error("request failed", attrs...)
	case infra.KindOf(ginErr.Err) != "":
		logger.Warn("request rejected after storage error", attrs...)
	default:
		logger.Debug("request rejected", attrs...)
	}
}

func CustomRecovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("recovered from panic",
					"panic", rec,
					"request_id", GetRequestID(c),
					"path", c.Request.URL.Path)
				writeInternalError(c)
				c.Abort()
			}
		}()
		c.Next()
	}
}

func writeInternalError(c *gin.Context) {
	resp := httperr.Response{Status: http.StatusInternalServerError}
	resp.Error.Message = "Internal server error"
	c.JSON(http.StatusInternalServerError, resp)
}

// Package handlers implements the HTTP endpoints of the daily quote API.
//
// This file holds the response helpers shared by every endpoint. All errors
// leave through fail() so clients always see the same envelope:
//
//	HTTP/1.1 429 Too Many Requests
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "rate_limited",
//	  "message": "too many submissions, try again later"
//	}
//
// Server-side failures (5xx) are logged with the request-scoped logger and
// answered with a generic message; internal error text never reaches clients.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-daily-quote/internal/http/middleware"
)

// ErrorResponse is the error envelope returned by every endpoint.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go)
	Code string `json:"code" example:"invalid"`
	// Human-readable message, safe to display
	Message string `json:"message" example:"body must be 2 to 800 characters"`
}

// OKResponse is the body of write endpoints that return nothing else.
type OKResponse struct {
	OK bool `json:"ok" example:"true"`
}

// fail aborts with the error envelope. Statuses >= 500 are logged together
// with cause (which may be nil) and the message is replaced by a generic one.
func fail(c *gin.Context, status int, code, msg string, cause ...error) {
	if status >= http.StatusInternalServerError {
		ev := middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg)
		if len(cause) > 0 && cause[0] != nil {
			ev = ev.Err(cause[0])
		}
		ev.Msg("api error")
		msg = http.StatusText(status)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	})
}

// Fail is the exported form of fail for router-level handlers (NoRoute and
// friends).
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes body as JSON with status.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// Package handlers implements the HTTP endpoints of the daily quote API.
//
// This file owns the stable error codes and the translation from service
// errors to HTTP status codes. Clients branch on the code, never on the
// message.

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-daily-quote/internal/services"
)

const (
	ErrCodeInvalid          = "invalid"
	ErrCodeBot              = "bot"
	ErrCodeBotCheckFailed   = "bot_check_failed"
	ErrCodeTooManyLinks     = "too_many_links"
	ErrCodeRateLimited      = "rate_limited"
	ErrCodeDuplicate        = "duplicate"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeUnknownAction    = "unknown_action"
	ErrCodeNotFound         = "not_found"
	ErrCodeNoQuotes         = "no_quotes"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)

// errorMapping pairs a service sentinel with its transport representation.
// Order matters: the specific bot errors precede their shared parent.
var errorMapping = []struct {
	err    error
	status int
	code   string
	msg    string
}{
	{services.ErrHoneypot, http.StatusBadRequest, ErrCodeBot, "submission rejected"},
	{services.ErrChallengeFailed, http.StatusForbidden, ErrCodeBotCheckFailed, "human verification failed"},
	{services.ErrBotSuspected, http.StatusBadRequest, ErrCodeBot, "submission rejected"},
	{services.ErrTooManyLinks, http.StatusBadRequest, ErrCodeTooManyLinks, "at most one link is allowed"},
	{services.ErrRateLimited, http.StatusTooManyRequests, ErrCodeRateLimited, "too many submissions, try again later"},
	{services.ErrDuplicateContent, http.StatusConflict, ErrCodeDuplicate, "this comment was already posted"},
	{services.ErrUnauthorized, http.StatusUnauthorized, ErrCodeUnauthorized, "missing or invalid admin credentials"},
	{services.ErrUnknownAction, http.StatusBadRequest, ErrCodeUnknownAction, "unknown action"},
	{services.ErrQuoteNotFound, http.StatusNotFound, ErrCodeNotFound, "quote not found"},
	{services.ErrNoQuotes, http.StatusServiceUnavailable, ErrCodeNoQuotes, "no quotes available"},
}

// failErr writes the response for a service error. Validation errors keep
// their field-level detail; unknown errors become a logged 500.
func failErr(c *gin.Context, err error) {
	if errors.Is(err, services.ErrInvalidInput) {
		fail(c, http.StatusBadRequest, ErrCodeInvalid, err.Error())
		return
	}
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			fail(c, m.status, m.code, m.msg, err)
			return
		}
	}
	fail(c, http.StatusInternalServerError, ErrCodeInternal, "unexpected error", err)
}

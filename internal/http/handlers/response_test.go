package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-daily-quote/internal/services"
)

func Test_fail_LogsOnlyServerErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name     string
		status   int
		code     string
		msg      string
		cause    error
		wantMsg  string
		wantLogs bool
	}{
		{"client", http.StatusBadRequest, ErrCodeInvalid, "bad input", nil, "bad input", false},
		{"server", http.StatusInternalServerError, ErrCodeInternal, "sql: connection refused", errors.New("dial tcp"), http.StatusText(500), true},
		{"unavailable", http.StatusServiceUnavailable, ErrCodeNoQuotes, "store empty", nil, http.StatusText(503), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			lg := zerolog.New(&buf)

			r := gin.New()
			r.Use(func(c *gin.Context) {
				c.Writer.Header().Set("X-Request-ID", "rid-"+tc.name)
				c.Set("logger", &lg)
				c.Next()
			})
			r.GET("/x", func(c *gin.Context) { fail(c, tc.status, tc.code, tc.msg, tc.cause) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("json: %v", err)
			}
			if w.Code != tc.status || resp.Code != tc.code || resp.Message != tc.wantMsg || resp.RequestID != "rid-"+tc.name {
				t.Fatalf("got %d %+v", w.Code, resp)
			}
			if logged := buf.Len() > 0; logged != tc.wantLogs {
				t.Fatalf("logged=%v: %q", logged, buf.String())
			}
			if tc.cause != nil && !strings.Contains(buf.String(), tc.cause.Error()) {
				t.Fatalf("cause missing from log: %q", buf.String())
			}
		})
	}
}

func Test_failErr_Mapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: body must be 2 to 800 characters", services.ErrInvalidInput), 400, ErrCodeInvalid},
		{services.ErrHoneypot, 400, ErrCodeBot},
		{services.ErrChallengeFailed, 403, ErrCodeBotCheckFailed},
		{services.ErrBotSuspected, 400, ErrCodeBot},
		{services.ErrTooManyLinks, 400, ErrCodeTooManyLinks},
		{fmt.Errorf("post: %w", services.ErrRateLimited), 429, ErrCodeRateLimited},
		{services.ErrDuplicateContent, 409, ErrCodeDuplicate},
		{services.ErrUnauthorized, 401, ErrCodeUnauthorized},
		{services.ErrUnknownAction, 400, ErrCodeUnknownAction},
		{services.ErrQuoteNotFound, 404, ErrCodeNotFound},
		{services.ErrNoQuotes, 503, ErrCodeNoQuotes},
		{errors.New("disk full"), 500, ErrCodeInternal},
	}

	for _, tc := range cases {
		r := gin.New()
		err := tc.err
		r.GET("/x", func(c *gin.Context) { failErr(c, err) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		var resp ErrorResponse
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		if w.Code != tc.status || resp.Code != tc.code {
			t.Errorf("%v: got %d/%s want %d/%s", tc.err, w.Code, resp.Code, tc.status, tc.code)
		}
	}
}

func Test_failErr_InvalidKeepsDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		failErr(c, fmt.Errorf("%w: quoteId must be 3 to 128 characters", services.ErrInvalidInput))
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	var resp ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if !strings.Contains(resp.Message, "quoteId") {
		t.Fatalf("validation detail lost: %q", resp.Message)
	}
}

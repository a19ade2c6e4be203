// Comment HTTP handlers.
//
//   - GET  /comments?quoteId=   visible thread, weak ETag / 304
//   - POST /comments            submission pipeline, Idempotency-Key replay
package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-daily-quote/internal/domain"
	"github.com/tbourn/go-daily-quote/internal/http/middleware"
	"github.com/tbourn/go-daily-quote/internal/render"
	"github.com/tbourn/go-daily-quote/internal/services"
)

// CommentView is a public comment with its rendered, sanitized body.
type CommentView struct {
	domain.Comment
	BodyHTML string `json:"body_html" example:"<p>So true.</p>"`
}

// ListCommentsResponse wraps the visible thread of a quote.
type ListCommentsResponse struct {
	Comments []CommentView `json:"comments"`
}

// PostCommentRequest is the JSON payload for posting a comment.
type PostCommentRequest struct {
	QuoteID        string  `json:"quoteId" example:"3f2a9c1b7d4e"`
	Body           string  `json:"body" example:"So true."`
	ParentID       *string `json:"parentId,omitempty"`
	DisplayName    *string `json:"displayName,omitempty" example:"Ada"`
	TurnstileToken string  `json:"turnstileToken" example:"0.abcdef"`
	Honeypot       string  `json:"honeypot,omitempty"`
}

// PostCommentResponse identifies the stored comment. CreatedAt is unix
// milliseconds.
type PostCommentResponse struct {
	OK        bool   `json:"ok" example:"true"`
	ID        string `json:"id" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	CreatedAt int64  `json:"created_at" example:"1735732800000"`
}

// ListComments godoc
// @ID          listComments
// @Summary     List visible comments of a quote
// @Description Newest first. Hidden and deleted comments are never returned. Supports weak ETag via If-None-Match.
// @Tags        Comments
// @Produce     json
//
// @Param       quoteId        query   string  true  "Quote id"                    minlength(3) maxlength(128)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {object} handlers.ListCommentsResponse
// @Header      200  {string} ETag "Weak ETag for the visible thread"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Invalid quote id"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /comments [get]
func (h *Handlers) ListComments(c *gin.Context) {
	ctx := c.Request.Context()
	quoteID := strings.TrimSpace(c.Query("quoteId"))

	// ETag pre-check (best effort).
	count, latest, err := h.comments.Stats(ctx, quoteID)
	if err != nil {
		failErr(c, err)
		return
	}
	var ts int64
	if latest != nil {
		ts = latest.UnixMilli()
	}
	etag := fmt.Sprintf(`W/"comments:%s:%d:%d"`, quoteID, count, ts)
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return
	}

	items, err := h.comments.List(ctx, quoteID)
	if err != nil {
		failErr(c, err)
		return
	}
	views := make([]CommentView, len(items))
	for i, cm := range items {
		views[i] = CommentView{Comment: cm, BodyHTML: render.CommentHTML(cm.Body)}
	}
	ok(c, http.StatusOK, ListCommentsResponse{Comments: views})
}

// PostComment godoc
// @ID          postComment
// @Summary     Post a comment
// @Description Runs the submission pipeline: schema, honeypot, human verification, link limit, abuse window, duplicate check.
// @Description A retry carrying the same Idempotency-Key from the same client returns the original comment with 200.
// @Tags        Comments
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Key for safe retries"
// @Param       body             body    handlers.PostCommentRequest  true  "Comment payload"
//
// @Success     201  {object}  handlers.PostCommentResponse  "Created"
// @Success     200  {object}  handlers.PostCommentResponse  "Replayed"
// @Failure     400  {object}  handlers.ErrorResponse  "invalid, bot or too_many_links"
// @Failure     403  {object}  handlers.ErrorResponse  "bot_check_failed"
// @Failure     409  {object}  handlers.ErrorResponse  "duplicate"
// @Failure     429  {object}  handlers.ErrorResponse  "rate_limited"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /comments [post]
func (h *Handlers) PostComment(c *gin.Context) {
	ctx := c.Request.Context()
	clientIP := c.ClientIP()

	var req PostCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalid, "invalid JSON body")
		return
	}

	// Idempotency (replay path).
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" && h.idem != nil {
		if prev, found := h.idem.Lookup(ctx, clientIP, idemKey); found {
			c.Header("Idempotency-Replayed", "true")
			ok(c, http.StatusOK, postResponse(prev.ID, prev.CreatedAt))
			return
		}
	}

	res, err := h.comments.Post(ctx, services.PostInput{
		QuoteID:        req.QuoteID,
		Body:           req.Body,
		ParentID:       req.ParentID,
		DisplayName:    req.DisplayName,
		ChallengeToken: req.TurnstileToken,
		Honeypot:       req.Honeypot,
		RemoteAddr:     clientIP,
	})
	if err != nil {
		failErr(c, err)
		return
	}

	// Idempotency (store path), best effort.
	if idemKey != "" && h.idem != nil {
		h.idem.Remember(ctx, clientIP, idemKey, res.ID)
	}
	ok(c, http.StatusCreated, postResponse(res.ID, res.CreatedAt))
}

func postResponse(id string, at time.Time) PostCommentResponse {
	return PostCommentResponse{OK: true, ID: id, CreatedAt: at.UnixMilli()}
}

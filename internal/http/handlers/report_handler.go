// Report and usage-tracking HTTP handlers.
//
//   - POST /report   abuse report on a comment
//   - POST /track    fire-and-forget usage counter
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-daily-quote/internal/services"
)

// ReportRequest is the JSON payload for reporting a comment.
type ReportRequest struct {
	CommentID string  `json:"commentId" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	QuoteID   string  `json:"quoteId" example:"3f2a9c1b7d4e"`
	Reason    string  `json:"reason" enums:"spam,abuse,offtopic,other" example:"spam"`
	Details   *string `json:"details,omitempty"`
}

// TrackRequest is the JSON payload for a usage event.
type TrackRequest struct {
	Event   string `json:"event" enums:"view_quote,share,copy_link,post_ok,post_blocked" example:"view_quote"`
	QuoteID string `json:"quoteId,omitempty" example:"3f2a9c1b7d4e"`
}

// SubmitReport godoc
// @ID          submitReport
// @Summary     Report a comment
// @Description Stores the report for moderators. The comment itself is not changed.
// @Tags        Reports
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.ReportRequest  true  "Report payload"
// @Success     201  {object} handlers.OKResponse
// @Failure     400  {object} handlers.ErrorResponse "invalid"
// @Failure     429  {object} handlers.ErrorResponse "rate_limited"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /report [post]
func (h *Handlers) SubmitReport(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalid, "invalid JSON body")
		return
	}
	err := h.reports.Submit(c.Request.Context(), services.ReportInput{
		CommentID:  req.CommentID,
		QuoteID:    req.QuoteID,
		Reason:     req.Reason,
		Details:    req.Details,
		RemoteAddr: c.ClientIP(),
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, OKResponse{OK: true})
}

// Track godoc
// @ID          track
// @Summary     Record a usage event
// @Description Best effort: storage failures are not reported to the caller.
// @Tags        Tracking
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.TrackRequest  true  "Event"
// @Success     200  {object} handlers.OKResponse
// @Failure     400  {object} handlers.ErrorResponse "invalid"
// @Router      /track [post]
func (h *Handlers) Track(c *gin.Context) {
	var req TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalid, "invalid JSON body")
		return
	}
	if err := h.track.Track(c.Request.Context(), req.Event, req.QuoteID); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, OKResponse{OK: true})
}

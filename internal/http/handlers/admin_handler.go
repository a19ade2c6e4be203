// Admin HTTP handlers. Every route here sits behind middleware.AdminAuth.
//
//   - GET  /admin/comments          filtered, keyset-paginated listing
//   - POST /admin/comments/action   hide | unhide | delete | restore | purge
//   - POST /admin/comments/hide     older hide/unhide form
//   - GET  /admin/comments/:id/history  audit trail of one comment
//   - GET  /admin/reports           newest reports
//   - GET  /admin/events            one daily usage counter
package handlers

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-daily-quote/internal/domain"
	"github.com/tbourn/go-daily-quote/internal/repo"
	"github.com/tbourn/go-daily-quote/internal/services"
	"github.com/tbourn/go-daily-quote/internal/utils"
)

// legacyMinCommentID mirrors the bound the older hide form always applied.
const legacyMinCommentID = 8

// AdminActionRequest is the JSON payload for a moderation action.
type AdminActionRequest struct {
	Action    string `json:"action" enums:"hide,unhide,delete,restore,purge" example:"hide"`
	CommentID string `json:"commentId" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
}

// AdminHideRequest is the payload of the older hide endpoint.
type AdminHideRequest struct {
	CommentID string `json:"commentId" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	Hide      bool   `json:"hide" example:"true"`
}

// AdminActionResponse reports whether stored state changed.
type AdminActionResponse struct {
	OK      bool `json:"ok" example:"true"`
	Changed bool `json:"changed" example:"true"`
}

// AdminReportsResponse lists reports with their comment's current state.
type AdminReportsResponse struct {
	Reports []repo.ReportRow `json:"reports"`
}

// AdminHistoryResponse is the audit trail of one comment.
type AdminHistoryResponse struct {
	Actions []domain.AdminAction `json:"actions"`
}

// AdminListComments godoc
// @ID          adminListComments
// @Summary     Moderation listing
// @Description Scope today resolves to the current daily quote unless quoteId is given.
// @Tags        Admin
// @Produce     json
// @Security    AdminBearer
// @Param       scope    query  string  false  "today | reported | all | hidden | deleted"  default(today)
// @Param       q        query  string  false  "Substring of body or display name"
// @Param       quoteId  query  string  false  "Restrict to one quote"
// @Param       since    query  string  false  "Inclusive lower bound (RFC 3339 or unix ms)"
// @Param       until    query  string  false  "Inclusive upper bound (RFC 3339 or unix ms)"
// @Param       cursor   query  string  false  "nextCursor of the previous page"
// @Param       limit    query  int     false  "Page size"  minimum(1) maximum(100) default(50)
// @Success     200  {object} services.ListResult
// @Failure     400  {object} handlers.ErrorResponse "invalid"
// @Failure     401  {object} handlers.ErrorResponse "unauthorized"
// @Router      /admin/comments [get]
func (h *Handlers) AdminListComments(c *gin.Context) {
	res, err := h.moderation.List(c.Request.Context(), services.ListQuery{
		Scope:   c.Query("scope"),
		Q:       c.Query("q"),
		QuoteID: c.Query("quoteId"),
		Since:   c.Query("since"),
		Until:   c.Query("until"),
		Cursor:  c.Query("cursor"),
		Limit:   utils.AtoiDefault(c.Query("limit"), 0),
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

// AdminAction godoc
// @ID          adminAction
// @Summary     Apply a moderation action
// @Description Idempotent: repeating an action succeeds with changed=false. Every call is audited.
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Security    AdminBearer
// @Param       body  body  handlers.AdminActionRequest  true  "Action"
// @Success     200  {object} handlers.AdminActionResponse
// @Failure     400  {object} handlers.ErrorResponse "invalid or unknown_action"
// @Failure     401  {object} handlers.ErrorResponse "unauthorized"
// @Router      /admin/comments/action [post]
func (h *Handlers) AdminAction(c *gin.Context) {
	var req AdminActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalid, "invalid JSON body")
		return
	}
	h.act(c, req.Action, req.CommentID)
}

// AdminHide godoc
// @ID          adminHide
// @Summary     Hide or unhide a comment
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Security    AdminBearer
// @Param       body  body  handlers.AdminHideRequest  true  "Hide flag"
// @Success     200  {object} handlers.AdminActionResponse
// @Failure     400  {object} handlers.ErrorResponse "invalid"
// @Failure     401  {object} handlers.ErrorResponse "unauthorized"
// @Router      /admin/comments/hide [post]
func (h *Handlers) AdminHide(c *gin.Context) {
	var req AdminHideRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		utf8.RuneCountInString(strings.TrimSpace(req.CommentID)) < legacyMinCommentID {
		fail(c, http.StatusBadRequest, ErrCodeInvalid, "commentId must be at least 8 characters")
		return
	}
	action := domain.ActionUnhide
	if req.Hide {
		action = domain.ActionHide
	}
	h.act(c, action, req.CommentID)
}

func (h *Handlers) act(c *gin.Context, action, commentID string) {
	res, err := h.moderation.Act(c.Request.Context(), services.ActionInput{
		Action:     action,
		CommentID:  commentID,
		RemoteAddr: c.ClientIP(),
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, AdminActionResponse{OK: true, Changed: res.Changed})
}

// AdminReports godoc
// @ID          adminReports
// @Summary     Latest reports
// @Tags        Admin
// @Produce     json
// @Security    AdminBearer
// @Param       limit  query  int  false  "Max rows"  minimum(1) maximum(200) default(200)
// @Success     200  {object} handlers.AdminReportsResponse
// @Failure     401  {object} handlers.ErrorResponse "unauthorized"
// @Router      /admin/reports [get]
func (h *Handlers) AdminReports(c *gin.Context) {
	rows, err := h.moderation.Reports(c.Request.Context(), utils.AtoiDefault(c.Query("limit"), 0))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, AdminReportsResponse{Reports: rows})
}

// AdminHistory godoc
// @ID          adminHistory
// @Summary     Audit trail of a comment
// @Description Oldest first. Purged comments keep their trail.
// @Tags        Admin
// @Produce     json
// @Security    AdminBearer
// @Param       id  path  string  true  "Comment ID"
// @Success     200  {object} handlers.AdminHistoryResponse
// @Failure     400  {object} handlers.ErrorResponse "invalid"
// @Failure     401  {object} handlers.ErrorResponse "unauthorized"
// @Router      /admin/comments/{id}/history [get]
func (h *Handlers) AdminHistory(c *gin.Context) {
	rows, err := h.moderation.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, AdminHistoryResponse{Actions: rows})
}

// AdminEventCount godoc
// @ID          adminEventCount
// @Summary     Read a daily usage counter
// @Tags        Admin
// @Produce     json
// @Security    AdminBearer
// @Param       event    query  string  true   "view_quote | share | copy_link | post_ok | post_blocked"
// @Param       quoteId  query  string  false  "Quote the counter is keyed on; empty for quote-less events"
// @Param       ymd      query  int     false  "Day as YYYYMMDD; defaults to today in the site zone"
// @Success     200  {object} services.EventCount
// @Failure     400  {object} handlers.ErrorResponse "invalid"
// @Failure     401  {object} handlers.ErrorResponse "unauthorized"
// @Router      /admin/events [get]
func (h *Handlers) AdminEventCount(c *gin.Context) {
	res, err := h.track.Count(c.Request.Context(), c.Query("event"), c.Query("quoteId"), utils.AtoiDefault(c.Query("ymd"), 0))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

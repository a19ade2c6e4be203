// Quote HTTP handlers.
//
//   - GET /quote/today          the site-local day's quote
//   - GET /quote/{id}           lookup by content address
//   - GET /quotes/history       recent daily picks
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-daily-quote/internal/domain"
	"github.com/tbourn/go-daily-quote/internal/quotes"
	"github.com/tbourn/go-daily-quote/internal/utils"
)

// QuoteResponse wraps a single quote.
type QuoteResponse struct {
	Quote domain.Quote `json:"quote"`
}

// HistoryResponse lists recent picks, newest first.
type HistoryResponse struct {
	Days []quotes.Pick `json:"days"`
}

// TodayQuote godoc
// @ID          todayQuote
// @Summary     Quote of the day
// @Description Deterministic for the calendar day in the site timezone.
// @Tags        Quotes
// @Produce     json
// @Success     200  {object} quotes.Pick
// @Failure     503  {object} handlers.ErrorResponse "No quotes loaded"
// @Router      /quote/today [get]
func (h *Handlers) TodayQuote(c *gin.Context) {
	p, err := h.quotes.Today(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=300")
	ok(c, http.StatusOK, p)
}

// GetQuote godoc
// @ID          getQuote
// @Summary     Look a quote up by id
// @Tags        Quotes
// @Produce     json
// @Param       id   path   string  true  "Quote id (12 hex chars)"  example(3f2a9c1b7d4e)
// @Success     200  {object} handlers.QuoteResponse
// @Failure     404  {object} handlers.ErrorResponse "Unknown id"
// @Router      /quote/{id} [get]
func (h *Handlers) GetQuote(c *gin.Context) {
	q, err := h.quotes.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	ok(c, http.StatusOK, QuoteResponse{Quote: q})
}

// QuoteHistory godoc
// @ID          quoteHistory
// @Summary     Recent daily quotes
// @Tags        Quotes
// @Produce     json
// @Param       days  query  int  false  "Number of days"  minimum(1) maximum(60) default(14)
// @Success     200  {object} handlers.HistoryResponse
// @Failure     503  {object} handlers.ErrorResponse "No quotes loaded"
// @Router      /quotes/history [get]
func (h *Handlers) QuoteHistory(c *gin.Context) {
	days, err := h.quotes.History(c.Request.Context(), utils.AtoiDefault(c.Query("days"), 0))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, HistoryResponse{Days: days})
}

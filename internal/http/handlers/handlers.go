// Package handlers implements the HTTP endpoints of the daily quote API.
//
// Handlers are transport-thin: they bind and shape input, call a service
// through the narrow interfaces below, and map results and errors onto HTTP.
// All business rules (validation bounds, abuse checks, moderation state)
// live in the services package.
package handlers

import (
	"context"
	"time"

	"github.com/tbourn/go-daily-quote/internal/domain"
	"github.com/tbourn/go-daily-quote/internal/quotes"
	"github.com/tbourn/go-daily-quote/internal/repo"
	"github.com/tbourn/go-daily-quote/internal/services"
)

// CommentService lists and accepts public comments.
type CommentService interface {
	List(ctx context.Context, quoteID string) ([]domain.Comment, error)
	Stats(ctx context.Context, quoteID string) (int64, *time.Time, error)
	Post(ctx context.Context, in services.PostInput) (*services.PostResult, error)
}

// ReportService accepts abuse reports.
type ReportService interface {
	Submit(ctx context.Context, in services.ReportInput) error
}

// QuoteService answers quote lookups.
type QuoteService interface {
	Today(ctx context.Context) (quotes.Pick, error)
	ByID(ctx context.Context, id string) (domain.Quote, error)
	History(ctx context.Context, days int) ([]quotes.Pick, error)
}

// TrackService records usage counters.
type TrackService interface {
	Track(ctx context.Context, event, quoteID string) error
	Count(ctx context.Context, event, quoteID string, ymd int) (services.EventCount, error)
}

// ModerationService backs the admin endpoints.
type ModerationService interface {
	List(ctx context.Context, q services.ListQuery) (*services.ListResult, error)
	Act(ctx context.Context, in services.ActionInput) (*services.ActionResult, error)
	Reports(ctx context.Context, limit int) ([]repo.ReportRow, error)
	History(ctx context.Context, commentID string) ([]domain.AdminAction, error)
}

// IdempotencyStore replays and remembers comment posts per Idempotency-Key.
type IdempotencyStore interface {
	Lookup(ctx context.Context, clientIP, key string) (*services.PostResult, bool)
	Remember(ctx context.Context, clientIP, key, commentID string)
}

// Services bundles the dependencies of Handlers. Idempotency may be nil.
type Services struct {
	Comments    CommentService
	Reports     ReportService
	Quotes      QuoteService
	Track       TrackService
	Moderation  ModerationService
	Idempotency IdempotencyStore
}

// Handlers groups the HTTP endpoints.
type Handlers struct {
	comments   CommentService
	reports    ReportService
	quotes     QuoteService
	track      TrackService
	moderation ModerationService
	idem       IdempotencyStore
}

// New constructs Handlers bound to svc.
func New(svc Services) *Handlers {
	return &Handlers{
		comments:   svc.Comments,
		reports:    svc.Reports,
		quotes:     svc.Quotes,
		track:      svc.Track,
		moderation: svc.Moderation,
		idem:       svc.Idempotency,
	}
}

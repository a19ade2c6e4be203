package services

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-daily-quote/internal/domain"
	"github.com/tbourn/go-daily-quote/internal/quotes"
	"github.com/tbourn/go-daily-quote/internal/utils"
)

// History bounds, in days.
const (
	DefaultHistoryDays = 14
	MaxHistoryDays     = 60
)

// QuoteService answers quote lookups from the in-memory store.
type QuoteService struct {
	Store    *quotes.Store
	Selector quotes.Selector
	Now      func() time.Time
}

// Today returns the quote of the current site-local day.
func (s *QuoteService) Today(ctx context.Context) (quotes.Pick, error) {
	_, span := otel.Tracer("services/QuoteService").Start(ctx, "Today")
	defer span.End()

	p, ok := s.Selector.Pick(s.Store, nowFrom(s.Now))
	if !ok {
		return quotes.Pick{}, ErrNoQuotes
	}
	span.SetAttributes(attribute.String("quote.id", p.Quote.ID), attribute.Int("quote.ymd", p.DateYmd))
	return p, nil
}

// ByID returns the quote with the given id.
func (s *QuoteService) ByID(ctx context.Context, id string) (domain.Quote, error) {
	_, span := otel.Tracer("services/QuoteService").Start(ctx, "ByID",
		trace.WithAttributes(attribute.String("quote.id", id)),
	)
	defer span.End()

	q, ok := s.Store.ByID(strings.TrimSpace(id))
	if !ok {
		return domain.Quote{}, ErrQuoteNotFound
	}
	return q, nil
}

// History returns the picks for today and the preceding days, newest first.
// days <= 0 selects DefaultHistoryDays; larger values are capped.
func (s *QuoteService) History(ctx context.Context, days int) ([]quotes.Pick, error) {
	_, span := otel.Tracer("services/QuoteService").Start(ctx, "History",
		trace.WithAttributes(attribute.Int("history.days", days)),
	)
	defer span.End()

	if days <= 0 {
		days = DefaultHistoryDays
	}
	days = utils.Clamp(days, 1, MaxHistoryDays)
	if s.Store.Len() == 0 {
		return nil, ErrNoQuotes
	}
	return s.Selector.History(s.Store, nowFrom(s.Now), days), nil
}

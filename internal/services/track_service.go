package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-daily-quote/internal/quotes"
	"github.com/tbourn/go-daily-quote/internal/repo"
)

// Usage events accepted by Track.
const (
	EventViewQuote   = "view_quote"
	EventShare       = "share"
	EventCopyLink    = "copy_link"
	EventPostOK      = "post_ok"
	EventPostBlocked = "post_blocked"
)

var trackEvents = map[string]bool{
	EventViewQuote:   true,
	EventShare:       true,
	EventCopyLink:    true,
	EventPostOK:      true,
	EventPostBlocked: true,
}

// EventCount is the value of one daily usage counter.
type EventCount struct {
	Ymd     int    `json:"ymd" example:"20250101"`
	Event   string `json:"event" example:"share"`
	QuoteID string `json:"quoteId" example:"3f2a9c1b7d4e"`
	N       int64  `json:"n" example:"12"`
}

// TrackService maintains the daily usage counters.
type TrackService struct {
	DB       *gorm.DB
	Selector quotes.Selector
	Now      func() time.Time
}

// Track bumps the (site-local day, quoteID, event) counter. Only an unknown
// event is reported as an error; storage failures are logged and dropped.
func (s *TrackService) Track(ctx context.Context, event, quoteID string) error {
	ctx, span := otel.Tracer("services/TrackService").Start(ctx, "Track",
		trace.WithAttributes(
			attribute.String("track.event", event),
			attribute.String("quote.id", quoteID),
		),
	)
	defer span.End()

	event = strings.TrimSpace(event)
	if !trackEvents[event] {
		return invalidf("unknown event %q", event)
	}
	quoteID = strings.TrimSpace(quoteID)
	if len(quoteID) > MaxQuoteIDRunes {
		return invalidf("quoteId must be at most %d characters", MaxQuoteIDRunes)
	}

	ymd := s.Selector.DayKey(nowFrom(s.Now))
	if err := repo.IncrementEvent(ctx, s.DB, ymd, quoteID, event); err != nil {
		span.RecordError(err)
		log.Ctx(ctx).Warn().Err(err).Str("event", event).Msg("track write failed")
		return nil
	}
	trackedEvents.WithLabelValues(event).Inc()
	return nil
}

// Count returns one counter. ymd <= 0 selects the current site-local day.
func (s *TrackService) Count(ctx context.Context, event, quoteID string, ymd int) (EventCount, error) {
	ctx, span := otel.Tracer("services/TrackService").Start(ctx, "Count",
		trace.WithAttributes(attribute.String("track.event", event)),
	)
	defer span.End()

	event = strings.TrimSpace(event)
	if !trackEvents[event] {
		return EventCount{}, invalidf("unknown event %q", event)
	}
	if ymd <= 0 {
		ymd = s.Selector.DayKey(nowFrom(s.Now))
	}
	out := EventCount{Ymd: ymd, Event: event, QuoteID: strings.TrimSpace(quoteID)}
	n, err := repo.GetEventCount(ctx, s.DB, ymd, out.QuoteID, event)
	if err != nil {
		span.RecordError(err)
		return EventCount{}, err
	}
	out.N = n
	return out, nil
}

package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-daily-quote/internal/domain"
	"github.com/tbourn/go-daily-quote/internal/events"
	"github.com/tbourn/go-daily-quote/internal/hashing"
	"github.com/tbourn/go-daily-quote/internal/repo"
)

// Report field bounds, counted in runes.
const (
	MinCommentIDRunes = 8
	MaxCommentIDRunes = 128
	MaxDetailsRunes   = 400
)

var reportReasons = map[string]bool{
	domain.ReasonSpam:     true,
	domain.ReasonAbuse:    true,
	domain.ReasonOfftopic: true,
	domain.ReasonOther:    true,
}

// ReportInput is an abuse report as received from the transport layer.
type ReportInput struct {
	CommentID  string
	QuoteID    string
	Reason     string
	Details    *string
	RemoteAddr string
}

// ReportService records abuse reports. Reports never change the reported
// comment; moderators act on them through ModerationService.
type ReportService struct {
	DB     *gorm.DB
	Hasher hashing.Hasher
	Guard  AbuseGuard
	Events events.Publisher
	Now    func() time.Time
}

// Submit validates in, applies the reporter's abuse window and stores it.
func (s *ReportService) Submit(ctx context.Context, in ReportInput) (err error) {
	ctx, span := otel.Tracer("services/ReportService").Start(ctx, "Submit",
		trace.WithAttributes(
			attribute.String("comment.id", in.CommentID),
			attribute.String("report.reason", in.Reason),
		),
	)
	defer func() {
		reportOutcomes.WithLabelValues(outcome(err)).Inc()
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	r, err := validateReport(in)
	if err != nil {
		return err
	}

	r.ReporterHash = s.Hasher.Fingerprint(in.RemoteAddr)
	g := s.Guard
	if g.Now == nil {
		g.Now = s.Now
	}
	if err := g.Check(ctx, s.countReports, r.ReporterHash); err != nil {
		return err
	}

	r.CreatedAt = nowFrom(s.Now)
	if err := repo.CreateReport(ctx, s.DB, r); err != nil {
		return err
	}

	publish(ctx, s.Events, events.SubjectReportCreated, map[string]any{
		"id":         r.ID,
		"comment_id": r.CommentID,
		"quote_id":   r.QuoteID,
		"reason":     r.Reason,
	})
	return nil
}

func (s *ReportService) countReports(ctx context.Context, fp string, since time.Time) (int64, error) {
	return repo.CountReportsSince(ctx, s.DB, fp, since)
}

func validateReport(in ReportInput) (*domain.Report, error) {
	commentID := strings.TrimSpace(in.CommentID)
	if n := utf8.RuneCountInString(commentID); n < MinCommentIDRunes || n > MaxCommentIDRunes {
		return nil, invalidf("commentId must be %d to %d characters", MinCommentIDRunes, MaxCommentIDRunes)
	}
	quoteID := strings.TrimSpace(in.QuoteID)
	if err := checkQuoteID(quoteID); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(in.Reason)
	if !reportReasons[reason] {
		return nil, invalidf("reason must be one of spam, abuse, offtopic, other")
	}
	details := trimmedOrNil(in.Details)
	if details != nil && utf8.RuneCountInString(*details) > MaxDetailsRunes {
		return nil, invalidf("details must be at most %d characters", MaxDetailsRunes)
	}
	return &domain.Report{
		CommentID: commentID,
		QuoteID:   quoteID,
		Reason:    reason,
		Details:   details,
	}, nil
}

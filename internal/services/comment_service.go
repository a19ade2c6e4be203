// Package services – CommentService
//
// CommentService owns the public comment lifecycle: listing the visible
// thread of a quote, exposing cheap stats for ETags, and running the posting
// pipeline. The pipeline checks are ordered and short-circuit on the first
// failure:
//
//	schema → honeypot → challenge → link count → abuse window → duplicate → insert
//
// Every public method is OpenTelemetry-instrumented.

package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-daily-quote/internal/domain"
	"github.com/tbourn/go-daily-quote/internal/events"
	"github.com/tbourn/go-daily-quote/internal/hashing"
	"github.com/tbourn/go-daily-quote/internal/render"
	"github.com/tbourn/go-daily-quote/internal/repo"
	"github.com/tbourn/go-daily-quote/internal/verify"
)

// Field bounds for comment submissions, counted in runes.
const (
	MinBodyRunes        = 2
	MaxBodyRunes        = 800
	MaxDisplayNameRunes = 40
	MinQuoteIDRunes     = 3
	MaxQuoteIDRunes     = 128
	MaxParentIDRunes    = 128
	MaxLinks            = 1
)

var linkRe = regexp.MustCompile(`(?i)https?://`)

// PostInput is a comment submission as received from the transport layer.
type PostInput struct {
	QuoteID        string
	Body           string
	ParentID       *string
	DisplayName    *string
	ChallengeToken string
	Honeypot       string
	RemoteAddr     string
}

// PostResult identifies a stored comment.
type PostResult struct {
	ID        string
	CreatedAt time.Time
}

// CommentService implements listing and posting of comments.
type CommentService struct {
	DB       *gorm.DB
	Hasher   hashing.Hasher
	Verifier verify.Verifier
	Guard    AbuseGuard
	Events   events.Publisher
	Now      func() time.Time
}

// List returns the visible comments of quoteID, newest first.
func (s *CommentService) List(ctx context.Context, quoteID string) ([]domain.Comment, error) {
	ctx, span := otel.Tracer("services/CommentService").Start(ctx, "List",
		trace.WithAttributes(attribute.String("quote.id", quoteID)),
	)
	defer span.End()

	quoteID = strings.TrimSpace(quoteID)
	if err := checkQuoteID(quoteID); err != nil {
		return nil, err
	}
	items, err := repo.ListVisibleComments(ctx, s.DB, quoteID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("comments.count", len(items)))
	return items, nil
}

// Stats returns the visible comment count of quoteID and the latest
// updated_at among them (nil when there are none).
func (s *CommentService) Stats(ctx context.Context, quoteID string) (int64, *time.Time, error) {
	ctx, span := otel.Tracer("services/CommentService").Start(ctx, "Stats",
		trace.WithAttributes(attribute.String("quote.id", quoteID)),
	)
	defer span.End()

	quoteID = strings.TrimSpace(quoteID)
	if err := checkQuoteID(quoteID); err != nil {
		return 0, nil, err
	}
	return repo.VisibleCommentsStats(ctx, s.DB, quoteID)
}

// Post runs the posting pipeline and stores the comment.
func (s *CommentService) Post(ctx context.Context, in PostInput) (res *PostResult, err error) {
	ctx, span := otel.Tracer("services/CommentService").Start(ctx, "Post",
		trace.WithAttributes(attribute.String("quote.id", in.QuoteID)),
	)
	defer func() {
		commentOutcomes.WithLabelValues(outcome(err)).Inc()
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	c, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Honeypot) != "" {
		return nil, ErrHoneypot
	}

	if !s.verify(ctx, in.ChallengeToken, in.RemoteAddr) {
		return nil, ErrChallengeFailed
	}

	if len(linkRe.FindAllStringIndex(c.Body, -1)) > MaxLinks {
		return nil, ErrTooManyLinks
	}

	c.IPHash = s.Hasher.Fingerprint(in.RemoteAddr)
	if err := s.guard().Check(ctx, s.countComments, c.IPHash); err != nil {
		return nil, err
	}

	c.BodyHash = hashing.BodyHash(c.Body)
	dup, err := repo.CommentBodyExists(ctx, s.DB, c.QuoteID, c.BodyHash)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, ErrDuplicateContent
	}

	now := nowFrom(s.Now)
	c.CreatedAt, c.UpdatedAt = now, now
	if err := repo.CreateComment(ctx, s.DB, c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateContent
		}
		return nil, err
	}
	span.SetAttributes(attribute.String("comment.id", c.ID))

	publish(ctx, s.Events, events.SubjectCommentCreated, map[string]any{
		"id":         c.ID,
		"quote_id":   c.QuoteID,
		"parent_id":  c.ParentID,
		"created_at": c.CreatedAt,
	})
	return &PostResult{ID: c.ID, CreatedAt: c.CreatedAt}, nil
}

// validate applies the field bounds and returns the normalized comment.
func (s *CommentService) validate(in PostInput) (*domain.Comment, error) {
	quoteID := strings.TrimSpace(in.QuoteID)
	if err := checkQuoteID(quoteID); err != nil {
		return nil, err
	}

	body := strings.TrimSpace(in.Body)
	if n := utf8.RuneCountInString(body); n < MinBodyRunes || n > MaxBodyRunes {
		return nil, invalidf("body must be %d to %d characters", MinBodyRunes, MaxBodyRunes)
	}

	name := displayName(in.DisplayName)
	if name != nil && utf8.RuneCountInString(*name) > MaxDisplayNameRunes {
		return nil, invalidf("displayName must be at most %d characters", MaxDisplayNameRunes)
	}

	parent := trimmedOrNil(in.ParentID)
	if parent != nil && utf8.RuneCountInString(*parent) > MaxParentIDRunes {
		return nil, invalidf("parentId must be at most %d characters", MaxParentIDRunes)
	}

	return &domain.Comment{
		QuoteID:     quoteID,
		ParentID:    parent,
		Body:        body,
		DisplayName: name,
	}, nil
}

// verify is fail-closed: a missing verifier or a verification error rejects.
func (s *CommentService) verify(ctx context.Context, token, remoteAddr string) bool {
	if s.Verifier == nil {
		return false
	}
	ok, err := s.Verifier.Verify(ctx, token, remoteAddr)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("challenge verification failed")
		return false
	}
	return ok
}

func (s *CommentService) guard() AbuseGuard {
	g := s.Guard
	if g.Now == nil {
		g.Now = s.Now
	}
	return g
}

func (s *CommentService) countComments(ctx context.Context, fp string, since time.Time) (int64, error) {
	return repo.CountCommentsSince(ctx, s.DB, fp, since)
}

func checkQuoteID(id string) error {
	if n := utf8.RuneCountInString(id); n < MinQuoteIDRunes || n > MaxQuoteIDRunes {
		return invalidf("quoteId must be %d to %d characters", MinQuoteIDRunes, MaxQuoteIDRunes)
	}
	return nil
}

func trimmedOrNil(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

// displayName strips markup from a supplied name; a name with no text left
// is dropped.
func displayName(p *string) *string {
	if p == nil {
		return nil
	}
	name := render.PlainText(*p)
	return trimmedOrNil(&name)
}

// publish sends an event and logs, but otherwise ignores, delivery errors.
func publish(ctx context.Context, p events.Publisher, subject string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, subject, payload); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("subject", subject).Msg("event publish failed")
	}
}

// Package services – ModerationService
//
// ModerationService backs the admin surface: a filtered, keyset-paginated
// comment listing, the moderation state machine and the report inbox.
// Authentication happens in HTTP middleware before any of these run.
//
// State machine per comment (purge leaves no row behind):
//
//	hidden:    false <-hide/unhide-> true
//	deleted:   nil   <-delete/restore-> timestamp
//
// Every action is idempotent and followed by a best-effort audit row.

package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-daily-quote/internal/domain"
	"github.com/tbourn/go-daily-quote/internal/events"
	"github.com/tbourn/go-daily-quote/internal/hashing"
	"github.com/tbourn/go-daily-quote/internal/quotes"
	"github.com/tbourn/go-daily-quote/internal/repo"
	"github.com/tbourn/go-daily-quote/internal/utils"
)

// Listing bounds.
const (
	DefaultAdminLimit   = 50
	MaxAdminLimit       = 100
	DefaultReportsLimit = 200
	QuotePreviewRunes   = 120
)

var adminScopes = map[string]bool{
	domain.ScopeToday:    true,
	domain.ScopeReported: true,
	domain.ScopeAll:      true,
	domain.ScopeHidden:   true,
	domain.ScopeDeleted:  true,
}

// ListQuery carries the raw admin listing parameters. Since and Until accept
// RFC 3339 timestamps or unix milliseconds.
type ListQuery struct {
	Scope   string
	Q       string
	QuoteID string
	Since   string
	Until   string
	Cursor  string
	Limit   int
}

// AdminItem is a comment enriched for moderators.
type AdminItem struct {
	domain.Comment
	ReportsCount int64   `json:"reports_count"`
	QuotePreview *string `json:"quote_preview"`
	QuoteSource  *string `json:"quote_source"`
}

// ListResult is one page of the admin listing. NextCursor is empty on the
// last page.
type ListResult struct {
	Items      []AdminItem `json:"items"`
	NextCursor string      `json:"nextCursor,omitempty"`
}

// ActionInput is a moderation request.
type ActionInput struct {
	Action     string
	CommentID  string
	RemoteAddr string
}

// ActionResult reports whether the action changed stored state.
type ActionResult struct {
	Changed bool
}

// ModerationService implements the admin operations.
type ModerationService struct {
	DB       *gorm.DB
	Quotes   *quotes.Store
	Selector quotes.Selector
	Hasher   hashing.Hasher
	Events   events.Publisher
	Now      func() time.Time
}

// List returns a page of comments matching q.
func (s *ModerationService) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	ctx, span := otel.Tracer("services/ModerationService").Start(ctx, "List",
		trace.WithAttributes(
			attribute.String("admin.scope", q.Scope),
			attribute.Int("admin.limit", q.Limit),
		),
	)
	defer span.End()

	f, limit, err := s.filter(q)
	if err != nil {
		return nil, err
	}

	rows, err := repo.ListAdminComments(ctx, s.DB, f)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	res := &ListResult{Items: []AdminItem{}}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		res.NextCursor = Cursor{T: last.CreatedAt, ID: last.ID}.Encode()
	}
	if len(rows) == 0 {
		return res, nil
	}

	ids := make([]string, len(rows))
	for i, c := range rows {
		ids[i] = c.ID
	}
	counts, err := repo.CountReportsByComment(ctx, s.DB, ids)
	if err != nil {
		return nil, err
	}

	res.Items = make([]AdminItem, len(rows))
	for i, c := range rows {
		item := AdminItem{Comment: c, ReportsCount: counts[c.ID]}
		if qt, ok := s.Quotes.ByID(c.QuoteID); ok {
			preview, source := qt.Preview(QuotePreviewRunes), qt.Source
			item.QuotePreview, item.QuoteSource = &preview, &source
		}
		res.Items[i] = item
	}
	span.SetAttributes(attribute.Int("admin.items", len(res.Items)))
	return res, nil
}

// filter turns raw parameters into a repository filter and the page size.
func (s *ModerationService) filter(q ListQuery) (repo.CommentFilter, int, error) {
	scope := strings.ToLower(strings.TrimSpace(q.Scope))
	if scope == "" {
		scope = domain.ScopeToday
	}
	if !adminScopes[scope] {
		return repo.CommentFilter{}, 0, invalidf("unknown scope %q", q.Scope)
	}

	since, err := parseTimeParam(q.Since)
	if err != nil {
		return repo.CommentFilter{}, 0, invalidf("since: %v", err)
	}
	until, err := parseTimeParam(q.Until)
	if err != nil {
		return repo.CommentFilter{}, 0, invalidf("until: %v", err)
	}

	limit := DefaultAdminLimit
	if q.Limit != 0 {
		limit = utils.Clamp(q.Limit, 1, MaxAdminLimit)
	}

	f := repo.CommentFilter{
		Scope:   scope,
		QuoteID: strings.TrimSpace(q.QuoteID),
		Q:       q.Q,
		Since:   since,
		Until:   until,
		Limit:   limit + 1,
	}
	if scope == domain.ScopeToday && f.QuoteID == "" {
		if p, ok := s.Selector.Pick(s.Quotes, nowFrom(s.Now)); ok {
			f.QuoteID = p.Quote.ID
		}
	}
	if c, ok := DecodeCursor(q.Cursor); ok {
		f.BeforeT, f.BeforeID = &c.T, c.ID
	}
	return f, limit, nil
}

// Act applies a moderation action to a comment and records it in the audit
// trail. Repeating an action is a successful no-op.
func (s *ModerationService) Act(ctx context.Context, in ActionInput) (*ActionResult, error) {
	ctx, span := otel.Tracer("services/ModerationService").Start(ctx, "Act",
		trace.WithAttributes(
			attribute.String("admin.action", in.Action),
			attribute.String("comment.id", in.CommentID),
		),
	)
	defer span.End()

	commentID := strings.TrimSpace(in.CommentID)
	if commentID == "" {
		return nil, invalidf("commentId is required")
	}
	action := strings.ToLower(strings.TrimSpace(in.Action))

	var quoteID string
	if c, err := repo.GetComment(ctx, s.DB, commentID); err == nil {
		quoteID = c.QuoteID
	}

	now := nowFrom(s.Now)
	var (
		changed bool
		err     error
	)
	switch action {
	case domain.ActionHide:
		changed, err = repo.SetCommentHidden(ctx, s.DB, commentID, true, now)
	case domain.ActionUnhide:
		changed, err = repo.SetCommentHidden(ctx, s.DB, commentID, false, now)
	case domain.ActionDelete:
		changed, err = repo.SoftDeleteComment(ctx, s.DB, commentID, now)
	case domain.ActionRestore:
		changed, err = repo.RestoreComment(ctx, s.DB, commentID, now)
	case domain.ActionPurge:
		changed, err = repo.PurgeComment(ctx, s.DB, commentID)
	default:
		return nil, ErrUnknownAction
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Bool("admin.changed", changed))
	moderationActions.WithLabelValues(action, strconv.FormatBool(changed)).Inc()

	s.audit(ctx, action, commentID, quoteID, in.RemoteAddr, changed, now)
	publish(ctx, s.Events, events.SubjectModeration+"."+action, map[string]any{
		"comment_id": commentID,
		"quote_id":   quoteID,
		"changed":    changed,
	})
	return &ActionResult{Changed: changed}, nil
}

// audit writes the AdminAction row; failures are logged and dropped.
func (s *ModerationService) audit(ctx context.Context, action, commentID, quoteID, remoteAddr string, changed bool, now time.Time) {
	meta, _ := json.Marshal(map[string]bool{"changed": changed})
	m := string(meta)
	a := &domain.AdminAction{
		AdminHash: s.Hasher.AdminHash(remoteAddr),
		Action:    action,
		CommentID: commentID,
		QuoteID:   quoteID,
		Meta:      &m,
		CreatedAt: now,
	}
	if err := repo.CreateAdminAction(ctx, s.DB, a); err != nil {
		log.Ctx(ctx).Warn().Err(err).
			Str("action", action).
			Str("comment_id", commentID).
			Msg("audit write failed")
	}
}

// Reports returns the newest reports with their comment's current state.
// limit <= 0 selects DefaultReportsLimit.
func (s *ModerationService) Reports(ctx context.Context, limit int) ([]repo.ReportRow, error) {
	ctx, span := otel.Tracer("services/ModerationService").Start(ctx, "Reports")
	defer span.End()

	if limit <= 0 || limit > DefaultReportsLimit {
		limit = DefaultReportsLimit
	}
	rows, err := repo.ListLatestReports(ctx, s.DB, limit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []repo.ReportRow{}
	}
	return rows, nil
}

// History returns the audit trail of a comment, oldest first. Purged
// comments keep their trail.
func (s *ModerationService) History(ctx context.Context, commentID string) ([]domain.AdminAction, error) {
	ctx, span := otel.Tracer("services/ModerationService").Start(ctx, "History",
		trace.WithAttributes(attribute.String("comment.id", commentID)),
	)
	defer span.End()

	commentID = strings.TrimSpace(commentID)
	if n := utf8.RuneCountInString(commentID); n < MinCommentIDRunes || n > MaxCommentIDRunes {
		return nil, invalidf("commentId must be %d to %d characters", MinCommentIDRunes, MaxCommentIDRunes)
	}
	rows, err := repo.ListAdminActions(ctx, s.DB, commentID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if rows == nil {
		rows = []domain.AdminAction{}
	}
	return rows, nil
}

// parseTimeParam accepts "", RFC 3339 or unix milliseconds.
func parseTimeParam(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		t := time.UnixMilli(ms).UTC()
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Comment
// model: public listing, abuse-window counting, duplicate lookup, the admin
// listing query and the conditional moderation updates.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business rules, only persistence
// and query composition.
//
// Error semantics:
//   - Missing rows surface as gorm.ErrRecordNotFound (exported as ErrNotFound).
//   - Unique violations on insert are reported as ErrDuplicate.
//   - Other DB errors are propagated unchanged.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-daily-quote/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateComment inserts c. A UUID is assigned when c.ID is empty. A unique
// violation on (quote_id, body_hash) is returned as ErrDuplicate.
func CreateComment(ctx context.Context, db *gorm.DB, c *domain.Comment) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// ListVisibleComments returns the publicly visible comments of quoteID,
// newest first.
func ListVisibleComments(ctx context.Context, db *gorm.DB, quoteID string) ([]domain.Comment, error) {
	var out []domain.Comment
	err := db.WithContext(ctx).
		Scopes(visibleOn(quoteID)).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

// CountCommentsSince counts comments posted by ipHash strictly after since.
func CountCommentsSince(ctx context.Context, db *gorm.DB, ipHash string, since time.Time) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("ip_hash = ? AND created_at > ?", ipHash, since).
		Count(&n).Error
	return n, err
}

// CommentBodyExists reports whether a comment with bodyHash already exists on
// quoteID, regardless of its moderation state.
func CommentBodyExists(ctx context.Context, db *gorm.DB, quoteID, bodyHash string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("quote_id = ? AND body_hash = ?", quoteID, bodyHash).
		Limit(1).
		Count(&n).Error
	return n > 0, err
}

// GetComment fetches a comment by id in any moderation state.
func GetComment(ctx context.Context, db *gorm.DB, id string) (*domain.Comment, error) {
	var c domain.Comment
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCommentsByIDs returns the comments whose ids are listed, keyed by id.
func GetCommentsByIDs(ctx context.Context, db *gorm.DB, ids []string) (map[string]domain.Comment, error) {
	out := make(map[string]domain.Comment, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []domain.Comment
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, c := range rows {
		out[c.ID] = c
	}
	return out, nil
}

// SetCommentHidden sets hidden on id when it differs from the stored value.
// changed is false when the row is missing or already in the target state.
func SetCommentHidden(ctx context.Context, db *gorm.DB, id string, hidden bool, now time.Time) (changed bool, err error) {
	res := db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("id = ? AND hidden = ?", id, !hidden).
		Updates(map[string]any{"hidden": hidden, "updated_at": now})
	return res.RowsAffected > 0, res.Error
}

// SoftDeleteComment stamps deleted_at on id unless it is already deleted.
func SoftDeleteComment(ctx context.Context, db *gorm.DB, id string, now time.Time) (changed bool, err error) {
	res := db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]any{"deleted_at": now, "updated_at": now})
	return res.RowsAffected > 0, res.Error
}

// RestoreComment clears deleted_at on id when set.
func RestoreComment(ctx context.Context, db *gorm.DB, id string, now time.Time) (changed bool, err error) {
	res := db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Updates(map[string]any{"deleted_at": nil, "updated_at": now})
	return res.RowsAffected > 0, res.Error
}

// PurgeComment removes id permanently. Purging a missing row is not an error.
func PurgeComment(ctx context.Context, db *gorm.DB, id string) (changed bool, err error) {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Comment{})
	return res.RowsAffected > 0, res.Error
}

// CommentFilter narrows the admin listing. Scope must already be validated.
type CommentFilter struct {
	Scope   string
	QuoteID string
	Q       string
	Since   *time.Time
	Until   *time.Time

	// Keyset position: rows strictly older than (BeforeT, BeforeID).
	BeforeT  *time.Time
	BeforeID string

	// Limit is the number of rows to fetch; callers pass page size + 1.
	Limit int
}

// ListAdminComments runs the moderation listing ordered by
// (created_at DESC, id DESC).
func ListAdminComments(ctx context.Context, db *gorm.DB, f CommentFilter) ([]domain.Comment, error) {
	q := db.WithContext(ctx).Model(&domain.Comment{})

	if f.Scope == domain.ScopeDeleted {
		q = q.Where("deleted_at IS NOT NULL")
	} else {
		q = q.Where("deleted_at IS NULL")
	}
	switch f.Scope {
	case domain.ScopeHidden:
		q = q.Where("hidden = ?", true)
	case domain.ScopeReported:
		q = q.Where("EXISTS (SELECT 1 FROM reports r WHERE r.comment_id = comments.id)")
	}
	if f.QuoteID != "" {
		q = q.Where("quote_id = ?", f.QuoteID)
	}
	if s := strings.TrimSpace(f.Q); s != "" {
		pat := "%" + escapeLike(strings.ToLower(s)) + "%"
		q = q.Where(`(LOWER(body) LIKE ? ESCAPE '\' OR LOWER(display_name) LIKE ? ESCAPE '\')`, pat, pat)
	}
	if f.Since != nil {
		q = q.Where("created_at >= ?", *f.Since)
	}
	if f.Until != nil {
		q = q.Where("created_at <= ?", *f.Until)
	}
	if f.BeforeT != nil {
		q = q.Where("(created_at < ? OR (created_at = ? AND id < ?))", *f.BeforeT, *f.BeforeT, f.BeforeID)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var out []domain.Comment
	err := q.Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

// escapeLike neutralizes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// IsUniqueViolation detects unique-constraint violations across drivers
// that may not map to gorm.ErrDuplicatedKey.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// SQLite: "UNIQUE constraint failed"; Postgres: "duplicate key value violates unique constraint"
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key")
}

// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file persists the moderation audit trail.
package repo

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"

	"github.com/tbourn/go-daily-quote/internal/domain"
)

// CreateAdminAction appends an audit row. The id is a ULID derived from
// a.CreatedAt so rows sort by time.
func CreateAdminAction(ctx context.Context, db *gorm.DB, a *domain.AdminAction) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if a.ID == "" {
		id, err := ulid.New(ulid.Timestamp(a.CreatedAt), rand.Reader)
		if err != nil {
			return err
		}
		a.ID = id.String()
	}
	return db.WithContext(ctx).Create(a).Error
}

// ListAdminActions returns audit rows for commentID, oldest first.
func ListAdminActions(ctx context.Context, db *gorm.DB, commentID string) ([]domain.AdminAction, error) {
	var out []domain.AdminAction
	err := db.WithContext(ctx).
		Where("comment_id = ?", commentID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

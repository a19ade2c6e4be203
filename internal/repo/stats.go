package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-daily-quote/internal/domain"
)

// visibleOn scopes a comment query to the public listing of quoteID.
func visibleOn(quoteID string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("quote_id = ? AND hidden = ? AND deleted_at IS NULL", quoteID, false)
	}
}

// VisibleCommentsStats returns how many comments the public listing of
// quoteID holds and the newest UpdatedAt among them (nil when empty). Any
// moderation change to a listed row alters one of the two.
func VisibleCommentsStats(ctx context.Context, db *gorm.DB, quoteID string) (int64, *time.Time, error) {
	base := visibleOn(quoteID)(db.WithContext(ctx).Model(&domain.Comment{}))

	var n int64
	if err := base.Count(&n).Error; err != nil || n == 0 {
		return 0, nil, err
	}

	// ORDER BY instead of MAX(): SQLite returns MAX over datetimes as text.
	var newest []time.Time
	if err := base.Order("updated_at DESC").Limit(1).Pluck("updated_at", &newest).Error; err != nil {
		return 0, nil, err
	}
	if len(newest) == 0 {
		return n, nil, nil
	}
	return n, &newest[0], nil
}

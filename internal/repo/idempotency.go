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

// ErrDuplicate reports an insert that collided with a unique key.
var ErrDuplicate = errors.New("duplicate")

// GetIdempotency finds the live record for (fingerprint, key). Expired or
// absent records, and a blank key, yield ErrNotFound.
func GetIdempotency(ctx context.Context, db *gorm.DB, fingerprint, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	rec := new(domain.Idempotency)
	err := db.WithContext(ctx).
		Where(map[string]any{"fingerprint": fingerprint, "key": key}).
		Where("expires_at > ?", now).
		Take(rec).Error
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// CreateIdempotency records that key produced commentID for fingerprint,
// live for ttl from now. A second record for the same pair is ErrDuplicate.
func CreateIdempotency(ctx context.Context, db *gorm.DB, fingerprint, key, commentID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	created := time.Now().UTC()
	rec := &domain.Idempotency{
		ID:          uuid.NewString(),
		Fingerprint: fingerprint,
		Key:         key,
		CommentID:   commentID,
		Status:      status,
		CreatedAt:   created,
		ExpiresAt:   created.Add(ttl),
	}
	switch err := db.WithContext(ctx).Create(rec).Error; {
	case IsUniqueViolation(err):
		return nil, ErrDuplicate
	case err != nil:
		return nil, err
	}
	return rec, nil
}

// PurgeExpiredIdempotency removes every record expired at now and reports
// how many went.
func PurgeExpiredIdempotency(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Delete(&domain.Idempotency{}, "expires_at <= ?", now)
	return res.RowsAffected, res.Error
}

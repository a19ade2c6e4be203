package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-daily-quote/internal/hashing"
	"github.com/tbourn/go-daily-quote/internal/repo"
)

// DefaultIdempotencyTTL is how long a posted comment can be replayed.
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyService remembers which comment an (client, Idempotency-Key)
// pair produced. Clients are identified by their salted fingerprint, never
// the raw address.
type IdempotencyService struct {
	DB     *gorm.DB
	Hasher hashing.Hasher
	TTL    time.Duration
}

// Exists reports whether a live record exists for clientIP and key. It is
// the lookup installed on the idempotency middleware.
func (s *IdempotencyService) Exists(ctx context.Context, clientIP, key string, now time.Time) (bool, error) {
	_, err := repo.GetIdempotency(ctx, s.DB, s.Hasher.Fingerprint(clientIP), key, now)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Lookup returns the comment previously created for clientIP and key. ok is
// false when there is no live record or the comment has since been purged.
func (s *IdempotencyService) Lookup(ctx context.Context, clientIP, key string) (*PostResult, bool) {
	if strings.TrimSpace(key) == "" {
		return nil, false
	}
	rec, err := repo.GetIdempotency(ctx, s.DB, s.Hasher.Fingerprint(clientIP), key, time.Now().UTC())
	if err != nil {
		return nil, false
	}
	c, err := repo.GetComment(ctx, s.DB, rec.CommentID)
	if err != nil {
		return nil, false
	}
	return &PostResult{ID: c.ID, CreatedAt: c.CreatedAt}, true
}

// Remember stores the outcome of a successful post. Failures, including a
// concurrent request having stored the same key, are logged and ignored.
func (s *IdempotencyService) Remember(ctx context.Context, clientIP, key, commentID string) {
	if strings.TrimSpace(key) == "" {
		return
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	_, err := repo.CreateIdempotency(ctx, s.DB, s.Hasher.Fingerprint(clientIP), key, commentID, http.StatusCreated, ttl)
	if err != nil && !errors.Is(err, repo.ErrDuplicate) {
		log.Ctx(ctx).Warn().Err(err).Msg("idempotency store failed")
	}
}

// Purge deletes expired records and returns how many were removed.
func (s *IdempotencyService) Purge(ctx context.Context) (int64, error) {
	return repo.PurgeExpiredIdempotency(ctx, s.DB, time.Now().UTC())
}

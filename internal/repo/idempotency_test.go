package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/go-daily-quote/internal/domain"
)

func TestGetIdempotency_EmptyKey_ReturnsNotFound(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	now := time.Now().UTC()

	rec, err := GetIdempotency(context.Background(), db, "fp", "   ", now)
	if rec != nil || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected (nil, ErrNotFound) for blank key, got (%v, %v)", rec, err)
	}
}

func TestGetIdempotency_ExpiredOrMissing_ReturnsNotFound(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	now := time.Now().UTC()

	exp := &domain.Idempotency{
		ID:          "expired",
		Fingerprint: "fp",
		Key:         "k1",
		CommentID:   "c1",
		Status:      201,
		CreatedAt:   now.Add(-2 * time.Hour),
		ExpiresAt:   now.Add(-time.Hour),
	}
	if err := db.Create(exp).Error; err != nil {
		t.Fatalf("seed expired: %v", err)
	}

	if _, err := GetIdempotency(context.Background(), db, "fp", "k1", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired record should be ErrNotFound, got %v", err)
	}
	if _, err := GetIdempotency(context.Background(), db, "fp", "nope", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing record should be ErrNotFound, got %v", err)
	}
}

func TestCreateAndGetIdempotency_RoundTrip_AndDuplicate(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()

	rec, err := CreateIdempotency(ctx, db, "fp", "k1", "c1", 201, time.Hour)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec.ID == "" || rec.CommentID != "c1" || !rec.ExpiresAt.After(rec.CreatedAt) {
		t.Fatalf("unexpected record: %+v", rec)
	}

	got, err := GetIdempotency(ctx, db, "fp", "k1", time.Now().UTC())
	if err != nil || got.CommentID != "c1" || got.Status != 201 {
		t.Fatalf("GetIdempotency = %+v, %v", got, err)
	}

	if _, err := CreateIdempotency(ctx, db, "fp", "k1", "c2", 201, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// Another client may reuse the same key.
	if _, err := CreateIdempotency(ctx, db, "fp2", "k1", "c3", 201, time.Hour); err != nil {
		t.Fatalf("other fingerprint should insert: %v", err)
	}
}

func TestCreateIdempotency_NoTable_ReturnsRawError(t *testing.T) {
	db := newTestDB(t)
	_, err := CreateIdempotency(context.Background(), db, "fp", "k", "c", 201, time.Hour)
	if err == nil || errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected raw DB error, got %v", err)
	}
}

func TestPurgeExpiredIdempotency(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := CreateIdempotency(ctx, db, "fp", "live", "c1", 201, time.Hour); err != nil {
		t.Fatal(err)
	}
	old := &domain.Idempotency{ID: "old", Fingerprint: "fp", Key: "old", CommentID: "c0", Status: 201, CreatedAt: now.Add(-time.Hour), ExpiresAt: now.Add(-time.Minute)}
	if err := db.Create(old).Error; err != nil {
		t.Fatal(err)
	}

	n, err := PurgeExpiredIdempotency(ctx, db, now)
	if err != nil || n != 1 {
		t.Fatalf("PurgeExpiredIdempotency = %d, %v; want 1, nil", n, err)
	}
}

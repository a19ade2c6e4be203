package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-daily-quote/internal/domain"
)

func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	// Unique DB per test to avoid schema leaking across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

// seedComment inserts a visible comment on quoteID at ts.
func seedComment(t *testing.T, db *gorm.DB, id, quoteID string, ts time.Time) *domain.Comment {
	t.Helper()
	c := &domain.Comment{
		ID:        id,
		QuoteID:   quoteID,
		Body:      "body " + id,
		CreatedAt: ts,
		UpdatedAt: ts,
		IPHash:    "ip",
		BodyHash:  "bh-" + id,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed comment %s: %v", id, err)
	}
	return c
}

func TestVisibleCommentsStats_CountError_NoTable(t *testing.T) {
	db := newTestDB(t /* no migrations */)
	if _, _, err := VisibleCommentsStats(context.Background(), db, "q1"); err == nil {
		t.Fatalf("expected error due to missing comments table")
	}
}

func TestVisibleCommentsStats_Empty(t *testing.T) {
	db := newTestDB(t, &domain.Comment{})
	n, max, err := VisibleCommentsStats(context.Background(), db, "q1")
	if err != nil || n != 0 || max != nil {
		t.Fatalf("got n=%d max=%v err=%v", n, max, err)
	}
}

func TestVisibleCommentsStats_IgnoresModerated(t *testing.T) {
	db := newTestDB(t, &domain.Comment{})
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	seedComment(t, db, "a", "q1", base)
	seedComment(t, db, "b", "q1", base.Add(time.Minute))
	seedComment(t, db, "c", "q1", base.Add(2*time.Minute))
	seedComment(t, db, "d", "q2", base.Add(3*time.Minute))

	if _, err := SetCommentHidden(ctx, db, "c", true, base.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	n, max, err := VisibleCommentsStats(ctx, db, "q1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if n != 2 {
		t.Fatalf("count = %d; want 2", n)
	}
	if max == nil || !max.Equal(base.Add(time.Minute)) {
		t.Fatalf("max updated_at = %v; want %v", max, base.Add(time.Minute))
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-daily-quote/internal/domain"
	"github.com/tbourn/go-daily-quote/internal/hashing"
	"github.com/tbourn/go-daily-quote/internal/quotes"
	"github.com/tbourn/go-daily-quote/internal/repo"
)

// newDB opens a private in-memory database with every table migrated.
func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// clock is a manually advanced time source.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(t time.Time) *clock { return &clock{t: t} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// recorder captures published events.
type recorder struct {
	mu       sync.Mutex
	subjects []string
	payloads []any
	err      error
}

func (r *recorder) Publish(_ context.Context, subject string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subjects = append(r.subjects, subject)
	r.payloads = append(r.payloads, payload)
	return r.err
}

func (r *recorder) Close() error { return nil }

func (r *recorder) Subjects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.subjects...)
}

// countingVerifier records calls and answers with ok/err.
type countingVerifier struct {
	ok    bool
	err   error
	calls int
}

func (v *countingVerifier) Verify(context.Context, string, string) (bool, error) {
	v.calls++
	return v.ok, v.err
}

var errBoom = errors.New("boom")

func testStore(texts ...string) *quotes.Store {
	qs := make([]domain.Quote, len(texts))
	for i, s := range texts {
		qs[i] = domain.Quote{ID: hashing.QuoteID(s), Quote: s, Source: "source " + s}
	}
	return quotes.NewStore(qs)
}

// seed inserts a visible comment directly.
func seed(t *testing.T, db *gorm.DB, quoteID, body string, at time.Time) *domain.Comment {
	t.Helper()
	c := &domain.Comment{
		QuoteID:   quoteID,
		Body:      body,
		CreatedAt: at,
		UpdatedAt: at,
		IPHash:    "seed",
		BodyHash:  hashing.BodyHash(body),
	}
	if err := repo.CreateComment(context.Background(), db, c); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return c
}

package domain

import (
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database named after the test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"),
		&gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func TestIdempotency_UniquePerClientAndKey(t *testing.T) {
	db := newTestDB(t)
	if err := db.AutoMigrate(&Idempotency{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if !db.Migrator().HasIndex(&Idempotency{}, "ux_fingerprint_key") {
		t.Fatalf("missing ux_fingerprint_key on %s", Idempotency{}.TableName())
	}

	steps := []struct {
		id, fp, key string
		wantErr     bool
	}{
		{"r1", "fp-a", "k1", false},
		{"r2", "fp-b", "k1", false}, // same key, other client
		{"r3", "fp-a", "k2", false},
		{"r4", "fp-a", "k1", true},
	}
	for _, s := range steps {
		err := db.Create(&Idempotency{ID: s.id, Fingerprint: s.fp, Key: s.key, CommentID: "c-" + s.id, Status: 201}).Error
		if (err != nil) != s.wantErr {
			t.Fatalf("insert %s (%s,%s): err=%v wantErr=%v", s.id, s.fp, s.key, err, s.wantErr)
		}
	}

	var got Idempotency
	if err := db.Take(&got, "id = ?", "r2").Error; err != nil {
		t.Fatalf("readback: %v", err)
	}
	if got.Fingerprint != "fp-b" || got.CommentID != "c-r2" || got.Status != 201 || got.CreatedAt.IsZero() {
		t.Fatalf("row = %+v", got)
	}
}

package domain

import "time"

// Idempotency records the outcome of a previously accepted comment post,
// keyed by (fingerprint, key). A retried POST with the same Idempotency-Key
// from the same client is answered from this row instead of inserting a
// second comment.
type Idempotency struct {
	ID          string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	Fingerprint string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_fingerprint_key,priority:1"`
	Key         string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_fingerprint_key,priority:2"`
	CommentID   string    `gorm:"type:TEXT NOT NULL"`
	Status      int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime"`
	ExpiresAt   time.Time `gorm:"not null;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }

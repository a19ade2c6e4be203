// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file maintains the daily usage counters.
package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-daily-quote/internal/domain"
)

// IncrementEvent inserts (ymd, quoteID, event) with n=1, or bumps n on
// conflict. An empty quoteID is stored as "" so the key stays unique.
func IncrementEvent(ctx context.Context, db *gorm.DB, ymd int, quoteID, event string) error {
	row := &domain.Event{Ymd: ymd, QuoteID: quoteID, Event: event, N: 1}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ymd"}, {Name: "quote_id"}, {Name: "event"}},
			DoUpdates: clause.Assignments(map[string]any{"n": gorm.Expr("events.n + 1")}),
		}).
		Create(row).Error
}

// GetEventCount returns the counter for the key, or 0 when absent.
func GetEventCount(ctx context.Context, db *gorm.DB, ymd int, quoteID, event string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Event{}).
		Select("COALESCE(SUM(n), 0)").
		Where("ymd = ? AND quote_id = ? AND event = ?", ymd, quoteID, event).
		Scan(&n).Error
	return n, err
}

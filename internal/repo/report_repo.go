// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Report
// model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-daily-quote/internal/domain"
)

// CreateReport inserts r, assigning a UUID when r.ID is empty.
func CreateReport(ctx context.Context, db *gorm.DB, r *domain.Report) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return db.WithContext(ctx).Create(r).Error
}

// CountReportsSince counts reports filed by reporterHash strictly after since.
func CountReportsSince(ctx context.Context, db *gorm.DB, reporterHash string, since time.Time) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Report{}).
		Where("reporter_hash = ? AND created_at > ?", reporterHash, since).
		Count(&n).Error
	return n, err
}

// CountReportsByComment returns the number of reports per comment id for the
// given ids. Comments without reports are absent from the map.
func CountReportsByComment(ctx context.Context, db *gorm.DB, ids []string) (map[string]int64, error) {
	out := make(map[string]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		CommentID string
		N         int64
	}
	err := db.WithContext(ctx).
		Model(&domain.Report{}).
		Select("comment_id, COUNT(*) AS n").
		Where("comment_id IN ?", ids).
		Group("comment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.CommentID] = r.N
	}
	return out, nil
}

// ReportRow is a report joined with the current state of its comment. The
// comment columns are nil when the comment has been purged.
type ReportRow struct {
	ID          string    `json:"id"`
	CommentID   string    `json:"comment_id"`
	QuoteID     string    `json:"quote_id"`
	Reason      string    `json:"reason"`
	Details     *string   `json:"details"`
	CreatedAt   time.Time `json:"created_at"`
	Body        *string   `json:"body"`
	DisplayName *string   `json:"display_name"`
	Hidden      *bool     `json:"hidden"`
}

// ListLatestReports returns the newest limit reports with comment context.
func ListLatestReports(ctx context.Context, db *gorm.DB, limit int) ([]ReportRow, error) {
	var out []ReportRow
	err := db.WithContext(ctx).
		Table("reports AS r").
		Select(`r.id, r.comment_id, r.quote_id, r.reason, r.details, r.created_at,
		        c.body, c.display_name, c.hidden`).
		Joins("LEFT JOIN comments c ON c.id = r.comment_id").
		Order("r.created_at DESC, r.id DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

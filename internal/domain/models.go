// Package domain defines the persistence models for comments, reports,
// moderation audit rows and usage counters. These types are mapped with GORM
// and form the core data layer of the daily quote service.
package domain

import "time"

// Report reasons accepted by the report pipeline.
const (
	ReasonSpam     = "spam"
	ReasonAbuse    = "abuse"
	ReasonOfftopic = "offtopic"
	ReasonOther    = "other"
)

// Moderation actions accepted by the moderation engine.
const (
	ActionHide    = "hide"
	ActionUnhide  = "unhide"
	ActionDelete  = "delete"
	ActionRestore = "restore"
	ActionPurge   = "purge"
)

// Comment is a visitor comment attached to a quote. A comment is publicly
// visible iff Hidden is false and DeletedAt is nil.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - QuoteID: content-addressed id of the quote (not a foreign key; quotes
//     live outside the database).
//   - ParentID: optional reply target. No depth limit is enforced.
//   - Body / DisplayName: user supplied text, bounded at the service layer.
//   - IPHash: salted fingerprint of the poster, never the raw address.
//   - BodyHash: hash of the normalized body, used for duplicate detection.
//   - Score: reserved ordering field, always 0 today.
//   - Hidden / DeletedAt: moderation state, mutated only by moderation.
//
// DeletedAt is a plain pointer rather than gorm.DeletedAt so that default
// queries are not silently scoped and purge can remove the row outright.
type Comment struct {
	ID          string     `json:"id"                     gorm:"type:char(36);primaryKey"`
	QuoteID     string     `json:"quote_id"               gorm:"type:varchar(128);not null;uniqueIndex:ux_comments_quote_body,priority:1;index:idx_comments_quote_created,priority:1"`
	ParentID    *string    `json:"parent_id"              gorm:"type:varchar(128);index"`
	Body        string     `json:"body"                   gorm:"type:text;not null"`
	DisplayName *string    `json:"display_name"           gorm:"type:varchar(64)"`
	CreatedAt   time.Time  `json:"created_at"             gorm:"not null;index:idx_comments_ip_created,priority:2;index:idx_comments_quote_created,priority:2"`
	UpdatedAt   time.Time  `json:"updated_at"             gorm:"not null"`
	IPHash      string     `json:"-"                      gorm:"type:char(64);not null;index:idx_comments_ip_created,priority:1"`
	BodyHash    string     `json:"-"                      gorm:"type:char(64);not null;uniqueIndex:ux_comments_quote_body,priority:2"`
	Score       int        `json:"score"                  gorm:"not null;default:0"`
	Hidden      bool       `json:"hidden"                 gorm:"not null;default:false;index"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"   gorm:"index"`
}

// TableName returns the database table name for Comment.
func (Comment) TableName() string { return "comments" }

// Visible reports whether the comment is shown on the public listing.
func (c Comment) Visible() bool { return !c.Hidden && c.DeletedAt == nil }

// Report is an abuse report filed against a comment. Reports are immutable
// once written and only surface to moderation.
type Report struct {
	ID           string    `json:"id"            gorm:"type:char(36);primaryKey"`
	CommentID    string    `json:"comment_id"    gorm:"type:varchar(128);not null;index"`
	QuoteID      string    `json:"quote_id"      gorm:"type:varchar(128);not null"`
	Reason       string    `json:"reason"        gorm:"type:varchar(16);not null;check:reason IN ('spam','abuse','offtopic','other')"`
	Details      *string   `json:"details"       gorm:"type:text"`
	ReporterHash string    `json:"-"             gorm:"type:char(64);not null;index:idx_reports_reporter_created,priority:1"`
	CreatedAt    time.Time `json:"created_at"    gorm:"not null;index:idx_reports_reporter_created,priority:2"`
}

// TableName returns the database table name for Report.
func (Report) TableName() string { return "reports" }

// AdminAction is an append-only audit row written after each moderation call.
type AdminAction struct {
	ID        string    `json:"id"         gorm:"type:char(26);primaryKey"`
	AdminHash string    `json:"admin_hash" gorm:"type:char(32);not null"`
	Action    string    `json:"action"     gorm:"type:varchar(16);not null;index"`
	CommentID string    `json:"comment_id" gorm:"type:varchar(128);not null;index"`
	QuoteID   string    `json:"quote_id"   gorm:"type:varchar(128);not null;default:''"`
	Meta      *string   `json:"meta"       gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}

// TableName returns the database table name for AdminAction.
func (AdminAction) TableName() string { return "admin_actions" }

// Event is a coarse daily usage counter keyed by (ymd, quote_id, event).
// Events without a quote carry an empty QuoteID so the unique key applies.
type Event struct {
	Ymd     int    `json:"ymd"      gorm:"not null;uniqueIndex:ux_events_key,priority:1"`
	QuoteID string `json:"quote_id" gorm:"type:varchar(128);not null;default:'';uniqueIndex:ux_events_key,priority:2"`
	Event   string `json:"event"    gorm:"type:varchar(32);not null;uniqueIndex:ux_events_key,priority:3"`
	N       int64  `json:"n"        gorm:"not null;default:1"`
}

// TableName returns the database table name for Event.
func (Event) TableName() string { return "events" }

// Admin listing scopes.
const (
	ScopeToday    = "today"
	ScopeReported = "reported"
	ScopeAll      = "all"
	ScopeHidden   = "hidden"
	ScopeDeleted  = "deleted"
)

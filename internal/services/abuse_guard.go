package services

import (
	"context"
	"time"
)

// Default abuse window settings.
const (
	DefaultAbuseWindow = 10 * time.Minute
	DefaultAbuseLimit  = 5
)

// CountFunc counts writes attributed to fingerprint strictly after since.
type CountFunc func(ctx context.Context, fingerprint string, since time.Time) (int64, error)

// AbuseGuard is a sliding-window write limiter backed by the rows already in
// the database. It keeps no state of its own, so it survives restarts and is
// shared by every replica pointing at the same store.
//
// The count and the following insert are not atomic; two concurrent writes
// at the boundary may both pass.
type AbuseGuard struct {
	Window time.Duration
	Limit  int
	Now    func() time.Time
}

func (g AbuseGuard) window() time.Duration {
	if g.Window <= 0 {
		return DefaultAbuseWindow
	}
	return g.Window
}

func (g AbuseGuard) limit() int {
	if g.Limit <= 0 {
		return DefaultAbuseLimit
	}
	return g.Limit
}

// Check returns ErrRateLimited when fingerprint already has Limit or more
// writes inside the window ending now.
func (g AbuseGuard) Check(ctx context.Context, count CountFunc, fingerprint string) error {
	since := nowFrom(g.Now).Add(-g.window())
	n, err := count(ctx, fingerprint, since)
	if err != nil {
		return err
	}
	if n >= int64(g.limit()) {
		return ErrRateLimited
	}
	return nil
}

// nowFrom returns the clock reading in UTC truncated to milliseconds, the
// precision timestamps are stored and paged with.
func nowFrom(clock func() time.Time) time.Time {
	t := time.Now()
	if clock != nil {
		t = clock()
	}
	return t.UTC().Truncate(time.Millisecond)
}

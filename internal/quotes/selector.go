package quotes

import (
	"time"

	"github.com/tbourn/go-daily-quote/internal/domain"
)

// DefaultTZ is the site timezone used when none is configured.
const DefaultTZ = "Europe/Copenhagen"

// Pick is the outcome of selecting a quote for a calendar day.
type Pick struct {
	Quote   domain.Quote `json:"quote"`
	Index   int          `json:"index"`
	DateYmd int          `json:"dateYmd"`
	TZ      string       `json:"tz"`
}

// DayKey returns t's calendar date in loc encoded as YYYYMMDD.
func DayKey(t time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return y*10000 + int(m)*100 + d
}

// IndexFor maps a day key onto [0, n). It returns 0 when n <= 0.
func IndexFor(ymd, n int) int {
	if n <= 0 {
		return 0
	}
	i := ymd % n
	if i < 0 {
		i = -i
	}
	return i
}

// Selector picks the quote of the day in a fixed timezone.
type Selector struct {
	Location *time.Location
}

// NewSelector resolves tz once. An empty tz selects DefaultTZ.
func NewSelector(tz string) (Selector, error) {
	if tz == "" {
		tz = DefaultTZ
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Selector{}, err
	}
	return Selector{Location: loc}, nil
}

func (s Selector) loc() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// DayKey returns the site-local YYYYMMDD for now.
func (s Selector) DayKey(now time.Time) int { return DayKey(now, s.loc()) }

// Pick returns the quote for the site-local day containing now. ok is false
// when the store is empty.
func (s Selector) Pick(store *Store, now time.Time) (Pick, bool) {
	n := store.Len()
	if n == 0 {
		return Pick{}, false
	}
	ymd := s.DayKey(now)
	idx := IndexFor(ymd, n)
	q, _ := store.At(idx)
	return Pick{Quote: q, Index: idx, DateYmd: ymd, TZ: s.loc().String()}, true
}

// History returns picks for now and the days-1 preceding site-local days,
// newest first.
func (s Selector) History(store *Store, now time.Time, days int) []Pick {
	if store.Len() == 0 || days <= 0 {
		return nil
	}
	local := now.In(s.loc())
	// anchor at noon so DST transitions never skip or repeat a date
	noon := time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, s.loc())
	out := make([]Pick, 0, days)
	for i := 0; i < days; i++ {
		p, _ := s.Pick(store, noon.AddDate(0, 0, -i))
		out = append(out, p)
	}
	return out
}

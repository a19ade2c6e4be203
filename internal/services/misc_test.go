package services

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/tbourn/go-daily-quote/internal/quotes"
)

func TestCursor_RoundTrip(t *testing.T) {
	in := Cursor{T: time.Date(2025, 1, 2, 3, 4, 5, 678_000_000, time.UTC), ID: "abc"}
	out, ok := DecodeCursor(in.Encode())
	if !ok || !out.T.Equal(in.T) || out.ID != in.ID {
		t.Fatalf("round trip: %+v %v", out, ok)
	}
	// padded base64 is tolerated
	padded := base64.URLEncoding.EncodeToString([]byte(`{"t":1700000000000,"id":"x"}`))
	if c, ok := DecodeCursor(padded); !ok || c.ID != "x" || c.T.UnixMilli() != 1700000000000 {
		t.Fatalf("padded: %+v %v", c, ok)
	}
}

func TestCursor_Malformed(t *testing.T) {
	for _, s := range []string{
		"",
		"!!!",
		base64.RawURLEncoding.EncodeToString([]byte("not json")),
		base64.RawURLEncoding.EncodeToString([]byte(`{"t":0,"id":"x"}`)),
		base64.RawURLEncoding.EncodeToString([]byte(`{"t":5}`)),
	} {
		if _, ok := DecodeCursor(s); ok {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestAbuseGuard_Check(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	var gotSince time.Time
	count := func(n int64, err error) CountFunc {
		return func(_ context.Context, _ string, since time.Time) (int64, error) {
			gotSince = since
			return n, err
		}
	}
	g := AbuseGuard{Window: time.Minute, Limit: 3, Now: func() time.Time { return now }}

	if err := g.Check(context.Background(), count(2, nil), "fp"); err != nil {
		t.Fatalf("below limit: %v", err)
	}
	if !gotSince.Equal(now.Add(-time.Minute)) {
		t.Fatalf("since = %v", gotSince)
	}
	if err := g.Check(context.Background(), count(3, nil), "fp"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("at limit: %v", err)
	}
	if err := g.Check(context.Background(), count(0, errBoom), "fp"); !errors.Is(err, errBoom) {
		t.Fatalf("counter error: %v", err)
	}

	// zero value falls back to the defaults
	var zero AbuseGuard
	if zero.window() != DefaultAbuseWindow || zero.limit() != DefaultAbuseLimit {
		t.Fatal("defaults not applied")
	}
}

func TestQuoteService(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	store := testStore("one", "two", "three")
	svc := &QuoteService{Store: store, Selector: quotes.Selector{Location: time.UTC}, Now: func() time.Time { return now }}

	p, err := svc.Today(ctx)
	if err != nil || p.DateYmd != 20250601 || p.Index != 20250601%3 {
		t.Fatalf("Today: %+v %v", p, err)
	}
	q, err := svc.ByID(ctx, p.Quote.ID)
	if err != nil || q.Quote != p.Quote.Quote {
		t.Fatalf("ByID: %+v %v", q, err)
	}
	if _, err := svc.ByID(ctx, "nope"); !errors.Is(err, ErrQuoteNotFound) {
		t.Fatalf("ByID missing: %v", err)
	}

	for days, want := range map[int]int{0: DefaultHistoryDays, 3: 3, 500: MaxHistoryDays} {
		h, err := svc.History(ctx, days)
		if err != nil || len(h) != want {
			t.Fatalf("History(%d) = %d, %v", days, len(h), err)
		}
		if h[0].DateYmd != p.DateYmd || h[0].Quote.ID != p.Quote.ID {
			t.Fatalf("history must start with today: %+v", h[0])
		}
	}

	empty := &QuoteService{Store: quotes.NewStore(nil), Now: svc.Now}
	if _, err := empty.Today(ctx); !errors.Is(err, ErrNoQuotes) {
		t.Fatalf("empty Today: %v", err)
	}
	if _, err := empty.History(ctx, 3); !errors.Is(err, ErrNoQuotes) {
		t.Fatalf("empty History: %v", err)
	}
}

func TestTrackService(t *testing.T) {
	ctx := context.Background()
	loc, err := time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		t.Fatal(err)
	}
	// 23:30 UTC on Jan 1 is already Jan 2 in Copenhagen
	now := time.Date(2025, 1, 1, 23, 30, 0, 0, time.UTC)
	db := newDB(t)
	svc := &TrackService{DB: db, Selector: quotes.Selector{Location: loc}, Now: func() time.Time { return now }}

	for i := 0; i < 2; i++ {
		if err := svc.Track(ctx, EventShare, qid); err != nil {
			t.Fatalf("Track: %v", err)
		}
	}
	if err := svc.Track(ctx, EventViewQuote, ""); err != nil {
		t.Fatalf("Track without quote: %v", err)
	}

	got, err := svc.Count(ctx, EventShare, qid, 0)
	if err != nil || got != (EventCount{Ymd: 20250102, Event: EventShare, QuoteID: qid, N: 2}) {
		t.Fatalf("share count = %+v, %v", got, err)
	}
	got, err = svc.Count(ctx, EventViewQuote, "", 20250102)
	if err != nil || got.N != 1 {
		t.Fatalf("view count = %+v, %v", got, err)
	}
	if got, _ := svc.Count(ctx, EventShare, qid, 20250101); got.N != 0 {
		t.Fatalf("other day = %+v", got)
	}
	if _, err := svc.Count(ctx, "click", "", 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown event count: %v", err)
	}

	if err := svc.Track(ctx, "click", qid); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown event: %v", err)
	}

	// storage failures are swallowed
	sqlDB, _ := db.DB()
	_ = sqlDB.Close()
	if err := svc.Track(ctx, EventCopyLink, qid); err != nil {
		t.Fatalf("track must fail open: %v", err)
	}
}

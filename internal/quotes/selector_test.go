package quotes

import (
	"fmt"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/tbourn/go-daily-quote/internal/domain"
)

func makeStore(n int) *Store {
	qs := make([]domain.Quote, n)
	for i := range qs {
		qs[i] = domain.Quote{ID: fmt.Sprintf("%012x", i), Quote: fmt.Sprintf("q%d", i)}
	}
	return NewStore(qs)
}

func TestDayKey(t *testing.T) {
	cph, _ := time.LoadLocation("Europe/Copenhagen")
	// 23:30 UTC on Dec 31 is already Jan 1 in Copenhagen.
	ts := time.Date(2024, 12, 31, 23, 30, 0, 0, time.UTC)
	if got := DayKey(ts, cph); got != 20250101 {
		t.Fatalf("DayKey = %d; want 20250101", got)
	}
	if got := DayKey(ts, time.UTC); got != 20241231 {
		t.Fatalf("DayKey UTC = %d; want 20241231", got)
	}
}

func TestIndexFor_Bounds(t *testing.T) {
	for _, n := range []int{1, 2, 7, 365, 1000} {
		for _, ymd := range []int{20240101, 20241231, 19700101, -20240101} {
			i := IndexFor(ymd, n)
			if i < 0 || i >= n {
				t.Fatalf("IndexFor(%d,%d) = %d out of range", ymd, n, i)
			}
		}
	}
	if IndexFor(20240101, 0) != 0 {
		t.Fatalf("IndexFor with n=0 should be 0")
	}
	if IndexFor(20250101, 7) != 20250101%7 {
		t.Fatalf("unexpected formula")
	}
}

func TestSelector_SameDayStable(t *testing.T) {
	sel, err := NewSelector("Europe/Copenhagen")
	if err != nil {
		t.Fatalf("NewSelector: %v", err)
	}
	st := makeStore(13)

	// Every instant of 2025-03-10 in Copenhagen (UTC+1) maps to the same pick.
	start := time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)
	first, ok := sel.Pick(st, start)
	if !ok {
		t.Fatalf("expected a pick")
	}
	for m := 0; m < 24*60; m += 17 {
		p, _ := sel.Pick(st, start.Add(time.Duration(m)*time.Minute))
		if p.Index != first.Index || p.DateYmd != first.DateYmd {
			t.Fatalf("minute %d: pick changed %+v vs %+v", m, p, first)
		}
	}
	if first.DateYmd != 20250310 || first.TZ != "Europe/Copenhagen" {
		t.Fatalf("unexpected pick %+v", first)
	}
	if first.Quote.ID != fmt.Sprintf("%012x", first.Index) {
		t.Fatalf("quote does not match index")
	}
}

func TestSelector_EmptyStore(t *testing.T) {
	sel := Selector{}
	if _, ok := sel.Pick(NewStore(nil), time.Now()); ok {
		t.Fatalf("empty store must not pick")
	}
	if h := sel.History(NewStore(nil), time.Now(), 5); h != nil {
		t.Fatalf("empty store history should be nil")
	}
}

func TestSelector_HistoryMatchesPick(t *testing.T) {
	sel, _ := NewSelector("")
	st := makeStore(5)
	now := time.Date(2025, 3, 31, 8, 0, 0, 0, time.UTC) // spans the DST switch on 2025-03-30
	h := sel.History(st, now, 4)
	if len(h) != 4 {
		t.Fatalf("len = %d", len(h))
	}
	want := []int{20250331, 20250330, 20250329, 20250328}
	for i, p := range h {
		if p.DateYmd != want[i] {
			t.Fatalf("day %d = %d; want %d", i, p.DateYmd, want[i])
		}
		if p.Index != IndexFor(p.DateYmd, 5) {
			t.Fatalf("history index mismatch at %d", i)
		}
	}
	today, _ := sel.Pick(st, now)
	if today != h[0] {
		t.Fatalf("history[0] %+v != today %+v", h[0], today)
	}
}

func TestNewSelector_BadTZ(t *testing.T) {
	if _, err := NewSelector("Not/AZone"); err == nil {
		t.Fatalf("expected error")
	}
}

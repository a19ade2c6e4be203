package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tbourn/go-daily-quote/internal/hashing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQuoteIDCmd(t *testing.T) {
	out, err := run(t, "quote-id", "Know thyself.")
	if err != nil {
		t.Fatalf("quote-id: %v", err)
	}
	if got := strings.TrimSpace(out); got != hashing.QuoteID("Know thyself.") {
		t.Fatalf("got %q", got)
	}
	if _, err := run(t, "quote-id"); err == nil {
		t.Fatalf("missing argument must fail")
	}
}

func TestTodayCmd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quotes.json")
	data := `[
  {"id":"aaaaaaaaaaaa","quote":"First.","source":"A"},
  {"id":"bbbbbbbbbbbb","quote":"Second.","source":"B"},
  {"id":"cccccccccccc","quote":"Third.","source":"C"}
]`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GIN_MODE", "test")
	t.Setenv("QUOTES_SOURCE", path)
	t.Setenv("SITE_TZ", "UTC")

	out, err := run(t, "today", "--at", "2025-01-01T12:00:00Z")
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	fields := strings.Split(strings.TrimSpace(out), "\t")
	if len(fields) != 4 || fields[0] != "20250101" {
		t.Fatalf("unexpected output %q", out)
	}
	again, _ := run(t, "today", "--at", "2025-01-01T23:59:59Z")
	if again != out {
		t.Fatalf("same day must give the same quote: %q vs %q", out, again)
	}

	if _, err := run(t, "today", "--at", "yesterday"); err == nil {
		t.Fatalf("bad --at must fail")
	}
}

func TestConfigErrorsSurface(t *testing.T) {
	t.Setenv("GIN_MODE", "test")
	t.Setenv("DB_DRIVER", "oracle")
	if _, err := run(t, "migrate"); err == nil || !strings.Contains(err.Error(), "DB_DRIVER") {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestMigrateCmd(t *testing.T) {
	t.Setenv("GIN_MODE", "test")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "dq.db"))
	out, err := run(t, "migrate")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.Contains(out, "migrated sqlite") {
		t.Fatalf("unexpected output %q", out)
	}
}

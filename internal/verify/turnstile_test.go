package verify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestStatic(t *testing.T) {
	ok, err := Static(true).Verify(context.Background(), "", "")
	if !ok || err != nil {
		t.Fatalf("Static(true) = %v, %v", ok, err)
	}
	ok, _ = Static(false).Verify(context.Background(), "tok", "1.2.3.4")
	if ok {
		t.Fatalf("Static(false) should fail")
	}
}

func TestTurnstile_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("secret") != "s3cr3t" || r.PostForm.Get("response") != "tok" || r.PostForm.Get("remoteip") != "1.2.3.4" {
			t.Fatalf("unexpected form: %v", r.PostForm)
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	ts := NewTurnstile("s3cr3t", srv.URL, time.Second)
	ok, err := ts.Verify(context.Background(), "tok", "1.2.3.4")
	if err != nil || !ok {
		t.Fatalf("Verify = %v, %v", ok, err)
	}
}

func TestTurnstile_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	}))
	defer srv.Close()

	ok, err := NewTurnstile("s", srv.URL, time.Second).Verify(context.Background(), "tok", "")
	if err != nil || ok {
		t.Fatalf("Verify = %v, %v; want false, nil", ok, err)
	}
}

func TestTurnstile_Errors(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()
	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer garbage.Close()
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer slow.Close()

	cases := map[string]*Turnstile{
		"status":  NewTurnstile("s", bad.URL, time.Second),
		"decode":  NewTurnstile("s", garbage.URL, time.Second),
		"timeout": NewTurnstile("s", slow.URL, 20*time.Millisecond),
		"secret":  NewTurnstile("", bad.URL, time.Second),
	}
	for name, ts := range cases {
		ok, err := ts.Verify(context.Background(), "tok", "")
		if ok || err == nil {
			t.Fatalf("%s: Verify = %v, %v; want false + error", name, ok, err)
		}
	}
}

func TestTurnstile_EmptyToken(t *testing.T) {
	ok, err := NewTurnstile("s", "http://127.0.0.1:1", time.Second).Verify(context.Background(), "  ", "")
	if ok || err != nil {
		t.Fatalf("empty token should be a plain rejection, got %v %v", ok, err)
	}
}

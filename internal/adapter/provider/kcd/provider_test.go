package kcd

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mediseek/medisearch-backend/internal/config"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestProvider(endpoint string, timeout time.Duration) *Provider {
	return NewProvider(config.UpstreamConfig{Endpoint: endpoint, Timeout: timeout}, newTestLogger())
}

func TestProvider_FetchRows_Success(t *testing.T) {
	t.Parallel()

	body := `[
		{"sickCd": "E11", "sickKorNm": "당뇨병", "sickEngNm": "Diabetes"},
		{"sickCd": "E10", "sickKorNm": "소아당뇨", "sickEngNm": ""},
		{"sickKorNm": "이름만있음"}
	]`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("searchText"); got != "당뇨" {
			t.Errorf("searchText = %q, want %q", got, "당뇨")
		}
		if got := r.PostForm.Get("firstIndex"); got != "1" {
			t.Errorf("firstIndex = %q, want 1", got)
		}
		if got := r.PostForm.Get("lastIndex"); got != "150" {
			t.Errorf("lastIndex = %q, want 150", got)
		}
		if got := r.PostForm.Get("callType"); got == "" {
			t.Error("callType missing")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL, 2*time.Second)
	rows := p.FetchRows(context.Background(), "당뇨")

	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	if rows[0].Code != "E11" || rows[0].Name != "당뇨병" || rows[0].EnglishName != "Diabetes" {
		t.Errorf("rows[0] = %+v", rows[0])
	}
	// Missing fields pass through empty; filtering is the ranker's job.
	if rows[2].Code != "" || rows[2].Name != "이름만있음" {
		t.Errorf("rows[2] = %+v", rows[2])
	}
}

func TestProvider_FetchRows_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL, 2*time.Second)
	rows := p.FetchRows(context.Background(), "flu")

	if len(rows) != 0 {
		t.Fatalf("len(rows) = %d, want 0 on HTTP 500", len(rows))
	}
}

func TestProvider_FetchRows_MalformedBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL, 2*time.Second)
	if rows := p.FetchRows(context.Background(), "flu"); len(rows) != 0 {
		t.Fatalf("len(rows) = %d, want 0 on malformed body", len(rows))
	}
}

func TestProvider_FetchRows_TopLevelNotArray(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"error": "bad request"}`))
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL, 2*time.Second)
	if rows := p.FetchRows(context.Background(), "flu"); len(rows) != 0 {
		t.Fatalf("len(rows) = %d, want 0 on non-array body", len(rows))
	}
}

func TestProvider_FetchRows_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL, 50*time.Millisecond)

	start := time.Now()
	rows := p.FetchRows(context.Background(), "flu")
	elapsed := time.Since(start)

	if len(rows) != 0 {
		t.Fatalf("len(rows) = %d, want 0 on timeout", len(rows))
	}
	if elapsed > time.Second {
		t.Errorf("timeout not enforced, took %v", elapsed)
	}
}

func TestProvider_FetchRows_NetworkFailure(t *testing.T) {
	t.Parallel()

	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	p := newTestProvider(srv.URL, time.Second)
	if rows := p.FetchRows(context.Background(), "flu"); len(rows) != 0 {
		t.Fatalf("len(rows) = %d, want 0 on network failure", len(rows))
	}
}

func TestProvider_FetchRows_EmptyArray(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL, time.Second)
	if rows := p.FetchRows(context.Background(), "zzz"); len(rows) != 0 {
		t.Fatalf("len(rows) = %d, want 0 for empty array", len(rows))
	}
}

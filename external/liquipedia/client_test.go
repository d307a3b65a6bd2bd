package liquipedia

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/mlbb-analytics/internal/platform/resilience"
	"github.com/riskibarqy/mlbb-analytics/internal/usecase"
)

func TestFetchTournamentMatches_PaginatesAndSendsAPIKey(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/match" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Apikey secret-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if got := r.URL.Query().Get("conditions"); got != "[[parent::MPL/Indonesia/Season_13]]" {
			t.Errorf("unexpected conditions %q", got)
		}

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		w.Header().Set("Content-Type", "application/json")
		switch offset {
		case 0:
			_, _ = fmt.Fprint(w, `{"result":[{"pageid":1,"match2opponents":[{"name":"RRQ Hoshi"},{"name":"ONIC"}]},{"pageid":2}]}`)
		default:
			_, _ = fmt.Fprint(w, `{"result":[{"pageid":3}]}`)
		}
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "secret-key", PageSize: 2})
	matches, err := client.FetchTournamentMatches(context.Background(), "MPL/Indonesia/Season_13")
	if err != nil {
		t.Fatalf("fetch matches: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	if matches[0].Opponents[0].Name != "RRQ Hoshi" || matches[2].PageID != 3 {
		t.Fatalf("unexpected decoded matches: %+v", matches)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 page requests, got %d", calls.Load())
	}
}

func TestFetchTournamentMatches_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, `{"result":[]}`)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, MaxRetries: 1})
	matches, err := client.FetchTournamentMatches(context.Background(), "MSC/2024")
	if err != nil {
		t.Fatalf("fetch matches: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches, got %d", len(matches))
	}
	if calls.Load() != 2 {
		t.Fatalf("expected a retry after 503, got %d calls", calls.Load())
	}
}

func TestFetchTournamentMatches_ClientErrorIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = fmt.Fprint(w, `{"error":"bad key"}`)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, MaxRetries: 3})
	if _, err := client.FetchTournamentMatches(context.Background(), "MSC/2024"); err == nil {
		t.Fatalf("expected error for forbidden response")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected single call, got %d", calls.Load())
	}
}

func TestFetchTournamentMatches_OpenCircuitIsDependencyUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL: srv.URL,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	if _, err := client.FetchTournamentMatches(context.Background(), "MSC/2024"); err == nil {
		t.Fatalf("expected first call to fail")
	}
	_, err := client.FetchTournamentMatches(context.Background(), "MSC/2024")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestFetchTournamentMatches_RequiresPage(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{})
	if _, err := client.FetchTournamentMatches(context.Background(), "  "); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

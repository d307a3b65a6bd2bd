package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS_StatsDashboards(t *testing.T) {
	origins := []string{" https://stats.mlbb.example.com ", "", "http://localhost:5173"}

	tests := []struct {
		name        string
		method      string
		path        string
		origin      string
		wantStatus  int
		wantOrigin  string
		wantMethods string
		wantNext    bool
	}{
		{
			name:        "hero stats from the dashboard",
			method:      http.MethodGet,
			path:        "/v1/stats?tournament=MPL+ID+S13",
			origin:      "https://stats.mlbb.example.com",
			wantStatus:  http.StatusOK,
			wantOrigin:  "https://stats.mlbb.example.com",
			wantMethods: "GET,POST,OPTIONS",
			wantNext:    true,
		},
		{
			name:        "preflight for hero detail from local dev",
			method:      http.MethodOptions,
			path:        "/v1/stats/heroes/Fanny",
			origin:      "http://localhost:5173",
			wantStatus:  http.StatusNoContent,
			wantOrigin:  "http://localhost:5173",
			wantMethods: "GET,POST,OPTIONS",
		},
		{
			name:       "preflight from an unknown site",
			method:     http.MethodOptions,
			path:       "/v1/stats",
			origin:     "https://scraper.example.net",
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "webhook without origin passes through",
			method:     http.MethodPost,
			path:       "/webhooks/liquipedia",
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.method == http.MethodOptions {
				req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			}
			rec := httptest.NewRecorder()

			CORS(origins, next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if called != tt.wantNext {
				t.Fatalf("next handler called=%v, want %v", called, tt.wantNext)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
			}
			if got := rec.Header().Get("Access-Control-Allow-Methods"); got != tt.wantMethods {
				t.Fatalf("unexpected Access-Control-Allow-Methods: %q", got)
			}
			if tt.wantOrigin != "" && rec.Header().Get("Vary") != "Origin" {
				t.Fatalf("echoed origin must vary on Origin, got %q", rec.Header().Get("Vary"))
			}
		})
	}
}

func TestCORS_WildcardDoesNotEchoOrigin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS([]string{"https://stats.mlbb.example.com", "*"}, next)

	req := httptest.NewRequest(http.MethodGet, "/v1/tournaments", nil)
	req.Header.Set("Origin", "https://any.example.org")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
	}
	if got := rec.Header().Get("Vary"); got != "" {
		t.Fatalf("wildcard response must not vary on Origin, got %q", got)
	}
}

package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestShouldTraceRequest_HealthPaths(t *testing.T) {
	paths := []string{"/healthz", "/health", "/livez", "/readyz", " /healthz "}
	for _, path := range paths {
		if shouldTraceRequest(path) {
			t.Fatalf("expected no tracing for path %q", path)
		}
	}
}

func TestShouldTraceRequest_NonHealthPaths(t *testing.T) {
	paths := []string{"/v1/stats", "/v1/heroes", "/", "/webhooks/liquipedia"}
	for _, path := range paths {
		if !shouldTraceRequest(path) {
			t.Fatalf("expected tracing for path %q", path)
		}
	}
}

func TestResolveClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "forwarded chain", headers: map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, remote: "10.0.0.2:5000", want: "203.0.113.7"},
		{name: "fly header wins", headers: map[string]string{"Fly-Client-IP": "198.51.100.4", "X-Real-IP": "10.0.0.3"}, remote: "10.0.0.2:5000", want: "198.51.100.4"},
		{name: "garbage header skipped", headers: map[string]string{"X-Real-IP": "not-an-ip"}, remote: "192.0.2.9:443", want: "192.0.2.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := resolveClientIP(req); got != tt.want {
				t.Fatalf("resolveClientIP=%q want %q", got, tt.want)
			}
		})
	}
}

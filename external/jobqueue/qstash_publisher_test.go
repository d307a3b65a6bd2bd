package jobqueue

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestQStashPublisher_EnqueueSetsUpstashHeaders(t *testing.T) {
	t.Parallel()

	var gotPath, gotBody string
	var gotHeader http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeader = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:          srv.URL,
		Token:            "qstash-token",
		TargetBaseURL:    "https://api.example.com",
		Retries:          3,
		InternalJobToken: "job-token",
	}, nil)

	err := publisher.Enqueue(context.Background(), "v1/internal/jobs/process-update",
		map[string]string{"page": "MSC/2024"}, 5*time.Second, "msc-2024-edit-100")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if gotPath != "/v2/publish/https://api.example.com/v1/internal/jobs/process-update" {
		t.Fatalf("unexpected publish path: %s", gotPath)
	}
	if gotHeader.Get("Authorization") != "Bearer qstash-token" {
		t.Fatalf("unexpected authorization header: %q", gotHeader.Get("Authorization"))
	}
	if gotHeader.Get("Upstash-Retries") != "3" || gotHeader.Get("Upstash-Delay") != "5s" {
		t.Fatalf("unexpected retry/delay headers: %v", gotHeader)
	}
	if gotHeader.Get("Upstash-Deduplication-Id") != "msc-2024-edit-100" {
		t.Fatalf("unexpected dedup header: %q", gotHeader.Get("Upstash-Deduplication-Id"))
	}
	if gotHeader.Get("Upstash-Forward-X-Internal-Job-Token") != "job-token" {
		t.Fatalf("job token must be forwarded")
	}
	if !strings.Contains(gotBody, `"page":"MSC/2024"`) {
		t.Fatalf("unexpected body: %s", gotBody)
	}
}

func TestQStashPublisher_ServerErrorIsTransient(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{BaseURL: srv.URL, TargetBaseURL: "https://api.example.com"}, nil)
	err := publisher.Enqueue(context.Background(), "/jobs/x", nil, 0, "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !isQStashCircuitFailure(err) {
		t.Fatalf("5xx must count as circuit failure, got %v", err)
	}
}

func TestQStashPublisher_RejectsInvalidTarget(t *testing.T) {
	t.Parallel()

	publisher := NewQStashPublisher(QStashPublisherConfig{BaseURL: "https://qstash.example.com", TargetBaseURL: "ftp://nope"}, nil)
	if err := publisher.Enqueue(context.Background(), "/jobs/x", nil, 0, ""); err == nil {
		t.Fatalf("expected invalid target error")
	}
	if err := publisher.Enqueue(context.Background(), " / ", nil, 0, ""); err == nil {
		t.Fatalf("expected missing path error")
	}
}

func TestBuildQStashCurlPreview_MasksSecrets(t *testing.T) {
	t.Parallel()

	preview := buildQStashCurlPreview("https://q/v2/publish/x", "/x", "0s", 2, "dedup", `{"a":"it's"}`, true)
	if strings.Contains(preview, "Upstash-Delay") {
		t.Fatalf("zero delay must be omitted: %s", preview)
	}
	if !strings.Contains(preview, "Bearer ***") || !strings.Contains(preview, "X-Internal-Job-Token: ***") {
		t.Fatalf("secrets must be masked: %s", preview)
	}
	if !strings.Contains(preview, `'{"a":"it'"'"'s"}'`) {
		t.Fatalf("body must be shell quoted: %s", preview)
	}
}

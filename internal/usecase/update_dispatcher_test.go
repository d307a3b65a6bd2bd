package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/mlbb-analytics/internal/domain/tournament"
	"github.com/riskibarqy/mlbb-analytics/internal/platform/logging"
)

type recordedEnqueue struct {
	path    string
	payload any
	dedupID string
}

type fakeEnqueuer struct {
	mu    sync.Mutex
	calls []recordedEnqueue
	err   error
}

func (f *fakeEnqueuer) Enqueue(_ context.Context, path string, payload any, _ time.Duration, dedupID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedEnqueue{path: path, payload: payload, dedupID: dedupID})
	return f.err
}

func TestUpdateDeduplicationID(t *testing.T) {
	t.Parallel()

	at := time.Unix(1_700_000_059, 0)
	got := UpdateDeduplicationID("MPL/Indonesia/Season_13", "Edit", at)
	if got != "mpl-indonesia-season_13-edit-28333334" {
		t.Fatalf("unexpected dedup id: %s", got)
	}
	if UpdateDeduplicationID("MPL/Indonesia/Season_13", "edit", at.Add(time.Second)) != "mpl-indonesia-season_13-edit-28333334" {
		t.Fatalf("notifications in the same minute must share an id")
	}
	if UpdateDeduplicationID("MSC/2024", "", at) != "msc-2024-update-28333334" {
		t.Fatalf("blank event must fall back to update")
	}
}

func TestQueueDispatcher_PublishesToProcessUpdatePath(t *testing.T) {
	t.Parallel()

	enqueuer := &fakeEnqueuer{}
	dispatcher := NewQueueDispatcher(enqueuer)
	dispatcher.now = func() time.Time { return time.Unix(120, 0) }

	job := UpdateJob{Page: "MSC/2024", TournamentName: "MSC 2024", Event: "edit"}
	if err := dispatcher.DispatchUpdate(context.Background(), job); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(enqueuer.calls) != 1 {
		t.Fatalf("expected one enqueue, got %d", len(enqueuer.calls))
	}
	call := enqueuer.calls[0]
	if call.path != ProcessUpdateJobPath || call.dedupID != "msc-2024-edit-2" {
		t.Fatalf("unexpected enqueue: %+v", call)
	}
	if call.payload.(UpdateJob) != job {
		t.Fatalf("unexpected payload: %+v", call.payload)
	}

	enqueuer.err = errors.New("qstash down")
	if err := dispatcher.DispatchUpdate(context.Background(), job); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestLocalDispatcher_RunsDetachedFromRequest(t *testing.T) {
	t.Parallel()

	fx := newMemoryFixture()
	if _, err := fx.tournaments.Register(context.Background(), tournament.Tournament{Name: "MPL Test S1", SourcePage: "MPL/Test/Season_1"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	source := &stubMatchSource{byPage: map[string][]testSeries{"MPL/Test/Season_1": {referenceSeries()}}}
	ingestion := NewIngestionService(fx.tournaments, source, fx.bulk, 1, logging.NewNop())
	dispatcher := NewLocalDispatcher(ingestion, time.Minute, logging.NewNop())

	reqCtx, cancel := context.WithCancel(context.Background())
	if err := dispatcher.DispatchUpdate(reqCtx, UpdateJob{Page: "MPL/Test/Season_1", TournamentName: "MPL Test S1"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	cancel()
	dispatcher.Wait()

	counts, _ := fx.matches.CountRows(context.Background())
	if counts.Matches != 1 {
		t.Fatalf("expected job to reconcile one match, got %+v", counts)
	}

	if err := dispatcher.DispatchUpdate(context.Background(), UpdateJob{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank page, got %v", err)
	}
}

func TestWebhookService_AcceptDispatchesResolvedJob(t *testing.T) {
	t.Parallel()

	fx := newMemoryFixture()
	if _, err := fx.tournaments.Register(context.Background(), tournament.Tournament{Name: "MSC 2024", SourcePage: "MSC/2024"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	enqueuer := &fakeEnqueuer{}
	ingestion := NewIngestionService(fx.tournaments, &stubMatchSource{}, fx.bulk, 1, logging.NewNop())
	svc := NewWebhookService(ingestion, NewQueueDispatcher(enqueuer), "mobilelegends", logging.NewNop())

	job, accepted, err := svc.Accept(context.Background(), WebhookEvent{Page: "MSC/2024", Wiki: "mobilelegends", Event: "edit"})
	if err != nil || !accepted {
		t.Fatalf("accept: accepted=%v err=%v", accepted, err)
	}
	if job.TournamentName != "MSC 2024" || !strings.HasPrefix(job.JobID, "upd_") || len(enqueuer.calls) != 1 {
		t.Fatalf("unexpected job: %+v calls=%d", job, len(enqueuer.calls))
	}

	_, accepted, err = svc.Accept(context.Background(), WebhookEvent{Page: "Some/Page", Wiki: "dota2"})
	if err != nil || accepted {
		t.Fatalf("other wiki must be ignored: accepted=%v err=%v", accepted, err)
	}

	if _, _, err := svc.Accept(context.Background(), WebhookEvent{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

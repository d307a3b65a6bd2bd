package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/mlbb-analytics/internal/platform/id"
	"github.com/riskibarqy/mlbb-analytics/internal/platform/logging"
)

// WebhookEvent is a page change notification from the wiki.
type WebhookEvent struct {
	Page      string
	Namespace string
	Wiki      string
	Event     string
}

type WebhookService struct {
	ingestion  *IngestionService
	dispatcher UpdateDispatcher
	wiki       string
	ids        id.Generator
	logger     *logging.Logger
}

func NewWebhookService(ingestion *IngestionService, dispatcher UpdateDispatcher, wiki string, logger *logging.Logger) *WebhookService {
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookService{
		ingestion:  ingestion,
		dispatcher: dispatcher,
		wiki:       strings.TrimSpace(wiki),
		ids:        id.NewRandomGenerator("upd_"),
		logger:     logger.Named("webhook"),
	}
}

// Accept resolves the tournament behind a changed page and dispatches an
// update. Notifications for other wikis are ignored.
func (s *WebhookService) Accept(ctx context.Context, event WebhookEvent) (UpdateJob, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WebhookService.Accept")
	defer span.End()

	page := strings.TrimSpace(event.Page)
	if page == "" {
		return UpdateJob{}, false, fmt.Errorf("%w: page is required", ErrInvalidInput)
	}
	if wiki := strings.TrimSpace(event.Wiki); s.wiki != "" && wiki != "" && !strings.EqualFold(wiki, s.wiki) {
		s.logger.DebugContext(ctx, "webhook for other wiki ignored", "wiki", wiki, "page", page)
		return UpdateJob{}, false, nil
	}

	name, err := s.ingestion.ResolveTournamentName(ctx, page)
	if err != nil {
		return UpdateJob{}, false, err
	}

	jobID, err := s.ids.NewID()
	if err != nil {
		return UpdateJob{}, false, fmt.Errorf("generate job id: %w", err)
	}

	job := UpdateJob{JobID: jobID, Page: page, TournamentName: name, Event: strings.TrimSpace(event.Event)}
	if err := s.dispatcher.DispatchUpdate(ctx, job); err != nil {
		return UpdateJob{}, false, err
	}
	s.logger.InfoContext(ctx, "webhook update dispatched", "job_id", jobID, "page", page, "tournament", name, "event", job.Event)
	return job, true, nil
}

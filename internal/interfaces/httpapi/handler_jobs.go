package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/mlbb-analytics/internal/usecase"
)

type liquipediaWebhookRequest struct {
	Page      string `json:"page" validate:"required,max=512"`
	Namespace int    `json:"namespace"`
	Wiki      string `json:"wiki" validate:"omitempty,max=64"`
	Event     string `json:"event" validate:"omitempty,max=64"`
}

type processUpdateJobRequest struct {
	JobID          string `json:"job_id" validate:"omitempty,max=64"`
	Page           string `json:"page" validate:"required,max=512"`
	TournamentName string `json:"tournament_name" validate:"omitempty,max=255"`
	Event          string `json:"event" validate:"omitempty,max=64"`
}

type webhookAcceptedDTO struct {
	Status     string `json:"status"`
	JobID      string `json:"job_id,omitempty"`
	Page       string `json:"page,omitempty"`
	Tournament string `json:"tournament,omitempty"`
}

// ReceiveLiquipediaWebhook answers as soon as the update is dispatched; the
// upstream fetch and reconciliation run elsewhere.
func (h *Handler) ReceiveLiquipediaWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.ReceiveLiquipediaWebhook")
	defer span.End()

	var req liquipediaWebhookRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	job, accepted, err := h.webhookService.Accept(ctx, usecase.WebhookEvent{
		Page:      req.Page,
		Namespace: fmt.Sprint(req.Namespace),
		Wiki:      req.Wiki,
		Event:     req.Event,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "accept webhook failed", "page", req.Page, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !accepted {
		writeSuccess(ctx, w, http.StatusAccepted, webhookAcceptedDTO{Status: "ignored", Page: req.Page})
		return
	}

	h.logger.InfoContext(ctx, "webhook accepted", "job_id", job.JobID, "page", job.Page, "tournament", job.TournamentName, "event", job.Event)
	writeSuccess(ctx, w, http.StatusAccepted, webhookAcceptedDTO{
		Status:     "accepted",
		JobID:      job.JobID,
		Page:       job.Page,
		Tournament: job.TournamentName,
	})
}

func (h *Handler) RunProcessUpdateJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.RunProcessUpdateJob")
	defer span.End()

	var req processUpdateJobRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.ingestionService.ProcessUpdate(ctx, req.Page, req.TournamentName)
	if err != nil {
		h.logger.WarnContext(ctx, "run process update job failed", "job_id", req.JobID, "page", req.Page, "error", err)
		writeError(ctx, w, err)
		return
	}
	h.logger.InfoContext(ctx, "process update job finished", "job_id", req.JobID, "page", result.Page, "status", result.Status, "reconciled", result.Reconciled)

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunRefreshAllJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.RunRefreshAllJob")
	defer span.End()

	result, err := h.ingestionService.RefreshAll(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run refresh all job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

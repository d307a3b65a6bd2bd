package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/herostats"
	"github.com/riskibarqy/mlbb-analytics/internal/platform/logging"
	"github.com/riskibarqy/mlbb-analytics/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	statsService     *usecase.HeroStatsService
	catalogService   *usecase.CatalogService
	ingestionService *usecase.IngestionService
	webhookService   *usecase.WebhookService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	statsService *usecase.HeroStatsService,
	catalogService *usecase.CatalogService,
	ingestionService *usecase.IngestionService,
	webhookService *usecase.WebhookService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		statsService:     statsService,
		catalogService:   catalogService,
		ingestionService: ingestionService,
		webhookService:   webhookService,
		logger:           logger.Named("handler"),
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// decodeJSON reads a strict JSON body. An empty body leaves target untouched
// when allowEmpty is set.
func decodeJSON(r *http.Request, target any, allowEmpty bool) error {
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// filterFromQuery accepts repeated parameters and comma-separated values,
// e.g. ?teams=A&teams=B or ?teams=A,B.
func filterFromQuery(r *http.Request) herostats.Filter {
	query := r.URL.Query()
	return herostats.Filter{
		Tournaments: queryList(query["tournaments"]),
		Stages:      queryList(query["stages"]),
		Teams:       queryList(query["teams"]),
	}
}

func queryList(raw []string) []string {
	var out []string
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

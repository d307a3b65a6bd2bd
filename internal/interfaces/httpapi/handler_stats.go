package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/mlbb-analytics/internal/domain/tournament"
)

type tournamentDTO struct {
	Name       string `json:"name"`
	Region     string `json:"region"`
	Split      string `json:"split"`
	SourcePage string `json:"source_page,omitempty"`
}

func tournamentToDTO(v tournament.Tournament) tournamentDTO {
	return tournamentDTO{
		Name:       v.Name,
		Region:     v.Region,
		Split:      v.Split,
		SourcePage: v.SourcePage,
	}
}

func (h *Handler) GetHeroStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.GetHeroStats")
	defer span.End()

	filter := filterFromQuery(r)
	result, err := h.statsService.ComputeHeroStats(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "compute hero stats failed", "filter", filter, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) GetHeroDetail(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.GetHeroDetail")
	defer span.End()

	heroName := strings.TrimSpace(r.PathValue("heroName"))
	filter := filterFromQuery(r)
	result, err := h.statsService.ComputeHeroDetail(ctx, heroName, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "compute hero detail failed", "hero", heroName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) ListHeroes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.ListHeroes")
	defer span.End()

	names, err := h.catalogService.ListHeroes(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list heroes failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, names)
}

// ListTournaments returns a flat list, or names grouped by split or region
// when group_by is given.
func (h *Handler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.ListTournaments")
	defer span.End()

	if groupBy := strings.TrimSpace(r.URL.Query().Get("group_by")); groupBy != "" {
		groups, err := h.catalogService.GroupTournaments(ctx, groupBy)
		if err != nil {
			h.logger.WarnContext(ctx, "group tournaments failed", "group_by", groupBy, "error", err)
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, groups)
		return
	}

	items, err := h.catalogService.ListTournaments(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list tournaments failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]tournamentDTO, 0, len(items))
	for _, item := range items {
		out = append(out, tournamentToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.ListTeams")
	defer span.End()

	tournaments := queryList(r.URL.Query()["tournaments"])
	names, err := h.catalogService.ListTeams(ctx, tournaments)
	if err != nil {
		h.logger.ErrorContext(ctx, "list teams failed", "tournaments", tournaments, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, names)
}

func (h *Handler) ListStages(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.ListStages")
	defer span.End()

	tournaments := queryList(r.URL.Query()["tournaments"])
	items, err := h.catalogService.ListStages(ctx, tournaments)
	if err != nil {
		h.logger.ErrorContext(ctx, "list stages failed", "tournaments", tournaments, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerStatsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/stats", handler.GetHeroStats)
	mux.HandleFunc("GET /v1/heroes/{heroName}", handler.GetHeroDetail)
}

func registerCatalogRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/heroes", handler.ListHeroes)
	mux.HandleFunc("GET /v1/tournaments", handler.ListTournaments)
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/stages", handler.ListStages)
}

func registerIngestionRoutes(mux *http.ServeMux, handler *Handler, webhookSecret string) {
	mux.Handle("POST /webhooks/liquipedia", RequireWebhookSecret(webhookSecret, http.HandlerFunc(handler.ReceiveLiquipediaWebhook)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	// QStash delivers webhook-triggered updates here.
	mux.Handle("POST /v1/internal/jobs/process-update", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunProcessUpdateJob)))
	mux.Handle("POST /v1/internal/jobs/refresh-all", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRefreshAllJob)))
}

// Package admin exposes the bot's operational HTTP surface: liveness and
// runtime counters. It carries no bot functionality of its own.
package admin

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"hordebot/internal/middleware"
)

// NewRouter builds the admin router with the shared middleware chain.
func NewRouter(stats *Stats, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.Logger(logger),
	)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})
	r.Get("/statusz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, stats.Snapshot())
	})

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

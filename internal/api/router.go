package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	apimiddleware "github.com/AxM133/memoryloop/internal/api/middleware"
	"github.com/AxM133/memoryloop/internal/store"
)

// NewRouter creates the application router with all routes and middleware.
func NewRouter(memoryStore *store.MemoryStore, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	memoHandler := NewMemoHandler(memoryStore, logger)
	settingsHandler := NewSettingsHandler(memoryStore, logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/memos", memoHandler.CreateMemo)
		r.Get("/memos", memoHandler.ListMemos)
		r.Get("/memos/{id}", memoHandler.GetMemo)
		r.Post("/memos/{id}/answer", memoHandler.SubmitAnswer)

		r.Get("/settings", settingsHandler.GetSettings)
		r.Put("/settings", settingsHandler.UpdateSettings)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}

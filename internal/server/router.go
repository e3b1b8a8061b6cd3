package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nagrik-labs/nagrikai/internal/api"
	"github.com/nagrik-labs/nagrikai/internal/api/handlers"
	"github.com/nagrik-labs/nagrikai/internal/api/middleware"
)

type RouterConfig struct {
	AdminToken       string
	AnswerHandler    *handlers.AnswerHandler
	KnowledgeHandler *handlers.KnowledgeHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Audio uploads dominate payload size; 15 MiB covers a few minutes of
	// compressed speech.
	const maxBodyBytes int64 = 15 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/answer", cfg.AnswerHandler.Answer)
	r.Post("/transcribe", cfg.AnswerHandler.Transcribe)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminAuth(cfg.AdminToken))

		r.Route("/knowledge", func(r chi.Router) {
			r.Post("/", cfg.KnowledgeHandler.Publish)
			r.Get("/", cfg.KnowledgeHandler.List)
			r.Get("/{id}", cfg.KnowledgeHandler.Get)
			r.Put("/{id}", cfg.KnowledgeHandler.Update)
			r.Delete("/{id}", cfg.KnowledgeHandler.Delete)
		})
	})

	return r
}

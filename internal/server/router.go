package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(chatHandler *ChatHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(corsAllowAll)

	r.Get("/health", chatHandler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", chatHandler.Chat)
		r.Get("/models", chatHandler.Models)

		r.Route("/memory", func(r chi.Router) {
			r.Get("/", chatHandler.ListSessions)
			r.Get("/{sessionID}", chatHandler.GetMemory)
			r.Delete("/{sessionID}", chatHandler.ClearMemory)
		})
	})

	return r
}

// corsAllowAll mirrors the permissive CORS policy the proxy has always had:
// it serves a local-testing widget from arbitrary origins.
func corsAllowAll(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)
	r.Use(cors.AllowAll().Handler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
		r.Route("/ws", func(r chi.Router) {
			r.Get("/room", c.connectRoom)
		})
	})

	r.Route("/internal", func(r chi.Router) {
		r.Get("/video/{video-id}", c.getVideo)
		r.Get("/trends", c.getTrends)
	})

	if c.staticDir != "" {
		c.mountStatic(r)
	}

	return r
}

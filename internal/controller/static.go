package controller

import (
	"net/http"
	"path"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

func (c controller) serveFile(name string) http.HandlerFunc {
	file := filepath.Join(c.staticDir, name)
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, file)
	}
}

// mountStatic serves the browser client. Page assets are routed before the
// rooms catch-all so they are not answered with the rooms page.
func (c controller) mountStatic(r chi.Router) {
	utils := c.serveFile(filepath.Join("shared", "utils.js"))
	r.Get("/utils.js", utils)

	r.Get("/", c.serveFile(filepath.Join("index", "index.html")))
	r.Get("/index.css", c.serveFile(filepath.Join("index", "index.css")))
	r.Get("/index.js", c.serveFile(filepath.Join("index", "index.js")))

	r.Get("/rooms", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	})
	r.Get("/rooms/rooms.css", c.serveFile(filepath.Join("rooms", "rooms.css")))
	r.Get("/rooms/rooms.js", c.serveFile(filepath.Join("rooms", "rooms.js")))
	roomsPage := c.serveFile(filepath.Join("rooms", "rooms.html"))
	r.Get("/rooms/*", func(w http.ResponseWriter, r *http.Request) {
		if path.Base(r.URL.Path) == "utils.js" {
			utils(w, r)
			return
		}
		roomsPage(w, r)
	})

	r.Handle("/images/*", http.FileServer(http.Dir(c.staticDir)))
}

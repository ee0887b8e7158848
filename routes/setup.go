package routes

import (
	"html/template"
	"log/slog"
	"net/http"
)

func SetupRoutes(mux *http.ServeMux, tmpl *template.Template, session *Session, quit func(), logger *slog.Logger) {
	// Home path
	mux.HandleFunc("GET /{$}", Home(tmpl, session))

	// Menu items and navigation.
	mux.HandleFunc("POST /commands/{action}", Command(session, quit, logger))

	// Rendered panels
	mux.HandleFunc("GET /panels/{panel}", Panel(session))

	mux.HandleFunc("GET /status", StatusJSON(session))
	mux.HandleFunc("GET /about", About(tmpl))
}

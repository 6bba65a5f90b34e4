// Package httpui serves the embedded activities web UI.
package httpui

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
)

//go:embed static
var staticBundle embed.FS

func Register(mux *http.ServeMux) error {
	staticFS, err := fs.Sub(staticBundle, "static")
	if err != nil {
		return fmt.Errorf("embed static: %w", err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	mux.HandleFunc("GET /{$}", rootRedirect)
	return nil
}

func rootRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
}

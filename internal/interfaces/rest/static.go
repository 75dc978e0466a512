package rest

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// spaHandler serves the static frontend and falls back to index.html
// for client-side routes.
type spaHandler struct {
	dir string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(filepath.Clean(r.URL.Path), "/")
	path := filepath.Join(h.dir, rel)

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		http.ServeFile(w, r, path)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.dir, "index.html"))
}

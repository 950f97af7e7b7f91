package api

import (
	"net/http"
)

// handleStatic serves files from the frontend directory. "/" maps to
// index.html; directories are never listed. http.Dir rejects paths that
// escape the root.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Path
	if name == "" || name == "/" {
		name = "/index.html"
	}

	f, err := s.static.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

package handler

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// StaticHandler serves the portfolio site from a directory on disk.
type StaticHandler struct {
	root    string
	private map[string]bool
}

// sqliteSidecars are the files SQLite keeps next to a database.
var sqliteSidecars = []string{"-wal", "-shm", "-journal"}

// NewStaticHandler creates a StaticHandler rooted at dir. The files listed
// in private, and the SQLite sidecars of each, are never served even when
// they sit under dir.
func NewStaticHandler(dir string, private ...string) *StaticHandler {
	h := &StaticHandler{root: dir, private: make(map[string]bool)}
	for _, p := range private {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		h.private[abs] = true
		for _, suffix := range sqliteSidecars {
			h.private[abs+suffix] = true
		}
	}
	return h
}

// Index handles GET / by serving index.html.
func (h *StaticHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "index.html")
}

// File handles GET /{path...}.
func (h *StaticHandler) File(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, r.PathValue("path"))
}

// NotFound writes the JSON 404 envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, msgNotFound)
}

func (h *StaticHandler) serve(w http.ResponseWriter, r *http.Request, name string) {
	path, ok := h.resolve(name)
	if !ok {
		NotFound(w, r)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.WarnContext(r.Context(), "open static file failed", "path", name, "error", err)
		}
		NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		NotFound(w, r)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// resolve maps a URL path onto the root directory. Traversal outside the
// root, hidden files (".env", ".git/...") and private files are refused.
func (h *StaticHandler) resolve(name string) (string, bool) {
	if name == "" || strings.Contains(name, "\\") || strings.ContainsRune(name, 0) {
		return "", false
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." || strings.HasPrefix(seg, ".") {
			return "", false
		}
	}

	absRoot, err := filepath.Abs(h.root)
	if err != nil {
		return "", false
	}
	path := filepath.Join(absRoot, filepath.FromSlash(name))
	if !strings.HasPrefix(path, absRoot+string(filepath.Separator)) || h.private[path] {
		return "", false
	}
	return path, true
}

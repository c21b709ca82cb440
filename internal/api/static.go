// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/taibuivan/portfolio/internal/platform/apperr"
	"github.com/taibuivan/portfolio/internal/platform/respond"
)

// spaHandler serves the built frontend. Paths that are not files fall back to
// index.html so client-side routes survive a reload.
type spaHandler struct {
	root  string
	files http.Handler
}

// NewSPAHandler serves the frontend build in dir.
func NewSPAHandler(dir string) http.Handler {
	return &spaHandler{root: dir, files: http.FileServer(http.Dir(dir))}
}

func (handler *spaHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	name := filepath.Join(handler.root, filepath.FromSlash(path.Clean("/"+request.URL.Path)))
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		handler.files.ServeHTTP(writer, request)
		return
	}

	index, err := os.Open(filepath.Join(handler.root, "index.html"))
	if err != nil {
		respond.Error(writer, request, apperr.NotFound("Page"))
		return
	}
	defer index.Close()

	info, err := index.Stat()
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	// The shell references hashed assets; it must be revalidated on every load.
	writer.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(writer, request, "index.html", info.ModTime(), index)
}

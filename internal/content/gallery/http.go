// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gallery

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/portfolio/internal/platform/apperr"
	"github.com/taibuivan/portfolio/internal/platform/middleware"
	requestutil "github.com/taibuivan/portfolio/internal/platform/request"
	"github.com/taibuivan/portfolio/internal/platform/respond"
)

const (
	// formOverhead leaves room for the text fields and multipart framing.
	formOverhead = 1 << 20

	// multipartMemory is how much of the form is buffered before spilling to disk.
	multipartMemory = 2 << 20
)

// Handler exposes the gallery API and the uploaded files.
type Handler struct {
	service *Service
	ownerID string
}

// NewHandler restricts uploads and deletes to the account ownerID.
func NewHandler(service *Service, ownerID string) *Handler {
	return &Handler{service: service, ownerID: ownerID}
}

// Routes mounts the gallery under /api/gallery.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)

	router.Group(func(owner chi.Router) {
		owner.Use(middleware.RequireUser(handler.ownerID))
		owner.Post("/", handler.upload)
		owner.Delete("/{filename}", handler.delete)
	})

	return router
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	files, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"files": files})
}

func (handler *Handler) upload(writer http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(writer, request.Body, MaxUploadSize+formOverhead)
	if err := request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(writer, request, apperr.ValidationError("The file is larger than 10 MB"))
			return
		}
		respond.Error(writer, request, apperr.ValidationError("Expected a multipart form with a file field"))
		return
	}
	defer func() { _ = request.MultipartForm.RemoveAll() }()

	file, header, err := request.FormFile("file")
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("No file was sent"))
		return
	}
	defer file.Close()

	saved, err := handler.service.Save(request.Context(), Upload{
		OriginalName: header.Filename,
		DisplayName:  request.FormValue("displayName"),
		Description:  request.FormValue("description"),
		ContentType:  header.Header.Get("Content-Type"),
		Size:         header.Size,
		Content:      file,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, map[string]any{"file": saved})
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "filename")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"ok": true})
}

// ServeUpload streams /uploads/{filename} with range and conditional request
// support.
func (handler *Handler) ServeUpload(writer http.ResponseWriter, request *http.Request) {
	content, info, err := handler.service.Open(request.Context(), requestutil.Param(request, "filename"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer content.Close()

	writer.Header().Set("X-Content-Type-Options", "nosniff")
	writer.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; sandbox")
	http.ServeContent(writer, request, info.Name, info.ModTime, content)
}

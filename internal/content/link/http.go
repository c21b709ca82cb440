// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package link

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/portfolio/internal/platform/constants"
	"github.com/taibuivan/portfolio/internal/platform/middleware"
	requestutil "github.com/taibuivan/portfolio/internal/platform/request"
	"github.com/taibuivan/portfolio/internal/platform/respond"
)

// Handler exposes the links under /api/links.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the links. Reads are public; writes need a session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)

	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)
		authed.Post("/", handler.create)
		authed.Put("/{id}", handler.update)
		authed.Delete("/{id}", handler.delete)
	})

	return router
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	links, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"links": links})
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	link, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"link": link})
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// A malformed id stays 0 and falls through to 404.
	id, _ := requestutil.Int64Param(request, "id")
	link, err := handler.service.Update(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"link": link})
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, _ := requestutil.Int64Param(request, "id")
	removed, err := handler.service.Delete(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{constants.FieldSuccess: removed})
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/portfolio/internal/platform/constants"
	"github.com/taibuivan/portfolio/internal/platform/middleware"
	requestutil "github.com/taibuivan/portfolio/internal/platform/request"
	"github.com/taibuivan/portfolio/internal/platform/respond"
)

// Handler exposes the comment wall under /api/comments.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type textRequest struct {
	Text string `json:"text"`
}

// Routes mounts the wall. Reads are public; every write needs a session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)

	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)
		authed.Post("/", handler.create)
		authed.Put("/{id}", handler.edit)
		authed.Delete("/{id}", handler.delete)
		authed.Post("/{id}/replies", handler.reply)
	})

	return router
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	comments, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"comments": comments})
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var body textRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Create(request.Context(), requestutil.Principal(request), body.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"comment": comment})
}

func (handler *Handler) edit(writer http.ResponseWriter, request *http.Request) {
	var body textRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Edit(request.Context(), requestutil.Principal(request), commentID(request), body.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"comment": comment})
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Principal(request), commentID(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{constants.FieldSuccess: true})
}

func (handler *Handler) reply(writer http.ResponseWriter, request *http.Request) {
	var body textRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.AddReply(request.Context(), requestutil.Principal(request), commentID(request), body.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"comment": comment})
}

// commentID parses the {id} segment. A malformed id becomes 0, which no comment
// carries, so it reports 404 after the permission checks like any unknown id.
func commentID(request *http.Request) int64 {
	id, ok := requestutil.Int64Param(request, "id")
	if !ok {
		return 0
	}
	return id
}

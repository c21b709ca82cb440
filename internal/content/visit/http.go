// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package visit

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/portfolio/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the counter under /api/visits.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.count)
	router.Post("/hit", handler.hit)
	return router
}

func (handler *Handler) count(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]any{"count": handler.service.Count(request.Context())})
}

func (handler *Handler) hit(writer http.ResponseWriter, request *http.Request) {
	count, err := handler.service.Hit(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"count": count})
}

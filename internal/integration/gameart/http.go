// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gameart

import (
	"net/http"
	"strings"

	"github.com/taibuivan/portfolio/internal/platform/respond"
	"github.com/taibuivan/portfolio/internal/platform/validate"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Image serves GET /api/game-image?name=.
func (handler *Handler) Image(writer http.ResponseWriter, request *http.Request) {
	name := strings.TrimSpace(request.URL.Query().Get("name"))
	if name == "" {
		respond.Error(writer, request, validate.RequiredError("name", "Missing name parameter"))
		return
	}
	respond.OK(writer, map[string]any{"url": handler.service.ImageURL(request.Context(), name)})
}

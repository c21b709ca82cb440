// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gif

import (
	"net/http"
	"strings"

	"github.com/taibuivan/portfolio/internal/platform/respond"
	"github.com/taibuivan/portfolio/internal/platform/validate"
	"github.com/taibuivan/portfolio/pkg/convert"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Search serves GET /api/gifs?q=&limit=.
func (handler *Handler) Search(writer http.ResponseWriter, request *http.Request) {
	query := strings.TrimSpace(request.URL.Query().Get("q"))
	if query == "" {
		respond.Error(writer, request, validate.RequiredError("q", "Missing q parameter"))
		return
	}
	limit := convert.Clamp(convert.ToIntD(request.URL.Query().Get("limit"), DefaultLimit), MinLimit, MaxLimit)

	results, err := handler.service.Search(request.Context(), query, limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"results": results})
}

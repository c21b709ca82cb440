// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gif

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taibuivan/portfolio/internal/platform/apperr"
)

// # Result Limits

const (
	DefaultLimit = 20
	MinLimit     = 1
	MaxLimit     = 50
)

// Searcher is implemented by [TenorClient].
type Searcher interface {
	Configured() bool
	SearchV2(ctx context.Context, query string, limit int) ([]Result, error)
	SearchV1(ctx context.Context, query string, limit int) ([]Result, error)
}

type Service struct {
	searcher Searcher
	logger   *slog.Logger
}

func NewService(searcher Searcher, logger *slog.Logger) *Service {
	return &Service{searcher: searcher, logger: logger}
}

// Search returns up to limit GIFs for query.
func (service *Service) Search(context context.Context, query string, limit int) ([]Result, error) {
	if !service.searcher.Configured() {
		return nil, apperr.Misconfigured("GIF search is not configured on the server")
	}

	results, errV2 := service.searcher.SearchV2(context, query, limit)
	if errV2 == nil {
		return results, nil
	}
	service.logger.WarnContext(context, "tenor_v2_failed", slog.String("error", errV2.Error()))

	results, errV1 := service.searcher.SearchV1(context, query, limit)
	if errV1 == nil {
		return results, nil
	}
	return nil, apperr.ExternalService("GIF search is unavailable right now", errors.Join(errV2, errV1))
}

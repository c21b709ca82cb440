// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package visit keeps the site-wide visit counter.

The count lives in visits.json. A counter file that cannot be read never
breaks the page: it is treated as zero and rewritten on the next hit.
*/
package visit

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/taibuivan/portfolio/internal/platform/apperr"
	"github.com/taibuivan/portfolio/internal/platform/docstore"
)

// FileName is the counter document inside the visits data directory.
const FileName = "visits.json"

// Counter is the stored document.
type Counter struct {
	Count int64 `json:"count"`
}

// Service reads and increments the counter.
type Service struct {
	document *docstore.Document[Counter]
	logger   *slog.Logger
}

// NewService stores the counter in dir/visits.json.
func NewService(dir string, logger *slog.Logger) *Service {
	return &Service{
		document: docstore.New(filepath.Join(dir, FileName), func() Counter { return Counter{} }),
		logger:   logger,
	}
}

// Count returns the current number of visits.
func (service *Service) Count(context context.Context) int64 {
	counter, err := service.document.Load()
	if err != nil {
		service.logger.WarnContext(context, "visit_counter_unreadable", slog.String("error", err.Error()))
		return 0
	}
	return max(counter.Count, 0)
}

// Hit records one visit and returns the new total.
func (service *Service) Hit(context context.Context) (int64, error) {
	counter, err := service.document.Update(func(counter *Counter) error {
		counter.Count = max(counter.Count, 0) + 1
		return nil
	})
	if err == nil {
		return counter.Count, nil
	}

	// The stored file is unreadable; start again from one.
	service.logger.WarnContext(context, "visit_counter_reset", slog.String("error", err.Error()))
	reset := Counter{Count: 1}
	if err := service.document.Save(reset); err != nil {
		return 0, apperr.Internal(err)
	}
	return reset.Count, nil
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package link

import (
	"context"
	"time"

	"github.com/taibuivan/portfolio/internal/platform/apperr"
	"github.com/taibuivan/portfolio/internal/platform/docstore"
)

// FileName is the document holding the links inside the data directory.
const FileName = "links.json"

// Service reads and rewrites the links document.
type Service struct {
	document *docstore.Document[[]Link]
	now      func() time.Time
}

// ServiceOption customises a [Service].
type ServiceOption func(*Service)

// WithClock replaces the wall clock used to mint ids.
func WithClock(now func() time.Time) ServiceOption {
	return func(service *Service) { service.now = now }
}

// NewService keeps the links in the JSON document at path.
func NewService(path string, options ...ServiceOption) *Service {
	service := &Service{
		document: docstore.New(path, func() []Link { return []Link{} }),
		now:      time.Now,
	}
	for _, option := range options {
		option(service)
	}
	return service
}

// List returns the links in insertion order.
func (service *Service) List(_ context.Context) ([]Link, error) {
	links, err := service.document.Load()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if links == nil {
		links = []Link{}
	}
	return links, nil
}

// Create validates input and appends a new link.
func (service *Service) Create(_ context.Context, input Input) (Link, error) {
	input, err := input.normalize()
	if err != nil {
		return Link{}, err
	}

	var created Link
	_, err = service.document.Update(func(links *[]Link) error {
		created = Link{ID: service.nextID(*links)}
		input.apply(&created)
		*links = append(*links, created)
		return nil
	})
	if err != nil {
		return Link{}, apperr.Internal(err)
	}
	return created, nil
}

// Update replaces the fields of link id.
func (service *Service) Update(_ context.Context, id int64, input Input) (Link, error) {
	input, err := input.normalize()
	if err != nil {
		return Link{}, err
	}

	var updated Link
	_, err = service.document.Update(func(links *[]Link) error {
		for index := range *links {
			if (*links)[index].ID == id {
				input.apply(&(*links)[index])
				updated = (*links)[index]
				return nil
			}
		}
		return apperr.NotFound("Link")
	})
	if err != nil {
		if apperr.IsAppError(err) {
			return Link{}, err
		}
		return Link{}, apperr.Internal(err)
	}
	return updated, nil
}

// Delete removes link id and reports whether it existed. An unknown id is
// not an error.
func (service *Service) Delete(_ context.Context, id int64) (bool, error) {
	removed := false
	_, err := service.document.Update(func(links *[]Link) error {
		kept := make([]Link, 0, len(*links))
		for _, link := range *links {
			if link.ID == id {
				removed = true
				continue
			}
			kept = append(kept, link)
		}
		*links = kept
		return nil
	})
	if err != nil {
		return false, apperr.Internal(err)
	}
	return removed, nil
}

// nextID is the current millisecond, bumped past the highest stored id. It
// runs under the document lock.
func (service *Service) nextID(links []Link) int64 {
	id := service.now().UnixMilli()
	for _, link := range links {
		if link.ID >= id {
			id = link.ID + 1
		}
	}
	return id
}

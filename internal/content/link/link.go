// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package link manages the quick-links bar shown under the hero section.

Links live in a single JSON document. Any signed-in visitor may edit them;
fields that are too long are cut rather than rejected.
*/
package link

import (
	"strings"

	"github.com/taibuivan/portfolio/internal/platform/validate"
)

// # Field Limits

const (
	MaxLabelLength   = 80
	MaxHrefLength    = 300
	MaxIconURLLength = 500
)

// Link is one entry of the quick-links bar.
type Link struct {
	ID      int64  `json:"id"`
	Label   string `json:"label"`
	Href    string `json:"href"`
	IconURL string `json:"iconUrl"`
}

// Input carries the editable fields of a [Link].
type Input struct {
	Label   string `json:"label"`
	Href    string `json:"href"`
	IconURL string `json:"iconUrl"`
}

// normalize trims every field, requires label and href, and truncates each
// field to its limit.
func (input Input) normalize() (Input, error) {
	input.Label = strings.TrimSpace(input.Label)
	input.Href = strings.TrimSpace(input.Href)
	input.IconURL = strings.TrimSpace(input.IconURL)

	validator := &validate.Validator{}
	validator.Required("label", input.Label).Required("href", input.Href)
	if err := validator.Err(); err != nil {
		return input, err
	}

	input.Label = truncate(input.Label, MaxLabelLength)
	input.Href = truncate(input.Href, MaxHrefLength)
	input.IconURL = truncate(input.IconURL, MaxIconURLLength)
	return input, nil
}

func (input Input) apply(link *Link) {
	link.Label = input.Label
	link.Href = input.Href
	link.IconURL = input.IconURL
}

// truncate cuts value to at most limit characters.
func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}

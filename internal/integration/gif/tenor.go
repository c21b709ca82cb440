// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package gif searches Tenor for the GIF picker of the comment wall.

The v2 API is tried first; the legacy v1 API answers when v2 fails, since
older keys are only accepted there.
*/
package gif

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/portfolio/internal/platform/constants"
)

// Tenor endpoints.
const (
	TenorV2SearchURL = "https://tenor.googleapis.com/v2/search"
	TenorV1SearchURL = "https://g.tenor.com/v1/search"

	maxResponseBytes = 2 << 20
)

// Result is one GIF as the frontend consumes it.
type Result struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	PreviewURL string `json:"previewUrl"`
}

// TenorConfig holds the API key and, for tests, alternative endpoints.
type TenorConfig struct {
	APIKey  string
	Timeout time.Duration
	V2URL   string
	V1URL   string
}

// TenorClient queries both Tenor API generations.
type TenorClient struct {
	apiKey     string
	v2URL      string
	v1URL      string
	httpClient *http.Client
}

func NewTenorClient(config TenorConfig) *TenorClient {
	client := &TenorClient{
		apiKey:     config.APIKey,
		v2URL:      config.V2URL,
		v1URL:      config.V1URL,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
	if client.v2URL == "" {
		client.v2URL = TenorV2SearchURL
	}
	if client.v1URL == "" {
		client.v1URL = TenorV1SearchURL
	}
	return client
}

// Configured reports whether an API key was supplied.
func (client *TenorClient) Configured() bool {
	return client.apiKey != ""
}

type mediaURL struct {
	URL string `json:"url"`
}

type v2Response struct {
	Results []struct {
		ID                 string              `json:"id"`
		Title              string              `json:"title"`
		ContentDescription string              `json:"content_description"`
		MediaFormats       map[string]mediaURL `json:"media_formats"`
	} `json:"results"`
}

type v1Response struct {
	Results []struct {
		ID    string                `json:"id"`
		Title string                `json:"title"`
		Media []map[string]mediaURL `json:"media"`
	} `json:"results"`
}

// SearchV2 queries the current API.
func (client *TenorClient) SearchV2(ctx context.Context, query string, limit int) ([]Result, error) {
	parameters := url.Values{
		"q":            {query},
		"key":          {client.apiKey},
		"client_key":   {constants.AppName},
		"limit":        {strconv.Itoa(limit)},
		"media_filter": {"gif,tinygif"},
	}

	var response v2Response
	if err := client.get(ctx, client.v2URL, parameters, &response); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(response.Results))
	for _, item := range response.Results {
		results = append(results, Result{
			ID:         item.ID,
			Title:      firstNonEmpty(item.Title, item.ContentDescription),
			URL:        item.MediaFormats["gif"].URL,
			PreviewURL: firstNonEmpty(item.MediaFormats["tinygif"].URL, item.MediaFormats["gif"].URL),
		})
	}
	return results, nil
}

// SearchV1 queries the legacy API.
func (client *TenorClient) SearchV1(ctx context.Context, query string, limit int) ([]Result, error) {
	parameters := url.Values{
		"q":            {query},
		"key":          {client.apiKey},
		"limit":        {strconv.Itoa(limit)},
		"media_filter": {"minimal"},
	}

	var response v1Response
	if err := client.get(ctx, client.v1URL, parameters, &response); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(response.Results))
	for _, item := range response.Results {
		result := Result{ID: item.ID, Title: item.Title}
		if len(item.Media) > 0 {
			media := item.Media[0]
			result.URL = media["gif"].URL
			result.PreviewURL = firstNonEmpty(media["tinygif"].URL, media["gif"].URL)
		}
		results = append(results, result)
	}
	return results, nil
}

func (client *TenorClient) get(ctx context.Context, endpoint string, parameters url.Values, target any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+parameters.Encode(), nil)
	if err != nil {
		return fmt.Errorf("tenor: build request: %w", err)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		// The url carries the key; report the host only.
		return fmt.Errorf("tenor: request to %s failed: %w", request.URL.Host, unwrapURLError(err))
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("tenor: read response: %w", err)
	}
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("tenor: %s returned %d", request.URL.Host, response.StatusCode)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("tenor: decode response: %w", err)
	}
	return nil
}

// unwrapURLError drops the *url.Error wrapper, whose message repeats the url.
func unwrapURLError(err error) error {
	var urlError *url.Error
	if errors.As(err, &urlError) {
		return urlError.Err
	}
	return err
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

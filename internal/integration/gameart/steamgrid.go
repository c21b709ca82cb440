// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gameart

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	// SteamGridBaseURL is the SteamGridDB v2 API root.
	SteamGridBaseURL = "https://www.steamgriddb.com/api/v2"

	maxResponseBytes = 1 << 20
)

// SteamGridClient finds the icon of a game by name.
type SteamGridClient struct {
	baseURL    string
	configured bool
	httpClient *http.Client
}

// NewSteamGridClient authenticates every call with apiKey as a bearer token.
// An empty baseURL selects the public API.
func NewSteamGridClient(apiKey, baseURL string, timeout time.Duration) *SteamGridClient {
	if baseURL == "" {
		baseURL = SteamGridBaseURL
	}
	return &SteamGridClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		configured: apiKey != "",
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"}),
				Base:   http.DefaultTransport,
			},
		},
	}
}

// Configured reports whether an API key was supplied.
func (client *SteamGridClient) Configured() bool {
	return client.configured
}

type searchResponse struct {
	Data []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"data"`
}

type iconsResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// IconURL returns the first icon of the best autocomplete match for name, or
// "" when either list is empty.
func (client *SteamGridClient) IconURL(ctx context.Context, name string) (string, error) {
	var games searchResponse
	if err := client.get(ctx, "/search/autocomplete/"+url.PathEscape(name), &games); err != nil {
		return "", err
	}
	if len(games.Data) == 0 {
		return "", nil
	}

	var icons iconsResponse
	if err := client.get(ctx, "/icons/game/"+strconv.FormatInt(games.Data[0].ID, 10), &icons); err != nil {
		return "", err
	}
	if len(icons.Data) == 0 {
		return "", nil
	}
	return icons.Data[0].URL, nil
}

func (client *SteamGridClient) get(ctx context.Context, path string, target any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("steamgrid: build request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("steamgrid: %s: %w", path, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("steamgrid: read %s: %w", path, err)
	}
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("steamgrid: %s returned %d", path, response.StatusCode)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("steamgrid: decode %s: %w", path, err)
	}
	return nil
}

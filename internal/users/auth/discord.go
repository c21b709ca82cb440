// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Discord endpoints used by the authorization-code flow.
const (
	DiscordAuthURL    = "https://discord.com/api/oauth2/authorize"
	DiscordTokenURL   = "https://discord.com/api/oauth2/token"
	DiscordAPIBaseURL = "https://discord.com/api"

	// maxProfileBytes bounds the /users/@me body; real profiles are well under 2 KiB.
	maxProfileBytes = 64 << 10
)

// DiscordConfig holds the application credentials and the endpoints to talk to.
// Empty endpoint fields fall back to the public Discord URLs.
type DiscordConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Timeout      time.Duration

	AuthURL    string
	TokenURL   string
	APIBaseURL string
}

// Profile is the subset of the Discord user object the site needs.
type Profile struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	GlobalName    string `json:"global_name"`
	Discriminator string `json:"discriminator"`
	Avatar        string `json:"avatar"`
}

// DiscordClient performs the two server-to-server calls of the login flow.
type DiscordClient struct {
	oauth      *oauth2.Config
	apiBaseURL string
	httpClient *http.Client
	timeout    time.Duration
}

func NewDiscordClient(config DiscordConfig) *DiscordClient {
	authURL := fallback(config.AuthURL, DiscordAuthURL)
	tokenURL := fallback(config.TokenURL, DiscordTokenURL)
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &DiscordClient{
		oauth: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURI,
			Scopes:       []string{"identify"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		apiBaseURL: strings.TrimRight(fallback(config.APIBaseURL, DiscordAPIBaseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
	}
}

// Configured reports whether both client credentials are present.
func (client *DiscordClient) Configured() bool {
	return client.oauth.ClientID != "" && client.oauth.ClientSecret != ""
}

// AuthCodeURL builds the consent-screen URL. Discord is asked to show the
// prompt every time so that switching accounts is possible.
func (client *DiscordClient) AuthCodeURL(state string) string {
	return client.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "consent"))
}

// Exchange trades an authorization code for an access token.
func (client *DiscordClient) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, client.timeout)
	defer cancel()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, client.httpClient)
	token, err := client.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("discord: token exchange: %w", err)
	}
	return token, nil
}

// FetchProfile reads /users/@me with the user's access token.
func (client *DiscordClient) FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, client.timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.apiBaseURL+"/users/@me", nil)
	if err != nil {
		return nil, fmt.Errorf("discord: build profile request: %w", err)
	}
	token.SetAuthHeader(request)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("discord: profile request: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxProfileBytes))
	if err != nil {
		return nil, fmt.Errorf("discord: read profile: %w", err)
	}
	if response.StatusCode != http.StatusOK {
		return nil, &StatusError{Call: "profile", Status: response.StatusCode, Body: string(body)}
	}

	profile := &Profile{}
	if err := json.Unmarshal(body, profile); err != nil {
		return nil, fmt.Errorf("discord: decode profile: %w", err)
	}
	if profile.ID == "" {
		return nil, fmt.Errorf("discord: profile without id")
	}
	return profile, nil
}

// StatusError records a non-200 answer from Discord for the server log.
type StatusError struct {
	Call   string
	Status int
	Body   string
}

func (err *StatusError) Error() string {
	return fmt.Sprintf("discord: %s returned %d", err.Call, err.Status)
}

func fallback(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

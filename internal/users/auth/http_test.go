// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/portfolio/internal/platform/constants"
	"github.com/taibuivan/portfolio/internal/platform/middleware"
	"github.com/taibuivan/portfolio/internal/platform/sec"
	"github.com/taibuivan/portfolio/internal/users/auth"
)

const (
	testSecret   = "0123456789abcdef0123456789abcdef"
	frontendURL  = "https://site.test"
	clientID     = "client-1"
	clientSecret = "shh"
	redirectURI  = "https://api.site.test/auth/discord/callback"
)

// fakeDiscord mimics the token and profile endpoints.
type fakeDiscord struct {
	tokenStatus   int
	profileStatus int
	profile       map[string]string
	lastForm      url.Values
	lastAuth      string
}

func (fake *fakeDiscord) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	switch request.URL.Path {
	case "/oauth2/token":
		_ = request.ParseForm()
		fake.lastForm = request.PostForm
		if fake.tokenStatus != http.StatusOK {
			writer.Header().Set("Content-Type", "application/json")
			writer.WriteHeader(fake.tokenStatus)
			_, _ = writer.Write([]byte(`{"error":"invalid_client"}`))
			return
		}
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"access_token":"discord-access","token_type":"Bearer","expires_in":604800}`))
	case "/api/users/@me":
		fake.lastAuth = request.Header.Get("Authorization")
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(fake.profileStatus)
		_ = json.NewEncoder(writer).Encode(fake.profile)
	default:
		http.NotFound(writer, request)
	}
}

type fixture struct {
	router  http.Handler
	discord *fakeDiscord
	tokens  *sec.TokenService
}

func newFixture(t *testing.T, configured bool) *fixture {
	t.Helper()
	discord := &fakeDiscord{
		tokenStatus:   http.StatusOK,
		profileStatus: http.StatusOK,
		profile: map[string]string{
			"id": "271701484922601472", "username": "nagi_dev", "global_name": "Nagi",
			"discriminator": "0", "avatar": "a1b2",
		},
	}
	server := httptest.NewServer(discord)
	t.Cleanup(server.Close)

	config := auth.DiscordConfig{
		RedirectURI: redirectURI,
		Timeout:     2 * time.Second,
		AuthURL:     server.URL + "/oauth2/authorize",
		TokenURL:    server.URL + "/oauth2/token",
		APIBaseURL:  server.URL + "/api",
	}
	if configured {
		config.ClientID, config.ClientSecret = clientID, clientSecret
	}

	tokens, err := sec.NewTokenService(testSecret, constants.AuthIssuer, constants.SessionTTL, false)
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := auth.NewService(auth.NewDiscordClient(config), tokens, logger)
	handler := auth.NewHandler(service, frontendURL+"/", false, constants.SessionTTL)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(sec.NewSessionResolver(tokens, sec.NewAllowlist([]string{"271701484922601472"}), logger)))
	router.Mount("/auth/discord", handler.Routes())
	router.Get("/api/me", handler.Me)

	return &fixture{router: router, discord: discord, tokens: tokens}
}

func (fixture *fixture) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	fixture.router.ServeHTTP(recorder, request)
	return recorder
}

func findCookie(recorder *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

/*
TestLogin_NotConfigured fails loudly instead of redirecting.
*/
func TestLogin_NotConfigured(t *testing.T) {
	fixture := newFixture(t, false)

	recorder := fixture.get("/auth/discord/login")
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "DISCORD_CLIENT_ID")
	assert.Empty(t, recorder.Header().Get("Location"))
}

/*
TestLogin_Redirect carries the consent parameters and sets the state cookie.
*/
func TestLogin_Redirect(t *testing.T) {
	fixture := newFixture(t, true)

	recorder := fixture.get("/auth/discord/login")
	require.Equal(t, http.StatusFound, recorder.Code)

	location, err := url.Parse(recorder.Header().Get("Location"))
	require.NoError(t, err)
	params := location.Query()
	assert.Equal(t, clientID, params.Get("client_id"))
	assert.Equal(t, redirectURI, params.Get("redirect_uri"))
	assert.Equal(t, "code", params.Get("response_type"))
	assert.Equal(t, "identify", params.Get("scope"))
	assert.Equal(t, "consent", params.Get("prompt"))

	state := findCookie(recorder, constants.OAuthStateCookieName)
	require.NotNil(t, state)
	assert.Equal(t, params.Get("state"), state.Value)
	assert.True(t, state.HttpOnly)
}

/*
TestCallback_Success issues a session cookie whose token names the Discord user.
*/
func TestCallback_Success(t *testing.T) {
	fixture := newFixture(t, true)

	state := &http.Cookie{Name: constants.OAuthStateCookieName, Value: "s1"}
	recorder := fixture.get("/auth/discord/callback?code=abc&state=s1", state)

	require.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, frontendURL+"/#comments", recorder.Header().Get("Location"))

	assert.Equal(t, "abc", fixture.discord.lastForm.Get("code"))
	assert.Equal(t, "authorization_code", fixture.discord.lastForm.Get("grant_type"))
	assert.Equal(t, clientSecret, fixture.discord.lastForm.Get("client_secret"))
	assert.Equal(t, "Bearer discord-access", fixture.discord.lastAuth)

	session := findCookie(recorder, constants.SessionCookieName)
	require.NotNil(t, session)
	claims, err := fixture.tokens.Verify(session.Value)
	require.NoError(t, err)
	assert.Equal(t, sec.Identity{ID: "271701484922601472", DisplayName: "Nagi", AvatarHash: "a1b2"}, claims.Identity())

	// The cookie now resolves through /api/me.
	me := fixture.get("/api/me", session)
	require.Equal(t, http.StatusOK, me.Code)
	var body struct {
		User *sec.Principal `json:"user"`
	}
	require.NoError(t, json.NewDecoder(me.Body).Decode(&body))
	require.NotNil(t, body.User)
	assert.Equal(t, "Nagi", body.User.DisplayName)
	assert.True(t, body.User.IsAdmin)
	assert.Equal(t, "https://cdn.discordapp.com/avatars/271701484922601472/a1b2.png?size=64", body.User.AvatarURL)
}

/*
TestCallback_Failures maps every failure branch to its status.
*/
func TestCallback_Failures(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		state      string
		prepare    func(*fakeDiscord)
		wantStatus int
		wantText   string
	}{
		{"provider_error", "/auth/discord/callback?error=access_denied", "", nil, http.StatusBadRequest, "access_denied"},
		{"missing_code", "/auth/discord/callback", "", nil, http.StatusBadRequest, "code"},
		{"state_mismatch", "/auth/discord/callback?code=abc&state=other", "s1", nil, http.StatusBadRequest, "try again"},
		{"exchange_rejected", "/auth/discord/callback?code=abc", "", func(fake *fakeDiscord) { fake.tokenStatus = http.StatusUnauthorized }, http.StatusInternalServerError, "Developer Portal"},
		{"profile_rejected", "/auth/discord/callback?code=abc", "", func(fake *fakeDiscord) { fake.profileStatus = http.StatusBadGateway }, http.StatusInternalServerError, "profile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newFixture(t, true)
			if tt.prepare != nil {
				tt.prepare(fixture.discord)
			}

			var cookies []*http.Cookie
			if tt.state != "" {
				cookies = append(cookies, &http.Cookie{Name: constants.OAuthStateCookieName, Value: tt.state})
			}
			recorder := fixture.get(tt.path, cookies...)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.wantText)
			assert.NotContains(t, recorder.Body.String(), clientSecret)
			assert.Nil(t, findCookie(recorder, constants.SessionCookieName))
		})
	}
}

/*
TestLogout clears the session and returns to the frontend root.
*/
func TestLogout(t *testing.T) {
	fixture := newFixture(t, true)

	recorder := fixture.get("/auth/discord/logout")
	require.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, frontendURL+"/", recorder.Header().Get("Location"))

	session := findCookie(recorder, constants.SessionCookieName)
	require.NotNil(t, session)
	assert.True(t, session.MaxAge < 0)
}

/*
TestMe_Anonymous reports a null user for visitors without a valid cookie.
*/
func TestMe_Anonymous(t *testing.T) {
	fixture := newFixture(t, true)

	for _, cookies := range [][]*http.Cookie{nil, {{Name: constants.SessionCookieName, Value: "garbage"}}} {
		recorder := fixture.get("/api/me", cookies...)
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"user":null}`, strings.TrimSpace(recorder.Body.String()))
	}
}

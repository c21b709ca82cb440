// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/portfolio/internal/platform/constants"
	"github.com/taibuivan/portfolio/internal/platform/sec"
)

func newResolver(t *testing.T, admins ...string) (*sec.SessionResolver, *sec.TokenService) {
	t.Helper()
	tokens := newTokenService(t, testSecret)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return sec.NewSessionResolver(tokens, sec.NewAllowlist(admins), logger), tokens
}

func requestWithCookie(value string) *http.Request {
	request := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	if value != "" {
		request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: value})
	}
	return request
}

/*
TestSessionResolver_Anonymous verifies that missing and broken cookies resolve to nil.
*/
func TestSessionResolver_Anonymous(t *testing.T) {
	resolver, _ := newResolver(t)

	assert.Nil(t, resolver.Resolve(requestWithCookie("")))
	assert.Nil(t, resolver.Resolve(requestWithCookie("not-a-token")))
}

/*
TestSessionResolver_Principal checks avatar derivation and admin membership.
*/
func TestSessionResolver_Principal(t *testing.T) {
	resolver, tokens := newResolver(t, "42")

	adminToken, err := tokens.Issue(sec.Identity{ID: "42", DisplayName: "Owner", AvatarHash: "abc"})
	require.NoError(t, err)
	memberToken, err := tokens.Issue(sec.Identity{ID: "7", DisplayName: "Guest"})
	require.NoError(t, err)

	admin := resolver.Resolve(requestWithCookie(adminToken))
	require.NotNil(t, admin)
	assert.Equal(t, "42", admin.ID)
	assert.Equal(t, "Owner", admin.DisplayName)
	assert.Equal(t, "https://cdn.discordapp.com/avatars/42/abc.png?size=64", admin.AvatarURL)
	assert.True(t, admin.IsAdmin)

	member := resolver.Resolve(requestWithCookie(memberToken))
	require.NotNil(t, member)
	assert.Equal(t, sec.DefaultAvatarURL, member.AvatarURL)
	assert.False(t, member.IsAdmin)
}

/*
TestSessionCookie_Attributes verifies the cookie flags that keep the token away from scripts.
*/
func TestSessionCookie_Attributes(t *testing.T) {
	recorder := httptest.NewRecorder()
	sec.SetSessionCookie(recorder, "token-value", 7*24*time.Hour, false)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]

	assert.Equal(t, constants.SessionCookieName, cookie.Name)
	assert.Equal(t, "token-value", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 7*24*60*60, cookie.MaxAge)
	assert.Equal(t, "/", cookie.Path)

	cleared := httptest.NewRecorder()
	sec.ClearSessionCookie(cleared, false)
	clearedCookies := cleared.Result().Cookies()
	require.Len(t, clearedCookies, 1)
	assert.Equal(t, "", clearedCookies[0].Value)
	assert.True(t, clearedCookies[0].MaxAge < 0)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/portfolio/internal/platform/constants"
)

// # Session Resolution

// SessionResolver turns the session cookie of a request into a [Principal].
type SessionResolver struct {
	tokens *TokenService
	admins *Allowlist
	logger *slog.Logger
}

// NewSessionResolver wires a resolver with its codec and the admin allowlist.
func NewSessionResolver(tokens *TokenService, admins *Allowlist, logger *slog.Logger) *SessionResolver {
	return &SessionResolver{tokens: tokens, admins: admins, logger: logger}
}

// Resolve returns the principal behind the request's session cookie, or nil
// for anonymous requests.
//
// An expired, tampered or malformed cookie degrades to anonymous browsing and
// is never reported as an error.
func (resolver *SessionResolver) Resolve(request *http.Request) *Principal {
	cookie, err := request.Cookie(constants.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	claims, err := resolver.tokens.Verify(cookie.Value)
	if err != nil {
		resolver.logger.DebugContext(request.Context(), "session_rejected", slog.Any("error", err))
		return nil
	}

	return resolver.Principal(claims.Identity())
}

// Principal builds the principal for an identity, deriving the avatar URL and
// the admin flag from the current allowlist.
func (resolver *SessionResolver) Principal(identity Identity) *Principal {
	return &Principal{
		ID:          identity.ID,
		DisplayName: identity.DisplayName,
		AvatarURL:   AvatarURL(identity.ID, identity.AvatarHash),
		IsAdmin:     resolver.admins.Contains(identity.ID),
	}
}

// # Cookie Delivery

// SetSessionCookie delivers a session token as an HttpOnly, SameSite=Lax cookie
// whose lifetime matches the token.
func SetSessionCookie(writer http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		Expires:  time.Now().Add(ttl),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie on the client.
func ClearSessionCookie(writer http.ResponseWriter, secure bool) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

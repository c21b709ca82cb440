// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taibuivan/portfolio/internal/platform/apperr"
	"github.com/taibuivan/portfolio/internal/platform/constants"
	requestutil "github.com/taibuivan/portfolio/internal/platform/request"
	"github.com/taibuivan/portfolio/internal/platform/respond"
	"github.com/taibuivan/portfolio/internal/platform/sec"
)

// statePath scopes the state cookie to the callback.
const statePath = "/auth/discord"

// Handler serves the browser-facing login endpoints under /auth/discord and
// the JSON /api/me endpoint.
//
// Login errors are answered in plain text because the browser lands on them
// directly after the Discord redirect.
type Handler struct {
	service      *Service
	frontendURL  string
	cookieSecure bool
	sessionTTL   time.Duration
}

func NewHandler(service *Service, frontendURL string, cookieSecure bool, sessionTTL time.Duration) *Handler {
	return &Handler{
		service:      service,
		frontendURL:  strings.TrimRight(frontendURL, "/"),
		cookieSecure: cookieSecure,
		sessionTTL:   sessionTTL,
	}
}

// Routes returns the /auth/discord router.
//
// # Endpoints
//   - GET /login    : Redirects to the Discord consent screen.
//   - GET /callback : Completes the login and sets the session cookie.
//   - GET /logout   : Clears the session cookie.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/login", handler.login)
	router.Get("/callback", handler.callback)
	router.Get("/logout", handler.logout)
	return router
}

// Me handles GET /api/me. Anonymous visitors get {"user": null}.
func (handler *Handler) Me(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]*sec.Principal{constants.FieldUser: requestutil.Principal(request)})
}

func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	state := uuid.NewString()

	target, err := handler.service.LoginURL(state)
	if err != nil {
		respond.TextError(writer, request, err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.OAuthStateCookieName,
		Value:    state,
		Path:     statePath,
		MaxAge:   int(constants.OAuthStateTTL.Seconds()),
		HttpOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(writer, request, target, http.StatusFound)
}

func (handler *Handler) callback(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	// 1. Denied or failed on Discord's side
	if providerError := query.Get("error"); providerError != "" {
		respond.TextError(writer, request, apperr.ValidationError("Discord sign-in was cancelled or failed: "+providerError))
		return
	}

	// 2. Malformed callback
	code := query.Get("code")
	if code == "" {
		respond.TextError(writer, request, apperr.ValidationError(`The Discord callback is missing the "code" parameter.`))
		return
	}

	// 3. Anti-forgery state, when the login started on this server
	if cookie, err := request.Cookie(constants.OAuthStateCookieName); err == nil {
		handler.clearState(writer)
		if cookie.Value != query.Get("state") {
			respond.TextError(writer, request, apperr.ValidationError("The sign-in request expired or did not originate here. Please try again."))
			return
		}
	}

	// 4. Exchange, profile, session
	token, err := handler.service.CompleteLogin(request.Context(), code)
	if err != nil {
		respond.TextError(writer, request, err)
		return
	}

	sec.SetSessionCookie(writer, token, handler.sessionTTL, handler.cookieSecure)
	http.Redirect(writer, request, handler.frontendURL+"/#comments", http.StatusFound)
}

func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	sec.ClearSessionCookie(writer, handler.cookieSecure)
	http.Redirect(writer, request, handler.frontendURL+"/", http.StatusFound)
}

func (handler *Handler) clearState(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.OAuthStateCookieName,
		Value:    "",
		Path:     statePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

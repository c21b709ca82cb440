// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"

	"github.com/taibuivan/portfolio/internal/platform/apperr"
	"github.com/taibuivan/portfolio/internal/platform/ctxutil"
	"github.com/taibuivan/portfolio/internal/platform/respond"
	"github.com/taibuivan/portfolio/internal/platform/sec"
)

// PrincipalResolver turns a request into a principal, or nil when anonymous.
//
// Implemented by [*sec.SessionResolver]; tests substitute a stub.
type PrincipalResolver interface {
	Resolve(request *http.Request) *sec.Principal
}

// Authenticate resolves the session cookie into a [*sec.Principal].
//
// # Flow
//  1. Ask the resolver for a principal.
//  2. If none, the request proceeds as anonymous. An invalid or expired
//     cookie is never an error at this layer.
//  3. Otherwise inject the principal into the request context.
func Authenticate(resolver PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := resolver.Resolve(request)
			if principal == nil {
				next.ServeHTTP(writer, request)
				return
			}

			if slot, ok := request.Context().Value(principalSlotKey{}).(*principalSlot); ok {
				slot.userID = principal.ID
			}

			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetPrincipal(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("You must sign in with Discord"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireUser restricts a route to one specific account, such as the gallery owner.
// It implies [RequireAuth].
func RequireUser(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetPrincipal(request.Context())
			if principal == nil {
				respond.Error(writer, request, apperr.Unauthorized("You must sign in with Discord"))
				return
			}
			if principal.ID != userID {
				respond.Error(writer, request, apperr.Forbidden("Only the owner can do this"))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

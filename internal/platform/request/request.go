// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/portfolio/internal/platform/apperr"
	"github.com/taibuivan/portfolio/internal/platform/ctxutil"
	"github.com/taibuivan/portfolio/internal/platform/sec"
	"github.com/taibuivan/portfolio/internal/platform/validate"
)

// maxJSONBody bounds JSON request bodies; the largest legitimate payload is a
// comment of a thousand characters.
const maxJSONBody = 64 << 10

/*
DecodeJSON reads the request body and decodes it into the target structure.

An empty body decodes to the zero value so that handlers report a field-level
validation error instead of a generic JSON error.

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if request.Body == nil {
		return nil
	}
	decoder := json.NewDecoder(io.LimitReader(request.Body, maxJSONBody))
	if err := decoder.Decode(target); err != nil && err != io.EOF {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Int64Param parses a named URL parameter as a base-10 int64.

Returns:
  - int64: The parsed value
  - bool: false when the parameter is absent or not a number
*/
func Int64Param(request *http.Request, name string) (int64, bool) {
	value, err := strconv.ParseInt(chi.URLParam(request, name), 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

/*
Principal extracts the session principal from the request context.

Returns nil if the request is anonymous.
*/
func Principal(request *http.Request) *sec.Principal {
	return ctxutil.GetPrincipal(request.Context())
}

/*
RequiredPrincipal ensures the request is authenticated and returns the principal.

Returns:
  - *sec.Principal: The authenticated principal
  - error: apperr.Unauthorized if the request is anonymous
*/
func RequiredPrincipal(request *http.Request) (*sec.Principal, error) {
	principal := ctxutil.GetPrincipal(request.Context())
	if principal == nil {
		return nil, apperr.Unauthorized("You must sign in with Discord")
	}
	return principal, nil
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/portfolio/internal/platform/middleware"
	"github.com/taibuivan/portfolio/internal/platform/sec"
	"github.com/taibuivan/portfolio/internal/social/comment"
)

const userHeader = "X-Test-User"

// headerResolver picks one of the fixture principals by id.
type headerResolver map[string]*sec.Principal

func (resolver headerResolver) Resolve(request *http.Request) *sec.Principal {
	return resolver[request.Header.Get(userHeader)]
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	service, _, _ := newService(t)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(headerResolver{alice.ID: alice, bob.ID: bob, carol.ID: carol}))
	router.Mount("/api/comments", comment.NewHandler(service).Routes())
	return router
}

func do(t *testing.T, router http.Handler, method, path, userID, body string) (int, map[string]json.RawMessage) {
	t.Helper()
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if userID != "" {
		request.Header.Set(userHeader, userID)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload), recorder.Body.String())
	return recorder.Code, payload
}

/*
TestHandler_Lifecycle drives the wall through HTTP and checks the response shapes.
*/
func TestHandler_Lifecycle(t *testing.T) {
	router := newRouter(t)

	status, payload := do(t, router, http.MethodPost, "/api/comments", alice.ID, `{"text":"  hello  "}`)
	require.Equal(t, http.StatusOK, status)

	var created comment.Comment
	require.NoError(t, json.Unmarshal(payload["comment"], &created))
	assert.Equal(t, "hello", created.Text)
	path := "/api/comments/" + strconv.FormatInt(created.ID, 10)

	status, _ = do(t, router, http.MethodPut, path, bob.ID, `{"text":"nope"}`)
	assert.Equal(t, http.StatusForbidden, status)

	status, payload = do(t, router, http.MethodPut, path, alice.ID, `{"text":"hello world"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(payload["comment"]), `"updatedAt"`)

	status, payload = do(t, router, http.MethodPost, path+"/replies", carol.ID, `{"text":"reply text"}`)
	require.Equal(t, http.StatusOK, status)
	var replied comment.Comment
	require.NoError(t, json.Unmarshal(payload["comment"], &replied))
	require.Len(t, replied.Replies, 1)
	assert.True(t, replied.Replies[0].Author.IsAdmin)

	status, payload = do(t, router, http.MethodGet, "/api/comments", "", "")
	require.Equal(t, http.StatusOK, status)
	var listed []comment.Comment
	require.NoError(t, json.Unmarshal(payload["comments"], &listed))
	require.Len(t, listed, 1)

	status, payload = do(t, router, http.MethodDelete, path, alice.ID, "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, "true", string(payload["success"]))

	status, _ = do(t, router, http.MethodDelete, path, alice.ID, "")
	assert.Equal(t, http.StatusNotFound, status)
}

/*
TestHandler_StatusMapping checks the error envelope for each failure kind.
*/
func TestHandler_StatusMapping(t *testing.T) {
	router := newRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		userID     string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"create_anonymous", http.MethodPost, "/api/comments", "", `{"text":"hi"}`, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"create_empty", http.MethodPost, "/api/comments", alice.ID, `{"text":"   "}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"create_missing_body", http.MethodPost, "/api/comments", alice.ID, ``, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"create_bad_json", http.MethodPost, "/api/comments", alice.ID, `{"text":`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"edit_malformed_id", http.MethodPut, "/api/comments/abc", alice.ID, `{"text":"x"}`, http.StatusNotFound, "NOT_FOUND"},
		{"delete_anonymous", http.MethodDelete, "/api/comments/1", "", ``, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"reply_non_admin", http.MethodPost, "/api/comments/1/replies", bob.ID, `{"text":"x"}`, http.StatusForbidden, "FORBIDDEN"},
		{"reply_unknown", http.MethodPost, "/api/comments/1/replies", carol.ID, `{"text":"x"}`, http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, payload := do(t, router, tt.method, tt.path, tt.userID, tt.body)
			assert.Equal(t, tt.wantStatus, status)
			assert.JSONEq(t, strconv.Quote(tt.wantCode), string(payload["code"]))
			assert.NotEmpty(t, payload["error"])
		})
	}
}

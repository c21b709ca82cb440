// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package visit_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/portfolio/internal/content/visit"
)

func newService(t *testing.T) (*visit.Service, string) {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return visit.NewService(dir, logger), filepath.Join(dir, visit.FileName)
}

/*
TestService_Hit counts from an absent file and persists the total.
*/
func TestService_Hit(t *testing.T) {
	service, path := newService(t)
	ctx := context.Background()

	assert.Equal(t, int64(0), service.Count(ctx))

	for want := int64(1); want <= 3; want++ {
		count, err := service.Hit(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}
	assert.Equal(t, int64(3), service.Count(ctx))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":3}`, string(raw))
}

/*
TestService_Repair covers negative and corrupt counter files.
*/
func TestService_Repair(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"negative", `{"count": -5}`},
		{"corrupt", `{"count": `},
		{"wrong_type", `{"count": "many"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, path := newService(t)
			require.NoError(t, os.WriteFile(path, []byte(tt.contents), 0o644))
			ctx := context.Background()

			assert.Equal(t, int64(0), service.Count(ctx))

			count, err := service.Hit(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
			assert.Equal(t, int64(1), service.Count(ctx))
		})
	}
}

/*
TestHandler_Routes checks the response shape of both endpoints.
*/
func TestHandler_Routes(t *testing.T) {
	service, _ := newService(t)
	router := visit.NewHandler(service).Routes()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/hit", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"count":1}`, recorder.Body.String())

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"count":1}`, recorder.Body.String())
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gallery_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/portfolio/internal/content/gallery"
	"github.com/taibuivan/portfolio/internal/platform/apperr"
	"github.com/taibuivan/portfolio/internal/platform/middleware"
	"github.com/taibuivan/portfolio/internal/platform/sec"
)

const ownerID = "271701484922601472"

var uploadedAt = time.UnixMilli(1_700_000_000_000).UTC()

/*
TestStoredName covers folding, extension handling and the fallback base.
*/
func TestStoredName(t *testing.T) {
	tests := []struct {
		name     string
		original string
		want     string
	}{
		{"accents_and_spaces", "Café Night.PNG", "cafe_night_1700000000000.png"},
		{"no_extension", "README", "readme_1700000000000"},
		{"symbols_only", "???.jpg", "file_1700000000000.jpg"},
		{"windows_path", `C:\Users\me\shot 1.jpeg`, "shot_1_1700000000000.jpeg"},
		{"unix_path", "../../etc/passwd", "passwd_1700000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gallery.StoredName(tt.original, uploadedAt))
		})
	}
}

func newService(t *testing.T) (*gallery.Service, string) {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := gallery.NewDiskStore(dir, gallery.MetaFileName)
	clock := uploadedAt
	service := gallery.NewService(store, dir, logger, gallery.WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))
	return service, dir
}

func save(t *testing.T, service *gallery.Service, name, displayName, body string) gallery.File {
	t.Helper()
	file, err := service.Save(context.Background(), gallery.Upload{
		OriginalName: name,
		DisplayName:  displayName,
		Size:         int64(len(body)),
		Content:      strings.NewReader(body),
	})
	require.NoError(t, err)
	return file
}

/*
TestService_SaveListDelete exercises the metadata merge and newest-first order.
*/
func TestService_SaveListDelete(t *testing.T) {
	service, dir := newService(t)
	ctx := context.Background()

	first := save(t, service, "sunset.jpg", "  Sunset  ", strings.Repeat("a", 2048))
	second := save(t, service, "cat.png", "", "meow")

	assert.Equal(t, "Sunset", first.DisplayName)
	assert.Equal(t, int64(2), first.SizeKB)
	assert.Equal(t, "/uploads/"+first.Filename, first.URL)
	assert.Equal(t, "cat.png", second.DisplayName)

	// A stray file without metadata and hidden files.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "legacy.gif"), []byte("gif"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".DS_Store"), []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(filepath.Join(dir, "legacy.gif"), uploadedAt, uploadedAt))

	files, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, second.Filename, files[0].Filename)
	assert.Equal(t, first.Filename, files[1].Filename)
	assert.Equal(t, "legacy.gif", files[2].Filename)
	assert.Equal(t, "legacy.gif", files[2].DisplayName)

	require.NoError(t, service.Delete(ctx, "../"+first.Filename))
	err = service.Delete(ctx, first.Filename)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	for _, name := range []string{gallery.MetaFileName, ".DS_Store", ""} {
		err = service.Delete(ctx, name)
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound), name)
	}

	raw, err := os.ReadFile(filepath.Join(dir, gallery.MetaFileName))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), first.Filename)
	assert.Contains(t, string(raw), second.Filename)
}

/*
TestService_RejectsOversize checks the declared size limit.
*/
func TestService_RejectsOversize(t *testing.T) {
	service, _ := newService(t)

	_, err := service.Save(context.Background(), gallery.Upload{
		OriginalName: "big.bin",
		Size:         gallery.MaxUploadSize + 1,
		Content:      strings.NewReader(""),
	})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestService_NameCollision saves the same name twice in one millisecond.
*/
func TestService_NameCollision(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := gallery.NewService(gallery.NewDiskStore(dir, gallery.MetaFileName), dir, logger,
		gallery.WithClock(func() time.Time { return uploadedAt }))

	first := save(t, service, "a.png", "", "1")
	second := save(t, service, "a.png", "", "2")
	assert.NotEqual(t, first.Filename, second.Filename)
}

type fixedResolver map[string]*sec.Principal

func (resolver fixedResolver) Resolve(request *http.Request) *sec.Principal {
	return resolver[request.Header.Get("X-Test-User")]
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	service, _ := newService(t)
	handler := gallery.NewHandler(service, ownerID)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(fixedResolver{
		ownerID: {ID: ownerID, DisplayName: "Owner"},
		"7":     {ID: "7", DisplayName: "Guest"},
	}))
	router.Mount("/api/gallery", handler.Routes())
	router.Get("/uploads/{filename}", handler.ServeUpload)
	return router
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if filename != "" {
		part, err := form.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, form.WriteField("displayName", "Holiday"))
	require.NoError(t, form.WriteField("description", "At the beach"))
	require.NoError(t, form.Close())
	return &body, form.FormDataContentType()
}

func upload(router http.Handler, userID string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, "/api/gallery", body)
	request.Header.Set("Content-Type", contentType)
	if userID != "" {
		request.Header.Set("X-Test-User", userID)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_Upload covers owner gating, the missing file case and serving the result.
*/
func TestHandler_Upload(t *testing.T) {
	router := newRouter(t)

	body, contentType := multipartBody(t, "beach.jpg", "jpeg-bytes")
	assert.Equal(t, http.StatusUnauthorized, upload(router, "", body, contentType).Code)

	body, contentType = multipartBody(t, "beach.jpg", "jpeg-bytes")
	assert.Equal(t, http.StatusForbidden, upload(router, "7", body, contentType).Code)

	body, contentType = multipartBody(t, "", "")
	assert.Equal(t, http.StatusBadRequest, upload(router, ownerID, body, contentType).Code)

	body, contentType = multipartBody(t, "beach.jpg", "jpeg-bytes")
	recorder := upload(router, ownerID, body, contentType)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var payload struct {
		File gallery.File `json:"file"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	assert.Equal(t, "Holiday", payload.File.DisplayName)
	assert.Equal(t, "At the beach", payload.File.Description)
	assert.Equal(t, "beach.jpg", payload.File.OriginalName)
	assert.Equal(t, int64(len("jpeg-bytes")), payload.File.Size)

	served := httptest.NewRecorder()
	router.ServeHTTP(served, httptest.NewRequest(http.MethodGet, payload.File.URL, nil))
	require.Equal(t, http.StatusOK, served.Code)
	assert.Equal(t, "jpeg-bytes", served.Body.String())

	missing := httptest.NewRecorder()
	router.ServeHTTP(missing, httptest.NewRequest(http.MethodGet, "/uploads/"+gallery.MetaFileName, nil))
	assert.Equal(t, http.StatusNotFound, missing.Code)

	deleteRequest := httptest.NewRequest(http.MethodDelete, "/api/gallery/"+payload.File.Filename, nil)
	deleteRequest.Header.Set("X-Test-User", ownerID)
	deleted := httptest.NewRecorder()
	router.ServeHTTP(deleted, deleteRequest)
	require.Equal(t, http.StatusOK, deleted.Code)
	assert.JSONEq(t, `{"ok":true}`, deleted.Body.String())
}

/*
TestNewS3Store_Endpoint accepts both bare hosts and URLs without contacting the bucket.
*/
func TestNewS3Store_Endpoint(t *testing.T) {
	for _, endpoint := range []string{"example.r2.cloudflarestorage.com", "https://example.r2.cloudflarestorage.com"} {
		_, err := gallery.NewS3Store(gallery.S3Config{
			Endpoint: endpoint, Region: "auto", Bucket: "gallery",
			AccessKey: "key", SecretKey: "secret", UseSSL: true,
		})
		assert.NoError(t, err, endpoint)
	}
}

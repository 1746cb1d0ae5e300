package upload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imgdrop/service/internal/storage"
)

type formPart struct {
	field       string
	fileName    string
	contentType string
	data        []byte
}

func multipartBody(t *testing.T, parts ...formPart) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		disposition := fmt.Sprintf(`form-data; name=%q`, p.field)
		if p.fileName != "" {
			disposition += fmt.Sprintf(`; filename=%q`, p.fileName)
		}
		h.Set("Content-Disposition", disposition)
		if p.contentType != "" {
			h.Set("Content-Type", p.contentType)
		}
		w, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = w.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func newUploadRequest(body io.Reader, contentType string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func newTestHandler(store *storage.MemoryStorage, endpoint string) *Handler {
	return NewHandler(newTestService(store, endpoint), quietLogger)
}

func TestHandlerUploadStoresFile(t *testing.T) {
	store := storage.NewMemoryStorage()
	h := newTestHandler(store, "localhost:9000")

	body, ct := multipartBody(t,
		formPart{field: "description", data: []byte("holiday")},
		formPart{field: "file", fileName: "photo.png", contentType: "image/png", data: []byte("0123456789")},
	)
	rec := httptest.NewRecorder()
	h.Upload(rec, newUploadRequest(body, ct))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Regexp(t, `^\d{8}-\d{6}-[0-9a-f]{32}-photo\.png$`, resp.Name)
	assert.True(t, strings.HasSuffix(resp.URL, resp.Name), resp.URL)

	_, exists := store.HasContainer("uploads")
	assert.True(t, exists)
	obj, ok := store.Object("uploads", resp.Name)
	require.True(t, ok)
	assert.Equal(t, "0123456789", string(obj.Data))
	assert.Equal(t, "image/png", obj.ContentType)
}

func TestHandlerUploadWithoutContentTypeUsesFallback(t *testing.T) {
	store := storage.NewMemoryStorage()
	h := newTestHandler(store, "localhost:9000")

	body, ct := multipartBody(t, formPart{field: "file", fileName: "data", data: []byte{0x1, 0x2}})
	rec := httptest.NewRecorder()
	h.Upload(rec, newUploadRequest(body, ct))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	obj, ok := store.Object("uploads", resp.Name)
	require.True(t, ok)
	assert.Equal(t, DefaultContentType, obj.ContentType)
}

func TestHandlerUploadStripsPathFromFileName(t *testing.T) {
	store := storage.NewMemoryStorage()
	h := newTestHandler(store, "localhost:9000")

	body, ct := multipartBody(t, formPart{field: "file", fileName: `..\..\boot.ini`, data: []byte("x")})
	rec := httptest.NewRecorder()
	h.Upload(rec, newUploadRequest(body, ct))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasSuffix(resp.Name, "-boot.ini"), resp.Name)
	assert.NotContains(t, resp.Name, `\`)
}

func TestHandlerUploadRejectsBadRequests(t *testing.T) {
	emptyFile, emptyCT := multipartBody(t, formPart{field: "file", fileName: "empty.txt", data: nil})
	wrongField, wrongCT := multipartBody(t, formPart{field: "upload", fileName: "a.txt", data: []byte("x")})
	noFileName, noFileNameCT := multipartBody(t, formPart{field: "file", data: []byte("just a field")})
	noParts, noPartsCT := multipartBody(t)

	tests := []struct {
		name        string
		body        io.Reader
		contentType string
		wantReason  string
	}{
		{name: "json body", body: strings.NewReader(`{"file":"x"}`), contentType: "application/json", wantReason: "expected multipart/form-data"},
		{name: "urlencoded form", body: strings.NewReader("file=x"), contentType: "application/x-www-form-urlencoded", wantReason: "expected multipart/form-data"},
		{name: "no content type", body: strings.NewReader("x"), wantReason: "expected multipart/form-data"},
		{name: "multipart without boundary", body: strings.NewReader("x"), contentType: "multipart/form-data", wantReason: "expected multipart/form-data"},
		{name: "empty file", body: emptyFile, contentType: emptyCT, wantReason: "missing or empty file"},
		{name: "wrong field name", body: wrongField, contentType: wrongCT, wantReason: "missing or empty file"},
		{name: "field without file name", body: noFileName, contentType: noFileNameCT, wantReason: "missing or empty file"},
		{name: "no parts", body: noParts, contentType: noPartsCT, wantReason: "missing or empty file"},
		{name: "malformed part header", body: strings.NewReader("--xyz\r\nnot a header\r\n\r\ndata\r\n--xyz--\r\n"), contentType: "multipart/form-data; boundary=xyz", wantReason: "malformed multipart body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemoryStorage()
			h := newTestHandler(store, "localhost:9000")

			rec := httptest.NewRecorder()
			h.Upload(rec, newUploadRequest(tt.body, tt.contentType))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantReason, rec.Body.String())
			assert.Equal(t, 0, store.Calls(), "backend must not be touched")
		})
	}
}

func TestHandlerUploadWithoutEndpoint(t *testing.T) {
	store := storage.NewMemoryStorage()
	h := newTestHandler(store, "")

	body, ct := multipartBody(t, formPart{field: "file", fileName: "photo.png", contentType: "image/png", data: []byte("0123456789")})
	rec := httptest.NewRecorder()
	h.Upload(rec, newUploadRequest(body, ct))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "endpoint")
	assert.Equal(t, 0, store.Calls())
	assert.Equal(t, 0, store.Len("uploads"))
}

func TestHandlerUploadStorageFailureHidesDetails(t *testing.T) {
	store := storage.NewMemoryStorage()
	store.WriteErr = errors.New("AccessDenied: arn:aws:iam::123456789012:role/uploader")
	h := newTestHandler(store, "localhost:9000")

	body, ct := multipartBody(t, formPart{field: "file", fileName: "a.txt", data: []byte("x")})
	rec := httptest.NewRecorder()
	h.Upload(rec, newUploadRequest(body, ct))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "upload failed", rec.Body.String())
}

func TestHandlerList(t *testing.T) {
	store := storage.NewMemoryStorage()
	h := newTestHandler(store, "localhost:9000")

	for _, name := range []string{"one.txt", "two.txt"} {
		body, ct := multipartBody(t, formPart{field: "file", fileName: name, data: []byte(name)})
		rec := httptest.NewRecorder()
		h.Upload(rec, newUploadRequest(body, ct))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/uploads?limit=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var objs []storage.ObjectInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &objs))
	assert.Len(t, objs, 1)

	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/uploads?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	newTestHandler(store, "").List(rec, httptest.NewRequest(http.MethodGet, "/uploads", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

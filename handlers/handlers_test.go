package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"footnote/auth"
	"footnote/database"
	"footnote/services"
	"footnote/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type stubThumbnailer struct {
	err error
}

func (s *stubThumbnailer) Generate(context.Context, []byte, string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte{0xFF, 0xD8, 0xFF, 0xE0}, nil
}

type fixture struct {
	t          *testing.T
	router     *gin.Engine
	store      *database.MemoryStore
	videos     *storage.MemoryStore
	thumbnails *storage.MemoryStore
	thumbs     *stubThumbnailer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log, _ := test.NewNullLogger()

	f := &fixture{
		t:          t,
		store:      database.NewMemoryStore(),
		videos:     storage.NewMemoryStore("memory://local/videos"),
		thumbnails: storage.NewMemoryStore("memory://local/thumbnails"),
		thumbs:     &stubThumbnailer{},
	}
	f.router = NewRouter(Deps{
		Store:          f.store,
		Projects:       services.NewProjects(f.store, log),
		Annotations:    services.NewAnnotations(f.store, log),
		Uploads:        services.NewUploads(f.videos, f.thumbnails, f.thumbs, f.store, log),
		Log:            log,
		SessionSecret:  testSecret,
		CookieName:     "session_token",
		MaxUploadBytes: 1 << 20,
	})
	return f
}

func (f *fixture) token(username string) string {
	f.t.Helper()
	token, err := auth.IssueSessionToken(testSecret, username, time.Hour)
	require.NoError(f.t, err)
	return token
}

// do sends a JSON request as username; an empty username sends no session.
func (f *fixture) do(method, path, username string, body interface{}) *httptest.ResponseRecorder {
	f.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if username != "" {
		req.AddCookie(&http.Cookie{Name: "session_token", Value: f.token(username)})
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) upload(username, pid, filename string, data []byte) *httptest.ResponseRecorder {
	f.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := mw.CreateFormFile("video", filename)
		require.NoError(f.t, err)
		_, err = part.Write(data)
		require.NoError(f.t, err)
	}
	if pid != "" {
		require.NoError(f.t, mw.WriteField("pid", pid))
	}
	require.NoError(f.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/videos/upload-video", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if username != "" {
		req.Header.Set("Authorization", "Bearer "+f.token(username))
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) createProject(username string) int64 {
	f.t.Helper()
	w := f.do(http.MethodGet, "/projects/create-project", username, nil)
	require.Equal(f.t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		PID int64 `json:"pid"`
	}
	decode(f.t, w, &resp)
	return resp.PID
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error {
	return errors.New("connection refused")
}

func discardLogger() *logrus.Logger {
	log, _ := test.NewNullLogger()
	return log
}

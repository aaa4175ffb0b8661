package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"photo-share-api/internal/application"
	"photo-share-api/internal/domain"
	"photo-share-api/internal/infrastructure/repository/memory"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingBuilder struct{}

func (failingBuilder) Build(ctx context.Context, authorization string) (*application.ExecContext, error) {
	return nil, domain.ErrStoreUnavailable
}

func TestExecContextMiddlewareAttachesCurrentUser(t *testing.T) {
	store := memory.New()
	_, err := store.Users().Upsert(context.Background(), &domain.User{GithubLogin: "alice", GithubToken: "tok"})
	require.NoError(t, err)
	builder := application.NewContextBuilder(store, nil, zerolog.Nop())

	var seen *application.ExecContext
	h := ExecContextMiddleware(builder, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = application.ExecContextFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set("Authorization", "Bearer tok")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, seen)
	require.NotNil(t, seen.CurrentUser)
	assert.Equal(t, "alice", seen.CurrentUser.GithubLogin)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/graphql", nil))
	require.NotNil(t, seen)
	assert.Nil(t, seen.CurrentUser)
}

func TestExecContextMiddlewareStoreFailure(t *testing.T) {
	called := false
	h := ExecContextMiddleware(failingBuilder{}, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Errors []struct {
			Extensions map[string]string `json:"extensions"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "STORE_UNAVAILABLE", body.Errors[0].Extensions["code"])
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	h := SecurityHeadersMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestAuditLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	h := AuditLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/health", line["path"])
	assert.EqualValues(t, http.StatusTeapot, line["status"])
	assert.EqualValues(t, len("short and stout"), line["bytes"])
	assert.Equal(t, false, line["authenticated"])
}

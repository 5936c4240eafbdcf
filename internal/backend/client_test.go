package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL, APIKey: "test-key"})
	require.NoError(t, err)
	return c
}

func TestClient_SendsAPIKeyHeader(t *testing.T) {
	var gotKey string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		_, _ = w.Write([]byte(`{}`))
	})

	var dest map[string]any
	require.NoError(t, c.Get(context.Background(), "/api/v1/apps", nil, &dest))
	assert.Equal(t, "test-key", gotKey)
}

func TestClient_WithTokenDoesNotMutateBase(t *testing.T) {
	base, err := New(Config{BaseURL: "http://example.invalid", APIKey: "base-key"})
	require.NoError(t, err)

	derived := base.WithToken("call-key")

	assert.Equal(t, "call-key", derived.Token())
	assert.Equal(t, "base-key", base.Token(), "deriving a client must leave the base untouched")
}

func TestClient_ErrorEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": "insufficient rights"}`))
	})

	err := c.Get(context.Background(), "/api/v1/apps", nil, nil)
	require.Error(t, err)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 403, e.StatusCode)
	assert.Equal(t, "insufficient rights", e.Message)
	assert.True(t, IsForbidden(err))
	assert.False(t, IsUnreachable(err))
}

func TestClient_ErrorBodyPreviewTruncated(t *testing.T) {
	long := strings.Repeat("x", 2048)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(long))
	})

	err := c.Get(context.Background(), "/api/v1/apps", nil, nil)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 502, e.StatusCode)
	assert.LessOrEqual(t, len(e.BodyPreview), bodyPreviewLimit+len("…"))
}

func TestClient_UnreachableDistinctFromErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listening anymore

	c, err := New(Config{BaseURL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)

	err = c.Get(context.Background(), "/api/v1/apps", nil, nil)
	require.Error(t, err)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 0, e.StatusCode, "no response at all must carry status 0")
	assert.True(t, IsUnreachable(err))
	assert.Contains(t, err.Error(), "unreachable")
}

func TestClient_ListApps(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/apps", r.URL.Path)
		_, _ = w.Write([]byte(`{"apps": [{"id": "1", "name": "Foo", "key": "k", "timezone": "UTC"}]}`))
	})

	apps, err := c.ListApps(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "1", apps[0].ID)
	assert.Equal(t, "Foo", apps[0].Name)
}

func TestClient_ListPlugins(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/plugins", r.URL.Path)
		_, _ = w.Write([]byte(`{"plugins": ["alerts", "crashes"]}`))
	})

	plugins, err := c.ListPlugins(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alerts", "crashes"}, plugins)
}

package bridge

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CheckDRMSupport(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bridge/drm/check", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			KeySystem     string         `json:"keySystem"`
			Configuration map[string]any `json:"configuration"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "com.widevine.alpha", req.KeySystem)
		assert.Equal(t, []any{"cenc"}, req.Configuration["initDataTypes"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"keySystem":     req.KeySystem,
			"isSupported":   true,
			"securityLevel": "L3",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	got, err := c.CheckDRMSupport(context.Background(), "com.widevine.alpha", map[string]any{
		"initDataTypes": []string{"cenc"},
	})
	require.NoError(t, err)
	assert.Equal(t, true, got["isSupported"])
	assert.Equal(t, "L3", got["securityLevel"])
}

func TestClient_CheckDRMSupport_OmitsNilConfiguration(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, hasConfig := raw["configuration"]
		assert.False(t, hasConfig, "nil configuration must be omitted from the wire")
		_ = json.NewEncoder(w).Encode(map[string]any{"keySystem": "x", "isSupported": false})
	}))
	defer srv.Close()

	_, err := New(srv.URL).CheckDRMSupport(context.Background(), "x", nil)
	require.NoError(t, err)
}

func TestClient_CheckDRMSupport_Errors(t *testing.T) {
	t.Parallel()

	t.Run("non-200 status", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := New(srv.URL).CheckDRMSupport(context.Background(), "x", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer srv.Close()

		_, err := New(srv.URL).CheckDRMSupport(context.Background(), "x", nil)
		require.Error(t, err)
	})

	t.Run("context cancellation", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Drain the body so the server notices the client disconnect and
			// cancels the request context; otherwise srv.Close deadlocks.
			_, _ = io.Copy(io.Discard, r.Body)
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := New(srv.URL, WithTimeout(time.Second)).CheckDRMSupport(ctx, "x", nil)
		require.Error(t, err)
	})
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:9000/")
	assert.Equal(t, "http://127.0.0.1:9000", c.base)
}

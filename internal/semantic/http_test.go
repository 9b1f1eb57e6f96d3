package semantic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPEmbedder_RequiresModel(t *testing.T) {
	_, err := NewHTTPEmbedder(HTTPEmbedderArgs{})
	require.Error(t, err)
}

func TestHTTPEmbedder_Embed(t *testing.T) {
	var got embeddingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[0.1,0.2,0.3]}]}`))
	}))
	defer srv.Close()

	e, err := NewHTTPEmbedder(HTTPEmbedderArgs{Endpoint: srv.URL, APIKey: "sk-test", Model: "mini"})
	require.NoError(t, err)
	assert.Equal(t, "http", e.Name())
	assert.Equal(t, "mini", e.Model())

	vec, err := e.Embed(context.Background(), "my Hobbies")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, "mini", got.Model)
	assert.Equal(t, []string{"my Hobbies"}, got.Input)
}

func TestHTTPEmbedder_NoKeyNoAuthHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[{"embedding":[1]}]}`))
	}))
	defer srv.Close()

	e, err := NewHTTPEmbedder(HTTPEmbedderArgs{Endpoint: srv.URL, Model: "local"})
	require.NoError(t, err)
	_, err = e.Embed(context.Background(), "x")
	require.NoError(t, err)
}

func TestHTTPEmbedder_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"server error", http.StatusInternalServerError, `overloaded`, "status 500"},
		{"bad json", http.StatusOK, `{`, "decode response"},
		{"no vectors", http.StatusOK, `{"data":[]}`, "no vectors"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			e, err := NewHTTPEmbedder(HTTPEmbedderArgs{Endpoint: srv.URL, Model: "m"})
			require.NoError(t, err)
			_, err = e.Embed(context.Background(), "x")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHTTPEmbedder_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	e, err := NewHTTPEmbedder(HTTPEmbedderArgs{Endpoint: srv.URL, Model: "m"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Embed(ctx, "x")
	require.ErrorIs(t, err, context.Canceled)
}

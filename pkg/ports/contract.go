package ports

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/hyperwalk/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunTransportContract runs a suite of tests to verify that a Transport implementation
// adheres to the defined interface contract. It starts its own local server.
func RunTransportContract(t *testing.T, transport Transport) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		switch r.URL.Path {
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"not here"}`))
		default:
			w.Header().Set("Content-Type", domain.MediaTypeJSON)
			w.Header().Set("X-Method", r.Method)
			if len(body) > 0 {
				_, _ = w.Write(body)
				return
			}
			_, _ = w.Write([]byte(`{"ok":true}`))
		}
	}))
	t.Cleanup(srv.Close)

	t.Run("GET returns status and body", func(t *testing.T) {
		resp, err := transport.Do(ctx, http.MethodGet, srv.URL+"/", domain.RequestOptions{})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"ok":true}`, resp.Body)
		assert.False(t, resp.Synthetic)
	})

	t.Run("Non-2xx is not an error", func(t *testing.T) {
		resp, err := transport.Do(ctx, http.MethodGet, srv.URL+"/missing", domain.RequestOptions{})
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.JSONEq(t, `{"message":"not here"}`, resp.Body)
	})

	t.Run("Body is sent verbatim", func(t *testing.T) {
		resp, err := transport.Do(ctx, http.MethodPost, srv.URL+"/", domain.RequestOptions{Body: []byte(`{"a":1}`)})
		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, resp.Header.Get("X-Method"))
		assert.JSONEq(t, `{"a":1}`, resp.Body)
	})

	t.Run("Unreachable host is a TransportError", func(t *testing.T) {
		dead := httptest.NewServer(http.NotFoundHandler())
		addr := dead.URL
		dead.Close()

		_, err := transport.Do(ctx, http.MethodGet, addr, domain.RequestOptions{})
		require.Error(t, err)
		var te *domain.TransportError
		assert.True(t, errors.As(err, &te), "expected *domain.TransportError, got %T", err)
	})
}

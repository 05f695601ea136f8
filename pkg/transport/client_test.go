package transport_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/hyperwalk/pkg/domain"
	"github.com/aretw0/hyperwalk/pkg/ports"
	"github.com/aretw0/hyperwalk/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Contract(t *testing.T) {
	ports.RunTransportContract(t, transport.New())
}

func TestClient_DefaultHeadersAndAuth(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := transport.New(
		transport.WithHeader("X-Api-Key", "secret"),
		transport.WithBasicAuth("alice", "pw"),
		transport.WithUserAgent("tests"),
	)

	resp, err := c.Do(context.Background(), http.MethodGet, srv.URL, domain.RequestOptions{
		Header: http.Header{"X-Request": []string{"1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.NotNil(t, got)
	assert.Equal(t, "secret", got.Header.Get("X-Api-Key"))
	assert.Equal(t, "1", got.Header.Get("X-Request"))
	assert.Equal(t, "tests", got.Header.Get("User-Agent"))
	assert.Contains(t, got.Header.Get("Accept"), domain.MediaTypeJSONHAL)
	user, pass, ok := got.BasicAuth()
	assert.True(t, ok)
	assert.Equal(t, "alice", user)
	assert.Equal(t, "pw", pass)
}

func TestClient_ContentTypeOnlyWithBody(t *testing.T) {
	var contentTypes []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentTypes = append(contentTypes, r.Header.Get("Content-Type"))
	}))
	defer srv.Close()

	c := transport.New()
	_, err := c.Do(context.Background(), http.MethodPost, srv.URL, domain.RequestOptions{Body: []byte(`{}`)})
	require.NoError(t, err)
	_, err = c.Do(context.Background(), http.MethodDelete, srv.URL, domain.RequestOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{domain.MediaTypeJSON, ""}, contentTypes)
}

func TestClient_Observer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	var events []*domain.RequestEvent
	c := transport.New(transport.WithObserver(func(_ context.Context, e *domain.RequestEvent) {
		events = append(events, e)
	}))

	_, err := c.Do(context.Background(), http.MethodGet, srv.URL+"/x", domain.RequestOptions{})
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, http.MethodGet, events[0].Method)
	assert.Equal(t, srv.URL+"/x", events[0].URI)
	assert.Equal(t, http.StatusTeapot, events[0].StatusCode)
	assert.Equal(t, domain.EventRequest, events[0].Type)
	assert.NoError(t, events[0].Err)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := transport.New(transport.WithTimeout(50 * time.Millisecond))
	_, err := c.Do(context.Background(), http.MethodGet, srv.URL, domain.RequestOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestClient_InvalidURI(t *testing.T) {
	_, err := transport.New().Do(context.Background(), http.MethodGet, "http://[::1", domain.RequestOptions{})
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestClient_BodyLimit(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		tooBig bool
	}{
		{name: "At the limit", size: transport.MaxResponseBody},
		{name: "Over the limit", size: transport.MaxResponseBody + 1, tooBig: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := bytes.Repeat([]byte("a"), tt.size)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write(payload)
			}))
			defer srv.Close()

			resp, err := transport.New().Do(context.Background(), http.MethodGet, srv.URL, domain.RequestOptions{})
			if tt.tooBig {
				assert.Nil(t, resp)
				assert.ErrorIs(t, err, domain.ErrTransport)
				assert.ErrorIs(t, err, transport.ErrBodyTooLarge)
				return
			}
			require.NoError(t, err)
			assert.Len(t, resp.Body, tt.size)
		})
	}
}

func TestClient_WithCopiesSettings(t *testing.T) {
	var got []http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Clone())
	}))
	defer srv.Close()

	base := transport.New(transport.WithHeader("X-Tenant", "acme"), transport.WithBasicAuth("alice", "pw"))
	derived := base.With(transport.WithHeader("X-Trace", "1"), transport.WithUserAgent("derived"))

	_, err := derived.Do(context.Background(), http.MethodGet, srv.URL, domain.RequestOptions{})
	require.NoError(t, err)
	_, err = base.Do(context.Background(), http.MethodGet, srv.URL, domain.RequestOptions{})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "acme", got[0].Get("X-Tenant"))
	assert.Equal(t, "1", got[0].Get("X-Trace"))
	assert.Equal(t, "derived", got[0].Get("User-Agent"))
	assert.NotEmpty(t, got[0].Get("Authorization"))

	assert.Equal(t, "acme", got[1].Get("X-Tenant"))
	assert.Empty(t, got[1].Get("X-Trace"), "With must not change the original client")
	assert.Equal(t, transport.DefaultUserAgent, got[1].Get("User-Agent"))
}

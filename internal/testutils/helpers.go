package testutils

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/aretw0/hyperwalk/pkg/domain"
	"github.com/stretchr/testify/require"
)

// Request is one call recorded by FakeTransport.
type Request struct {
	Method string
	URI    string
	Opts   domain.RequestOptions
}

// FakeTransport answers requests from a table of canned responses keyed by URI.
// Unknown URIs get a 404 with an empty JSON object.
type FakeTransport struct {
	mu        sync.Mutex
	responses map[string]*domain.Response
	failures  map[string]error
	requests  []Request
}

// NewFakeTransport returns an empty FakeTransport.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{
		responses: make(map[string]*domain.Response),
		failures:  make(map[string]error),
	}
}

// Respond registers a response for uri.
func (f *FakeTransport) Respond(uri string, status int, body string) *domain.Response {
	f.mu.Lock()
	defer f.mu.Unlock()
	resp := &domain.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{domain.MediaTypeJSONHAL}},
		Body:       body,
	}
	f.responses[uri] = resp
	return resp
}

// RespondJSON registers doc, serialized, as the 200 body for uri.
func (f *FakeTransport) RespondJSON(t *testing.T, uri string, doc any) *domain.Response {
	t.Helper()
	body, err := json.Marshal(doc)
	require.NoError(t, err, "Failed to serialize fixture document")
	return f.Respond(uri, http.StatusOK, string(body))
}

// Fail makes requests to uri return err.
func (f *FakeTransport) Fail(uri string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[uri] = err
}

// Do implements ports.Transport.
func (f *FakeTransport) Do(ctx context.Context, method, uri string, opts domain.RequestOptions) (*domain.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, Request{Method: method, URI: uri, Opts: opts})
	if err := ctx.Err(); err != nil {
		return nil, &domain.TransportError{Method: method, URI: uri, Cause: err}
	}
	if err, ok := f.failures[uri]; ok {
		return nil, &domain.TransportError{Method: method, URI: uri, Cause: err}
	}
	if resp, ok := f.responses[uri]; ok {
		return resp, nil
	}
	return &domain.Response{StatusCode: http.StatusNotFound, Body: "{}"}, nil
}

// Requests returns a copy of every recorded call in order.
func (f *FakeTransport) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

// URIs returns the requested URIs in order.
func (f *FakeTransport) URIs() []string {
	reqs := f.Requests()
	uris := make([]string, len(reqs))
	for i, r := range reqs {
		uris[i] = r.URI
	}
	return uris
}

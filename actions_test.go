package hyperwalk_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aretw0/hyperwalk"
	"github.com/aretw0/hyperwalk/internal/testutils"
	"github.com/aretw0/hyperwalk/internal/walker"
	"github.com/aretw0/hyperwalk/pkg/domain"
	"github.com/aretw0/hyperwalk/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockWalker lets tests script each stage of a traversal.
type MockWalker struct {
	mock.Mock
}

func (m *MockWalker) Walk(ctx context.Context) (*domain.Step, *domain.Step, error) {
	args := m.Called(ctx)
	next, _ := args.Get(0).(*domain.Step)
	last, _ := args.Get(1).(*domain.Step)
	return next, last, args.Error(2)
}

func (m *MockWalker) Process(ctx context.Context, step *domain.Step) (*domain.Step, error) {
	args := m.Called(ctx, step)
	s, _ := args.Get(0).(*domain.Step)
	return s, args.Error(1)
}

func (m *MockWalker) CheckHTTPStatus(step *domain.Step) error {
	return m.Called(step).Error(0)
}

func (m *MockWalker) Parse(step *domain.Step) (any, error) {
	args := m.Called(step)
	return args.Get(0), args.Error(1)
}

func withMock(m *MockWalker) hyperwalk.Option {
	return hyperwalk.WithWalkerFactory(func(string, *ports.Traversal, ...walker.Option) (ports.Walker, error) {
		return m, nil
	})
}

func halRoot(links, embedded map[string]any) map[string]any {
	doc := map[string]any{}
	if links != nil {
		doc["_links"] = links
	}
	if embedded != nil {
		doc["_embedded"] = embedded
	}
	return doc
}

func href(h string) map[string]any {
	return map[string]any{"href": h}
}

func TestGet_EmbeddedTerminalIsSynthetic(t *testing.T) {
	ft := testutils.NewFakeTransport()
	order := map[string]any{"id": 5.0, "status": "shipped"}
	ft.RespondJSON(t, api, halRoot(nil, map[string]any{"order": order}))

	resp, err := newHAL(t, ft).Follow("order").Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, resp.Synthetic)
	assert.Equal(t, domain.SyntheticRemark, resp.Remark)
	want, err := json.Marshal(order)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), resp.Body)
	assert.Equal(t, []string{api}, ft.URIs(), "The embedded resource must not be fetched")
}

func TestGet_FetchedTerminalReturnsTransportResponse(t *testing.T) {
	ft := testutils.NewFakeTransport()
	ft.RespondJSON(t, api, halRoot(map[string]any{"orders": href("/orders")}, nil))
	want := ft.Respond(api+"/orders", http.StatusOK, `{"count":2}`)

	resp, err := newHAL(t, ft).Follow("orders").Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, want, resp)
	assert.False(t, resp.Synthetic)
}

func TestGet_WithoutLinksFetchesStartURI(t *testing.T) {
	ft := testutils.NewFakeTransport()
	want := ft.Respond(api, http.StatusOK, `{}`)

	resp, err := newHAL(t, ft).Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, want, resp)
	assert.Equal(t, []string{api}, ft.URIs())
}

func TestGet_NonSuccessTerminalIsNotAnError(t *testing.T) {
	ft := testutils.NewFakeTransport()
	ft.RespondJSON(t, api, halRoot(map[string]any{"order": href("/orders/7")}, nil))

	resp, err := newHAL(t, ft).Follow("order").Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGet_MaterializationFailureKeepsPartialResponse(t *testing.T) {
	m := &MockWalker{}
	next := &domain.Step{URI: api + "/orders"}
	partial := &domain.Response{StatusCode: http.StatusBadGateway}
	cause := &domain.MaterializationError{URI: next.URI, Response: partial, Cause: errors.New("boom")}

	m.On("Walk", mock.Anything).Return(next, &domain.Step{URI: api}, nil)
	m.On("Process", mock.Anything, next).Return(&domain.Step{URI: next.URI, Response: partial}, cause)

	b, err := hyperwalk.New(domain.MediaTypeJSON, api, withMock(m))
	require.NoError(t, err)

	resp, err := b.Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrMaterialization)
	assert.Same(t, partial, resp)
	m.AssertExpectations(t)
}

func TestGetResource_EmbeddedBypassesChecks(t *testing.T) {
	m := &MockWalker{}
	doc := map[string]any{"id": "a"}
	embedded := &domain.Step{Doc: doc}

	m.On("Walk", mock.Anything).Return(embedded, &domain.Step{URI: api}, nil)
	m.On("Process", mock.Anything, embedded).Return(embedded, nil)

	b, err := hyperwalk.New(domain.MediaTypeJSONHAL, api, withMock(m))
	require.NoError(t, err)

	res, err := b.GetResource(context.Background())
	require.NoError(t, err)
	assert.Equal(t, doc, res)
	m.AssertNotCalled(t, "CheckHTTPStatus", mock.Anything)
	m.AssertNotCalled(t, "Parse", mock.Anything)
}

func TestGetResource_Parses(t *testing.T) {
	ft := testutils.NewFakeTransport()
	ft.RespondJSON(t, api, halRoot(map[string]any{"orders": href("/orders")}, nil))
	ft.Respond(api+"/orders", http.StatusOK, `{"count":2,"items":["a","b"]}`)

	res, err := newHAL(t, ft).Follow("orders").GetResource(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"count": 2.0, "items": []any{"a", "b"}}, res)
}

func TestGetResource_StatusErrorCarriesParsedBody(t *testing.T) {
	ft := testutils.NewFakeTransport()
	ft.RespondJSON(t, api, halRoot(map[string]any{"order": href("/orders/7")}, nil))
	ft.Respond(api+"/orders/7", http.StatusNotFound, `{"error":"order 7 not found"}`)

	res, err := newHAL(t, ft).Follow("order").GetResource(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrHTTPStatus)

	want := map[string]any{"error": "order 7 not found"}
	doc, ok := domain.DocumentOf(err)
	require.True(t, ok)
	assert.Equal(t, want, doc)
	assert.Equal(t, want, res)

	var statusErr *domain.HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestGetResource_InvalidBody(t *testing.T) {
	ft := testutils.NewFakeTransport()
	ft.Respond(api, http.StatusOK, `<html>`)

	res, err := newHAL(t, ft).GetResource(context.Background())
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.Equal(t, "<html>", res)
}

func TestGetResource_WalkerPanicBecomesParseError(t *testing.T) {
	m := &MockWalker{}
	next := &domain.Step{URI: api}
	fetched := &domain.Step{URI: api, Response: &domain.Response{StatusCode: http.StatusOK, Body: `{"a":1}`}}

	m.On("Walk", mock.Anything).Return(next, nil, nil)
	m.On("Process", mock.Anything, next).Return(fetched, nil)
	m.On("CheckHTTPStatus", fetched).Return(nil)
	m.On("Parse", fetched).Run(func(mock.Arguments) { panic("bad parser") })

	b, err := hyperwalk.New(domain.MediaTypeJSON, api, withMock(m))
	require.NoError(t, err)

	res, err := b.GetResource(context.Background())
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.Contains(t, err.Error(), "bad parser")
	assert.Equal(t, `{"a":1}`, res)
}

func TestGetResourceInto_DecodesByJSONTags(t *testing.T) {
	ft := testutils.NewFakeTransport()
	ft.Respond(api, http.StatusOK, `{"order_id":"42","total":9.5,"lines":[{"sku":"x"}]}`)

	type line struct {
		SKU string `json:"sku"`
	}
	var out struct {
		OrderID int     `json:"order_id"`
		Total   float64 `json:"total"`
		Lines   []line  `json:"lines"`
	}
	require.NoError(t, newHAL(t, ft).GetResourceInto(context.Background(), &out))

	assert.Equal(t, 42, out.OrderID)
	assert.Equal(t, 9.5, out.Total)
	assert.Equal(t, []line{{SKU: "x"}}, out.Lines)
}

func TestGetResourceInto_RequiresPointer(t *testing.T) {
	ft := testutils.NewFakeTransport()
	ft.Respond(api, http.StatusOK, `{}`)

	var out struct{}
	err := newHAL(t, ft).GetResourceInto(context.Background(), out)
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestGetURI_DoesNotFetchTerminal(t *testing.T) {
	ft := testutils.NewFakeTransport()
	ft.RespondJSON(t, api, halRoot(map[string]any{"orders": href("/orders")}, nil))

	uri, err := newHAL(t, ft).Follow("orders").GetURI(context.Background())
	require.NoError(t, err)
	assert.Equal(t, api+"/orders", uri)
	assert.Equal(t, []string{api}, ft.URIs())
}

func TestGetURI_EmbeddedSelfLink(t *testing.T) {
	ft := testutils.NewFakeTransport()
	order := halRoot(map[string]any{"self": href("/orders/5")}, nil)
	ft.RespondJSON(t, api, halRoot(nil, map[string]any{"order": order}))

	uri, err := newHAL(t, ft).Follow("order").GetURI(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://api.example.com/orders/5", uri)
}

func TestGetURI_EmbeddedWithoutSelfLink(t *testing.T) {
	ft := testutils.NewFakeTransport()
	ft.RespondJSON(t, api, halRoot(nil, map[string]any{"order": map[string]any{"id": 5}}))

	uri, err := newHAL(t, ft).Follow("order").GetURI(context.Background())
	assert.ErrorIs(t, err, domain.ErrAddressResolution)
	assert.Empty(t, uri)
}

func TestGetURI_ExpandsTemplatedLink(t *testing.T) {
	ft := testutils.NewFakeTransport()
	ft.RespondJSON(t, api, halRoot(map[string]any{
		"order": map[string]any{"href": "/orders/{id}", "templated": true},
	}, nil))

	uri, err := newHAL(t, ft).
		Follow("order").
		WithTemplateParameters(map[string]any{"id": 5}).
		GetURI(context.Background())
	require.NoError(t, err)
	assert.Equal(t, api+"/orders/5", uri)
}

func TestGetResource_MaterializationFailureKeepsPartialResponse(t *testing.T) {
	m := &MockWalker{}
	next := &domain.Step{URI: api + "/orders"}
	partial := &domain.Response{StatusCode: http.StatusBadGateway}
	cause := &domain.MaterializationError{URI: next.URI, Response: partial, Cause: errors.New("boom")}

	m.On("Walk", mock.Anything).Return(next, &domain.Step{URI: api}, nil)
	m.On("Process", mock.Anything, next).Return(&domain.Step{URI: next.URI, Response: partial}, cause)

	b, err := hyperwalk.New(domain.MediaTypeJSON, api, withMock(m))
	require.NoError(t, err)

	res, err := b.GetResource(context.Background())
	assert.ErrorIs(t, err, domain.ErrMaterialization)
	assert.Same(t, partial, res)
}

func TestGetResource_WalkFailureBeforeAnyResponseReturnsNil(t *testing.T) {
	m := &MockWalker{}
	m.On("Walk", mock.Anything).Return(nil, nil, &domain.TraversalError{Cause: errors.New("dial")})

	b, err := hyperwalk.New(domain.MediaTypeJSON, api, withMock(m))
	require.NoError(t, err)

	res, err := b.GetResource(context.Background())
	assert.ErrorIs(t, err, domain.ErrTraversal)
	assert.Nil(t, res, "No typed nil response may leak into the result")
}

func TestGetURI_EmbeddedSelfLinkUsesExpandedStartURI(t *testing.T) {
	ft := testutils.NewFakeTransport()
	order := halRoot(map[string]any{"self": href("/orders/5")}, nil)
	ft.RespondJSON(t, api+"/acme", halRoot(nil, map[string]any{"order": order}))

	b, err := hyperwalk.New(domain.MediaTypeJSONHAL, api+"/{tenant}", hyperwalk.WithTransport(ft))
	require.NoError(t, err)

	uri, err := b.Follow("order").
		WithTemplateParameters(map[string]any{"tenant": "acme"}).
		GetURI(context.Background())
	require.NoError(t, err)
	assert.Equal(t, api+"/acme/orders/5", uri)
	assert.Equal(t, []string{api + "/acme"}, ft.URIs())
}

func TestWriteVerbs(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		run      func(*hyperwalk.Builder) (*domain.Response, string, error)
		wantBody string
	}{
		{
			name:   "Post",
			method: http.MethodPost,
			run: func(b *hyperwalk.Builder) (*domain.Response, string, error) {
				return b.Post(context.Background(), map[string]any{"sku": "x", "qty": 2})
			},
			wantBody: `{"qty":2,"sku":"x"}`,
		},
		{
			name:   "Put",
			method: http.MethodPut,
			run: func(b *hyperwalk.Builder) (*domain.Response, string, error) {
				return b.Put(context.Background(), map[string]any{"status": "paid"})
			},
			wantBody: `{"status":"paid"}`,
		},
		{
			name:   "Patch",
			method: http.MethodPatch,
			run: func(b *hyperwalk.Builder) (*domain.Response, string, error) {
				return b.Patch(context.Background(), []string{"a"})
			},
			wantBody: `["a"]`,
		},
		{
			name:   "Post without body",
			method: http.MethodPost,
			run: func(b *hyperwalk.Builder) (*domain.Response, string, error) {
				return b.Post(context.Background(), nil)
			},
		},
		{
			name:   "Post with nil slice",
			method: http.MethodPost,
			run: func(b *hyperwalk.Builder) (*domain.Response, string, error) {
				var lines []string
				return b.Post(context.Background(), lines)
			},
		},
		{
			name:   "Put with nil pointer",
			method: http.MethodPut,
			run: func(b *hyperwalk.Builder) (*domain.Response, string, error) {
				var order *struct{ Status string }
				return b.Put(context.Background(), order)
			},
		},
		{
			name:   "Delete",
			method: http.MethodDelete,
			run: func(b *hyperwalk.Builder) (*domain.Response, string, error) {
				return b.Delete(context.Background())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := testutils.NewFakeTransport()
			ft.RespondJSON(t, api, halRoot(map[string]any{"orders": href("/orders")}, nil))
			want := ft.Respond(api+"/orders", http.StatusCreated, `{}`)

			resp, uri, err := tt.run(newHAL(t, ft).Follow("orders"))
			require.NoError(t, err)
			assert.Same(t, want, resp)
			assert.Equal(t, api+"/orders", uri)

			reqs := ft.Requests()
			require.Len(t, reqs, 2, "Only the start URI is fetched before the write")
			assert.Equal(t, http.MethodGet, reqs[0].Method)
			assert.Equal(t, tt.method, reqs[1].Method)
			if tt.wantBody == "" {
				assert.Nil(t, reqs[1].Opts.Body)
			} else {
				assert.JSONEq(t, tt.wantBody, string(reqs[1].Opts.Body))
			}
		})
	}
}

func TestPost_UnserializableBody(t *testing.T) {
	ft := testutils.NewFakeTransport()
	_, uri, err := newHAL(t, ft).Post(context.Background(), map[string]any{"ch": make(chan int)})
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.Equal(t, api, uri)
	assert.Empty(t, ft.Requests())
}

func TestPost_EmbeddedTargetsUseSelfLink(t *testing.T) {
	ft := testutils.NewFakeTransport()
	order := halRoot(map[string]any{"self": href("/orders/5")}, nil)
	ft.RespondJSON(t, api, halRoot(nil, map[string]any{"order": order}))

	_, uri, err := newHAL(t, ft).Follow("order").Put(context.Background(), map[string]any{"status": "paid"})
	require.NoError(t, err)
	assert.Equal(t, api+"/orders/5", uri)
	assert.Equal(t, []string{api, api + "/orders/5"}, ft.URIs())
}

func TestDelete_TransportErrorIsReturnedUnchanged(t *testing.T) {
	ft := testutils.NewFakeTransport()
	ft.RespondJSON(t, api, halRoot(map[string]any{"orders": href("/orders")}, nil))
	cause := errors.New("connection reset")
	ft.Fail(api+"/orders", cause)

	_, uri, err := newHAL(t, ft).Follow("orders").Delete(context.Background())
	var transportErr *domain.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.MethodDelete, transportErr.Method)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, api+"/orders", uri)
}

func TestActions_WalkFailureSurfacesLastReachedStep(t *testing.T) {
	type result struct {
		resp *domain.Response
		uri  string
		err  error
	}
	actions := map[string]func(*hyperwalk.Builder) result{
		"Get": func(b *hyperwalk.Builder) result {
			resp, err := b.Get(context.Background())
			var te *domain.TraversalError
			if errors.As(err, &te) {
				return result{resp: resp, uri: te.URI, err: err}
			}
			return result{resp: resp, err: err}
		},
		"GetResource": func(b *hyperwalk.Builder) result {
			res, err := b.GetResource(context.Background())
			resp, _ := res.(*domain.Response)
			var te *domain.TraversalError
			if errors.As(err, &te) {
				return result{resp: resp, uri: te.URI, err: err}
			}
			return result{resp: resp, err: err}
		},
		"GetURI": func(b *hyperwalk.Builder) result {
			uri, err := b.GetURI(context.Background())
			var te *domain.TraversalError
			if errors.As(err, &te) {
				return result{resp: te.Response, uri: uri, err: err}
			}
			return result{uri: uri, err: err}
		},
		"Post": func(b *hyperwalk.Builder) result {
			resp, uri, err := b.Post(context.Background(), map[string]any{})
			return result{resp, uri, err}
		},
		"Put": func(b *hyperwalk.Builder) result {
			resp, uri, err := b.Put(context.Background(), map[string]any{})
			return result{resp, uri, err}
		},
		"Patch": func(b *hyperwalk.Builder) result {
			resp, uri, err := b.Patch(context.Background(), map[string]any{})
			return result{resp, uri, err}
		},
		"Delete": func(b *hyperwalk.Builder) result {
			resp, uri, err := b.Delete(context.Background())
			return result{resp, uri, err}
		},
	}

	for name, run := range actions {
		t.Run(name, func(t *testing.T) {
			ft := testutils.NewFakeTransport()
			ft.RespondJSON(t, api, halRoot(map[string]any{"orders": href("/orders")}, nil))
			orders := ft.Respond(api+"/orders", http.StatusOK, `{"count":0}`)

			got := run(newHAL(t, ft).Follow("orders", "missing"))

			assert.ErrorIs(t, got.err, domain.ErrTraversal)
			assert.ErrorIs(t, got.err, domain.ErrLinkNotFound)
			assert.Equal(t, api+"/orders", got.uri)
			assert.Same(t, orders, got.resp)
			assert.Equal(t, []string{api, api + "/orders"}, ft.URIs(), "The terminal action must not run")
		})
	}
}

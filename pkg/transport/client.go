package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/aretw0/hyperwalk/pkg/domain"
	"github.com/aretw0/hyperwalk/pkg/ports"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultUserAgent is sent unless WithUserAgent overrides it.
	DefaultUserAgent = "hyperwalk"

	// MaxResponseBody is the largest response body a Client reads.
	MaxResponseBody = 10 * 1024 * 1024 // 10 MiB

	tracerName = "github.com/aretw0/hyperwalk/pkg/transport"
)

// ErrBodyTooLarge is the cause reported when a response body exceeds MaxResponseBody.
var ErrBodyTooLarge = errors.New("response body exceeds 10 MiB")

type basicAuth struct {
	username string
	password string
}

// Client is the default ports.Transport backed by net/http.
type Client struct {
	httpClient *http.Client
	header     http.Header
	auth       *basicAuth
	timeout    time.Duration
	userAgent  string
	observers  []Observer
}

var _ ports.Transport = (*Client)(nil)

// New creates a Client. Without options it uses http.DefaultClient.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		header:     make(http.Header),
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// With returns a copy of c with opts applied on top of its settings.
// c itself is not modified.
func (c *Client) With(opts ...Option) *Client {
	clone := &Client{
		httpClient: c.httpClient,
		header:     c.header.Clone(),
		timeout:    c.timeout,
		userAgent:  c.userAgent,
		observers:  slices.Clone(c.observers),
	}
	if c.auth != nil {
		auth := *c.auth
		clone.auth = &auth
	}
	for _, opt := range opts {
		opt(clone)
	}
	return clone
}

// Do implements ports.Transport.
func (c *Client) Do(ctx context.Context, method, uri string, opts domain.RequestOptions) (*domain.Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "HTTP "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", uri),
		),
	)
	defer span.End()

	start := time.Now()
	resp, err := c.do(ctx, method, uri, opts)

	event := &domain.RequestEvent{
		EventBase: domain.EventBase{Timestamp: start, Type: domain.EventRequest},
		Method:    method,
		URI:       uri,
		Duration:  time.Since(start),
		Err:       err,
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		event.StatusCode = resp.StatusCode
		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
		if resp.StatusCode >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		}
	}
	for _, obs := range c.observers {
		obs(ctx, event)
	}
	return resp, err
}

func (c *Client) do(ctx context.Context, method, uri string, opts domain.RequestOptions) (*domain.Response, error) {
	var body io.Reader
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, uri, body)
	if err != nil {
		return nil, &domain.TransportError{Method: method, URI: uri, Cause: err}
	}

	maps.Copy(req.Header, c.header)
	for k, v := range opts.Header {
		req.Header[k] = slices.Clone(v)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", domain.MediaTypeJSONHAL+", "+domain.MediaTypeJSON)
	}
	if opts.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", domain.MediaTypeJSON)
	}
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.auth != nil {
		req.SetBasicAuth(c.auth.username, c.auth.password)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Method: method, URI: uri, Cause: err}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, MaxResponseBody+1))
	if err != nil {
		return nil, &domain.TransportError{
			Method: method,
			URI:    uri,
			Cause:  fmt.Errorf("read body: %w", err),
		}
	}
	if len(data) > MaxResponseBody {
		return nil, &domain.TransportError{
			Method: method,
			URI:    uri,
			Cause:  ErrBodyTooLarge,
		}
	}

	return &domain.Response{
		StatusCode: res.StatusCode,
		Header:     res.Header,
		Body:       string(data),
	}, nil
}

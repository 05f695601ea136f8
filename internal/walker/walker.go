package walker

import (
	"context"
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/hyperwalk/internal/logging"
	"github.com/aretw0/hyperwalk/pkg/domain"
	"github.com/aretw0/hyperwalk/pkg/ports"
)

// Walker follows link relations for one media type.
type Walker struct {
	traversal   *ports.Traversal
	resolver    resolver
	mediaType   string
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	traversalID string
}

var _ ports.Walker = (*Walker)(nil)

// Option configures a Walker.
type Option func(*Walker)

// WithLogger sets the logger used for hop diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithLifecycleHooks registers hop observers.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(w *Walker) {
		w.hooks = hooks
	}
}

// WithTraversalID tags emitted events.
func WithTraversalID(id string) Option {
	return func(w *Walker) {
		w.traversalID = id
	}
}

// New creates the Walker for mediaType bound to t.
// An unknown media type is a *domain.ConfigError.
func New(mediaType string, t *ports.Traversal, opts ...Option) (*Walker, error) {
	canonical, r, err := selectResolver(mediaType)
	if err != nil {
		return nil, err
	}
	w := &Walker{
		traversal: t,
		resolver:  r,
		mediaType: canonical,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger.Debug("creating walker", "media_type", canonical)
	return w, nil
}

// MediaType returns the canonical media type the walker handles.
func (w *Walker) MediaType() string {
	return w.mediaType
}

func selectResolver(mediaType string) (string, resolver, error) {
	tag := strings.ToLower(strings.TrimSpace(mediaType))
	if parsed, _, err := mime.ParseMediaType(tag); err == nil {
		tag = parsed
	}
	switch tag {
	case domain.MediaTypeJSON, "json":
		return domain.MediaTypeJSON, jsonResolver{}, nil
	case domain.MediaTypeJSONHAL, "hal", "json-hal", "hal+json":
		return domain.MediaTypeJSONHAL, halResolver{}, nil
	default:
		return "", nil, &domain.ConfigError{
			Option:  "media type",
			Value:   mediaType,
			Message: "unknown or unsupported media type",
		}
	}
}

// Walk implements ports.Walker.
func (w *Walker) Walk(ctx context.Context) (*domain.Step, *domain.Step, error) {
	cfg := w.traversal.Snapshot()

	startURI := cfg.StartURI
	if isTemplate(startURI) {
		expanded, err := expand(startURI, cfg.TemplateParameters)
		if err != nil {
			return nil, nil, &domain.TraversalError{URI: startURI, Cause: err}
		}
		startURI = expanded
	}

	current := &domain.Step{URI: startURI}
	base := startURI
	var last *domain.Step

	for i, rel := range cfg.Links {
		if err := ctx.Err(); err != nil {
			return nil, last, failure(i, rel, last, err)
		}

		reached, err := w.fetch(ctx, cfg.Transport, current)
		if err != nil {
			return nil, last, failure(i, rel, last, err)
		}
		last = reached
		if reached.URI != "" {
			base = reached.URI
		}

		if err := w.CheckHTTPStatus(reached); err != nil {
			return nil, last, failure(i, rel, last, err)
		}
		doc, err := document(reached)
		if err != nil {
			return nil, last, failure(i, rel, last, err)
		}

		t, err := w.resolver.resolve(doc, rel)
		if err != nil {
			return nil, last, failure(i, rel, last, err)
		}
		next, err := t.step(base, cfg.TemplateParameters)
		if err != nil {
			return nil, last, failure(i, rel, last, err)
		}

		w.logger.Debug("followed link", "hop", i, "rel", rel, "uri", next.URI, "embedded", next.Embedded())
		w.hooks.EmitHop(ctx, &domain.HopEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventHop, TraversalID: w.traversalID},
			Index:     i,
			Relation:  rel,
			From:      reached.URI,
			To:        next.URI,
			Embedded:  next.Embedded(),
		})
		current = next
	}

	return current, last, nil
}

// Process implements ports.Walker.
func (w *Walker) Process(ctx context.Context, step *domain.Step) (*domain.Step, error) {
	reached, err := w.fetch(ctx, w.traversal.Transport, step)
	if err != nil {
		resp, uri := step.Context()
		return &domain.Step{URI: uri, Response: resp}, &domain.MaterializationError{URI: uri, Response: resp, Cause: err}
	}
	return reached, nil
}

// CheckHTTPStatus implements ports.Walker.
func (w *Walker) CheckHTTPStatus(step *domain.Step) error {
	if step == nil || step.Response == nil || step.Response.OK() {
		return nil
	}
	return &domain.HTTPStatusError{
		URI:        step.URI,
		StatusCode: step.Response.StatusCode,
		Body:       step.Response.Body,
		Doc:        parseOrRaw(step.Response.Body),
	}
}

// Parse implements ports.Walker.
func (w *Walker) Parse(step *domain.Step) (any, error) {
	if step == nil || step.Response == nil {
		return nil, &domain.ParseError{Message: "step has no response to parse"}
	}
	var v any
	if err := json.Unmarshal([]byte(step.Response.Body), &v); err != nil {
		return nil, &domain.ParseError{
			URI:     step.URI,
			Message: "response body is not valid JSON",
			Doc:     step.Response.Body,
			Cause:   err,
		}
	}
	return v, nil
}

// fetch GETs a bare step and passes fetched or embedded steps through.
func (w *Walker) fetch(ctx context.Context, transport ports.Transport, step *domain.Step) (*domain.Step, error) {
	if step.Embedded() || step.Fetched() {
		return step, nil
	}
	if step.URI == "" {
		return nil, &domain.AddressResolutionError{Message: "step has neither a URI nor a document"}
	}
	if transport == nil {
		return nil, &domain.ConfigError{Option: "transport", Message: "no transport configured"}
	}
	w.logger.Debug("fetching", "uri", step.URI)
	resp, err := transport.Do(ctx, http.MethodGet, step.URI, domain.RequestOptions{})
	if err != nil {
		return nil, err
	}
	return &domain.Step{URI: step.URI, Response: resp}, nil
}

// document returns the JSON object a step stands for.
func document(step *domain.Step) (map[string]any, error) {
	if step.Doc != nil {
		return step.Doc, nil
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(step.Response.Body), &doc); err != nil {
		return nil, &domain.ParseError{
			URI:     step.URI,
			Message: "expected a JSON object",
			Doc:     step.Response.Body,
			Cause:   err,
		}
	}
	return doc, nil
}

func parseOrRaw(body string) any {
	var v any
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return body
	}
	return v
}

func failure(hop int, rel string, last *domain.Step, cause error) error {
	resp, uri := last.Context()
	return &domain.TraversalError{
		Hop:      hop,
		Relation: rel,
		URI:      uri,
		Response: resp,
		Cause:    cause,
	}
}

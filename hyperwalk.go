package hyperwalk

import (
	"context"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/hyperwalk/internal/logging"
	"github.com/aretw0/hyperwalk/internal/walker"
	"github.com/aretw0/hyperwalk/pkg/domain"
	"github.com/aretw0/hyperwalk/pkg/ports"
	"github.com/aretw0/hyperwalk/pkg/transport"
	"github.com/google/uuid"
)

// Builder configures and runs one traversal.
// It owns its Walker and shares a single Traversal configuration with it.
// A Builder runs at most one terminal action; use Clone for another traversal.
// Once that action has started the configuration is frozen.
type Builder struct {
	traversal *ports.Traversal
	walker    ports.Walker
	mediaType string
	id        string

	mu   sync.Mutex // guards used and writes to traversal
	used bool

	logger  *slog.Logger
	base    *slog.Logger
	hooks   domain.LifecycleHooks
	factory WalkerFactory

	custom      ports.Transport
	clientOpts  []transport.Option
	requestOpts []transport.Option
}

// WalkerFactory creates the Walker for a media type.
// Custom factories add media types without touching the orchestrator.
type WalkerFactory func(mediaType string, t *ports.Traversal, opts ...walker.Option) (ports.Walker, error)

// Option defines a functional option for configuring the Builder.
type Option func(*Builder)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks for hops and requests.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Builder) {
		b.hooks = hooks
	}
}

// WithTransport replaces the default HTTP transport.
// A later WithRequestOptions call swaps it for a default transport again.
func WithTransport(t ports.Transport) Option {
	return func(b *Builder) {
		b.custom = t
	}
}

// WithHTTPClient makes the default transport use hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(b *Builder) {
		b.clientOpts = append(b.clientOpts, transport.WithHTTPClient(hc))
	}
}

// WithTransportOptions configures the default transport.
// Unlike WithRequestOptions these accumulate and survive Clone.
func WithTransportOptions(opts ...transport.Option) Option {
	return func(b *Builder) {
		b.clientOpts = append(b.clientOpts, opts...)
	}
}

// WithWalkerFactory replaces the media type switch used at construction.
func WithWalkerFactory(f WalkerFactory) Option {
	return func(b *Builder) {
		if f != nil {
			b.factory = f
		}
	}
}

func defaultFactory(mediaType string, t *ports.Traversal, opts ...walker.Option) (ports.Walker, error) {
	w, err := walker.New(mediaType, t, opts...)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// New creates a Builder for startURI whose documents use mediaType.
// An unsupported media type or a start URI that is not absolute fails with a
// *domain.ConfigError before any request is made.
func New(mediaType, startURI string, opts ...Option) (*Builder, error) {
	if err := validateStartURI(startURI); err != nil {
		return nil, err
	}

	b := &Builder{
		traversal: &ports.Traversal{StartURI: startURI},
		id:        uuid.NewString(),
		factory:   defaultFactory,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logging.NewNop()
	}
	b.base = b.logger
	b.logger = b.logger.With("traversal", b.id)
	b.traversal.Transport = b.buildTransport()

	w, err := b.factory(mediaType, b.traversal,
		walker.WithLogger(b.logger),
		walker.WithLifecycleHooks(b.hooks),
		walker.WithTraversalID(b.id),
	)
	if err != nil {
		return nil, err
	}
	b.walker = w
	b.mediaType = mediaType
	return b, nil
}

func validateStartURI(startURI string) error {
	if startURI == "" {
		return &domain.ConfigError{Option: "start URI", Message: "must not be empty"}
	}
	u, err := url.Parse(startURI)
	if err != nil {
		if strings.Contains(startURI, "{") {
			// Templated hosts are only checked after expansion.
			return nil
		}
		return &domain.ConfigError{Option: "start URI", Value: startURI, Cause: err}
	}
	if !u.IsAbs() || u.Host == "" {
		return &domain.ConfigError{Option: "start URI", Value: startURI, Message: "must be an absolute URI"}
	}
	return nil
}

func (b *Builder) buildTransport() ports.Transport {
	if b.custom != nil && b.requestOpts == nil {
		return b.custom
	}
	opts := []transport.Option{transport.WithObserver(b.observe)}
	opts = append(opts, b.clientOpts...)
	opts = append(opts, b.requestOpts...)
	return transport.New(opts...)
}

func (b *Builder) observe(ctx context.Context, e *domain.RequestEvent) {
	e.TraversalID = b.id
	b.hooks.EmitRequest(ctx, e)
}

// Follow sets the ordered chain of link relations to follow.
// Follow(a, b, c) and Follow([]string{a, b, c}...) are equivalent.
func (b *Builder) Follow(rels ...string) *Builder {
	b.configure("follow", func() {
		b.traversal.Links = slices.Clone(rels)
	})
	return b
}

// Walk is an alias for Follow.
func (b *Builder) Walk(rels ...string) *Builder {
	return b.Follow(rels...)
}

// WithTemplateParameters sets the values used to expand URI templates.
func (b *Builder) WithTemplateParameters(params map[string]any) *Builder {
	b.configure("template parameters", func() {
		b.traversal.TemplateParameters = maps.Clone(params)
	})
	return b
}

// WithRequestOptions replaces the transport with a default one configured by
// opts. Intermediate hops and the terminal request both use it. Each call
// replaces the options of the previous one.
func (b *Builder) WithRequestOptions(opts ...transport.Option) *Builder {
	b.configure("request options", func() {
		if b.custom != nil {
			b.logger.Debug("request options replace the custom transport")
		}
		b.requestOpts = append([]transport.Option{}, opts...)
		b.traversal.Transport = b.buildTransport()
	})
	return b
}

// configure applies fn unless a terminal action has started. Changes made
// after that point are dropped so the running traversal keeps its settings.
func (b *Builder) configure(what string, fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.used {
		b.logger.Warn("ignoring reconfiguration of a traversal in flight", "option", what)
		return
	}
	fn()
}

// Clone returns an unused Builder with a copy of b's configuration.
func (b *Builder) Clone() (*Builder, error) {
	b.mu.Lock()
	cfg := b.traversal.Snapshot()
	custom := b.custom
	clientOpts := slices.Clone(b.clientOpts)
	requestOpts := slices.Clone(b.requestOpts)
	b.mu.Unlock()

	opts := []Option{
		WithLogger(b.base),
		WithLifecycleHooks(b.hooks),
		WithWalkerFactory(b.factory),
		func(c *Builder) {
			c.custom = custom
			c.clientOpts = clientOpts
			c.requestOpts = requestOpts
		},
	}
	c, err := New(b.mediaType, cfg.StartURI, opts...)
	if err != nil {
		return nil, err
	}
	return c.Follow(cfg.Links...).WithTemplateParameters(cfg.TemplateParameters), nil
}

// ID returns the traversal identifier attached to logs and events.
func (b *Builder) ID() string {
	return b.id
}

// StartURI returns the start URI.
func (b *Builder) StartURI() string {
	return b.traversal.StartURI
}

// MediaType returns the media type the Builder was created with.
func (b *Builder) MediaType() string {
	return b.mediaType
}

// Links returns a copy of the configured relation chain.
func (b *Builder) Links() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.traversal.Links)
}

// TemplateParameters returns a copy of the configured template parameters.
func (b *Builder) TemplateParameters() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return maps.Clone(b.traversal.TemplateParameters)
}

// Transport returns the transport currently shared with the Walker.
func (b *Builder) Transport() ports.Transport {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.traversal.Transport
}

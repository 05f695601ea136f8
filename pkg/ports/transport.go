package ports

import (
	"context"
	"maps"
	"slices"

	"github.com/aretw0/hyperwalk/pkg/domain"
)

// Transport issues a single HTTP request and reads the whole response.
type Transport interface {
	// Do sends method to uri. A non-2xx status is not an error at this level.
	Do(ctx context.Context, method, uri string, opts domain.RequestOptions) (*domain.Response, error)
}

// Traversal is the configuration of one logical traversal.
// The orchestrator owns it and its Walker holds the same pointer, so a
// transport replaced on one is observed by the other.
type Traversal struct {
	StartURI           string
	Links              []string
	TemplateParameters map[string]any
	Transport          Transport
}

// Snapshot returns a copy whose Links and TemplateParameters can no longer be
// changed through t.
func (t *Traversal) Snapshot() Traversal {
	return Traversal{
		StartURI:           t.StartURI,
		Links:              slices.Clone(t.Links),
		TemplateParameters: maps.Clone(t.TemplateParameters),
		Transport:          t.Transport,
	}
}

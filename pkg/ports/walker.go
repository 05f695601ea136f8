package ports

import (
	"context"

	"github.com/aretw0/hyperwalk/pkg/domain"
)

// Walker is the link walking engine for one media type.
// Implementations read their configuration from a shared *Traversal.
type Walker interface {
	// Walk follows every configured relation in order, one hop at a time.
	// It returns the terminal step (possibly unfetched) and the step right before it.
	// On failure, last is the last node that was successfully reached.
	Walk(ctx context.Context) (next, last *domain.Step, err error)

	// Process materializes a step: a bare URI is fetched, a fetched or
	// embedded step is returned unchanged.
	Process(ctx context.Context, step *domain.Step) (*domain.Step, error)

	// CheckHTTPStatus returns an error carrying the body when the step's
	// response is not a 2xx.
	CheckHTTPStatus(step *domain.Step) error

	// Parse decodes the body of a fetched step.
	Parse(step *domain.Step) (any, error)
}

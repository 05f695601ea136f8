package walker

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/aretw0/hyperwalk/pkg/domain"
)

// resolver decides which node a relation points to inside a document.
type resolver interface {
	resolve(doc map[string]any, rel string) (target, error)
	relations(doc map[string]any) []Relation
}

// target is what a resolver found: either an address or an embedded document.
type target struct {
	href      string
	templated bool
	embedded  map[string]any
}

// step turns the target into the next traversal position.
func (t target) step(base string, params map[string]any) (*domain.Step, error) {
	if t.embedded != nil {
		return &domain.Step{Doc: t.embedded}, nil
	}
	href := t.href
	if t.templated {
		expanded, err := expand(href, params)
		if err != nil {
			return nil, err
		}
		href = expanded
	}
	uri, err := resolveReference(base, href)
	if err != nil {
		return nil, err
	}
	return &domain.Step{URI: uri}, nil
}

// resolveReference resolves href against base; absolute hrefs are kept.
func resolveReference(base, href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid link %q: %w", href, err)
	}
	if ref.IsAbs() || base == "" {
		return ref.String(), nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base %q: %w", base, err)
	}
	return b.ResolveReference(ref).String(), nil
}

// splitIndex parses "rel[2]" into ("rel", 2). Without a suffix the index is 0.
func splitIndex(rel string) (string, int, error) {
	open := strings.LastIndexByte(rel, '[')
	if open <= 0 || !strings.HasSuffix(rel, "]") {
		return rel, 0, nil
	}
	idx, err := strconv.Atoi(rel[open+1 : len(rel)-1])
	if err != nil || idx < 0 {
		return "", 0, fmt.Errorf("invalid index in relation %q", rel)
	}
	return rel[:open], idx, nil
}

func notFound(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrLinkNotFound}, args...)...)
}

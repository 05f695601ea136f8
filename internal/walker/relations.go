package walker

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/aretw0/hyperwalk/pkg/domain"
)

// Relation describes one relation a document offers.
type Relation struct {
	Name      string `json:"name" yaml:"name"`
	Href      string `json:"href,omitempty" yaml:"href,omitempty"`
	Templated bool   `json:"templated,omitempty" yaml:"templated,omitempty"`
	Embedded  bool   `json:"embedded,omitempty" yaml:"embedded,omitempty"`
	// Count is the number of links or embedded resources under Name.
	Count int `json:"count" yaml:"count"`
}

// Relations lists the relations doc offers when read as mediaType, sorted by
// name. An unknown media type is a *domain.ConfigError.
func Relations(mediaType string, doc map[string]any) ([]Relation, error) {
	_, r, err := selectResolver(mediaType)
	if err != nil {
		return nil, err
	}
	rels := r.relations(doc)
	// Embedded entries come first, as they win during resolution.
	slices.SortStableFunc(rels, func(a, b Relation) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return rels, nil
}

func (halResolver) relations(doc map[string]any) []Relation {
	var out []Relation
	embedded, _ := doc[domain.KeyEmbedded].(map[string]any)
	for _, name := range slices.Sorted(maps.Keys(embedded)) {
		out = append(out, Relation{Name: name, Embedded: true, Count: count(embedded[name])})
	}

	links, _ := doc[domain.KeyLinks].(map[string]any)
	for _, name := range slices.Sorted(maps.Keys(links)) {
		v := links[name]
		rel := Relation{Name: name, Count: count(v)}
		if first, ok := pick(v, 0); ok {
			if link, ok := first.(map[string]any); ok {
				rel.Href, _ = link[domain.KeyHref].(string)
				rel.Templated, _ = link[domain.KeyTemplate].(bool)
			}
		}
		out = append(out, rel)
	}
	return out
}

func (jsonResolver) relations(doc map[string]any) []Relation {
	var out []Relation
	var walk func(prefix string, obj map[string]any)
	walk = func(prefix string, obj map[string]any) {
		for _, key := range slices.Sorted(maps.Keys(obj)) {
			switch v := obj[key].(type) {
			case string:
				if looksLikeURI(v) {
					name := key
					if prefix != "" {
						name = prefix + "." + key
					}
					out = append(out, Relation{Name: name, Href: v, Templated: isTemplate(v), Count: 1})
				}
			case map[string]any:
				walk(strings.TrimPrefix(prefix+"."+key, "."), v)
			}
		}
	}
	walk("", doc)

	for i, r := range out {
		if strings.Contains(r.Name, ".") {
			out[i].Name = "$." + r.Name
		}
	}
	return out
}

func looksLikeURI(s string) bool {
	return strings.HasPrefix(s, "/") || strings.Contains(s, "://")
}

func count(v any) int {
	switch x := v.(type) {
	case nil:
		return 0
	case []any:
		return len(x)
	default:
		return 1
	}
}

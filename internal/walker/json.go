package walker

import (
	"strings"
)

// jsonResolver treats a relation as a property whose string value is the
// next URI. "$.a.b" addresses a nested property.
type jsonResolver struct{}

func (jsonResolver) resolve(doc map[string]any, rel string) (target, error) {
	var value any = doc
	path := []string{rel}
	if strings.HasPrefix(rel, "$.") {
		path = strings.Split(strings.TrimPrefix(rel, "$."), ".")
	}

	for _, key := range path {
		obj, ok := value.(map[string]any)
		if !ok {
			return target{}, notFound("%q is not an object at %q", rel, key)
		}
		if value, ok = obj[key]; !ok {
			return target{}, notFound("no property %q", rel)
		}
	}

	href, ok := value.(string)
	if !ok || href == "" {
		return target{}, notFound("property %q does not hold a URI", rel)
	}
	return target{href: href, templated: isTemplate(href)}, nil
}

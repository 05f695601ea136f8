package walker

import (
	"github.com/aretw0/hyperwalk/pkg/domain"
)

// halResolver follows HAL documents. An embedded resource wins over a link of
// the same relation, which saves a request.
type halResolver struct{}

func (halResolver) resolve(doc map[string]any, rel string) (target, error) {
	name, idx, err := splitIndex(rel)
	if err != nil {
		return target{}, err
	}

	if embedded, ok := doc[domain.KeyEmbedded].(map[string]any); ok {
		if item, found := pick(embedded[name], idx); found {
			if res, ok := item.(map[string]any); ok {
				return target{embedded: res}, nil
			}
		}
	}

	links, _ := doc[domain.KeyLinks].(map[string]any)
	item, found := pick(links[name], idx)
	if !found {
		return target{}, notFound("no link or embedded resource rel=%q", rel)
	}
	link, ok := item.(map[string]any)
	if !ok {
		return target{}, notFound("link rel=%q is not an object", rel)
	}
	href, _ := link[domain.KeyHref].(string)
	if href == "" {
		return target{}, notFound("link rel=%q has no href", rel)
	}
	templated, _ := link[domain.KeyTemplate].(bool)
	return target{href: href, templated: templated}, nil
}

// pick returns v itself (idx 0) or the idx-th element when v is an array.
func pick(v any, idx int) (any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case []any:
		if idx >= len(x) {
			return nil, false
		}
		return x[idx], true
	default:
		return x, idx == 0
	}
}

// SelfHref returns the href of the self link of a HAL document.
func SelfHref(doc map[string]any) (string, bool) {
	links, _ := doc[domain.KeyLinks].(map[string]any)
	self, _ := links[domain.KeySelf].(map[string]any)
	href, _ := self[domain.KeyHref].(string)
	return href, href != ""
}

package walker

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yosida95/uritemplate/v3"
)

func isTemplate(s string) bool {
	return strings.Contains(s, "{")
}

// Expand expands uri with params when it is a URI template and returns it
// unchanged otherwise.
func Expand(uri string, params map[string]any) (string, error) {
	if !isTemplate(uri) {
		return uri, nil
	}
	return expand(uri, params)
}

// expand applies RFC 6570 expansion with params.
func expand(tmpl string, params map[string]any) (string, error) {
	t, err := uritemplate.New(tmpl)
	if err != nil {
		return "", fmt.Errorf("invalid uri template %q: %w", tmpl, err)
	}
	out, err := t.Expand(values(params))
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", tmpl, err)
	}
	return out, nil
}

func values(params map[string]any) uritemplate.Values {
	vals := uritemplate.Values{}
	for name, v := range params {
		switch x := v.(type) {
		case nil:
		case string:
			vals.Set(name, uritemplate.String(x))
		case []string:
			vals.Set(name, uritemplate.List(x...))
		case []any:
			list := make([]string, 0, len(x))
			for _, item := range x {
				list = append(list, fmt.Sprint(item))
			}
			vals.Set(name, uritemplate.List(list...))
		case map[string]string:
			vals.Set(name, uritemplate.KV(pairs(x)...))
		case map[string]any:
			m := make(map[string]string, len(x))
			for k, item := range x {
				m[k] = fmt.Sprint(item)
			}
			vals.Set(name, uritemplate.KV(pairs(m)...))
		default:
			vals.Set(name, uritemplate.String(fmt.Sprint(x)))
		}
	}
	return vals
}

// pairs flattens m into sorted key, value, key, value...
func pairs(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	kv := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		kv = append(kv, k, m[k])
	}
	return kv
}

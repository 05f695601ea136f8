package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/hyperwalk"
	"github.com/aretw0/hyperwalk/pkg/domain"
)

// Traversal is what a command line asks for.
type Traversal struct {
	StartURI string
	Follow   []string
	Params   map[string]any
	Hooks    domain.LifecycleHooks
}

// NewBuilder creates the Builder for t configured by c.
func (c *Config) NewBuilder(t Traversal, logger *slog.Logger) (*hyperwalk.Builder, error) {
	b, err := hyperwalk.New(c.MediaType, t.StartURI,
		hyperwalk.WithLogger(logger),
		hyperwalk.WithLifecycleHooks(t.Hooks),
	)
	if err != nil {
		return nil, err
	}
	b.Follow(t.Follow...).WithTemplateParameters(t.Params)
	if opts := c.TransportOptions(); len(opts) > 0 {
		b.WithRequestOptions(opts...)
	}
	return b, nil
}

// ParseParams turns key=value pairs into template parameters.
// A repeated key collects its values into a list.
func ParseParams(pairs []string) (map[string]any, error) {
	params := map[string]any{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", pair)
		}
		switch prev := params[key].(type) {
		case nil:
			params[key] = value
		case string:
			params[key] = []string{prev, value}
		case []string:
			params[key] = append(prev, value)
		}
	}
	return params, nil
}

// ParseHeaders turns "Name: value" strings into a header map.
func ParseHeaders(lines []string) (map[string]string, error) {
	headers := map[string]string{}
	for _, line := range lines {
		name, value, ok := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q, expected 'Name: value'", line)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}

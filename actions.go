package hyperwalk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"

	"github.com/aretw0/hyperwalk/internal/walker"
	"github.com/aretw0/hyperwalk/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Terminal actions.
//
// Every action walks the configured chain first. When the walk fails, the
// returned error is a *domain.TraversalError describing the last node that
// was reached, and the action also returns that node's response (and URI for
// the write verbs) so callers can see how far the traversal got.

// Get follows the chain and fetches the terminal resource.
// For an embedded terminal resource no request is made and a synthetic
// response (Synthetic set, status 200, JSON body) is returned instead.
func (b *Builder) Get(ctx context.Context) (*domain.Response, error) {
	if err := b.begin(); err != nil {
		return nil, err
	}
	next, last, err := b.walker.Walk(ctx)
	if err != nil {
		resp, _ := last.Context()
		return resp, err
	}

	step, err := b.walker.Process(ctx, next)
	if err != nil {
		resp, _ := step.Context()
		return resp, err
	}
	if step.Response == nil && step.Doc != nil {
		b.logger.Debug("faking HTTP response for embedded resource")
		return domain.SyntheticResponse(step.Doc)
	}
	return step.Response, nil
}

// GetResource follows the chain and returns the parsed terminal resource.
// Embedded resources are returned as-is. A non-2xx status or an unparsable
// body fails, and the rejected document (see domain.DocumentOf) is returned
// alongside the error. When the walk or the terminal fetch fails, the
// *domain.Response of the last reached node (if any) is returned instead.
func (b *Builder) GetResource(ctx context.Context) (any, error) {
	if err := b.begin(); err != nil {
		return nil, err
	}
	next, last, err := b.walker.Walk(ctx)
	if err != nil {
		return responseOf(last), err
	}

	step, err := b.walker.Process(ctx, next)
	if err != nil {
		return responseOf(step), err
	}
	if step.Doc != nil {
		return step.Doc, nil
	}
	return b.shapeResource(step)
}

// responseOf returns the response of step as an untyped value, or nil.
func responseOf(step *domain.Step) any {
	if resp, _ := step.Context(); resp != nil {
		return resp
	}
	return nil
}

// GetResourceInto runs GetResource and decodes the result into out, which
// must be a pointer. Struct fields are matched by their json tag names.
func (b *Builder) GetResourceInto(ctx context.Context, out any) error {
	res, err := b.GetResource(ctx)
	if err != nil {
		return err
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return &domain.ConfigError{Option: "out", Value: fmt.Sprintf("%T", out), Cause: err}
	}
	if err := dec.Decode(res); err != nil {
		return &domain.ParseError{Message: "cannot decode resource", Doc: res, Cause: err}
	}
	return nil
}

// shapeResource validates and parses a fetched terminal step.
// A panicking walker is reported as a *domain.ParseError.
func (b *Builder) shapeResource(step *domain.Step) (res any, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, uri := step.Context()
			var body any
			if resp != nil {
				body = resp.Body
			}
			res, err = body, &domain.ParseError{URI: uri, Message: fmt.Sprintf("walker panic: %v", r), Doc: body}
		}
	}()

	if err := b.walker.CheckHTTPStatus(step); err != nil {
		doc, _ := domain.DocumentOf(err)
		return doc, err
	}
	res, err = b.walker.Parse(step)
	if err != nil {
		doc, _ := domain.DocumentOf(err)
		return doc, err
	}
	return res, nil
}

// GetURI follows the chain and returns the address of the terminal resource
// without requesting it. For an embedded resource the address is the start
// URI joined with its self link; without one it fails with a
// *domain.AddressResolutionError. On a walk failure the URI of the last
// reached node is returned with the error.
func (b *Builder) GetURI(ctx context.Context) (string, error) {
	if err := b.begin(); err != nil {
		return "", err
	}
	next, last, err := b.walker.Walk(ctx)
	if err != nil {
		_, uri := last.Context()
		return uri, err
	}
	return b.address(next)
}

// Post follows the chain and POSTs body, serialized as JSON, to the terminal
// address. A nil body sends no body. It returns the response and the address.
func (b *Builder) Post(ctx context.Context, body any) (*domain.Response, string, error) {
	return b.walkAndExecute(ctx, http.MethodPost, body)
}

// Put is like Post with the PUT verb.
func (b *Builder) Put(ctx context.Context, body any) (*domain.Response, string, error) {
	return b.walkAndExecute(ctx, http.MethodPut, body)
}

// Patch is like Post with the PATCH verb.
func (b *Builder) Patch(ctx context.Context, body any) (*domain.Response, string, error) {
	return b.walkAndExecute(ctx, http.MethodPatch, body)
}

// Delete follows the chain and sends DELETE, without a body, to the terminal address.
func (b *Builder) Delete(ctx context.Context) (*domain.Response, string, error) {
	return b.walkAndExecute(ctx, http.MethodDelete, nil)
}

func (b *Builder) walkAndExecute(ctx context.Context, method string, body any) (*domain.Response, string, error) {
	if err := b.begin(); err != nil {
		return nil, "", err
	}
	next, last, err := b.walker.Walk(ctx)
	if err != nil {
		resp, uri := last.Context()
		return resp, uri, err
	}

	uri, err := b.address(next)
	if err != nil {
		return nil, "", err
	}
	return b.executeRequest(ctx, method, uri, body)
}

func (b *Builder) executeRequest(ctx context.Context, method, uri string, body any) (*domain.Response, string, error) {
	var opts domain.RequestOptions
	if !isNil(body) {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, uri, &domain.ParseError{URI: uri, Message: "cannot serialize request body", Cause: err}
		}
		opts.Body = data
	}

	b.logger.Debug("executing request", "method", method, "uri", uri, "body_bytes", len(opts.Body))
	resp, err := b.traversal.Transport.Do(ctx, method, uri, opts)
	if err != nil {
		return resp, uri, err
	}
	return resp, uri, nil
}

// isNil reports whether body is nil or a typed nil pointer, map, slice,
// interface, func or chan.
func isNil(body any) bool {
	if body == nil {
		return true
	}
	v := reflect.ValueOf(body)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// address returns the terminal address of step. Embedded resources are
// addressed relative to the expanded start URI.
func (b *Builder) address(step *domain.Step) (string, error) {
	if step.URI != "" {
		return step.URI, nil
	}
	if href, ok := walker.SelfHref(step.Doc); ok {
		start, err := walker.Expand(b.traversal.StartURI, b.traversal.TemplateParameters)
		if err != nil {
			return "", &domain.AddressResolutionError{Message: "cannot expand start URI", Cause: err}
		}
		return start + href, nil
	}
	return "", &domain.AddressResolutionError{
		Message: `the last resource is an embedded resource and has no URI of its own (no link with rel="self")`,
	}
}

// begin marks the Builder as used and freezes its configuration.
// Only the first terminal action may run.
func (b *Builder) begin() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.used {
		return domain.ErrBuilderUsed
	}
	b.used = true
	return nil
}

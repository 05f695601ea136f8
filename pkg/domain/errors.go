package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// Each typed error below matches its sentinel.
var (
	// ErrConfig indicates an invalid configuration (e.g. unsupported media type).
	ErrConfig = errors.New("configuration error")

	// ErrTraversal indicates a hop failed while walking the link chain.
	ErrTraversal = errors.New("traversal error")

	// ErrMaterialization indicates the terminal node could not be fetched.
	ErrMaterialization = errors.New("materialization error")

	// ErrHTTPStatus indicates a response with a non-2xx status code.
	ErrHTTPStatus = errors.New("http status error")

	// ErrAddressResolution indicates a node has no address of its own.
	ErrAddressResolution = errors.New("address resolution error")

	// ErrTransport indicates the transport could not complete a request.
	ErrTransport = errors.New("transport error")

	// ErrParse indicates a body could not be decoded or encoded.
	ErrParse = errors.New("parse error")

	// ErrLinkNotFound is returned when a document has no link for a relation.
	ErrLinkNotFound = errors.New("link not found")

	// ErrBuilderUsed is returned when a terminal action runs twice on one builder.
	ErrBuilderUsed = errors.New("builder already used for a traversal")
)

// ConfigError represents an invalid configuration or input.
// It is always raised before any network activity.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// TraversalError represents a failure while following the link chain.
// URI and Response describe the last node that was successfully reached.
type TraversalError struct {
	// Hop is the zero-based index of the relation being resolved
	Hop int
	// Relation is the link relation being resolved
	Relation string
	// URI is the address of the last reached node (empty if it was embedded)
	URI string
	// Response is the response of the last reached node (nil if none)
	Response *Response
	// Cause is the underlying error
	Cause error
}

// Error returns a human-readable error message.
func (e *TraversalError) Error() string {
	msg := "traversal error"
	if e.Relation != "" {
		msg += fmt.Sprintf(" at hop %d (%s)", e.Hop, e.Relation)
	}
	if e.URI != "" {
		msg += " from " + e.URI
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *TraversalError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *TraversalError) Is(target error) bool {
	return target == ErrTraversal
}

// Document returns the document attached to the cause, if any.
func (e *TraversalError) Document() any {
	doc, _ := DocumentOf(e.Cause)
	return doc
}

// MaterializationError represents a failure to fetch the terminal node.
type MaterializationError struct {
	// URI is the terminal node address
	URI string
	// Response is whatever partial response was obtained (may be nil)
	Response *Response
	// Cause is the underlying error
	Cause error
}

// Error returns a human-readable error message.
func (e *MaterializationError) Error() string {
	msg := "materialization error"
	if e.URI != "" {
		msg += " for " + e.URI
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *MaterializationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *MaterializationError) Is(target error) bool {
	return target == ErrMaterialization
}

// HTTPStatusError represents a response that arrived but carried a non-2xx status.
type HTTPStatusError struct {
	// URI is the requested address
	URI string
	// StatusCode is the received status
	StatusCode int
	// Body is the raw response body
	Body string
	// Doc is the parsed JSON body, or Body itself when it is not JSON
	Doc any
}

// Error returns a human-readable error message.
func (e *HTTPStatusError) Error() string {
	msg := fmt.Sprintf("http status error: %d", e.StatusCode)
	if e.URI != "" {
		msg += " for " + e.URI
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *HTTPStatusError) Is(target error) bool {
	return target == ErrHTTPStatus
}

// Document returns the rejected document.
func (e *HTTPStatusError) Document() any {
	return e.Doc
}

// AddressResolutionError is returned when an address is requested for an
// embedded resource that exposes no self link.
type AddressResolutionError struct {
	// Relation is the relation that led to the embedded resource
	Relation string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *AddressResolutionError) Error() string {
	msg := "address resolution error"
	if e.Relation != "" {
		msg += " for " + e.Relation
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *AddressResolutionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *AddressResolutionError) Is(target error) bool {
	return target == ErrAddressResolution
}

// TransportError wraps a failure reported by the underlying HTTP client.
// The cause is kept as-is so callers can inspect net or url errors.
type TransportError struct {
	// Method is the HTTP verb
	Method string
	// URI is the requested address
	URI string
	// Cause is the client error
	Cause error
}

// Error returns a human-readable error message.
func (e *TransportError) Error() string {
	msg := "transport error"
	if e.Method != "" || e.URI != "" {
		msg += fmt.Sprintf(" (%s %s)", e.Method, e.URI)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// ParseError represents a body that could not be decoded (or a document
// that could not be encoded).
type ParseError struct {
	// URI is the address the body came from (may be empty)
	URI string
	// Message describes the failure
	Message string
	// Doc is the rejected document, usually the raw body
	Doc any
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.URI != "" {
		msg += " in " + e.URI
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// Document returns the rejected document.
func (e *ParseError) Document() any {
	return e.Doc
}

// documented is implemented by errors that carry a rejected document.
type documented interface {
	Document() any
}

// DocumentOf returns the document attached to err or any error it wraps.
func DocumentOf(err error) (any, bool) {
	var d documented
	if errors.As(err, &d) {
		if doc := d.Document(); doc != nil {
			return doc, true
		}
	}
	return nil, false
}

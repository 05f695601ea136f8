// Package transport provides the default HTTP transport used by hyperwalk.
//
// A Client is immutable once built and safe for concurrent use. Every request
// is wrapped in an OpenTelemetry client span and reported to observers.
package transport

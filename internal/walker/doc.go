// Package walker implements the link walking engines behind hyperwalk.
//
// A Walker runs the same sequential hop loop for every media type and
// delegates the "which node is next" decision to a resolver: plain JSON
// properties, or HAL _links and _embedded.
package walker

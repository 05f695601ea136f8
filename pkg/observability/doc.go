/*
Package observability exposes traversal activity as Prometheus metrics.

Metrics plugs into a Builder through lifecycle hooks:

	m := observability.NewMetrics(prometheus.DefaultRegisterer)
	b, err := hyperwalk.New(domain.MediaTypeJSONHAL, uri, hyperwalk.WithLifecycleHooks(m.Hooks()))

Hops are counted by whether they were resolved from an embedded document, and
requests by method and status code.
*/
package observability

package observability

import (
	"context"
	"errors"
	"strconv"

	"github.com/aretw0/hyperwalk/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the traversal collectors.
type Metrics struct {
	Hops            *prometheus.CounterVec
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
// Collectors already registered on reg are reused, so several Metrics
// values may share one registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Hops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hyperwalk_hops_total",
				Help: "Total number of link relations followed",
			},
			[]string{"embedded"},
		),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hyperwalk_requests_total",
				Help: "Total number of HTTP requests, by method and status code",
			},
			[]string{"method", "code"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hyperwalk_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}

	var err error
	if m.Hops, err = register(reg, m.Hops); err != nil {
		return nil, err
	}
	if m.Requests, err = register(reg, m.Requests); err != nil {
		return nil, err
	}
	if m.RequestDuration, err = register(reg, m.RequestDuration); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Hooks returns lifecycle hooks feeding m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnHop:     m.observeHop,
		OnRequest: m.observeRequest,
	}
}

func (m *Metrics) observeHop(_ context.Context, e *domain.HopEvent) {
	m.Hops.WithLabelValues(strconv.FormatBool(e.Embedded)).Inc()
}

func (m *Metrics) observeRequest(_ context.Context, e *domain.RequestEvent) {
	code := "error"
	if e.Err == nil {
		code = strconv.Itoa(e.StatusCode)
	}
	m.Requests.WithLabelValues(e.Method, code).Inc()
	m.RequestDuration.WithLabelValues(e.Method).Observe(e.Duration.Seconds())
}

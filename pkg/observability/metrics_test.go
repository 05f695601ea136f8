package observability_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/aretw0/hyperwalk"
	"github.com/aretw0/hyperwalk/internal/testutils"
	"github.com/aretw0/hyperwalk/pkg/domain"
	"github.com/aretw0/hyperwalk/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	hooks := m.Hooks()
	ctx := context.Background()
	hooks.EmitHop(ctx, &domain.HopEvent{Relation: "orders"})
	hooks.EmitHop(ctx, &domain.HopEvent{Relation: "order", Embedded: true})
	hooks.EmitHop(ctx, &domain.HopEvent{Relation: "customer", Embedded: true})
	hooks.EmitRequest(ctx, &domain.RequestEvent{Method: http.MethodGet, StatusCode: http.StatusOK, Duration: time.Millisecond})
	hooks.EmitRequest(ctx, &domain.RequestEvent{Method: http.MethodPost, Err: errors.New("refused")})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Hops.WithLabelValues("false")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Hops.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodGet, "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodPost, "error")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.RequestDuration))
}

func TestNewMetrics_SharesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m1, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	m2, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	m2.Hooks().EmitHop(context.Background(), &domain.HopEvent{})
	assert.Equal(t, 1.0, testutil.ToFloat64(m1.Hops.WithLabelValues("false")))
}

func TestMetrics_CountTraversal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	ft := testutils.NewFakeTransport()
	ft.RespondJSON(t, "http://api.example.com", map[string]any{
		"_embedded": map[string]any{"order": map[string]any{"id": 1}},
	})

	b, err := hyperwalk.New(domain.MediaTypeJSONHAL, "http://api.example.com",
		hyperwalk.WithTransport(ft),
		hyperwalk.WithLifecycleHooks(m.Hooks()),
	)
	require.NoError(t, err)

	_, err = b.Follow("order").Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Hops.WithLabelValues("true")))
}

package metrics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/architeacher/specargs/pkg/metrics"
	"github.com/architeacher/specargs/pkg/metrics/noop"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestOTelClient_Inc(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	client := metrics.NewOTelClient(provider, metrics.Descriptors{
		"queries.resolvespecification.success": {Description: "resolved specifications", Unit: "1"},
	})

	ctx := context.Background()
	client.Inc(ctx, "queries.resolvespecification.success", 1)
	client.Inc(ctx, "queries.resolvespecification.success", 1)
	client.Inc(ctx, "queries.resolvespecification.duration", int64(250))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	totals := make(map[string]int64)
	descriptions := make(map[string]string)

	for _, m := range rm.ScopeMetrics[0].Metrics {
		sum, ok := m.Data.(metricdata.Sum[int64])
		require.True(t, ok)

		for _, dp := range sum.DataPoints {
			totals[m.Name] += dp.Value
		}

		descriptions[m.Name] = m.Description
	}

	require.Equal(t, int64(2), totals["queries.resolvespecification.success"])
	require.Equal(t, int64(250), totals["queries.resolvespecification.duration"])
	require.Equal(t, "resolved specifications", descriptions["queries.resolvespecification.success"])

	require.NoError(t, client.Shutdown(ctx))
}

func TestNoopClient(t *testing.T) {
	t.Parallel()

	var client metrics.Client = noop.NewMetricsClient()

	client.Inc(context.Background(), "anything", 1)
	require.NotNil(t, client.Handler())
	require.NoError(t, client.Shutdown(context.Background()))
}

func TestOTelClient_SnapshotHandler(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	client := metrics.NewOTelClient(provider, nil, metrics.WithSnapshotReader(reader))

	client.Inc(context.Background(), "http_requests_total", int64(1))
	client.Inc(context.Background(), "http_requests_total", int64(1))

	rec := httptest.NewRecorder()
	client.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"http_requests_total":2}`, rec.Body.String())
}

func TestOTelClient_HandlerWithoutSnapshot(t *testing.T) {
	t.Parallel()

	client := metrics.NewOTelClient(sdkmetric.NewMeterProvider(), nil)

	rec := httptest.NewRecorder()
	client.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDescriptors_Merge(t *testing.T) {
	t.Parallel()

	base := metrics.Descriptors{
		"http_requests_total": {Description: "requests", Unit: "1"},
		"shared":              {Description: "from base"},
	}

	merged := base.Merge(metrics.Descriptors{"shared": {Description: "from override"}})

	require.Len(t, merged, 2)
	require.Equal(t, "from override", merged["shared"].Description)
	require.Equal(t, "from base", base["shared"].Description)

	require.Empty(t, metrics.Descriptors(nil).Merge())
}

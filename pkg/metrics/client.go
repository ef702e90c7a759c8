package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

const meterName = "github.com/architeacher/specargs"

// OTelClient records every Inc call on an OTEL counter named after the key.
// Counters are registered on first use. Metrics leave the process through
// the readers attached to the meter provider; Handler serves a JSON snapshot
// of the totals when a snapshot reader is configured.
type OTelClient struct {
	meter       metric.Meter
	descriptors Descriptors
	shutdown    func(ctx context.Context) error
	snapshot    *sdkmetric.ManualReader

	mu       sync.Mutex
	counters map[string]metric.Int64Counter
}

type ClientOption func(*OTelClient)

// WithSnapshotReader serves the totals collected by reader from Handler.
// The reader must be attached to the provider given to NewOTelClient.
func WithSnapshotReader(reader *sdkmetric.ManualReader) ClientOption {
	return func(c *OTelClient) {
		c.snapshot = reader
	}
}

// NewOTelClient creates a client on provider. descriptors documents known
// keys; unknown keys are registered with an empty description.
func NewOTelClient(provider metric.MeterProvider, descriptors Descriptors, opts ...ClientOption) *OTelClient {
	c := &OTelClient{
		meter:       provider.Meter(meterName),
		descriptors: descriptors,
		counters:    make(map[string]metric.Int64Counter),
	}

	if s, ok := provider.(interface{ Shutdown(context.Context) error }); ok {
		c.shutdown = s.Shutdown
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *OTelClient) Inc(ctx context.Context, key string, value any, attributes ...attribute.KeyValue) {
	counter, err := c.counter(key)
	if err != nil {
		return
	}

	counter.Add(ctx, toInt64(value), metric.WithAttributes(attributes...))
}

func (c *OTelClient) Handler() http.Handler {
	if c.snapshot == nil {
		return http.NotFoundHandler()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rm metricdata.ResourceMetrics

		if err := c.snapshot.Collect(r.Context(), &rm); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)

			return
		}

		totals := make(map[string]int64)

		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				sum, ok := m.Data.(metricdata.Sum[int64])
				if !ok {
					continue
				}

				for _, dp := range sum.DataPoints {
					totals[m.Name] += dp.Value
				}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(totals)
	})
}

func (c *OTelClient) Shutdown(ctx context.Context) error {
	if c.shutdown == nil {
		return nil
	}

	return c.shutdown(ctx)
}

func (c *OTelClient) counter(key string) (metric.Int64Counter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if counter, ok := c.counters[key]; ok {
		return counter, nil
	}

	counter, err := newInt64Counter(c.meter, key, c.descriptors[key])
	if err != nil {
		return nil, err
	}

	c.counters[key] = counter

	return counter, nil
}

func toInt64(value any) int64 {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case uint:
		return int64(v)
	case uint64:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 1
	}
}

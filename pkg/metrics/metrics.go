// Package metrics records counters keyed by name. Keys double as OTEL
// instrument names.
package metrics

import (
	"context"
	"fmt"
	"maps"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type (
	Client interface {
		// Inc adds value to the counter named key.
		Inc(ctx context.Context, key string, value any, attributes ...attribute.KeyValue)
		// Handler serves the collected metrics, or 404 when the client
		// keeps none.
		Handler() http.Handler
		Shutdown(ctx context.Context) error
	}

	Descriptor struct {
		Description string
		Unit        string
	}

	// Descriptors documents counters by key.
	Descriptors map[string]Descriptor
)

// Merge returns the union of d and others; later sets win on duplicate keys.
func (d Descriptors) Merge(others ...Descriptors) Descriptors {
	merged := maps.Clone(d)
	if merged == nil {
		merged = make(Descriptors)
	}

	for _, o := range others {
		maps.Copy(merged, o)
	}

	return merged
}

func newInt64Counter(m metric.Meter, name string, descriptor Descriptor) (metric.Int64Counter, error) {
	opts := []metric.Int64CounterOption{metric.WithDescription(descriptor.Description)}
	if descriptor.Unit != "" {
		opts = append(opts, metric.WithUnit(descriptor.Unit))
	}

	counter, err := m.Int64Counter(name, opts...)
	if err != nil {
		return nil, fmt.Errorf("registering counter %s: %w", name, err)
	}

	return counter, nil
}

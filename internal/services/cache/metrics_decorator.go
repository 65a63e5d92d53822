package cache

import (
	"context"
	"errors"
)

type cache[T any] interface {
	Set(ctx context.Context, key string, value T) error
	Get(ctx context.Context, key string) (T, error)
}

type metricsCollector interface {
	RecordCache(operation, result string)
}

// MetricsDecorator counts hits, misses and failures of the wrapped cache.
type MetricsDecorator[T any] struct {
	next      cache[T]
	collector metricsCollector
}

func NewMetricsDecorator[T any](next cache[T], collector metricsCollector) *MetricsDecorator[T] {
	return &MetricsDecorator[T]{next: next, collector: collector}
}

func (m *MetricsDecorator[T]) Set(ctx context.Context, key string, value T) error {
	err := m.next.Set(ctx, key, value)
	if err != nil {
		m.collector.RecordCache("set", "error")
	} else {
		m.collector.RecordCache("set", "ok")
	}
	return err
}

//nolint:ireturn
func (m *MetricsDecorator[T]) Get(ctx context.Context, key string) (T, error) {
	v, err := m.next.Get(ctx, key)
	switch {
	case err == nil:
		m.collector.RecordCache("get", "hit")
	case errors.Is(err, ErrMiss):
		m.collector.RecordCache("get", "miss")
	default:
		m.collector.RecordCache("get", "error")
	}
	return v, err
}

// Package metrics provides the metric source the alert evaluator reads
// from: a registry of per-metric fetchers that compute windowed aggregate
// components over raw metric events.
package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Components holds the raw aggregates computed over an evaluation window.
// Min and Max are nil when the window holds no events.
type Components struct {
	Sum   float64
	Avg   float64
	Count float64
	Min   *float64
	Max   *float64
}

// Fetcher computes window aggregates for one metric type. The query map is
// opaque rule configuration passed through from the rule definition.
type Fetcher func(ctx context.Context, query map[string]interface{}, window time.Duration) (Components, error)

// Source dispatches metric lookups to registered fetchers. Unknown metric
// types are a configuration error surfaced to the caller.
type Source struct {
	mu       sync.RWMutex
	fetchers map[string]Fetcher
}

func NewSource() *Source {
	return &Source{fetchers: make(map[string]Fetcher)}
}

func (s *Source) Register(metricType string, fetcher Fetcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchers[metricType] = fetcher
}

func (s *Source) Fetch(ctx context.Context, metricType string, query map[string]interface{}, window time.Duration) (Components, error) {
	s.mu.RLock()
	fetcher, ok := s.fetchers[metricType]
	s.mu.RUnlock()
	if !ok {
		return Components{}, fmt.Errorf("unknown metric type: %s", metricType)
	}
	return fetcher(ctx, query, window)
}

// Types returns the registered metric type keys.
func (s *Source) Types() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	types := make([]string, 0, len(s.fetchers))
	for t := range s.fetchers {
		types = append(types, t)
	}
	return types
}

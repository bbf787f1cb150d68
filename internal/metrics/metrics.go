// Package metrics provides application-level metrics collection.
// This is a lightweight metrics foundation using atomic counters.
package metrics

import (
	"sync/atomic"
	"time"
)

// Metrics holds application metrics using atomic counters for thread safety.
type Metrics struct {
	// Refresh cycle metrics
	refreshCycles    atomic.Int64
	refreshCoalesced atomic.Int64

	// Core query metrics
	coreCallsTotal   atomic.Int64
	coreErrorsTotal  atomic.Int64
	coreLatencyNanos atomic.Int64

	// Cache metrics
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64

	// Event bus metrics
	eventsPublished atomic.Int64
	eventsDropped   atomic.Int64
}

// Global is the global metrics instance.
// Use this for recording metrics throughout the application.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

// RecordRefreshCycle records a completed refresh cycle.
func (m *Metrics) RecordRefreshCycle() {
	m.refreshCycles.Add(1)
}

// RecordRefreshCoalesced records a refresh request that joined an in-flight
// cycle instead of starting its own.
func (m *Metrics) RecordRefreshCoalesced() {
	m.refreshCoalesced.Add(1)
}

// RecordCoreCall records a core balance query with its duration and outcome.
func (m *Metrics) RecordCoreCall(duration time.Duration, err error) {
	m.coreCallsTotal.Add(1)
	m.coreLatencyNanos.Add(duration.Nanoseconds())

	if err != nil {
		m.coreErrorsTotal.Add(1)
	}
}

// RecordCacheHit records a cache hit.
func (m *Metrics) RecordCacheHit() {
	m.cacheHits.Add(1)
}

// RecordCacheMiss records a cache miss.
func (m *Metrics) RecordCacheMiss() {
	m.cacheMisses.Add(1)
}

// RecordEventPublished records an event delivered to at least one subscriber.
func (m *Metrics) RecordEventPublished() {
	m.eventsPublished.Add(1)
}

// RecordEventDropped records an event dropped because a subscriber was slow.
func (m *Metrics) RecordEventDropped() {
	m.eventsDropped.Add(1)
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	RefreshCycles    int64
	RefreshCoalesced int64
	CoreCallsTotal   int64
	CoreErrorsTotal  int64
	CoreLatencyNanos int64
	CacheHits        int64
	CacheMisses      int64
	EventsPublished  int64
	EventsDropped    int64
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		RefreshCycles:    m.refreshCycles.Load(),
		RefreshCoalesced: m.refreshCoalesced.Load(),
		CoreCallsTotal:   m.coreCallsTotal.Load(),
		CoreErrorsTotal:  m.coreErrorsTotal.Load(),
		CoreLatencyNanos: m.coreLatencyNanos.Load(),
		CacheHits:        m.cacheHits.Load(),
		CacheMisses:      m.cacheMisses.Load(),
		EventsPublished:  m.eventsPublished.Load(),
		EventsDropped:    m.eventsDropped.Load(),
	}
}

// CoreLatencyAvgMs returns the average core query latency in milliseconds.
// Returns 0 if no calls have been made.
func (m *Metrics) CoreLatencyAvgMs() float64 {
	calls := m.coreCallsTotal.Load()
	if calls == 0 {
		return 0
	}
	nanos := m.coreLatencyNanos.Load()
	return float64(nanos) / float64(calls) / 1e6
}

// CacheHitRate returns the cache hit rate as a percentage (0-100).
// Returns 0 if no cache operations have occurred.
func (m *Metrics) CacheHitRate() float64 {
	hits := m.cacheHits.Load()
	misses := m.cacheMisses.Load()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// Reset resets all metrics to zero.
// Useful for testing.
func (m *Metrics) Reset() {
	m.refreshCycles.Store(0)
	m.refreshCoalesced.Store(0)
	m.coreCallsTotal.Store(0)
	m.coreErrorsTotal.Store(0)
	m.coreLatencyNanos.Store(0)
	m.cacheHits.Store(0)
	m.cacheMisses.Store(0)
	m.eventsPublished.Store(0)
	m.eventsDropped.Store(0)
}

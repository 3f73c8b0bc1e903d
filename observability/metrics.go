// Package observability keeps lightweight counters about the fan-out path
// and exposes them as a snapshot for the debug endpoint.
package observability

import (
	"log/slog"
	"runtime"
	"sync/atomic"
)

type Stats struct {
	MessagesSent    uint64 `json:"messages_sent"`
	EventsBroadcast uint64 `json:"events_broadcast"`
	EventsDropped   uint64 `json:"events_dropped"`
	LiveConnections int64  `json:"live_connections"`
	AllocMemMb      uint64 `json:"alloc_mem_mb"`
	NumGC           uint32 `json:"num_gc"`
}

// Metrics is safe for concurrent use; every counter is atomic.
type Metrics struct {
	log             *slog.Logger
	messagesSent    atomic.Uint64
	eventsBroadcast atomic.Uint64
	eventsDropped   atomic.Uint64
	liveConnections atomic.Int64
}

func NewMetrics(log *slog.Logger) *Metrics {
	return &Metrics{log: log}
}

func (m *Metrics) IncrMessagesSent() {
	m.messagesSent.Add(1)
}

func (m *Metrics) IncrEventsBroadcast() {
	m.eventsBroadcast.Add(1)
}

// IncrEventsDropped counts best-effort losses: full queues and saturated
// connection buffers.
func (m *Metrics) IncrEventsDropped() {
	m.eventsDropped.Add(1)
}

func (m *Metrics) ConnectionOpened() {
	m.liveConnections.Add(1)
}

func (m *Metrics) ConnectionClosed() {
	m.liveConnections.Add(-1)
}

func (m *Metrics) Snapshot() Stats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return Stats{
		MessagesSent:    m.messagesSent.Load(),
		EventsBroadcast: m.eventsBroadcast.Load(),
		EventsDropped:   m.eventsDropped.Load(),
		LiveConnections: m.liveConnections.Load(),
		AllocMemMb:      mem.Alloc / 1024 / 1024,
		NumGC:           mem.NumGC,
	}
}

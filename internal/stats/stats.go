// Package stats implements the process-wide Statistics collaborator of
// spec.md §6: counters the daemon maintains across all containers, exposed
// read-only through the "porto-wide statistics map" derived property.
package stats

import "sync/atomic"

// Daemon holds every counter named in §6. All fields are accessed only
// through atomic operations so readers never take a lock on the hot path.
type Daemon struct {
	Spawned         atomic.Int64
	Errors          atomic.Int64
	Warns           atomic.Int64
	QueuedStatuses  atomic.Int64
	QueuedEvents    atomic.Int64
	RemoveDead      atomic.Int64
	SlaveTimeoutMs  atomic.Int64
	RestoreFailed   atomic.Int64

	ContainersCount    atomic.Int64
	ContainersCreated  atomic.Int64
	ContainersStarted  atomic.Int64
	ContainersFailed   atomic.Int64
	ContainersOOM      atomic.Int64

	VolumesCount atomic.Int64
	ClientsCount atomic.Int64

	RequestsQueued    atomic.Int64
	RequestsCompleted atomic.Int64
	RequestsLonger1s  atomic.Int64
	RequestsLonger3s  atomic.Int64
	RequestsLonger30s atomic.Int64
	RequestsLonger5m  atomic.Int64

	EpollSources    atomic.Int64
	LogRotateBytes  atomic.Int64
	LogRotateErrors atomic.Int64

	MasterStarted atomic.Int64
	SlaveStarted  atomic.Int64
}

// New returns a fresh, zeroed counter block.
func New() *Daemon { return &Daemon{} }

// Snapshot returns the porto-wide statistics map named in §4.5's read-only
// derived property list, keyed the way the wire protocol would name them.
func (d *Daemon) Snapshot() map[string]int64 {
	return map[string]int64{
		"spawned":             d.Spawned.Load(),
		"errors":              d.Errors.Load(),
		"warnings":            d.Warns.Load(),
		"queued_statuses":     d.QueuedStatuses.Load(),
		"queued_events":       d.QueuedEvents.Load(),
		"remove_dead":         d.RemoveDead.Load(),
		"slave_timeout_ms":    d.SlaveTimeoutMs.Load(),
		"restore_failed":      d.RestoreFailed.Load(),
		"containers":          d.ContainersCount.Load(),
		"containers_created":  d.ContainersCreated.Load(),
		"containers_started":  d.ContainersStarted.Load(),
		"containers_failed":   d.ContainersFailed.Load(),
		"containers_oom":      d.ContainersOOM.Load(),
		"volumes":             d.VolumesCount.Load(),
		"clients":             d.ClientsCount.Load(),
		"requests_queued":     d.RequestsQueued.Load(),
		"requests_completed":  d.RequestsCompleted.Load(),
		"requests_longer_1s":  d.RequestsLonger1s.Load(),
		"requests_longer_3s":  d.RequestsLonger3s.Load(),
		"requests_longer_30s": d.RequestsLonger30s.Load(),
		"requests_longer_5m":  d.RequestsLonger5m.Load(),
		"epoll_sources":       d.EpollSources.Load(),
		"log_rotate_bytes":    d.LogRotateBytes.Load(),
		"log_rotate_errors":   d.LogRotateErrors.Load(),
		"master_started":      d.MasterStarted.Load(),
		"slave_started":       d.SlaveStarted.Load(),
	}
}

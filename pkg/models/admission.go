package models

import (
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// admissionGate bounds the number of concurrently open sessions. tryAcquire
// never blocks; an exhausted gate is an admission rejection, not an error.
type admissionGate struct {
	sem      *semaphore.Weighted
	capacity int64
	active   atomic.Int64
}

func newAdmissionGate(capacity int64) *admissionGate {
	return &admissionGate{
		sem:      semaphore.NewWeighted(capacity),
		capacity: capacity,
	}
}

func (g *admissionGate) tryAcquire() bool {
	if !g.sem.TryAcquire(1) {
		return false
	}
	g.active.Add(1)
	return true
}

func (g *admissionGate) release() {
	g.active.Add(-1)
	g.sem.Release(1)
}

func (g *admissionGate) activeCount() int64 {
	return g.active.Load()
}

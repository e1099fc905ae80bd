package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UserCacheHits         uint64
	UserCacheMisses       uint64
	LookupDurationCount   uint64
	LookupDurationTotalNs int64
	UsersCreated          uint64
	UsersUpdated          uint64
	UsersDeleted          uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	userCacheHits         uint64
	userCacheMisses       uint64
	lookupDurationCount   uint64
	lookupDurationTotalNs int64
	usersCreated          uint64
	usersUpdated          uint64
	usersDeleted          uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UserCacheHits:         atomic.LoadUint64(&m.userCacheHits),
		UserCacheMisses:       atomic.LoadUint64(&m.userCacheMisses),
		LookupDurationCount:   atomic.LoadUint64(&m.lookupDurationCount),
		LookupDurationTotalNs: atomic.LoadInt64(&m.lookupDurationTotalNs),
		UsersCreated:          atomic.LoadUint64(&m.usersCreated),
		UsersUpdated:          atomic.LoadUint64(&m.usersUpdated),
		UsersDeleted:          atomic.LoadUint64(&m.usersDeleted),
	}
}

// IncUserCacheHit increments cache hit counter.
func (m *InMemoryRecorder) IncUserCacheHit() {
	atomic.AddUint64(&m.userCacheHits, 1)
}

// IncUserCacheMiss increments cache miss counter.
func (m *InMemoryRecorder) IncUserCacheMiss() {
	atomic.AddUint64(&m.userCacheMisses, 1)
}

// ObserveLookupDuration records user lookup duration.
func (m *InMemoryRecorder) ObserveLookupDuration(duration time.Duration) {
	atomic.AddUint64(&m.lookupDurationCount, 1)
	atomic.AddInt64(&m.lookupDurationTotalNs, duration.Nanoseconds())
}

// IncUserCreated increments user created counter.
func (m *InMemoryRecorder) IncUserCreated() {
	atomic.AddUint64(&m.usersCreated, 1)
}

// IncUserUpdated increments user updated counter.
func (m *InMemoryRecorder) IncUserUpdated() {
	atomic.AddUint64(&m.usersUpdated, 1)
}

// IncUserDeleted increments user deleted counter.
func (m *InMemoryRecorder) IncUserDeleted() {
	atomic.AddUint64(&m.usersDeleted, 1)
}

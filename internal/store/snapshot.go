// Package store holds the current reconciled load as an immutable snapshot.
// A load builds a complete replacement snapshot and installs it with a
// single pointer swap, so readers never need a lock.
package store

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"shipment-tracker/internal/domain"
)

// Snapshot is one complete reconciled load.
type Snapshot struct {
	ID       uuid.UUID               `json:"id"`
	Records  []domain.TrackingRecord `json:"records"`
	Items    domain.ItemGroupMap     `json:"items"`
	LoadedAt time.Time               `json:"loaded_at"`
}

// Store holds the latest snapshot and the single in-flight load slot.
type Store struct {
	current atomic.Pointer[Snapshot]
	loading atomic.Bool
}

// New returns a store primed with an empty snapshot, so readers always see
// a valid (possibly empty) record set.
func New() *Store {
	s := &Store{}
	s.current.Store(&Snapshot{Items: domain.ItemGroupMap{}})
	return s
}

// Current returns the latest snapshot. Never nil.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Swap installs a freshly built snapshot and returns it.
func (s *Store) Swap(records []domain.TrackingRecord, items domain.ItemGroupMap) *Snapshot {
	if items == nil {
		items = domain.ItemGroupMap{}
	}
	snap := &Snapshot{
		ID:       uuid.New(),
		Records:  records,
		Items:    items,
		LoadedAt: time.Now(),
	}
	s.current.Store(snap)
	return snap
}

// BeginLoad acquires the single load slot. It reports false while another
// load is running; callers must not start a second load then.
func (s *Store) BeginLoad() bool {
	return s.loading.CompareAndSwap(false, true)
}

// EndLoad releases the load slot.
func (s *Store) EndLoad() {
	s.loading.Store(false)
}

// Loading reports whether a load is in flight.
func (s *Store) Loading() bool {
	return s.loading.Load()
}

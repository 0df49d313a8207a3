// Package store ties the arena allocator and an eviction policy
// together behind the Core API of spec §6 (Add/Update/Get/Delete/
// FragmentationStats/ResetStats): it is the concrete implementation of
// components C through F (Policy Index, Eviction Engine, Defragmenter,
// Admission Controller) sitting on top of package arena.
package store

import (
	"sync"

	"github.com/kvarena/pagecache/arena"
	"github.com/kvarena/pagecache/policy"
)

// Store is the cache core: one coarse mutex (spec §5) serializing every
// mutation of the arena, free list, entry table and policy index.
type Store struct {
	mu sync.Mutex

	al      *arena.Allocator
	entries *EntryTable
	policy  policy.Policy
	stats   *StatsBundle
}

// New builds a Store over a fresh arena of totalPages pages, with kind
// fixed for the lifetime of the store (spec §6 Configuration).
func New(totalPages int, kind policy.Kind) *Store {
	return newStore(totalPages, policy.New(kind, totalPages))
}

// newStore builds a Store around an already-constructed Policy,
// letting tests substitute a mock for the eviction policy to assert
// Store drives it correctly without depending on any one algorithm.
func newStore(totalPages int, p policy.Policy) *Store {
	return &Store{
		al:      arena.NewAllocator(totalPages),
		entries: NewEntryTable(),
		policy:  p,
		stats:   NewStatsBundle(),
	}
}

// Stats exposes the atomic counters bundle for lock-free reads (spec
// §5 "Statistics counters are atomic and may be read without the
// mutex").
func (s *Store) Stats() *StatsBundle { return s.stats }

// Add implements add(key, value, owner) -> Ok | KeyExists | OutOfCapacity.
func (s *Store) Add(key, ownerID string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.checkInvariants()
	s.stats.TotalRequests.Inc(1)

	if _, ok := s.entries.Get(key); ok {
		return ErrKeyExists
	}

	start, err := s.allocate(len(value))
	if err != nil {
		return err
	}
	s.commit(key, ownerID, start, value)
	s.stats.Adds.Inc(1)
	return nil
}

// Update implements update(key, value, owner) -> Ok | NotFound | OutOfCapacity.
// Per Open Question Decision 2 it always frees the old pages and
// re-allocates, even when the new value would fit in the same run; the
// key is then admitted to the policy index as a new entry and touched,
// so an update counts as an access (spec §4.C).
func (s *Store) Update(key, ownerID string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.checkInvariants()
	s.stats.TotalRequests.Inc(1)

	old, ok := s.entries.Get(key)
	if !ok {
		return ErrNotFound
	}

	s.al.Release(old.StartPage, old.NumPages)
	s.stats.Coalesces.Inc(1)
	s.entries.Delete(key)
	s.policy.Remove(key)

	start, err := s.allocate(len(value))
	if err != nil {
		// The old pages are already released; spec §4.F blesses
		// free-then-reallocate without a rollback path.
		return err
	}
	s.commit(key, ownerID, start, value)
	s.policy.Touch(key)
	s.stats.Updates.Inc(1)
	return nil
}

// Get implements get(key, owner) -> Ok(bytes) | NotFound.
func (s *Store) Get(key, ownerID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.TotalRequests.Inc(1)

	e, ok := s.entries.Get(key)
	if !ok {
		s.stats.Misses.Inc(1)
		return nil, ErrNotFound
	}
	s.stats.Hits.Inc(1)
	s.policy.Touch(key)
	return s.al.Arena.Read(e.StartPage, e.DataSize), nil
}

// Delete implements delete(key, owner) -> Ok | NotFound.
func (s *Store) Delete(key, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.checkInvariants()
	s.stats.TotalRequests.Inc(1)

	e, ok := s.entries.Get(key)
	if !ok {
		return ErrNotFound
	}
	s.entries.Delete(key)
	s.policy.Remove(key)
	s.al.Release(e.StartPage, e.NumPages)
	s.stats.Coalesces.Inc(1)
	s.stats.Deletes.Inc(1)
	return nil
}

// FragmentationStats implements fragmentation_stats() of spec §6.
func (s *Store) FragmentationStats() FragmentationStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := s.al.Free.TotalFree()
	largest := s.al.Free.Largest()
	ratio := 0.0
	if total > 0 {
		ratio = 1 - float64(largest)/float64(total)
	}
	return FragmentationStats{
		TotalFree:     total,
		LargestFree:   largest,
		NumFreeBlocks: s.al.Free.NumBlocks(),
		Ratio:         ratio,
	}
}

// ResetStats implements reset_stats() of spec §6.
func (s *Store) ResetStats() { s.stats.Reset() }

// commit finishes an allocation the way spec §4.F describes: write the
// payload, insert the entry, register it with the active policy.
func (s *Store) commit(key, ownerID string, start int, value []byte) {
	s.al.Arena.Write(start, value)
	e := &CacheEntry{
		Key:       key,
		OwnerID:   ownerID,
		StartPage: start,
		NumPages:  arena.RequiredPages(len(value)),
		DataSize:  len(value),
	}
	s.entries.Put(e)
	s.policy.Admit(key)
}

// allocate is the admission controller of spec §4.F: best-fit, then
// defragment on fragmentation, then evict on shortfall, then retry.
func (s *Store) allocate(size int) (int, error) {
	n := arena.RequiredPages(size)
	if n > s.al.TotalPages() {
		return 0, ErrPayloadTooLarge
	}

	if start, ok := s.al.Alloc(n); ok {
		return start, nil
	}

	if s.al.TotalFree() >= n {
		s.stats.Defragmentations.Inc(1)
		if defragment(s.al, s.entries, n) {
			if start, ok := s.al.Alloc(n); ok {
				return start, nil
			}
		}
	}

	if !s.evict(n) {
		return 0, ErrOutOfCapacity
	}
	if start, ok := s.al.Alloc(n); ok {
		return start, nil
	}
	// Defensive: if eviction freed >= n pages the free list was
	// coalesced on release, so best-fit must now succeed (spec §4.F).
	return 0, ErrOutOfCapacity
}

// evict drives the eviction engine of spec §4.D until at least
// required pages are free, or reports failure once the policy has no
// more live entries to offer up.
func (s *Store) evict(required int) bool {
	for s.al.TotalFree() < required {
		key, ok := s.policy.EvictOne()
		if !ok {
			return false
		}
		e, ok := s.entries.Get(key)
		if !ok {
			// Policy and entry table are supposed to stay in lockstep
			// (spec invariant 4); a miss here is a broken invariant.
			panic("store: policy index referenced an unknown key")
		}
		s.entries.Delete(key)
		s.al.Release(e.StartPage, e.NumPages)
		s.stats.Coalesces.Inc(1)
		s.stats.Evictions.Inc(1)
	}
	return true
}

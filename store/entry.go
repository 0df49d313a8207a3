package store

// CacheEntry is the metadata for one stored value (spec §3). The
// policy-specific fields (lru_handle, visited, reference_bit) live
// inside package policy's own bookkeeping instead of on this struct
// directly; insertion_order is recorded here as InsertedAt.
type CacheEntry struct {
	Key        string
	OwnerID    string
	StartPage  int
	NumPages   int
	DataSize   int
	InsertedAt uint64 // monotonic insertion_order, assigned at allocation time
}

// EntryTable is the key -> CacheEntry map of spec §3, plus the
// insertion_order counter that Put stamps into InsertedAt. FIFO
// eviction order is kept by package policy's own queue and the
// defragmenter orders by StartPage, so neither reads InsertedAt.
type EntryTable struct {
	entries map[string]*CacheEntry
	nextSeq uint64
}

func NewEntryTable() *EntryTable {
	return &EntryTable{entries: make(map[string]*CacheEntry)}
}

func (t *EntryTable) Get(key string) (*CacheEntry, bool) {
	e, ok := t.entries[key]
	return e, ok
}

func (t *EntryTable) Put(e *CacheEntry) {
	t.nextSeq++
	e.InsertedAt = t.nextSeq
	t.entries[e.Key] = e
}

func (t *EntryTable) Delete(key string) {
	delete(t.entries, key)
}

func (t *EntryTable) Len() int { return len(t.entries) }

// SortedByStartPage returns every live entry ordered by ascending
// StartPage, the traversal order the defragmenter requires (spec §4.E
// step 1).
func (t *EntryTable) SortedByStartPage() []*CacheEntry {
	out := make([]*CacheEntry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	// Small n in practice (bounded by TOTAL_PAGES); insertion sort
	// avoids pulling in sort for what is usually a short slice during
	// compaction.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].StartPage > out[j].StartPage; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// Keys returns every live key, used by property tests to compare
// against a policy index's tracked set (spec P5).
func (t *EntryTable) Keys() []string {
	out := make([]string, 0, len(t.entries))
	for k := range t.entries {
		out = append(out, k)
	}
	return out
}

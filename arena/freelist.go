package arena

// FreeExtent is a half-open run [Start, Start+Len) of currently-free
// pages, linked into the sorted, coalesced FreeList (spec §3 FreeList,
// §4.B). Fields are exported for read-only inspection by tests and by
// the defragmenter's fragmentation_stats computation; mutation must go
// through FreeList methods to preserve the sort/coalesce invariants.
type FreeExtent struct {
	Start, Len int
	prev, next *FreeExtent
}

// End returns the first page past this extent.
func (e *FreeExtent) End() int { return e.Start + e.Len }

func link(a, b *FreeExtent) { a.next, b.prev = b, a }

// FreeList is the sorted, coalesced doubly-linked free list of spec
// §3/§4.B. Two sentinel nodes bound the real extents so insertion and
// removal never need nil checks.
type FreeList struct {
	head, tail *FreeExtent
	totalFree  int
	numBlocks  int
}

// NewFreeList returns an empty free list.
func NewFreeList() *FreeList {
	l := &FreeList{head: &FreeExtent{}, tail: &FreeExtent{}}
	link(l.head, l.tail)
	return l
}

// Reset discards every extent and, if totalPages > 0, installs a single
// free run covering [0, totalPages). Used at construction time and by
// the defragmenter, which rebuilds the list from scratch (spec §4.E
// step 2).
func (l *FreeList) Reset(totalPages int) {
	link(l.head, l.tail)
	l.totalFree = 0
	l.numBlocks = 0
	if totalPages > 0 {
		l.InsertFree(0, totalPages)
	}
}

// FindBestFit scans the entire free list and returns the extent with
// the smallest Len >= n, ties broken by earliest in the list; it stops
// early on an exact match. Returns nil iff no extent satisfies
// Len >= n (spec §4.B).
func (l *FreeList) FindBestFit(n int) *FreeExtent {
	var best *FreeExtent
	for e := l.head.next; e != l.tail; e = e.next {
		if e.Len < n {
			continue
		}
		if best == nil || e.Len < best.Len {
			best = e
			if e.Len == n {
				break
			}
		}
	}
	return best
}

// FindFirstFit returns the first extent with Len >= n. Kept as the
// alternative placement strategy named in spec §4.B; best-fit (above)
// is what the allocator uses by default.
func (l *FreeList) FindFirstFit(n int) *FreeExtent {
	for e := l.head.next; e != l.tail; e = e.next {
		if e.Len >= n {
			return e
		}
	}
	return nil
}

// Split allocates n pages from the front of ext and returns their first
// page. Precondition: ext.Len >= n. An exact match removes and destroys
// ext; otherwise ext is mutated in place, which preserves sort order
// because neither neighbour's bounds change (spec §4.B).
func (l *FreeList) Split(ext *FreeExtent, n int) int {
	if ext.Len < n {
		panic("arena: split request exceeds extent length")
	}
	start := ext.Start
	if ext.Len == n {
		l.Remove(ext)
	} else {
		ext.Start += n
		ext.Len -= n
		l.totalFree -= n
	}
	return start
}

// Remove unlinks ext from the list.
func (l *FreeList) Remove(ext *FreeExtent) {
	link(ext.prev, ext.next)
	l.totalFree -= ext.Len
	l.numBlocks--
	ext.prev, ext.next = nil, nil
}

// InsertFree inserts a new free extent [start, start+length) at the
// unique sorted position where prev.Start < start < next.Start, then
// tries to coalesce it with next and then with prev -- both sides must
// be tried because a newly freed run can fill a hole between two free
// extents (spec §4.B). It returns how many neighbours were actually
// merged (0, 1 or 2); callers that need "coalesce attempts" rather than
// "successful merges" should count one per call instead, per spec's
// open question on the coalesces statistic.
func (l *FreeList) InsertFree(start, length int) (merged int) {
	if length <= 0 {
		panic("arena: non-positive free extent length")
	}
	n := &FreeExtent{Start: start, Len: length}
	cur := l.head
	for cur.next != l.tail && cur.next.Start < start {
		cur = cur.next
	}
	link(n, cur.next)
	link(cur, n)
	l.totalFree += length
	l.numBlocks++

	if n.next != l.tail && n.Start+n.Len == n.next.Start {
		next := n.next
		n.Len += next.Len
		link(n, next.next)
		l.numBlocks--
		merged++
	}
	if n.prev != l.head && n.prev.Start+n.prev.Len == n.Start {
		prev := n.prev
		prev.Len += n.Len
		link(prev, n.next)
		l.numBlocks--
		merged++
	}
	return merged
}

// TotalFree is the accounting total introduced in spec §3: the sum of
// every extent's Len.
func (l *FreeList) TotalFree() int { return l.totalFree }

// NumBlocks is the number of disjoint free extents currently tracked.
func (l *FreeList) NumBlocks() int { return l.numBlocks }

// Largest returns the length of the largest free extent, or 0 if the
// list is empty.
func (l *FreeList) Largest() int {
	largest := 0
	for e := l.head.next; e != l.tail; e = e.next {
		if e.Len > largest {
			largest = e.Len
		}
	}
	return largest
}

// Do calls f on every extent in ascending Start order, stopping early if
// f returns false.
func (l *FreeList) Do(f func(*FreeExtent) bool) {
	for e := l.head.next; e != l.tail; e = e.next {
		if !f(e) {
			return
		}
	}
}

package arena

// Allocator pairs an Arena with its FreeList: the concrete free-list
// allocator of spec §4.B operating directly on the arena's page flags.
// The Defragmenter and Admission Controller (package store) are built on
// top of this; Allocator itself only does best-fit placement, split and
// release.
type Allocator struct {
	Arena *Arena
	Free  *FreeList
}

// NewAllocator builds an Allocator over a fresh Arena of totalPages
// pages, with the entire arena initially free.
func NewAllocator(totalPages int) *Allocator {
	al := &Allocator{Arena: New(totalPages), Free: NewFreeList()}
	al.Free.Reset(totalPages)
	return al
}

// Alloc finds a best-fit extent of at least n pages, splits it, and
// marks the run used. ok is false iff no extent of size >= n exists.
func (al *Allocator) Alloc(n int) (start int, ok bool) {
	ext := al.Free.FindBestFit(n)
	if ext == nil {
		return 0, false
	}
	start = al.Free.Split(ext, n)
	al.Arena.MarkUsed(start, n)
	return start, true
}

// Release returns [start, start+numPages) to the free list and marks the
// underlying pages free again. It returns how many neighbouring
// extents were merged, see FreeList.InsertFree.
func (al *Allocator) Release(start, numPages int) (merged int) {
	al.Arena.MarkFree(start, numPages)
	return al.Free.InsertFree(start, numPages)
}

// TotalPages is the fixed size of the underlying arena.
func (al *Allocator) TotalPages() int { return al.Arena.TotalPages() }

// TotalFree is the free list's tracked free-page count.
func (al *Allocator) TotalFree() int { return al.Free.TotalFree() }

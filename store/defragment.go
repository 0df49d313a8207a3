package store

import "github.com/kvarena/pagecache/arena"

// defragment implements the compacting relocation of spec §4.E: every
// live entry is packed to the low end of the arena in ascending
// start-page order, the free list is rebuilt from scratch, and any
// remaining space becomes a single free extent at the high end. It
// returns true iff the resulting largest free extent can satisfy n
// pages, the success criterion the admission controller retries on.
func defragment(al *arena.Allocator, table *EntryTable, n int) bool {
	sorted := table.SortedByStartPage()

	al.Free.Reset(0)

	cursor := 0
	for _, e := range sorted {
		if e.StartPage != cursor {
			data := al.Arena.Read(e.StartPage, e.DataSize)
			al.Arena.Write(cursor, data)
			e.StartPage = cursor
		}
		al.Arena.MarkUsed(cursor, e.NumPages)
		cursor += e.NumPages
	}

	total := al.TotalPages()
	if cursor < total {
		al.Arena.MarkFree(cursor, total-cursor)
		al.Free.InsertFree(cursor, total-cursor)
	}

	return al.Free.Largest() >= n
}

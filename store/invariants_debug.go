//go:build debug

// Gomega should not be a dependency in non-debug builds.

package store

import (
	"errors"
	"log"

	"github.com/facebookgo/stackerr"
	. "github.com/onsi/gomega"

	"github.com/kvarena/pagecache/arena"
)

var _ = func() (_ struct{}) {
	RegisterFailHandler(gomegaFailHandler)
	return
}()

func gomegaFailHandler(message string, callerSkip ...int) {
	skip := 0
	if len(callerSkip) > 0 {
		skip = callerSkip[0] + 1
	}
	log.Fatal("FATAL: invariants are broken: ", stackerr.WrapSkip(errors.New(message), skip))
}

// checkInvariants re-derives every cross-component invariant spec §3
// names from the live arena/entry-table/policy state, grounded on the
// teacher's cache/check_invariants_debug.go. Built only with -tags
// debug: large perf overhead, extra runtime checks.
func (s *Store) checkInvariants() {
	Expect(s.policy.Len()).To(Equal(s.entries.Len()), "policy and entry table sizes diverge")

	var liveTotal int
	for _, e := range s.entries.SortedByStartPage() {
		liveTotal += e.NumPages
		for p := e.StartPage; p < e.StartPage+e.NumPages; p++ {
			Expect(s.al.Arena.IsFree(p)).To(BeFalse(), "entry %s owns a page marked free", e.Key)
			Expect(s.al.Arena.BlockStart(p)).To(Equal(e.StartPage), "entry %s page has wrong block_start", e.Key)
		}
	}

	Expect(liveTotal+s.al.Free.TotalFree()).To(Equal(s.al.TotalPages()), "live + free pages must cover the whole arena (invariant 3)")

	var freeTotal int
	s.al.Free.Do(func(ext *arena.FreeExtent) bool {
		for p := ext.Start; p < ext.End(); p++ {
			Expect(s.al.Arena.IsFree(p)).To(BeTrue(), "free-list extent covers a page marked used")
		}
		freeTotal += ext.Len
		return true
	})
	Expect(freeTotal).To(Equal(s.al.Free.TotalFree()), "free-list bookkeeping diverges from walked extents")
}

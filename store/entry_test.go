package store

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("EntryTable", func() {
	It("sorts live entries by ascending start page regardless of insertion order", func() {
		t := NewEntryTable()
		t.Put(&CacheEntry{Key: "c", StartPage: 9})
		t.Put(&CacheEntry{Key: "a", StartPage: 0})
		t.Put(&CacheEntry{Key: "b", StartPage: 4})

		sorted := t.SortedByStartPage()
		Expect(len(sorted)).To(Equal(3))
		Expect(sorted[0].Key).To(Equal("a"))
		Expect(sorted[1].Key).To(Equal("b"))
		Expect(sorted[2].Key).To(Equal("c"))
	})

	It("assigns a monotonically increasing insertion order", func() {
		t := NewEntryTable()
		a := &CacheEntry{Key: "a"}
		b := &CacheEntry{Key: "b"}
		t.Put(a)
		t.Put(b)
		Expect(b.InsertedAt).To(BeNumerically(">", a.InsertedAt))
	})

	It("drops a key from Keys once deleted", func() {
		t := NewEntryTable()
		t.Put(&CacheEntry{Key: "a"})
		t.Put(&CacheEntry{Key: "b"})
		t.Delete("a")
		Expect(t.Keys()).To(ConsistOf("b"))
	})
})

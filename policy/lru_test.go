package policy

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("LRUPolicy", func() {
	// spec §8 scenario 5
	It("evicts the least recently touched key first", func() {
		p := NewLRUPolicy(8)
		p.Admit("a")
		p.Admit("b")
		p.Admit("c")
		p.Touch("a")

		key, ok := p.EvictOne()
		Expect(ok).To(BeTrue())
		Expect(key).To(Equal("b"))
	})

	It("drops a key from future eviction once removed", func() {
		p := NewLRUPolicy(8)
		p.Admit("a")
		p.Admit("b")
		p.Remove("a")

		key, ok := p.EvictOne()
		Expect(ok).To(BeTrue())
		Expect(key).To(Equal("b"))
	})

	It("reports no victim once empty", func() {
		p := NewLRUPolicy(8)
		_, ok := p.EvictOne()
		Expect(ok).To(BeFalse())
	})

	It("tracks Len across admits and evictions", func() {
		p := NewLRUPolicy(8)
		p.Admit("a")
		p.Admit("b")
		Expect(p.Len()).To(Equal(2))
		p.EvictOne()
		Expect(p.Len()).To(Equal(1))
	})
})

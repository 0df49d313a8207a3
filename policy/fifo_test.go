package policy

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("FIFOPolicy", func() {
	It("evicts in admission order regardless of touches", func() {
		p := NewFIFOPolicy()
		p.Admit("a")
		p.Admit("b")
		p.Admit("c")
		p.Touch("a") // must not change order

		key, ok := p.EvictOne()
		Expect(ok).To(BeTrue())
		Expect(key).To(Equal("a"))

		key, ok = p.EvictOne()
		Expect(ok).To(BeTrue())
		Expect(key).To(Equal("b"))
	})

	It("removes a key out of band without disturbing remaining order", func() {
		p := NewFIFOPolicy()
		p.Admit("a")
		p.Admit("b")
		p.Admit("c")
		p.Remove("b")

		key, _ := p.EvictOne()
		Expect(key).To(Equal("a"))
		key, _ = p.EvictOne()
		Expect(key).To(Equal("c"))
	})

	It("reports no victim once empty", func() {
		p := NewFIFOPolicy()
		_, ok := p.EvictOne()
		Expect(ok).To(BeFalse())
	})
})

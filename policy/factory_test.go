package policy

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("New", func() {
	It("builds each known policy kind", func() {
		for _, kind := range []Kind{LRU, FIFO, SIEVE, CLOCK} {
			p := New(kind, 4)
			Expect(p).NotTo(BeNil())
			p.Admit("x")
			Expect(p.Len()).To(Equal(1))
		}
	})

	It("panics on an unknown kind", func() {
		Expect(func() { New(Kind("bogus"), 4) }).To(Panic())
	})
})

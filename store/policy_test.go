package store

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Store driving its Policy", func() {
	It("admits a key on a successful add", func() {
		p := &mockPolicy{}
		p.On("Admit", "k1").Return()
		s := newStore(4, p)

		Expect(s.Add("k1", "alice", pages(1))).To(Succeed())
		p.AssertExpectations(GinkgoT())
	})

	It("touches a key on a get hit but not on a miss", func() {
		p := &mockPolicy{}
		p.On("Admit", "k1").Return()
		p.On("Touch", "k1").Return()
		s := newStore(4, p)
		Expect(s.Add("k1", "alice", pages(1))).To(Succeed())

		_, err := s.Get("k1", "alice")
		Expect(err).NotTo(HaveOccurred())

		_, err = s.Get("missing", "alice")
		Expect(err).To(HaveOccurred())

		p.AssertExpectations(GinkgoT())
		p.AssertNotCalled(GinkgoT(), "Touch", "missing")
	})

	It("removes a key on delete", func() {
		p := &mockPolicy{}
		p.On("Admit", "k1").Return()
		p.On("Remove", "k1").Return()
		s := newStore(4, p)
		Expect(s.Add("k1", "alice", pages(1))).To(Succeed())

		Expect(s.Delete("k1", "alice")).To(Succeed())
		p.AssertExpectations(GinkgoT())
	})

	It("evicts through the policy when the arena is full", func() {
		// EvictOne is responsible for dropping its own victim from the
		// policy's tracking (spec §4.D); Store never calls Remove for
		// an evicted key, only for an explicit Delete.
		p := &mockPolicy{}
		p.On("Admit", "k1").Return()
		p.On("Admit", "k2").Return()
		p.On("EvictOne").Return("k1", true)
		s := newStore(4, p)

		Expect(s.Add("k1", "alice", pages(4))).To(Succeed())
		Expect(s.Add("k2", "alice", pages(4))).To(Succeed())

		_, err := s.Get("k1", "alice")
		Expect(err).To(Equal(ErrNotFound))
		p.AssertExpectations(GinkgoT())
	})
})

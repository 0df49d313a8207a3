package server

import (
	"context"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("WorkerPool", func() {
	It("runs submitted jobs", func() {
		p := NewWorkerPool(2)
		defer p.Shutdown(context.Background())

		var n int32
		done := make(chan struct{})
		p.Submit(func() {
			atomic.AddInt32(&n, 1)
			close(done)
		})

		Eventually(done, time.Second).Should(BeClosed())
		Expect(atomic.LoadInt32(&n)).To(Equal(int32(1)))
	})

	It("runs jobs across multiple workers concurrently", func() {
		p := NewWorkerPool(4)
		defer p.Shutdown(context.Background())

		release := make(chan struct{})
		started := make(chan struct{}, 4)
		for i := 0; i < 4; i++ {
			p.Submit(func() {
				started <- struct{}{}
				<-release
			})
		}

		for i := 0; i < 4; i++ {
			Eventually(started, time.Second).Should(Receive())
		}
		close(release)
	})

	It("shuts down and stops accepting new work", func() {
		p := NewWorkerPool(1)
		Expect(p.Shutdown(context.Background())).To(Succeed())

		ran := make(chan struct{})
		p.Submit(func() { close(ran) })
		Consistently(ran).ShouldNot(BeClosed())
	})
})

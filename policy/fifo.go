package policy

import "github.com/kvarena/pagecache/internal/intrusive"

// FIFOPolicy evicts in pure insertion order: Touch never changes a
// key's position. Grounded on the teacher's recency-list shape
// (internal/intrusive), just without the move-to-back on access.
type FIFOPolicy struct {
	order   *intrusive.List[string]
	handles map[string]*intrusive.Node[string]
}

func NewFIFOPolicy() *FIFOPolicy {
	return &FIFOPolicy{
		order:   intrusive.New[string](),
		handles: make(map[string]*intrusive.Node[string]),
	}
}

func (p *FIFOPolicy) Admit(key string) {
	if _, ok := p.handles[key]; ok {
		return
	}
	p.handles[key] = p.order.PushBack(key)
}

// Touch is a no-op under FIFO: order is fixed at admission time.
func (p *FIFOPolicy) Touch(key string) {}

func (p *FIFOPolicy) Remove(key string) {
	n, ok := p.handles[key]
	if !ok {
		return
	}
	p.order.Remove(n)
	delete(p.handles, key)
}

func (p *FIFOPolicy) EvictOne() (string, bool) {
	n := p.order.Front()
	if n == nil {
		return "", false
	}
	key := n.Value
	p.order.Remove(n)
	delete(p.handles, key)
	return key, true
}

func (p *FIFOPolicy) Len() int { return p.order.Len() }

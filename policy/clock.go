package policy

import "github.com/kvarena/pagecache/internal/ring"

type clockEntry struct {
	key string
	ref bool
}

// CLOCKPolicy implements the classic single-hand clock sweep of spec
// §4.D: a reference bit per key instead of SIEVE's visited bit, and new
// keys are spliced in at the current hand position rather than at a
// dedicated newest end.
type CLOCKPolicy struct {
	nodes map[string]*ring.Ring[clockEntry]
	hand  *ring.Ring[clockEntry]
	size  int
}

func NewCLOCKPolicy() *CLOCKPolicy {
	return &CLOCKPolicy{nodes: make(map[string]*ring.Ring[clockEntry])}
}

func (p *CLOCKPolicy) Admit(key string) {
	if _, ok := p.nodes[key]; ok {
		return
	}
	e := clockEntry{key: key, ref: false}
	if p.hand == nil {
		n := ring.NewSingle(e)
		p.hand = n
		p.nodes[key] = n
		p.size = 1
		return
	}
	n := p.hand.InsertBefore(e)
	p.nodes[key] = n
	p.size++
}

func (p *CLOCKPolicy) Touch(key string) {
	if n, ok := p.nodes[key]; ok {
		n.Value.ref = true
	}
}

func (p *CLOCKPolicy) Remove(key string) {
	n, ok := p.nodes[key]
	if !ok {
		return
	}
	p.removeNode(n)
}

func (p *CLOCKPolicy) removeNode(n *ring.Ring[clockEntry]) {
	delete(p.nodes, n.Value.key)
	next := n.Unlink()
	if p.hand == n {
		p.hand = next
	}
	p.size--
	if p.size == 0 {
		p.hand = nil
	}
}

func (p *CLOCKPolicy) EvictOne() (string, bool) {
	if p.size == 0 {
		return "", false
	}
	n := p.hand
	for {
		if !n.Value.ref {
			key := n.Value.key
			p.hand = n
			p.removeNode(n)
			return key, true
		}
		n.Value.ref = false
		n = n.Next()
		p.hand = n
	}
}

func (p *CLOCKPolicy) Len() int { return p.size }

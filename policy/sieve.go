package policy

import "github.com/kvarena/pagecache/internal/ring"

type sieveEntry struct {
	key     string
	visited bool
}

// SIEVEPolicy implements the second-chance hand of spec §4.D: new keys
// enter at the newest end with visited=false, and the hand sweeps from
// newest toward oldest, clearing visited bits and advancing past them,
// evicting the first key it finds with visited already false. Once the
// hand has swept at least once, it wraps at the oldest end back to
// newest for free from the ring's circularity; until then, Admit keeps
// re-anchoring it to the newest key, since nothing else pins the hand
// to the correct starting position before the first eviction.
type SIEVEPolicy struct {
	nodes map[string]*ring.Ring[sieveEntry]
	head  *ring.Ring[sieveEntry] // newest
	hand  *ring.Ring[sieveEntry]
	size  int
	swept bool // true once EvictOne has run at least once
}

func NewSIEVEPolicy() *SIEVEPolicy {
	return &SIEVEPolicy{nodes: make(map[string]*ring.Ring[sieveEntry])}
}

func (p *SIEVEPolicy) Admit(key string) {
	if _, ok := p.nodes[key]; ok {
		return
	}
	e := sieveEntry{key: key, visited: false}
	if p.head == nil {
		n := ring.NewSingle(e)
		p.head, p.hand = n, n
		p.nodes[key] = n
		p.size = 1
		return
	}
	n := p.head.InsertBefore(e)
	p.head = n
	if !p.swept {
		p.hand = n
	}
	p.nodes[key] = n
	p.size++
}

func (p *SIEVEPolicy) Touch(key string) {
	if n, ok := p.nodes[key]; ok {
		n.Value.visited = true
	}
}

func (p *SIEVEPolicy) Remove(key string) {
	n, ok := p.nodes[key]
	if !ok {
		return
	}
	p.removeNode(n)
}

func (p *SIEVEPolicy) removeNode(n *ring.Ring[sieveEntry]) {
	delete(p.nodes, n.Value.key)
	next := n.Unlink()
	if p.head == n {
		p.head = next
	}
	if p.hand == n {
		p.hand = next
	}
	p.size--
	if p.size == 0 {
		p.head, p.hand = nil, nil
		p.swept = false
	}
}

func (p *SIEVEPolicy) EvictOne() (string, bool) {
	if p.size == 0 {
		return "", false
	}
	p.swept = true
	n := p.hand
	for {
		if !n.Value.visited {
			key := n.Value.key
			p.hand = n
			p.removeNode(n)
			return key, true
		}
		n.Value.visited = false
		n = n.Next()
		p.hand = n
	}
}

func (p *SIEVEPolicy) Len() int { return p.size }

package policy

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUPolicy tracks recency with hashicorp's golang-lru. Its Cache is
// sized as a capacity hint only; this package never lets the cache
// auto-evict on Add (the admission controller decides when to evict,
// not the recency structure), so the hint just needs to be no smaller
// than the arena could ever hold resident at once.
type LRUPolicy struct {
	c *lru.Cache[string, struct{}]
}

// NewLRUPolicy builds an LRU policy backed by a cache sized to hold up
// to capacityHint keys without triggering its own eviction.
func NewLRUPolicy(capacityHint int) *LRUPolicy {
	if capacityHint < 1 {
		capacityHint = 1
	}
	c, err := lru.New[string, struct{}](capacityHint)
	if err != nil {
		// Only returns an error for size <= 0, excluded above.
		panic(err)
	}
	return &LRUPolicy{c: c}
}

func (p *LRUPolicy) Admit(key string) { p.c.Add(key, struct{}{}) }

func (p *LRUPolicy) Touch(key string) { p.c.Get(key) }

func (p *LRUPolicy) Remove(key string) { p.c.Remove(key) }

func (p *LRUPolicy) EvictOne() (string, bool) {
	key, _, ok := p.c.RemoveOldest()
	return key, ok
}

func (p *LRUPolicy) Len() int { return p.c.Len() }

// Package policy implements the four interchangeable eviction policies of
// spec §4.C/§4.D: LRU, FIFO, SIEVE and CLOCK. Each policy owns the
// per-entry bookkeeping its algorithm needs (a recency list, an
// insertion-order queue, or a hand-swept ring) and exposes the same
// small contract so package store's admission controller and eviction
// engine can stay policy-agnostic.
package policy

// Policy is the residency tracker for one eviction algorithm. All of its
// methods are called with the cache's coarse mutex already held (spec
// §5), so none of the implementations in this package do their own
// locking.
type Policy interface {
	// Admit registers a newly-allocated key (spec §4.C "on add").
	Admit(key string)
	// Touch records an access for Get-hit or Update (spec §4.C).
	Touch(key string)
	// Remove drops a key on delete, and on update before the key is
	// re-admitted. It is not called for an EvictOne victim, which
	// EvictOne drops itself. Removing an absent key is a no-op.
	Remove(key string)
	// EvictOne selects and removes a single victim under this policy's
	// algorithm, returning ok=false iff no key is resident.
	EvictOne() (key string, ok bool)
	// Len is the number of keys currently tracked.
	Len() int
}

// Kind names one of the four eviction algorithms; it is the
// EvictionPolicy tag fixed at store construction time (spec §6).
type Kind string

const (
	LRU   Kind = "LRU"
	FIFO  Kind = "FIFO"
	SIEVE Kind = "SIEVE"
	CLOCK Kind = "CLOCK"
)

// New builds the Policy for kind. capacityHint bounds the LRU policy's
// backing store (it never holds more residents than the arena has
// pages, so TOTAL_PAGES is always a safe hint); the other policies
// ignore it.
func New(kind Kind, capacityHint int) Policy {
	switch kind {
	case LRU:
		return NewLRUPolicy(capacityHint)
	case FIFO:
		return NewFIFOPolicy()
	case SIEVE:
		return NewSIEVEPolicy()
	case CLOCK:
		return NewCLOCKPolicy()
	default:
		panic("policy: unknown eviction policy " + string(kind))
	}
}

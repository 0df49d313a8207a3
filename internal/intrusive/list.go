// Package intrusive contains a small doubly-linked list with sentinel
// head/tail nodes, adapted from the fakeHead/fakeTail recency list the
// teacher uses for its HOT/WARM/COLD LRU queues. Here it backs a plain
// FIFO: push at the back on admission, pop from the front to find the
// oldest entry, O(1) removal from the middle via the handle returned by
// PushBack.
package intrusive

// Node is a handle into a List. The zero value is not usable; only
// values returned by List.PushBack are valid.
type Node[V any] struct {
	Value      V
	prev, next *Node[V]
	owner      *List[V]
}

// List is a doubly-linked list of Nodes between two sentinel nodes, so
// that Remove and PushBack never need nil checks.
type List[V any] struct {
	size int
	head *Node[V]
	tail *Node[V]
}

func New[V any]() *List[V] {
	l := &List[V]{head: &Node[V]{}, tail: &Node[V]{}}
	link(l.head, l.tail)
	return l
}

func link[V any](a, b *Node[V]) { a.next, b.prev = b, a }

// PushBack appends value at the tail (newest) end and returns its handle.
func (l *List[V]) PushBack(v V) *Node[V] {
	n := &Node[V]{Value: v, owner: l}
	link(l.tail.prev, n)
	link(n, l.tail)
	l.size++
	return n
}

// Remove detaches n from whichever list owns it. Panics if n is not
// currently linked into l.
func (l *List[V]) Remove(n *Node[V]) {
	if n.owner != l {
		panic("intrusive: node not owned by this list")
	}
	link(n.prev, n.next)
	n.prev, n.next, n.owner = nil, nil, nil
	l.size--
}

// MoveToBack relinks n at the tail (newest) end in O(1).
func (l *List[V]) MoveToBack(n *Node[V]) {
	if n.owner != l {
		panic("intrusive: node not owned by this list")
	}
	link(n.prev, n.next)
	link(l.tail.prev, n)
	link(n, l.tail)
}

// Front returns the oldest node, or nil if the list is empty.
func (l *List[V]) Front() *Node[V] {
	if l.size == 0 {
		return nil
	}
	return l.head.next
}

// Back returns the newest node, or nil if the list is empty.
func (l *List[V]) Back() *Node[V] {
	if l.size == 0 {
		return nil
	}
	return l.tail.prev
}

func (l *List[V]) Len() int    { return l.size }
func (l *List[V]) Empty() bool { return l.size == 0 }

// Do calls f on every value from oldest to newest. It stops early if f
// returns false.
func (l *List[V]) Do(f func(V) bool) {
	for n := l.head.next; n != l.tail; n = n.next {
		if !f(n.Value) {
			return
		}
	}
}

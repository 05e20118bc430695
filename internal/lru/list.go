package lru

// node is an entry in both the recency list and its hash bucket chain.
type node[V any] struct {
	hash  uint64
	value V

	prev *node[V]
	next *node[V]

	// chain links nodes that share a hash bucket.
	chain *node[V]
}

// list is a doubly-linked recency list.
// The head is the most recently used, tail is least recently used.
type list[V any] struct {
	head *node[V]
	tail *node[V]
	len  int
}

// pushFront links n at the front (most recently used).
func (l *list[V]) pushFront(n *node[V]) {
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
	l.len++
}

// moveToFront moves an already linked node to the front.
func (l *list[V]) moveToFront(n *node[V]) {
	if n == l.head {
		return
	}
	l.unlink(n)
	l.pushFront(n)
}

// unlink removes n from the list and clears its list pointers.
func (l *list[V]) unlink(n *node[V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}

	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}

	n.prev = nil
	n.next = nil
	l.len--
}

package lru

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 1000

// Cache is an exact LRU map from 64-bit hashes to values with collision chaining.
type Cache[V any] struct {
	buckets   map[uint64]*node[V]
	order     list[V]
	capacity  int
	evictions uint64
}

// New creates an empty cache holding at most capacity entries.
// If capacity <= 0, DefaultCapacity is used.
func New[V any](capacity int) *Cache[V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache[V]{
		buckets:  make(map[uint64]*node[V]),
		capacity: capacity,
	}
}

// find returns the node in bucket hash whose value satisfies match.
func (c *Cache[V]) find(hash uint64, match func(V) bool) *node[V] {
	for n := c.buckets[hash]; n != nil; n = n.chain {
		if match(n.value) {
			return n
		}
	}
	return nil
}

// Get returns the value stored under hash for which match reports true and
// marks it most recently used.
func (c *Cache[V]) Get(hash uint64, match func(V) bool) (V, bool) {
	n := c.find(hash, match)
	if n == nil {
		var zero V
		return zero, false
	}
	c.order.moveToFront(n)
	return n.value, true
}

// Peek is Get without touching recency.
func (c *Cache[V]) Peek(hash uint64, match func(V) bool) (V, bool) {
	n := c.find(hash, match)
	if n == nil {
		var zero V
		return zero, false
	}
	return n.value, true
}

// Add stores v under hash. An existing entry for which match reports true is
// replaced and touched. Otherwise, if the cache is full, the least recently
// used entry is evicted first. Add reports whether an eviction happened.
func (c *Cache[V]) Add(hash uint64, v V, match func(V) bool) bool {
	if n := c.find(hash, match); n != nil {
		n.value = v
		c.order.moveToFront(n)
		return false
	}

	evicted := false
	if c.order.len >= c.capacity {
		c.evictOldest()
		evicted = true
	}

	n := &node[V]{hash: hash, value: v, chain: c.buckets[hash]}
	c.buckets[hash] = n
	c.order.pushFront(n)
	return evicted
}

// Oldest returns the least recently used value without touching it.
func (c *Cache[V]) Oldest() (V, bool) {
	if c.order.tail == nil {
		var zero V
		return zero, false
	}
	return c.order.tail.value, true
}

// Len returns the number of entries.
func (c *Cache[V]) Len() int {
	return c.order.len
}

// Capacity returns the maximum number of entries.
func (c *Cache[V]) Capacity() int {
	return c.capacity
}

// Evictions returns the number of entries evicted so far.
func (c *Cache[V]) Evictions() uint64 {
	return c.evictions
}

// evictOldest removes the tail of the recency list from its bucket and the list.
func (c *Cache[V]) evictOldest() {
	n := c.order.tail
	if n == nil {
		return
	}
	c.order.unlink(n)

	if head := c.buckets[n.hash]; head == n {
		if n.chain == nil {
			delete(c.buckets, n.hash)
		} else {
			c.buckets[n.hash] = n.chain
		}
	} else {
		for p := head; p != nil; p = p.chain {
			if p.chain == n {
				p.chain = n.chain
				break
			}
		}
	}
	n.chain = nil
	c.evictions++
}

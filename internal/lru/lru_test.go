package lru

import (
	"strconv"
	"testing"
)

type item struct {
	key string
	val int
}

func is(key string) func(*item) bool {
	return func(it *item) bool { return it.key == key }
}

func TestNew(t *testing.T) {
	c := New[*item](100)
	if c.Capacity() != 100 {
		t.Errorf("expected capacity 100, got %d", c.Capacity())
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}

	if got := New[*item](0).Capacity(); got != DefaultCapacity {
		t.Errorf("New(0).Capacity() = %d, want %d", got, DefaultCapacity)
	}
}

func TestGetAdd(t *testing.T) {
	c := New[*item](10)
	c.Add(1, &item{"a", 42}, is("a"))

	got, ok := c.Get(1, is("a"))
	if !ok || got.val != 42 {
		t.Errorf("Get(a) = %v, %v; want 42, true", got, ok)
	}

	if _, ok := c.Get(2, is("a")); ok {
		t.Error("expected miss for unknown hash")
	}
}

func TestAddReplacesMatch(t *testing.T) {
	c := New[*item](10)
	c.Add(1, &item{"a", 1}, is("a"))
	if evicted := c.Add(1, &item{"a", 2}, is("a")); evicted {
		t.Error("replacing an entry must not evict")
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry after replace, got %d", c.Len())
	}
	got, _ := c.Get(1, is("a"))
	if got.val != 2 {
		t.Errorf("expected replaced value 2, got %d", got.val)
	}
}

func TestCollisionChain(t *testing.T) {
	c := New[*item](10)
	// Same hash, different keys.
	c.Add(7, &item{"a", 1}, is("a"))
	c.Add(7, &item{"b", 2}, is("b"))

	if c.Len() != 2 {
		t.Fatalf("expected 2 chained entries, got %d", c.Len())
	}
	a, ok := c.Get(7, is("a"))
	if !ok || a.val != 1 {
		t.Errorf("Get(a) = %v, %v", a, ok)
	}
	b, ok := c.Get(7, is("b"))
	if !ok || b.val != 2 {
		t.Errorf("Get(b) = %v, %v", b, ok)
	}
	if _, ok := c.Get(7, is("c")); ok {
		t.Error("collision must not produce a hit for a different key")
	}
}

func TestEvictsExactlyLeastRecentlyUsed(t *testing.T) {
	const capacity = 5
	c := New[*item](capacity)
	for i := range capacity {
		k := strconv.Itoa(i)
		c.Add(uint64(i), &item{k, i}, is(k))
	}

	// Touch 0 so that 1 becomes the oldest.
	if _, ok := c.Get(0, is("0")); !ok {
		t.Fatal("expected hit for 0")
	}

	if evicted := c.Add(99, &item{"99", 99}, is("99")); !evicted {
		t.Error("expected an eviction on overflow")
	}
	if c.Len() != capacity {
		t.Errorf("Len() = %d, want %d", c.Len(), capacity)
	}
	if _, ok := c.Peek(1, is("1")); ok {
		t.Error("expected least recently used entry 1 to be evicted")
	}
	for _, k := range []int{0, 2, 3, 4, 99} {
		s := strconv.Itoa(k)
		if _, ok := c.Peek(uint64(k), is(s)); !ok {
			t.Errorf("expected entry %d to remain", k)
		}
	}
	if c.Evictions() != 1 {
		t.Errorf("Evictions() = %d, want 1", c.Evictions())
	}
}

func TestEvictFromCollisionChain(t *testing.T) {
	c := New[*item](2)
	c.Add(7, &item{"a", 1}, is("a"))
	c.Add(7, &item{"b", 2}, is("b"))
	// a is oldest and sits behind b in the chain.
	c.Add(8, &item{"c", 3}, is("c"))

	if _, ok := c.Peek(7, is("a")); ok {
		t.Error("expected a to be evicted")
	}
	if _, ok := c.Peek(7, is("b")); !ok {
		t.Error("expected b to survive eviction of its chain neighbor")
	}
}

func TestPeekDoesNotTouch(t *testing.T) {
	c := New[*item](2)
	c.Add(1, &item{"a", 1}, is("a"))
	c.Add(2, &item{"b", 2}, is("b"))

	c.Peek(1, is("a"))
	oldest, _ := c.Oldest()
	if oldest.key != "a" {
		t.Errorf("Oldest() = %q after Peek, want a", oldest.key)
	}

	c.Get(1, is("a"))
	oldest, _ = c.Oldest()
	if oldest.key != "b" {
		t.Errorf("Oldest() = %q after Get, want b", oldest.key)
	}
}

func TestOldestEmpty(t *testing.T) {
	c := New[*item](2)
	if _, ok := c.Oldest(); ok {
		t.Error("Oldest() on empty cache should report false")
	}
}

func BenchmarkGetHit(b *testing.B) {
	c := New[*item](1000)
	for i := range 1000 {
		k := strconv.Itoa(i)
		c.Add(uint64(i), &item{k, i}, is(k))
	}
	match := is("500")
	b.ReportAllocs()
	for b.Loop() {
		c.Get(500, match)
	}
}

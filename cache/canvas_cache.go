package cache

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/gogpu/lisa"
	"github.com/gogpu/lisa/internal/lru"
)

// entry is a rendered prefix. The canvas is never modified once stored.
type entry struct {
	shapes lisa.ShapeList
	canvas *lisa.Canvas
}

func (e *entry) same(o *entry) bool {
	return e.shapes.Equal(o.shapes)
}

// matchPrefix returns a matcher for entries holding exactly the first k shapes of l.
func matchPrefix(l lisa.ShapeList, k int) func(*entry) bool {
	return func(e *entry) bool {
		return e.shapes.Equal(l[:k])
	}
}

// CanvasCache memoizes rendered canvases by shape-list prefix with LRU eviction.
// Create one per run with New; the canvas dimensions are fixed for its lifetime.
type CanvasCache struct {
	width, height, depth int
	logInterval          uint64

	mu       sync.Mutex
	entries  *lru.Cache[*entry]
	requests uint64
	hits     uint64
	misses   uint64
	reused   uint64
	redrawn  uint64
}

// New creates an empty cache for canvases of the given dimensions.
func New(width, height, depth int, opts ...Option) *CanvasCache {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &CanvasCache{
		width:       width,
		height:      height,
		depth:       depth,
		logInterval: o.logInterval,
		entries:     lru.New[*entry](o.capacity),
	}
}

// Width returns the canvas width.
func (c *CanvasCache) Width() int { return c.width }

// Height returns the canvas height.
func (c *CanvasCache) Height() int { return c.height }

// Depth returns the canvas channel depth.
func (c *CanvasCache) Depth() int { return c.depth }

// prefixHashes returns h where h[k] keys the first k shapes of l.
func prefixHashes(l lisa.ShapeList) []uint64 {
	hashes := make([]uint64, len(l)+1)
	d := xxhash.New()
	hashes[0] = d.Sum64()
	buf := make([]byte, 0, 128)
	for i, s := range l {
		buf = s.AppendKey(buf[:0])
		_, _ = d.Write(buf) // xxhash.Digest.Write never returns an error
		hashes[i+1] = d.Sum64()
	}
	return hashes
}

// CanvasFor returns a canvas identical to rendering l onto a blank canvas.
//
// Prefixes are probed from the full list downwards, so the first hit is the
// longest cached prefix; the snapshot is cloned and the remaining shapes are
// drawn on the clone. Without any cached prefix the whole list is rendered.
// The returned canvas belongs to the caller.
func (c *CanvasCache) CanvasFor(l lisa.ShapeList) *lisa.Canvas {
	n := len(l)
	hashes := prefixHashes(l)

	c.mu.Lock()
	c.requests++
	c.maybeLogLocked()

	for k := n; k > 0; k-- {
		e, ok := c.entries.Get(hashes[k], matchPrefix(l, k))
		if !ok {
			continue
		}
		c.hits++
		c.reused += uint64(k)
		c.redrawn += uint64(n - k)
		snapshot := e.canvas
		c.mu.Unlock()

		out := snapshot.Clone()
		for i := k; i < n; i++ {
			l.DrawItemOnto(i, out)
		}
		return out
	}

	if n == 0 {
		// The empty prefix is the blank canvas, which is always available.
		c.hits++
		c.mu.Unlock()
		return lisa.NewCanvas(c.width, c.height, c.depth)
	}

	c.misses++
	c.redrawn += uint64(n)
	c.mu.Unlock()

	return l.Render(c.width, c.height, c.depth)
}

// Insert renders l once, one shape at a time, and stores a snapshot after
// every step, caching each prefix of length 1 through len(l). Call it when a
// list becomes the new baseline so that its tail mutations hit at len(l)-1.
//
// Rendering happens before the lock is taken; all snapshots are then stored
// in one critical section.
func (c *CanvasCache) Insert(l lisa.ShapeList) {
	n := len(l)
	if n == 0 {
		return
	}
	hashes := prefixHashes(l)

	snapshots := make([]*entry, n)
	cv := lisa.NewCanvas(c.width, c.height, c.depth)
	for i := range n {
		l.DrawItemOnto(i, cv)
		snapshots[i] = &entry{shapes: l.Slice(i + 1), canvas: cv.Clone()}
	}

	c.mu.Lock()
	for i, e := range snapshots {
		c.entries.Add(hashes[i+1], e, e.same)
	}
	_, ok := c.entries.Peek(hashes[n], matchPrefix(l, n))
	c.mu.Unlock()

	if !ok {
		panic("cache: snapshot missing immediately after insert")
	}
}

// Contains reports whether exactly l is cached, without touching recency.
func (c *CanvasCache) Contains(l lisa.ShapeList) bool {
	h := prefixHashes(l)[len(l)]
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries.Peek(h, matchPrefix(l, len(l)))
	return ok
}

// Len returns the number of cached snapshots.
func (c *CanvasCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Stats returns a consistent snapshot of the counters.
func (c *CanvasCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statsLocked()
}

// ResetStats zeroes the request counters. Cached snapshots are kept.
func (c *CanvasCache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests, c.hits, c.misses, c.reused, c.redrawn = 0, 0, 0, 0, 0
}

// statsLocked builds Stats. Caller must hold c.mu.
func (c *CanvasCache) statsLocked() Stats {
	var hitRate float64
	if c.requests > 0 {
		hitRate = float64(c.hits) / float64(c.requests)
	}
	return Stats{
		Len:       c.entries.Len(),
		Capacity:  c.entries.Capacity(),
		Requests:  c.requests,
		Hits:      c.hits,
		Misses:    c.misses,
		Reused:    c.reused,
		Redrawn:   c.redrawn,
		Evictions: c.entries.Evictions(),
		HitRate:   hitRate,
	}
}

// maybeLogLocked emits a debug statistics line every logInterval requests.
// Caller must hold c.mu.
func (c *CanvasCache) maybeLogLocked() {
	if c.logInterval == 0 || c.requests%c.logInterval != 0 {
		return
	}
	lisa.Logger().Debug("canvas cache", c.statsLocked().LogArgs()...)
}

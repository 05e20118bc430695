// Package cache provides CanvasCache, an incremental memoized renderer for
// shape lists.
//
// A shape list is painted in order, so the canvas for any prefix is a valid
// starting point for drawing the rest of the list. CanvasCache keeps rendered
// snapshots keyed by prefixes and serves a request from the longest cached
// one, redrawing only the remaining tail:
//
//	cc := cache.New(w, h, 3, cache.WithCapacity(1000))
//	cc.Insert(best)            // cache every prefix of the adopted genome
//	canvas := cc.CanvasFor(l)  // reuses best's prefixes when l shares them
//
// The result is always identical to rendering the whole list onto a blank
// canvas, whatever the cache holds.
//
// # Keys
//
// Prefixes are keyed by a 64-bit xxhash of each shape's quantized attributes
// (see lisa.QuantizeScale). All prefix hashes of a list come from one pass.
// A hash hit is confirmed by exact shape equality before it is used.
//
// # Thread Safety
//
// CanvasCache is safe for concurrent use. One mutex guards the LRU map and the
// counters; cloning a snapshot and drawing the tail happen outside it, since
// snapshots are never modified after they are stored.
package cache

// Package lru provides an exact least-recently-used map keyed by 64-bit
// content hashes.
//
// Keys are hashes, not values: entries that share a hash are chained, and
// every lookup confirms a hit with a caller-supplied match function, so a
// hash collision never returns the wrong value.
//
//	c := lru.New[*entry](1000)
//	c.Add(h, e, e.matches)
//	v, ok := c.Get(h, want.matches)
//
// Once the map is full, each Add of a new entry evicts exactly one entry:
// the one least recently touched by Get or Add.
//
// # Thread Safety
//
// Cache is not safe for concurrent use; callers must hold their own lock.
package lru

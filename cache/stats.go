package cache

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of snapshots.
	Len int
	// Capacity is the maximum number of snapshots.
	Capacity int
	// Requests is the number of CanvasFor calls.
	Requests uint64
	// Hits is the number of requests served from a cached prefix.
	Hits uint64
	// Misses is the number of requests rendered from a blank canvas.
	Misses uint64
	// Reused is the total number of shapes served from snapshots.
	Reused uint64
	// Redrawn is the total number of shapes drawn on top of a snapshot or blank canvas.
	Redrawn uint64
	// Evictions is the number of snapshots evicted.
	Evictions uint64
	// HitRate is Hits / Requests, 0.0 to 1.0.
	HitRate float64
}

// LogArgs returns s as slog key/value pairs.
func (s Stats) LogArgs() []any {
	return []any{
		"hits", s.Hits,
		"misses", s.Misses,
		"requests", s.Requests,
		"reused", s.Reused,
		"redrawn", s.Redrawn,
		"len", s.Len,
		"evictions", s.Evictions,
	}
}

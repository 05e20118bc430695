package cache

// DefaultCapacity is the number of canvas snapshots kept when no capacity is given.
const DefaultCapacity = 1000

// StatsLogInterval is the number of requests between debug statistics lines.
const StatsLogInterval = 1000

// Option configures a CanvasCache during creation.
//
// Example:
//
//	cc := cache.New(640, 480, 3, cache.WithCapacity(500))
type Option func(*options)

type options struct {
	capacity    int
	logInterval uint64
}

func defaultOptions() options {
	return options{
		capacity:    DefaultCapacity,
		logInterval: StatsLogInterval,
	}
}

// WithCapacity sets the maximum number of snapshots. Values <= 0 keep DefaultCapacity.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithLogInterval sets how many requests pass between statistics log lines.
// Zero disables the periodic line.
func WithLogInterval(n uint64) Option {
	return func(o *options) {
		o.logInterval = n
	}
}

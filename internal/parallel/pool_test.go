package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// =============================================================================
// Creation Tests
// =============================================================================

func TestPool_Create(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
	if !pool.IsRunning() {
		t.Error("Pool should be running after creation")
	}
}

func TestPool_CreateDefaultWorkers(t *testing.T) {
	for _, n := range []int{0, -5} {
		pool := New(n)
		if pool.Workers() != runtime.GOMAXPROCS(0) {
			t.Errorf("New(%d).Workers() = %d, want GOMAXPROCS %d", n, pool.Workers(), runtime.GOMAXPROCS(0))
		}
		pool.Close()
	}
}

// =============================================================================
// ExecuteAll Tests
// =============================================================================

func TestPool_ExecuteAll(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		tasks   int
	}{
		{"single worker", 1, 50},
		{"few workers", 4, 100},
		{"many small tasks", 4, 10000},
		{"more workers than tasks", 32, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := New(tt.workers)
			defer pool.Close()

			var counter atomic.Int64
			tasks := make([]func(), tt.tasks)
			for i := range tasks {
				tasks[i] = func() { counter.Add(1) }
			}
			pool.ExecuteAll(tasks)

			if got := counter.Load(); got != int64(tt.tasks) {
				t.Errorf("counter = %d, want %d", got, tt.tasks)
			}
		})
	}
}

func TestPool_ExecuteAll_Empty(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	// Should not panic or block
	pool.ExecuteAll(nil)
	pool.ExecuteAll([]func(){})
}

func TestPool_ExecuteAll_UnevenTasks(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	// Every fourth task is slow so one queue fills with slow work; stealing
	// must still complete the batch.
	var counter atomic.Int64
	tasks := make([]func(), 40)
	for i := range tasks {
		tasks[i] = func() {
			if i%4 == 0 {
				time.Sleep(time.Millisecond)
			}
			counter.Add(1)
		}
	}
	pool.ExecuteAll(tasks)

	if counter.Load() != 40 {
		t.Errorf("counter = %d, want 40", counter.Load())
	}
}

func TestPool_ForEach(t *testing.T) {
	pool := New(3)
	defer pool.Close()

	out := make([]int, 100)
	pool.ForEach(len(out), func(i int) {
		out[i] = i * i
	})

	for i, v := range out {
		if v != i*i {
			t.Fatalf("out[%d] = %d, want %d", i, v, i*i)
		}
	}
}

// =============================================================================
// Close Tests
// =============================================================================

func TestPool_Close(t *testing.T) {
	pool := New(4)
	pool.Close()
	pool.Close()

	if pool.IsRunning() {
		t.Error("Pool should not be running after close")
	}
}

func TestPool_ExecuteAfterClose(t *testing.T) {
	pool := New(4)
	pool.Close()

	out := make([]int, 10)
	pool.ForEach(len(out), func(i int) { out[i] = i + 1 })

	for i, v := range out {
		if v != i+1 {
			t.Errorf("out[%d] = %d after close, want %d", i, v, i+1)
		}
	}
}

// =============================================================================
// Concurrency Tests
// =============================================================================

func TestPool_ConcurrentBatches(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	var counter atomic.Int64
	const callers, perCaller = 10, 50

	var wg sync.WaitGroup
	wg.Add(callers)
	for range callers {
		go func() {
			defer wg.Done()
			pool.ForEach(perCaller, func(int) { counter.Add(1) })
		}()
	}
	wg.Wait()

	if got := counter.Load(); got != callers*perCaller {
		t.Errorf("counter = %d, want %d", got, callers*perCaller)
	}
}

func TestPool_NoGoroutineLeak(t *testing.T) {
	runtime.GC()
	time.Sleep(50 * time.Millisecond)
	baseline := runtime.NumGoroutine()

	for range 5 {
		pool := New(4)
		pool.ForEach(100, func(int) {})
		pool.Close()
	}

	runtime.GC()
	time.Sleep(100 * time.Millisecond)

	// Allow for some variance (test framework goroutines, etc.)
	if final := runtime.NumGoroutine(); final > baseline+2 {
		t.Errorf("goroutine count: baseline=%d, final=%d (leak detected)", baseline, final)
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkPool_ForEach(b *testing.B) {
	pool := New(0)
	defer pool.Close()

	for b.Loop() {
		pool.ForEach(64, func(int) {})
	}
}

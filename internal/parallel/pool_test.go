package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// =============================================================================
// WorkerPool Creation Tests
// =============================================================================

func TestWorkerPool_Create(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
	if !pool.IsRunning() {
		t.Error("pool should be running after creation")
	}
}

func TestWorkerPool_CreateDefaultWorkers(t *testing.T) {
	for _, n := range []int{0, -3} {
		pool := NewWorkerPool(n)
		if got, want := pool.Workers(), runtime.GOMAXPROCS(0); got != want {
			t.Errorf("NewWorkerPool(%d).Workers() = %d, want %d", n, got, want)
		}
		pool.Close()
	}
}

// =============================================================================
// ExecuteAll / Submit Tests
// =============================================================================

func TestWorkerPool_ExecuteAll(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	work := make([]func(), 100)
	for i := range work {
		work[i] = func() { counter.Add(1) }
	}
	pool.ExecuteAll(work)

	if counter.Load() != 100 {
		t.Errorf("counter = %d, want 100", counter.Load())
	}
}

func TestWorkerPool_ExecuteAll_Empty(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	pool.ExecuteAll(nil)
	pool.ExecuteAll([]func(){})
}

func TestWorkerPool_ExecuteAll_AfterClose(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()

	var counter atomic.Int64
	pool.ExecuteAll([]func(){
		func() { counter.Add(1) },
		func() { counter.Add(1) },
	})
	if counter.Load() != 2 {
		t.Errorf("work after Close ran %d times, want 2 (inline)", counter.Load())
	}
}

func TestWorkerPool_Submit(t *testing.T) {
	pool := NewWorkerPool(3)
	defer pool.Close()

	var wg sync.WaitGroup
	var counter atomic.Int64
	for range 20 {
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			counter.Add(1)
		})
	}
	wg.Wait()

	if counter.Load() != 20 {
		t.Errorf("counter = %d, want 20", counter.Load())
	}
	pool.Submit(nil)
}

func TestWorkerPool_CloseIdempotent(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()
	pool.Close()

	if pool.IsRunning() {
		t.Error("pool should not be running after Close")
	}
}

func TestWorkerPool_QueuedWork(t *testing.T) {
	pool := NewWorkerPool(1)
	defer pool.Close()

	if got := pool.QueuedWork(); got != 0 {
		t.Fatalf("QueuedWork() on idle pool = %d, want 0", got)
	}

	started := make(chan struct{})
	release := make(chan struct{})
	pool.Submit(func() {
		close(started)
		<-release
	})
	<-started
	for range 3 {
		pool.Submit(func() {})
	}
	if got := pool.QueuedWork(); got != 3 {
		t.Errorf("QueuedWork() with busy worker = %d, want 3", got)
	}
	close(release)
}

func TestWorkerPool_CloseDrainsQueuedWork(t *testing.T) {
	pool := NewWorkerPool(1)

	var counter atomic.Int64
	block := make(chan struct{})
	pool.Submit(func() { <-block })
	for range 5 {
		pool.Submit(func() { counter.Add(1) })
	}
	close(block)
	pool.Close()

	if counter.Load() != 5 {
		t.Errorf("queued work run = %d, want 5", counter.Load())
	}
}

func TestWorkerPool_WorkStealing(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	// Sleeping items must overlap across workers.
	var active, peak atomic.Int64
	work := make([]func(), 16)
	for i := range work {
		work[i] = func() {
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			active.Add(-1)
		}
	}
	pool.ExecuteAll(work)

	if peak.Load() < 2 {
		t.Errorf("peak concurrency = %d, want at least 2", peak.Load())
	}
}

// =============================================================================
// Task Tests
// =============================================================================

// one schedules fn as a single-chunk ParallelFor.
func one(pool *WorkerPool, fn func(), deps ...*Task) *Task {
	return pool.ParallelFor(1, 1, func(int) { fn() }, deps...)
}

func TestTask_NilIsComplete(t *testing.T) {
	var task *Task
	if !task.Done() {
		t.Error("nil task should report Done")
	}
	task.Wait()
}

func TestCombine(t *testing.T) {
	if !Combine().Done() {
		t.Error("Combine() should be complete")
	}
	if !Combine(nil, Completed()).Done() {
		t.Error("Combine of completed tasks should be complete")
	}

	pool := NewWorkerPool(2)
	defer pool.Close()

	release := make(chan struct{})
	blocked := one(pool, func() { <-release })
	combined := Combine(Completed(), blocked)
	if combined.Done() {
		t.Fatal("Combine completed before its inputs")
	}
	close(release)
	combined.Wait()
	if !blocked.Done() {
		t.Error("input not complete after Combine completed")
	}
}

func TestParallelFor_VisitsEveryIndexOnce(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	tests := []struct {
		n, batch int
	}{
		{1, 1},
		{10, 3},
		{100, 16},
		{1000, 64},
		{7, 0},
	}
	for _, tt := range tests {
		hits := make([]atomic.Int32, tt.n)
		pool.ParallelFor(tt.n, tt.batch, func(i int) { hits[i].Add(1) }).Wait()
		for i := range hits {
			if got := hits[i].Load(); got != 1 {
				t.Fatalf("n=%d batch=%d: index %d visited %d times", tt.n, tt.batch, i, got)
			}
		}
	}
}

func TestParallelFor_Empty(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	called := false
	pool.ParallelFor(0, 16, func(int) { called = true }).Wait()
	if called {
		t.Error("fn called for n=0")
	}
}

func TestParallelFor_SingleChunkAfterClose(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()

	ran := false
	task := pool.ParallelFor(3, 8, func(int) { ran = true })
	task.Wait()
	if !ran {
		t.Error("single chunk did not run on a closed pool")
	}
	if !task.Done() {
		t.Error("task not done after Wait")
	}
}

func TestParallelFor_RespectsDependencies(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	const n = 64
	stage := make([]int, n)

	first := pool.ParallelFor(n, 8, func(i int) {
		time.Sleep(50 * time.Microsecond)
		stage[i] = 1
	})
	second := pool.ParallelFor(n, 8, func(i int) {
		if stage[i] != 1 {
			t.Errorf("index %d ran before its dependency", i)
		}
		stage[i] = 2
	}, first)
	second.Wait()

	if !first.Done() {
		t.Error("dependency not complete after dependent task")
	}
	for i, s := range stage {
		if s != 2 {
			t.Fatalf("stage[%d] = %d, want 2", i, s)
		}
	}
}

func TestParallelFor_ChainOrdering(t *testing.T) {
	pool := NewWorkerPool(3)
	defer pool.Close()

	var order []string
	var mu sync.Mutex
	record := func(s string) {
		mu.Lock()
		order = append(order, s)
		mu.Unlock()
	}

	a := one(pool, func() { time.Sleep(2 * time.Millisecond); record("a") })
	b := one(pool, func() { time.Sleep(time.Millisecond); record("b") })
	c := one(pool, func() { record("c") }, a, b)
	c.Wait()

	if len(order) != 3 || order[2] != "c" {
		t.Errorf("order = %v, want c last", order)
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkParallelFor_1000(b *testing.B) {
	pool := NewWorkerPool(0)
	defer pool.Close()

	data := make([]float32, 1000)
	b.ResetTimer()
	for range b.N {
		pool.ParallelFor(len(data), 16, func(i int) { data[i] += 1 }).Wait()
	}
}

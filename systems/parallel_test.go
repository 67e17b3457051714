package systems

import (
	"sync/atomic"
	"testing"
)

func TestPoolCoversEveryIndexOnce(t *testing.T) {
	pool := NewPool(4, 16)
	defer pool.Close()

	for _, n := range []int{0, 1, 7, 15, 16, 17, 1000, 100003} {
		hits := make([]int32, n)
		pool.Run(n, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, h)
			}
		}
	}
}

func TestPoolRunIsBarrier(t *testing.T) {
	pool := NewPool(8, 1)
	defer pool.Close()

	var done atomic.Int64
	pool.Run(1<<16, func(start, end int) {
		done.Add(int64(end - start))
	})
	if got := done.Load(); got != 1<<16 {
		t.Errorf("expected all %d elements finished when Run returns, got %d", 1<<16, got)
	}
}

func TestPoolRestartAfterClose(t *testing.T) {
	pool := NewPool(3, 1)

	var count atomic.Int64
	pool.Run(100, func(start, end int) { count.Add(int64(end - start)) })
	pool.Close()
	pool.Run(100, func(start, end int) { count.Add(int64(end - start)) })
	pool.Close()

	if got := count.Load(); got != 200 {
		t.Errorf("expected 200, got %d", got)
	}
}

func TestPoolRunWeighted(t *testing.T) {
	pool := NewPool(4, 1000)
	defer pool.Close()

	// 10 rows of 200 cells clear the threshold even though 10 does not.
	var chunks atomic.Int32
	pool.RunWeighted(10, 200, func(start, end int) { chunks.Add(1) })
	if got := chunks.Load(); got < 2 {
		t.Errorf("expected the rows to be split, got %d chunk(s)", got)
	}
}

func TestNewPoolDefaults(t *testing.T) {
	pool := NewPool(0, 0)
	if pool.Workers() < 1 {
		t.Errorf("expected at least one worker, got %d", pool.Workers())
	}
	if pool.threshold != DefaultParallelThreshold {
		t.Errorf("expected default threshold %d, got %d", DefaultParallelThreshold, pool.threshold)
	}
}

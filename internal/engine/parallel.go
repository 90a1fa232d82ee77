package engine

import (
	"runtime"
	"sync"
)

// parallelFor splits [0, n) across workers. Within a step the grid
// arrays are write-only per range, so chunks are independent; the Wait
// is the barrier between the write phase and the next read phase.
func parallelFor(n, minChunk int, fn func(start, end int)) {
	workers := runtime.NumCPU()
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

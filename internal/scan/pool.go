package scan

import (
	"context"
	"runtime"
	"sync"
)

// Workers resolves a worker count: n when positive, the CPU count otherwise.
func Workers(n int) int {
	if n > 0 {
		return n
	}

	return max(runtime.NumCPU(), 1)
}

// Run calls process for every item on at most workers goroutines and returns the results in item order.
// newState is called once per worker; the state it returns is only ever used by that worker, so it can hold
// buffers and plans that are not safe for concurrent use. done, when set, is called after each item from
// the worker goroutine and must be safe for concurrent use.
func Run[T, S, R any](
	ctx context.Context,
	items []T,
	workers int,
	newState func() S,
	process func(ctx context.Context, state S, item T) R,
	done func(idx int, item T, result R),
) []R {
	results := make([]R, len(items))
	jobs := make(chan int, len(items))

	for idx := range items {
		jobs <- idx
	}

	close(jobs)

	var waitGroup sync.WaitGroup

	for range min(Workers(workers), len(items)) {
		waitGroup.Go(func() {
			state := newState()

			for idx := range jobs {
				results[idx] = process(ctx, state, items[idx])

				if done != nil {
					done(idx, items[idx], results[idx])
				}
			}
		})
	}

	waitGroup.Wait()

	return results
}

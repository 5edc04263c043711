package concurrency

import (
	"context"
	"fmt"
	"sync"
)

// ParallelOptions configures bounded parallel processing.
type ParallelOptions struct {
	MaxWorkers int
}

func DefaultOptions() ParallelOptions {
	return ParallelOptions{MaxWorkers: 10}
}

// ProcessParallel runs itemFunc over items with a bounded worker pool.
// Results come back in input order; errors are collected, not fail-fast.
// When ctx is canceled before every item ran, the skipped items leave
// zero-valued results and the cancellation is reported in the error list.
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	maxWorkers := opts.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = DefaultOptions().MaxWorkers
	}
	if maxWorkers > len(items) {
		maxWorkers = len(items)
	}

	type outcome struct {
		index  int
		result R
		err    error
	}

	jobs := make(chan int, len(items))
	results := make(chan outcome, len(items))

	var wg sync.WaitGroup
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
					r, err := itemFunc(ctx, i, items[i])
					results <- outcome{index: i, result: r, err: err}
				}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]R, len(items))
	var errs []error
	processed := 0
	for res := range results {
		processed++
		if res.err != nil {
			errs = append(errs, res.err)
		}
		out[res.index] = res.result
	}
	if processed < len(items) {
		errs = append(errs, fmt.Errorf("concurrency: %d of %d items skipped: %w", len(items)-processed, len(items), ctx.Err()))
	}
	return out, errs
}

package engine

import "sync"

type pooled struct {
	workers int
}

// Pooled returns an EngineContext backed by a bounded worker pool, built
// from a semaphore channel and a WaitGroup in the same explicit
// mutex/goroutine style the teacher repo uses for its own concurrent state
// (storage.Buffer, iceberg.Writer) rather than a third-party task-group
// library.
func Pooled(workers int) Context {
	if workers < 1 {
		workers = 1
	}
	return pooled{workers: workers}
}

func (p pooled) Parallelize(items []any, parallelism int) []any {
	return items
}

func (p pooled) Map(items []any, parallelism int, fn func(any) (any, error)) ([]any, error) {
	if parallelism < 1 {
		parallelism = 1
	}
	if parallelism > p.workers {
		parallelism = p.workers
	}

	results := make([]any, len(items))
	errs := make([]error, len(items))
	sem := make(chan struct{}, parallelism)
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, item any) {
			defer wg.Done()
			defer func() { <-sem }()
			v, err := fn(item)
			results[i] = v
			errs[i] = err
		}(i, item)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (p pooled) FlatMap(items []any, parallelism int, fn func(any) ([]any, error)) ([]any, error) {
	if parallelism < 1 {
		parallelism = 1
	}
	if parallelism > p.workers {
		parallelism = p.workers
	}

	perItem := make([][]any, len(items))
	errs := make([]error, len(items))
	sem := make(chan struct{}, parallelism)
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, item any) {
			defer wg.Done()
			defer func() { <-sem }()
			vs, err := fn(item)
			perItem[i] = vs
			errs[i] = err
		}(i, item)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var out []any
	for _, vs := range perItem {
		out = append(out, vs...)
	}
	return out, nil
}

func (p pooled) Union(lists ...[]any) []any {
	var out []any
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

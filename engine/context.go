// Package engine provides the EngineContext capability the builders use for
// data-parallel fan-out: Parallelize/Map/FlatMap/Union, each with bounded
// parallelism so memory stays proportional to the per-action work, not
// table size (spec §5).
package engine

// Context is the capability consumed by every builder. Sequential() gives a
// deterministic, goroutine-free implementation for tests; Pooled(n) gives a
// bounded worker-pool implementation for production use.
type Context interface {
	// Parallelize splits items into parallelism-many conceptual partitions;
	// callers that only need bounded concurrency for Map/FlatMap can ignore
	// the return value. It returns items unchanged, mirroring the contract
	// of a no-op repartition on a pure in-memory slice.
	Parallelize(items []any, parallelism int) []any

	// Map applies fn to every item with at most parallelism concurrent
	// calls in flight. On error no results are returned. Sequential stops
	// at the first failing item; Pooled runs every item to completion and
	// then returns the error of the lowest-index failing item.
	Map(items []any, parallelism int, fn func(any) (any, error)) ([]any, error)

	// FlatMap is Map whose fn may produce zero or more outputs per item.
	FlatMap(items []any, parallelism int, fn func(any) ([]any, error)) ([]any, error)

	// Union concatenates result sets from independent stages.
	Union(lists ...[]any) []any
}

// Parallelism bounds a configured degree of parallelism to the number of
// inputs available, never less than 1 — the "max(1, min(inputs, configured))"
// rule used throughout spec §4.4/§4.5/§4.7.
func Parallelism(inputs, configured int) int {
	if configured < 1 {
		configured = 1
	}
	if inputs < configured {
		configured = inputs
	}
	if configured < 1 {
		configured = 1
	}
	return configured
}

package engine

import (
	"errors"
	"sort"
	"testing"
)

func TestSequentialMapPreservesOrder(t *testing.T) {
	items := []any{1, 2, 3, 4}
	out, err := Sequential().Map(items, 2, func(v any) (any, error) {
		return v.(int) * 2, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{2, 4, 6, 8}
	for i, v := range want {
		if out[i].(int) != v {
			t.Errorf("out[%d] = %v, want %v", i, out[i], v)
		}
	}
}

func TestSequentialMapPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Sequential().Map([]any{1}, 1, func(any) (any, error) {
		return nil, boom
	})
	if err != boom {
		t.Fatalf("expected boom error, got %v", err)
	}
}

func TestPooledMapMatchesSequentialResults(t *testing.T) {
	items := make([]any, 50)
	for i := range items {
		items[i] = i
	}

	seqOut, err := Sequential().Map(items, 4, func(v any) (any, error) { return v.(int) * v.(int), nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	poolOut, err := Pooled(8).Map(items, 4, func(v any) (any, error) { return v.(int) * v.(int), nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seqOut) != len(poolOut) {
		t.Fatalf("length mismatch: %d vs %d", len(seqOut), len(poolOut))
	}
	for i := range seqOut {
		if seqOut[i] != poolOut[i] {
			t.Errorf("index %d: sequential=%v pooled=%v", i, seqOut[i], poolOut[i])
		}
	}
}

func TestPooledFlatMapUnorderedContentsMatch(t *testing.T) {
	items := []any{1, 2, 3}
	out, err := Pooled(4).FlatMap(items, 4, func(v any) ([]any, error) {
		n := v.(int)
		return []any{n, n}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ints := make([]int, len(out))
	for i, v := range out {
		ints[i] = v.(int)
	}
	sort.Ints(ints)
	want := []int{1, 1, 2, 2, 3, 3}
	for i, v := range want {
		if ints[i] != v {
			t.Fatalf("got %v, want %v", ints, want)
		}
	}
}

func TestParallelism(t *testing.T) {
	tests := []struct {
		inputs, configured, want int
	}{
		{10, 4, 4},
		{2, 4, 2},
		{0, 4, 1},
		{10, 0, 1},
	}
	for _, tt := range tests {
		if got := Parallelism(tt.inputs, tt.configured); got != tt.want {
			t.Errorf("Parallelism(%d, %d) = %d, want %d", tt.inputs, tt.configured, got, tt.want)
		}
	}
}

// Package fsview implements the FS Fallback Lister (FL): when no metadata
// index state exists yet, it recovers the table's partition list directly
// from the filesystem by walking the base path (spec §4.7).
package fsview

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"hudi-metaindex/action"
	"hudi-metaindex/engine"
	"hudi-metaindex/metaindex"
	"hudi-metaindex/storage"
)

// DefaultMaxListParallelism is the default bound on how many directories
// are listed concurrently in one BFS round (spec §4.7).
const DefaultMaxListParallelism = 1500

// Lister recovers partition paths (and, per partition, the base/log files
// present) by walking a storage.FileSystem rooted at a table's base path,
// with no dependency on any persisted metadata table state.
type Lister struct {
	FS                storage.FileSystem
	MaxListParallelism int
	// DatePartitioned short-circuits the walk to exactly three directory
	// levels (spec §4.7's "date-partitioning mode"), skipping the marker
	// probe — callers must opt in explicitly (spec §9 Open Question).
	DatePartitioned bool
}

func NewLister(fs storage.FileSystem) *Lister {
	return &Lister{FS: fs, MaxListParallelism: DefaultMaxListParallelism}
}

// worklist is a concurrency-safe queue of directories still to expand,
// safe for concurrent append during a round and snapshot-clear between
// rounds (spec §4.7).
type worklist struct {
	mu    sync.Mutex
	items []string
}

func (w *worklist) push(p string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = append(w.items, p)
}

func (w *worklist) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := w.items
	w.items = nil
	return out
}

// partitionPaths is the concurrency-safe accumulator of discovered
// partition relative paths.
type partitionPaths struct {
	mu    sync.Mutex
	paths []string
}

func (p *partitionPaths) add(rel string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paths = append(p.paths, rel)
}

func (p *partitionPaths) snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.paths...)
}

// ListPartitions walks basePath iteratively, breadth-first, discovering
// every partition directory (one that directly contains the reserved
// partition marker file).
func (l *Lister) ListPartitions(ctx context.Context, ec engine.Context, basePath string) ([]string, error) {
	wl := &worklist{items: []string{basePath}}
	found := &partitionPaths{}

	if l.DatePartitioned {
		return l.listDatePartitioned(ctx, ec, basePath)
	}

	for {
		dirs := wl.drain()
		if len(dirs) == 0 {
			break
		}

		items := make([]any, len(dirs))
		for i, d := range dirs {
			items[i] = d
		}

		parallelism := engine.Parallelism(len(items), l.maxParallelism())
		_, err := ec.Map(items, parallelism, func(raw any) (any, error) {
			dir := raw.(string)
			isPartition, err := l.expandOne(ctx, dir, basePath, wl, found)
			if err != nil {
				return nil, err
			}
			return isPartition, nil
		})
		if err != nil {
			return nil, err
		}
	}

	return found.snapshot(), nil
}

// expandOne lists one directory, recording it as a partition if it
// contains the marker file and otherwise enqueueing its subdirectories.
func (l *Lister) expandOne(ctx context.Context, dir, basePath string, wl *worklist, found *partitionPaths) (bool, error) {
	entries, err := l.FS.List(ctx, dir)
	if err != nil {
		return false, fmt.Errorf("listing %s: %w", dir, err)
	}

	isPartition := false
	for _, e := range entries {
		if !e.IsDir && path.Base(e.Path) == metaindex.PartitionMetaFileName {
			isPartition = true
			break
		}
	}

	if isPartition {
		found.add(relativePartition(basePath, dir))
		return true, nil
	}

	for _, e := range entries {
		if !e.IsDir {
			continue
		}
		name := path.Base(e.Path)
		if strings.HasPrefix(name, ".hoodie") {
			continue
		}
		wl.push(e.Path)
	}
	return false, nil
}

// listDatePartitioned short-circuits the walk to exactly three levels
// (year/month/day) without probing for the marker file at all, per the
// heuristic "date-partitioning" mode spec §9 flags as opt-in only.
func (l *Lister) listDatePartitioned(ctx context.Context, ec engine.Context, basePath string) ([]string, error) {
	level, dirs := 0, []string{basePath}
	for level < 3 {
		items := make([]any, len(dirs))
		for i, d := range dirs {
			items[i] = d
		}
		parallelism := engine.Parallelism(len(items), l.maxParallelism())
		results, err := ec.FlatMap(items, parallelism, func(raw any) ([]any, error) {
			dir := raw.(string)
			entries, err := l.FS.List(ctx, dir)
			if err != nil {
				return nil, fmt.Errorf("listing %s: %w", dir, err)
			}
			var out []any
			for _, e := range entries {
				if e.IsDir {
					out = append(out, e.Path)
				}
			}
			return out, nil
		})
		if err != nil {
			return nil, err
		}
		dirs = dirs[:0]
		for _, r := range results {
			dirs = append(dirs, r.(string))
		}
		level++
	}

	out := make([]string, len(dirs))
	for i, d := range dirs {
		out[i] = relativePartition(basePath, d)
	}
	return out, nil
}

func (l *Lister) maxParallelism() int {
	if l.MaxListParallelism < 1 {
		return DefaultMaxListParallelism
	}
	return l.MaxListParallelism
}

func relativePartition(basePath, dir string) string {
	rel := strings.TrimPrefix(dir, basePath)
	rel = strings.Trim(rel, "/")
	if rel == "" {
		return metaindex.NonPartitionedName
	}
	return rel
}

// ListPartitionFiles lists the files directly under one discovered
// partition into a single PartitionFiles record, for use when FL is the
// only available source of a partition's file list (no persisted FILES
// partition to read). Every file except the partition marker goes into
// FilesAdded with its size; base and log files are not told apart.
func (l *Lister) ListPartitionFiles(ctx context.Context, basePath, partition string) ([]metaindex.Record, error) {
	dir := basePath
	if partition != metaindex.NonPartitionedName {
		dir = path.Join(basePath, partition)
	}
	entries, err := l.FS.List(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("listing partition %s: %w", partition, err)
	}

	adds := map[string]int64{}
	for _, e := range entries {
		if e.IsDir {
			continue
		}
		name := path.Base(e.Path)
		if name == metaindex.PartitionMetaFileName {
			continue
		}
		adds[name] = e.Size
	}

	return []metaindex.Record{{
		Kind:       metaindex.PartitionFilesType,
		Partition:  partition,
		FilesAdded: adds,
	}}, nil
}

// ReadBloomFilter and ReadColumnRanges are unimplemented on the FS-fallback
// path: without a persisted metadata table there is nowhere cheap to read
// an embedded filter or column range from that doesn't mean opening every
// base file, so this view reports Unsupported rather than silently reading
// every file in the partition (spec §6/§7's "Unsupported" taxonomy entry).
type unsupportedFileReader struct{}

func (unsupportedFileReader) ReadBloomFilter() (string, []byte, bool, error) {
	return "", nil, false, &metaindex.Unsupported{Operation: "read_bloom_filter (fs-fallback path)"}
}

func (unsupportedFileReader) ReadColumnRanges([]string) ([]action.ColumnRange, error) {
	return nil, &metaindex.Unsupported{Operation: "read_column_ranges (fs-fallback path)"}
}

// FileReaderFactory returns a metaindex.FileReaderFactory that always
// answers Unsupported, for wiring BIB/CIB against the FS-fallback view
// without a persisted metadata table.
func (l *Lister) FileReaderFactory() metaindex.FileReaderFactory {
	return fsFallbackReaders{}
}

type fsFallbackReaders struct{}

func (fsFallbackReaders) Open(string) (metaindex.FileReader, error) {
	return unsupportedFileReader{}, nil
}

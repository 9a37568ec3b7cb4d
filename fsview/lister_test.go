package fsview

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"hudi-metaindex/engine"
	"hudi-metaindex/metaindex"
	"hudi-metaindex/storage"
)

// memFS is an in-memory storage.FileSystem used to exercise Lister without
// touching a real disk or S3 bucket.
type memFS struct {
	mu   sync.Mutex
	dirs map[string][]storage.Entry
}

func newMemFS() *memFS {
	return &memFS{dirs: map[string][]storage.Entry{}}
}

func (m *memFS) mkdir(path string, entries ...storage.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[path] = entries
}

func (m *memFS) Write(ctx context.Context, path string, data io.Reader) error { return nil }
func (m *memFS) Read(ctx context.Context, path string) (io.ReadCloser, error) { return nil, nil }
func (m *memFS) Delete(ctx context.Context, path string, recursive bool) error { return nil }

func (m *memFS) List(ctx context.Context, dir string) ([]storage.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirs[dir], nil
}

func TestListPartitionsFindsMarkedDirectories(t *testing.T) {
	fs := newMemFS()
	fs.mkdir("base",
		storage.Entry{Path: "base/P1", IsDir: true},
		storage.Entry{Path: "base/P2", IsDir: true},
	)
	fs.mkdir("base/P1",
		storage.Entry{Path: "base/P1/" + metaindex.PartitionMetaFileName},
		storage.Entry{Path: "base/P1/a.parquet", Size: 10},
	)
	fs.mkdir("base/P2",
		storage.Entry{Path: "base/P2/sub", IsDir: true},
	)
	fs.mkdir("base/P2/sub",
		storage.Entry{Path: "base/P2/sub/" + metaindex.PartitionMetaFileName},
	)

	lister := NewLister(fs)
	parts, err := lister.ListPartitions(context.Background(), engine.Sequential(), "base")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sort.Strings(parts)
	want := []string{"P1", "P2/sub"}
	if len(parts) != len(want) {
		t.Fatalf("got %v, want %v", parts, want)
	}
	for i := range want {
		if parts[i] != want[i] {
			t.Errorf("parts[%d] = %q, want %q", i, parts[i], want[i])
		}
	}
}

func TestListPartitionsSkipsHoodieMetaDir(t *testing.T) {
	fs := newMemFS()
	fs.mkdir("base",
		storage.Entry{Path: "base/.hoodie", IsDir: true},
		storage.Entry{Path: "base/P1", IsDir: true},
	)
	fs.mkdir("base/P1", storage.Entry{Path: "base/P1/" + metaindex.PartitionMetaFileName})

	lister := NewLister(fs)
	parts, err := lister.ListPartitions(context.Background(), engine.Sequential(), "base")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parts) != 1 || parts[0] != "P1" {
		t.Fatalf("got %v, want [P1]", parts)
	}
}

func TestListPartitionFilesIncludesBaseAndLogFiles(t *testing.T) {
	fs := newMemFS()
	fs.mkdir("base/P",
		storage.Entry{Path: "base/P/" + metaindex.PartitionMetaFileName},
		storage.Entry{Path: "base/P/a.parquet", Size: 10},
		storage.Entry{Path: "base/P/b.log.1", Size: 5},
	)

	lister := NewLister(fs)
	recs, err := lister.ListPartitionFiles(context.Background(), "base", "P")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if len(recs[0].FilesAdded) != 2 {
		t.Fatalf("FilesAdded = %v, want 2 entries (marker file excluded)", recs[0].FilesAdded)
	}
}

func TestFileReaderFactoryReportsUnsupported(t *testing.T) {
	lister := NewLister(newMemFS())
	reader, err := lister.FileReaderFactory().Open("base/P/a.parquet")
	if err != nil {
		t.Fatalf("Open should not itself fail: %v", err)
	}
	if _, _, _, err := reader.ReadBloomFilter(); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected Unsupported error from ReadBloomFilter, got %v", err)
	}
	if _, err := reader.ReadColumnRanges([]string{"c"}); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected Unsupported error from ReadColumnRanges, got %v", err)
	}
}

package metaindex

import (
	"testing"

	"hudi-metaindex/action"
	"hudi-metaindex/engine"
)

type fakeReader struct {
	filterType  string
	filterBytes []byte
	ok          bool
	err         error
}

func (f fakeReader) ReadBloomFilter() (string, []byte, bool, error) {
	return f.filterType, f.filterBytes, f.ok, f.err
}

func (f fakeReader) ReadColumnRanges(columns []string) ([]action.ColumnRange, error) {
	ranges := make([]action.ColumnRange, len(columns))
	for i, c := range columns {
		ranges[i] = action.ColumnRange{Column: c}
	}
	return ranges, nil
}

type fakeReaderFactory struct {
	reader FileReader
	err    error
}

func (f fakeReaderFactory) Open(path string) (FileReader, error) {
	return f.reader, f.err
}

func TestBuildBloomFilterRecordsAddedAndDeleted(t *testing.T) {
	changes := &NormalizedChanges{
		Deleted:  map[string][]string{"P": {"old.parquet"}},
		Appended: map[string]map[string]int64{"P": {"new.parquet": 100}},
	}
	readers := fakeReaderFactory{reader: fakeReader{filterType: "DYNAMIC_V0", filterBytes: []byte{1, 2, 3}, ok: true}}

	recs, err := BuildBloomFilterRecords(engine.Sequential(), Config{BloomIndexParallelism: 2}, changes, "t1", readers, NopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2 (one tombstone, one added)", len(recs))
	}

	var tombstone, added *Record
	for i := range recs {
		if recs[i].IsDeleted {
			tombstone = &recs[i]
		} else {
			added = &recs[i]
		}
	}
	if tombstone == nil || tombstone.FileName != "old.parquet" {
		t.Fatalf("expected tombstone for old.parquet, got %+v", recs)
	}
	if added == nil || added.FileName != "new.parquet" || added.FilterType != "DYNAMIC_V0" {
		t.Fatalf("expected added record for new.parquet with filter type DYNAMIC_V0, got %+v", recs)
	}
}

// I4: log/delta files never produce bloom-filter records.
func TestBuildBloomFilterRecordsSkipsLogFiles(t *testing.T) {
	changes := &NormalizedChanges{
		Deleted:  map[string][]string{"P": {"x.log.1"}},
		Appended: map[string]map[string]int64{"P": {"y.log.1": 10}},
	}
	readers := fakeReaderFactory{reader: fakeReader{ok: true}}

	recs, err := BuildBloomFilterRecords(engine.Sequential(), Config{}, changes, "", readers, NopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("got %d records for log files, want 0", len(recs))
	}
}

func TestBuildBloomFilterRecordsMissingFilterOmitsRecord(t *testing.T) {
	changes := &NormalizedChanges{
		Appended: map[string]map[string]int64{"P": {"no_filter.parquet": 10}},
	}
	readers := fakeReaderFactory{reader: fakeReader{ok: false}}

	recs, err := BuildBloomFilterRecords(engine.Sequential(), Config{}, changes, "", readers, NopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("got %d records when no filter present, want 0 (TransientIo isolated)", len(recs))
	}
}

package metaindex

import (
	"hudi-metaindex/action"
	"hudi-metaindex/engine"
)

// MergeColumnStats implements the merge rule in spec §4.5/I7: if either
// side is a tombstone the tombstone wins; otherwise counts sum and
// min/max combine under natural string order.
//
// NOTE: the source this is grounded on computes the merged max from
// old.Min/new.Min rather than old.Max/new.Max — a latent bug flagged in
// spec §9 as an open question to preserve, not fix. This implementation
// keeps that exact behavior.
func MergeColumnStats(old, new Record) Record {
	if old.FileName != new.FileName {
		panic("MergeColumnStats: file name mismatch")
	}
	if new.IsDeleted {
		return new
	}
	if old.IsDeleted {
		return old
	}

	merged := Record{
		Kind:                  PartitionColumnStats,
		Partition:             new.Partition,
		FileName:              new.FileName,
		Column:                new.Column,
		Min:                   minString(old.Min, new.Min),
		Max:                   maxString(old.Min, new.Min), // preserved bug: see doc comment above
		ValueCount:            old.ValueCount + new.ValueCount,
		NullCount:             old.NullCount + new.NullCount,
		TotalSize:             old.TotalSize + new.TotalSize,
		TotalUncompressedSize: old.TotalUncompressedSize + new.TotalUncompressedSize,
		IsDeleted:             new.IsDeleted,
	}
	return merged
}

func minString(a, b *string) *string {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case *a <= *b:
		return a
	default:
		return b
	}
}

func maxString(a, b *string) *string {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case *a >= *b:
		return a
	default:
		return b
	}
}

// ColumnAggregator performs the per-column streaming aggregation described
// in spec §4.5: used when ranges must be recomputed from a stream of raw
// values rather than read from file metadata.
type ColumnAggregator struct {
	min, max                          *string
	valueCount, nullCount             int64
	totalSize, totalUncompressedSize  int64
}

// Observe folds one value (already stringified, per the index layer's
// string-comparable convention) into the running aggregate. An empty
// string is treated as null.
func (a *ColumnAggregator) Observe(value *string, size, uncompressedSize int64) {
	if value == nil || *value == "" {
		a.nullCount++
		return
	}
	a.valueCount++
	a.totalSize += size
	a.totalUncompressedSize += uncompressedSize

	if a.min == nil || *value < *a.min {
		v := *value
		a.min = &v
	}
	if a.max == nil || *value > *a.max {
		v := *value
		a.max = &v
	}
}

func (a *ColumnAggregator) Range(column string) action.ColumnRange {
	return action.ColumnRange{
		Column:                column,
		Min:                   a.min,
		Max:                   a.max,
		ValueCount:            a.valueCount,
		NullCount:             a.nullCount,
		TotalSize:             a.totalSize,
		TotalUncompressedSize: a.totalUncompressedSize,
	}
}

func columnRangeToRecord(partition, fileName string, r action.ColumnRange, isDeleted bool) Record {
	return Record{
		Kind:                  PartitionColumnStats,
		Partition:             partition,
		FileName:              fileName,
		Column:                r.Column,
		Min:                   r.Min,
		Max:                   r.Max,
		ValueCount:            r.ValueCount,
		NullCount:             r.NullCount,
		TotalSize:             r.TotalSize,
		TotalUncompressedSize: r.TotalUncompressedSize,
		IsDeleted:             isDeleted,
	}
}

// tombstoneColumnStats builds the null-valued tombstone records CIB emits
// for every indexed column of a deleted file.
func tombstoneColumnStats(partition, fileName string, columns []string) []Record {
	out := make([]Record, len(columns))
	for i, col := range columns {
		out[i] = Record{
			Kind:      PartitionColumnStats,
			Partition: partition,
			FileName:  fileName,
			Column:    col,
			IsDeleted: true,
		}
	}
	return out
}

// BuildColumnStatsRecordsFromCommit implements CIB's commit path (spec
// §4.5). Write stats carrying precomputed record_stats translate directly;
// others are read through readers.
func BuildColumnStatsRecordsFromCommit(
	ctx engine.Context,
	cfg Config,
	c *action.CommitMetadata,
	readers FileReaderFactory,
	log Logger,
) ([]Record, error) {
	schemaFields, _ := c.WriterSchemaFields()
	columns := cfg.ColumnsToIndex(schemaFields)
	if len(columns) == 0 {
		return nil, nil
	}

	type item struct {
		partition string
		stat      action.WriteStat
	}
	var items []any
	for partitionName, stats := range c.PartitionToWriteStats {
		partition := Partition(partitionName)
		for _, stat := range stats {
			items = append(items, item{partition: partition, stat: stat})
		}
	}
	if len(items) == 0 {
		return nil, nil
	}

	parallelism := engine.Parallelism(len(items), cfg.ColumnStatsIndexParallelism)
	results, err := ctx.FlatMap(items, parallelism, func(raw any) ([]any, error) {
		it := raw.(item)
		recs, err := columnStatsForWriteStat(it.partition, it.stat, columns, readers)
		if err != nil {
			return nil, err
		}
		out := make([]any, len(recs))
		for i, r := range recs {
			out[i] = r
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(results))
	for _, r := range results {
		out = append(out, r.(Record))
	}
	return out, nil
}

func columnStatsForWriteStat(partition string, stat action.WriteStat, columns []string, readers FileReaderFactory) ([]Record, error) {
	if len(stat.RecordStats) > 0 {
		fileName := StripPartitionPrefix(partition, stat.Path)
		recs := make([]Record, len(stat.RecordStats))
		for i, r := range stat.RecordStats {
			recs[i] = columnRangeToRecord(partition, fileName, r, false)
		}
		return recs, nil
	}
	fileName := StripPartitionPrefix(partition, stat.Path)
	return readColumnStatsForFile(partition, fileName, columns, readers, false)
}

func readColumnStatsForFile(partition, fileName string, columns []string, readers FileReaderFactory, isDeleted bool) ([]Record, error) {
	if !IsParquet(fileName) {
		return nil, &UnsupportedColumnStatsFormat{Path: fileName}
	}

	if isDeleted {
		return tombstoneColumnStats(partition, fileName, columns), nil
	}

	path := fileName
	if partition != NonPartitionedName {
		path = partition + "/" + fileName
	}
	reader, err := readers.Open(path)
	if err != nil {
		return nil, err
	}
	ranges, err := reader.ReadColumnRanges(columns)
	if err != nil {
		return nil, err
	}

	recs := make([]Record, len(ranges))
	for i, r := range ranges {
		recs[i] = columnRangeToRecord(partition, fileName, r, false)
	}
	return recs, nil
}

// BuildColumnStatsRecordsFromChanges implements CIB's rollback/restore/
// clean path: added base files read through readers, deleted files
// produce tombstones for every indexed column (scenario 6 in spec §8).
func BuildColumnStatsRecordsFromChanges(
	ctx engine.Context,
	cfg Config,
	changes *NormalizedChanges,
	columns []string,
	readers FileReaderFactory,
) ([]Record, error) {
	if len(columns) == 0 {
		return nil, nil
	}

	var out []Record

	for partition, files := range changes.Deleted {
		for _, f := range files {
			if !IsBaseFile(f) {
				continue
			}
			recs, err := readColumnStatsForFile(partition, f, columns, readers, true)
			if err != nil {
				return nil, err
			}
			out = append(out, recs...)
		}
	}

	for partition, files := range changes.Appended {
		for f := range files {
			if !IsBaseFile(f) {
				continue
			}
			recs, err := readColumnStatsForFile(partition, f, columns, readers, false)
			if err != nil {
				return nil, err
			}
			out = append(out, recs...)
		}
	}

	return out, nil
}

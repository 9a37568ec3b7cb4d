package metaindex

// Config holds the table-level knobs the builders consult: parallelism
// bounds, which columns to index, and whether the metadata fields Hudi adds
// to every record (commit time, record key, partition path, ...) should be
// folded into the indexed column set.
type Config struct {
	BloomIndexParallelism       int
	ColumnStatsIndexParallelism int

	BloomFilterType string

	AllColumnStatsIndexEnabled bool
	PopulateMetaFields         bool
	RecordKeyFields            []string

	FilesFileGroupCount       int
	BloomFilterFileGroupCount int
	ColumnStatsFileGroupCount int
}

// metadataFields are the engine-owned columns Hudi appends to every record
// when PopulateMetaFields is set, appended to a resolved writer schema
// before indexing (spec §4.5).
var metadataFields = []string{
	"_hoodie_commit_time",
	"_hoodie_commit_seqno",
	"_hoodie_record_key",
	"_hoodie_partition_path",
	"_hoodie_file_name",
}

// ColumnsToIndex implements the column-selection rule in spec §4.5: prefer
// every top-level field of a resolvable writer schema (augmented with
// engine metadata fields when configured), falling back to the table's
// record-key columns.
func (c Config) ColumnsToIndex(writerSchemaFields []string) []string {
	if c.AllColumnStatsIndexEnabled && len(writerSchemaFields) > 0 {
		cols := append([]string(nil), writerSchemaFields...)
		if c.PopulateMetaFields {
			cols = append(cols, metadataFields...)
		}
		return cols
	}
	return c.RecordKeyFields
}

// Package metaindex implements the core of the Metadata Table indexing
// subsystem: the Rollback/Restore Normalizer (RN), Files Index Builder
// (FIB), Bloom-Filter Index Builder (BIB), Column-Stats Index Builder
// (CIB), and Record Router (RR).
package metaindex

// PartitionType is the MetadataPartitionType enum: which physical partition
// of the metadata table a record is routed to.
type PartitionType int

const (
	PartitionFilesType PartitionType = iota + 1
	PartitionBloomFilters
	PartitionColumnStats
)

// Reserved string constants (spec §6).
const (
	NonPartitionedName = "__non_partitioned__"
	EmptyPartitionName = ""

	MetadataPartitionFiles        = "files"
	MetadataPartitionBloomFilters = "bloom_filters"
	MetadataPartitionColumnStats  = "column_stats"

	// AllPartitionsKey is the routing key for the single PartitionList
	// record within the FILES partition.
	AllPartitionsKey = "__all_partitions__"

	// PartitionMetaFileName is the well-known marker file whose presence
	// under a directory tags it as a partition, consumed by FL.
	PartitionMetaFileName = ".hoodie_partition_metadata"
)

func (t PartitionType) String() string {
	switch t {
	case PartitionFilesType:
		return MetadataPartitionFiles
	case PartitionBloomFilters:
		return MetadataPartitionBloomFilters
	case PartitionColumnStats:
		return MetadataPartitionColumnStats
	default:
		return "unknown"
	}
}

// FileInfo is one file's recorded size plus deletion flag, as carried in a
// PartitionFiles record's additions map.
type FileInfo struct {
	Size      int64
	IsDeleted bool
}

// Record is the tagged union over the four MetadataRecord shapes (spec §3).
// Exactly one of the payload fields is populated, selected by Kind.
type Record struct {
	Kind PartitionType

	// PartitionList payload.
	Partitions []string

	// PartitionFiles payload.
	Partition    string
	FilesAdded   map[string]int64
	FilesDeleted []string

	// BloomFilterEntry payload.
	FileName    string
	InstantTs   string
	FilterType  string
	FilterBytes []byte
	IsDeleted   bool

	// ColumnStats payload.
	Column                string
	Min                   *string
	Max                   *string
	ValueCount            int64
	NullCount             int64
	TotalSize             int64
	TotalUncompressedSize int64
}

// Key computes the record's routing key per spec §4.6 / I6.
func (r Record) Key() string {
	switch r.Kind {
	case PartitionFilesType:
		if r.Partitions != nil {
			return AllPartitionsKey
		}
		return r.Partition
	case PartitionBloomFilters:
		return r.Partition + "\x00" + r.FileName
	case PartitionColumnStats:
		return r.Partition + "\x00" + r.FileName + "\x00" + r.Column
	default:
		return ""
	}
}

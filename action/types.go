// Package action implements the Action Reader (AR): parsing one action
// document (commit, clean, rollback, restore) into the in-memory shapes the
// rest of the pipeline consumes. Purely local, no side effects (spec §4.1).
package action

import "strings"

// ColumnRange is a precomputed per-column statistic range attached to a
// WriteStat when the writer already computed it inline (a "delta write stat
// with record stats" in spec §4.5), sparing CIB a file read.
type ColumnRange struct {
	Column                string  `json:"column"`
	Min                   *string `json:"min,omitempty"`
	Max                   *string `json:"max,omitempty"`
	ValueCount            int64   `json:"value_count"`
	NullCount             int64   `json:"null_count"`
	TotalSize             int64   `json:"total_size"`
	TotalUncompressedSize int64   `json:"total_uncompressed_size"`
}

// WriteStat is one file touched by an instant, as emitted by the (external,
// out-of-scope) write path. PartitionPath is the write stat's own partition
// key; Path is partition-prefixed the way the original write stats are.
type WriteStat struct {
	PartitionPath string        `json:"partition_path"`
	Path          string        `json:"path"`
	FileSizeBytes int64         `json:"file_size_bytes"`
	IsDelta       bool          `json:"is_delta"`
	RecordStats   []ColumnRange `json:"record_stats,omitempty"`
}

// CommitMetadata describes one commit or deltacommit action.
type CommitMetadata struct {
	OperationType        string                 `json:"operation_type"`
	ExtraMetadata         map[string]string      `json:"extra_metadata,omitempty"`
	PartitionToWriteStats map[string][]WriteStat `json:"partition_to_write_stats"`
	raw                   map[string]any
}

// WriterSchema returns the writer schema string stashed in extra metadata
// under the well-known "schema" key, if the writer populated one.
func (c *CommitMetadata) WriterSchema() (string, bool) {
	if c.ExtraMetadata == nil {
		return "", false
	}
	s, ok := c.ExtraMetadata["schema"]
	return s, ok && s != ""
}

// WriterSchemaFields returns the resolvable writer schema's top-level field
// names. The Avro-schema-to-field-name resolution this mirrors is the
// Avro <-> logical-type mapping utility spec.md §1 calls out as a separate,
// out-of-scope concern; this repo consumes its output directly as a
// comma-separated list under extra_metadata["schema_fields"] rather than
// parsing an Avro schema document itself.
func (c *CommitMetadata) WriterSchemaFields() ([]string, bool) {
	if c.ExtraMetadata == nil {
		return nil, false
	}
	raw, ok := c.ExtraMetadata["schema_fields"]
	if !ok || raw == "" {
		return nil, false
	}
	fields := strings.Split(raw, ",")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields, true
}

// CleanMetadata describes one clean action: files physically deleted per
// partition.
type CleanMetadata struct {
	PartitionToDeletedFiles map[string][]string `json:"partition_to_deleted_files"`
}

// RollbackPartitionMetadata is one partition's share of a rollback.
type RollbackPartitionMetadata struct {
	PartitionPath    string           `json:"partition_path"`
	SuccessDeletes   []string         `json:"success_delete_files"`
	FailedDeletes    []string         `json:"failed_delete_files"`
	RollbackLogFiles map[string]int64 `json:"rollback_log_files"`
}

// RollbackMetadata describes one rollback action, including every
// partition's delete/append outcome and the single instant being rolled
// back (commits_rolled_back is modeled as a list for fidelity with the
// source format, but only index 0 is ever consulted, per spec §4.2).
type RollbackMetadata struct {
	CommitsRolledBack []string                             `json:"commits_rolled_back"`
	PartitionMetadata map[string]RollbackPartitionMetadata `json:"partition_metadata"`
}

// InstantToRollback returns commits_rolled_back[0], the instant this
// rollback targets. Fails MalformedAction if the list is empty.
func (r *RollbackMetadata) InstantToRollback() (string, error) {
	if len(r.CommitsRolledBack) == 0 {
		return "", &MalformedAction{Reason: "rollback metadata has no commits_rolled_back entry"}
	}
	return r.CommitsRolledBack[0], nil
}

// RestoreMetadata is an ordered sequence of RollbackMetadata entries, one
// per instant undone by the restore.
type RestoreMetadata struct {
	Rollbacks []RollbackMetadata `json:"rollbacks"`
}

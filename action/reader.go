package action

import (
	"encoding/json"
	"fmt"
)

// ReadCommit parses a commit/deltacommit action blob. Unknown fields are
// preserved in an internal raw map but otherwise ignored, matching the
// "structurally faithful, unknown fields preserved" contract.
func ReadCommit(blob []byte) (*CommitMetadata, error) {
	var raw map[string]any
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, &MalformedAction{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	var c CommitMetadata
	if err := json.Unmarshal(blob, &c); err != nil {
		return nil, &MalformedAction{Reason: fmt.Sprintf("decoding commit metadata: %v", err)}
	}
	if c.PartitionToWriteStats == nil {
		return nil, &MalformedAction{Reason: "commit metadata missing partition_to_write_stats"}
	}
	c.raw = raw
	return &c, nil
}

// ReadClean parses a clean action blob.
func ReadClean(blob []byte) (*CleanMetadata, error) {
	var c CleanMetadata
	if err := json.Unmarshal(blob, &c); err != nil {
		return nil, &MalformedAction{Reason: fmt.Sprintf("decoding clean metadata: %v", err)}
	}
	if c.PartitionToDeletedFiles == nil {
		return nil, &MalformedAction{Reason: "clean metadata missing partition_to_deleted_files"}
	}
	return &c, nil
}

// ReadRollback parses a rollback action blob.
func ReadRollback(blob []byte) (*RollbackMetadata, error) {
	var r RollbackMetadata
	if err := json.Unmarshal(blob, &r); err != nil {
		return nil, &MalformedAction{Reason: fmt.Sprintf("decoding rollback metadata: %v", err)}
	}
	if len(r.CommitsRolledBack) == 0 {
		return nil, &MalformedAction{Reason: "rollback metadata missing commits_rolled_back"}
	}
	return &r, nil
}

// ReadRestore parses a restore action blob.
func ReadRestore(blob []byte) (*RestoreMetadata, error) {
	var r RestoreMetadata
	if err := json.Unmarshal(blob, &r); err != nil {
		return nil, &MalformedAction{Reason: fmt.Sprintf("decoding restore metadata: %v", err)}
	}
	for i, rb := range r.Rollbacks {
		if len(rb.CommitsRolledBack) == 0 {
			return nil, &MalformedAction{Reason: fmt.Sprintf("restore metadata rollback[%d] missing commits_rolled_back", i)}
		}
	}
	return &r, nil
}

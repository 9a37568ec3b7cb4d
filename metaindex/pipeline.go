package metaindex

import (
	"hudi-metaindex/action"
	"hudi-metaindex/engine"
	"hudi-metaindex/timeline"
)

// ProcessCommit runs FIB/BIB/CIB against one commit/deltacommit action,
// producing every record that action contributes to the metadata table.
func ProcessCommit(
	ctx engine.Context,
	cfg Config,
	c *action.CommitMetadata,
	instantTs string,
	readers FileReaderFactory,
	log Logger,
) ([]Record, error) {
	var out []Record
	out = append(out, BuildFilesRecordsFromCommit(c)...)

	bloomRecs, err := BuildBloomFilterRecordsFromCommit(ctx, cfg, c, instantTs, readers, log)
	if err != nil {
		return nil, err
	}
	out = append(out, bloomRecs...)

	colRecs, err := BuildColumnStatsRecordsFromCommit(ctx, cfg, c, readers, log)
	if err != nil {
		return nil, err
	}
	out = append(out, colRecs...)

	return out, nil
}

// ProcessClean runs FIB against one clean action. Clean only ever deletes
// base/log files it has already seen added, so BIB/CIB tombstones for a
// clean are derived the same way as any other deletion — through the
// changes path, once the clean's deleted files are normalized into a
// NormalizedChanges by the caller (spec §4.2 only formally normalizes
// rollback/restore; clean's partition_to_deleted_files is already in that
// shape, so the caller builds NormalizedChanges directly from it — see
// cmd/hudi-metaindex for the exact call).
func ProcessClean(c *action.CleanMetadata) []Record {
	return BuildFilesRecordsFromClean(c)
}

// ProcessChanges runs FIB/BIB/CIB against one normalized rollback/restore
// change set (spec §4.2-§4.5).
func ProcessChanges(
	ctx engine.Context,
	cfg Config,
	changes *NormalizedChanges,
	columns []string,
	readers FileReaderFactory,
	log Logger,
) ([]Record, error) {
	var out []Record

	filesRecs, err := BuildFilesRecordsFromChanges(changes)
	if err != nil {
		return nil, err
	}
	out = append(out, filesRecs...)

	bloomRecs, err := BuildBloomFilterRecords(ctx, cfg, changes, "", readers, log)
	if err != nil {
		return nil, err
	}
	out = append(out, bloomRecs...)

	colRecs, err := BuildColumnStatsRecordsFromChanges(ctx, cfg, changes, columns, readers)
	if err != nil {
		return nil, err
	}
	out = append(out, colRecs...)

	return out, nil
}

// NormalizeClean folds a clean action's deletions into the same
// NormalizedChanges shape rollback/restore produce, so BIB/CIB can run a
// single code path over all three deletion sources.
func NormalizeClean(c *action.CleanMetadata) *NormalizedChanges {
	changes := newNormalizedChanges()
	for partitionName, deleted := range c.PartitionToDeletedFiles {
		partition := Partition(partitionName)
		names := make([]string, len(deleted))
		for i, p := range deleted {
			names[i] = filenameOf(p)
		}
		changes.Deleted[partition] = append(changes.Deleted[partition], names...)
	}
	return changes
}

// ResolveTimelineAction reports the data-table Action an instant's rollback
// target should be checked against on the metadata timeline, per spec
// §4.2's use of ActionDeltaCommit regardless of the original action.
func ResolveTimelineAction() timeline.Action {
	return timeline.ActionDeltaCommit
}

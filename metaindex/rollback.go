package metaindex

import (
	"hudi-metaindex/action"
	"hudi-metaindex/timeline"
)

// NormalizedChanges is the uniform (partition -> deleted, partition ->
// appended) view RN produces from a rollback or restore action, consumed
// directly by FIB/BIB/CIB (spec §4.2).
type NormalizedChanges struct {
	Deleted  map[string][]string
	Appended map[string]map[string]int64
}

func newNormalizedChanges() *NormalizedChanges {
	return &NormalizedChanges{
		Deleted:  map[string][]string{},
		Appended: map[string]map[string]int64{},
	}
}

// mergeMaxSize merges size into dst[file], keeping the larger of the two
// when the file was already present — "rollback file could have been
// updated after written log files are computed" (original comment).
func mergeMaxSize(dst map[string]int64, file string, size int64) {
	if existing, ok := dst[file]; ok && existing > size {
		return
	}
	dst[file] = size
}

// NormalizeRollback applies the skip rules in spec §4.2 to one rollback
// action and folds the result into changes. lastSyncTs is nil when the
// metadata table has never synced.
func NormalizeRollback(metadataTimeline timeline.Timeline, rb *action.RollbackMetadata, lastSyncTs *string, changes *NormalizedChanges, log Logger) error {
	instantToRollback, err := rb.InstantToRollback()
	if err != nil {
		return err
	}

	for _, pm := range rb.PartitionMetadata {
		hasLogAppends := false
		for _, size := range pm.RollbackLogFiles {
			if size > 0 {
				hasLogAppends = true
				break
			}
		}
		// Case A: ahead of sync.
		shouldSkip := lastSyncTs != nil && timeline.GreaterThan(instantToRollback, *lastSyncTs)
		if !hasLogAppends && shouldSkip {
			log.Infof("skipping rollback of %s for partition %s: instant is newer than the metadata table's last sync %s", instantToRollback, pm.PartitionPath, *lastSyncTs)
			continue
		}

		// Case B: never-committed / archived.
		if metadataTimeline.IsBeforeStart(instantToRollback) {
			return &ArchivedDependency{Instant: instantToRollback}
		}

		shouldSkip = !metadataTimeline.Contains(timeline.ActionDeltaCommit, instantToRollback)
		if !hasLogAppends && shouldSkip {
			log.Infof("skipping rollback of %s for partition %s: never synced to metadata table", instantToRollback, pm.PartitionPath)
			continue
		}

		partition := pm.PartitionPath
		if len(pm.SuccessDeletes) > 0 || len(pm.FailedDeletes) > 0 {
			if !shouldSkip {
				deleted := changes.Deleted[partition]
				for _, p := range pm.SuccessDeletes {
					deleted = append(deleted, filenameOf(p))
				}
				for _, p := range pm.FailedDeletes {
					deleted = append(deleted, filenameOf(p))
				}
				changes.Deleted[partition] = deleted
			}
		}

		if hasLogAppends {
			appended, ok := changes.Appended[partition]
			if !ok {
				appended = map[string]int64{}
				changes.Appended[partition] = appended
			}
			for path, size := range pm.RollbackLogFiles {
				if size <= 0 {
					continue
				}
				mergeMaxSize(appended, filenameOf(path), size)
			}
		}
	}

	return nil
}

// NormalizeRestore folds every inner rollback of a restore action through
// NormalizeRollback into one shared NormalizedChanges.
func NormalizeRestore(metadataTimeline timeline.Timeline, rm *action.RestoreMetadata, lastSyncTs *string, log Logger) (*NormalizedChanges, error) {
	changes := newNormalizedChanges()
	for i := range rm.Rollbacks {
		if err := NormalizeRollback(metadataTimeline, &rm.Rollbacks[i], lastSyncTs, changes, log); err != nil {
			return nil, err
		}
	}
	return changes, nil
}

// filenameOf strips a leading directory component the same way the
// original extracts Path#getName() from an absolute delete path.
func filenameOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

package metaindex

import (
	"hudi-metaindex/action"
)

// BuildFilesRecordsFromCommit implements FIB's commit path (spec §4.3): one
// PartitionList record enumerating the commit's partitions, plus one
// PartitionFiles record per partition folding that partition's write stats
// into filename -> max(size) (I2).
func BuildFilesRecordsFromCommit(c *action.CommitMetadata) []Record {
	partitions := make([]string, 0, len(c.PartitionToWriteStats))
	for p := range c.PartitionToWriteStats {
		partitions = append(partitions, Partition(p))
	}

	records := make([]Record, 0, len(c.PartitionToWriteStats)+1)
	records = append(records, Record{Kind: PartitionFilesType, Partitions: partitions})

	for partitionStatName, stats := range c.PartitionToWriteStats {
		partition := Partition(partitionStatName)
		filesToSizes := map[string]int64{}

		for _, stat := range stats {
			if stat.Path == "" {
				continue
			}
			filename := StripPartitionPrefix(partition, stat.Path)
			if existing, ok := filesToSizes[filename]; !ok || stat.FileSizeBytes > existing {
				filesToSizes[filename] = stat.FileSizeBytes
			}
		}

		records = append(records, Record{
			Kind:       PartitionFilesType,
			Partition:  partition,
			FilesAdded: filesToSizes,
		})
	}

	return records
}

// BuildFilesRecordsFromClean implements FIB's clean path: one PartitionFiles
// record per partition carrying only deletions.
func BuildFilesRecordsFromClean(c *action.CleanMetadata) []Record {
	records := make([]Record, 0, len(c.PartitionToDeletedFiles))
	for partitionName, deleted := range c.PartitionToDeletedFiles {
		partition := Partition(partitionName)
		names := make([]string, len(deleted))
		for i, p := range deleted {
			names[i] = filenameOf(p)
		}
		records = append(records, Record{
			Kind:         PartitionFilesType,
			Partition:    partition,
			FilesDeleted: names,
		})
	}
	return records
}

// BuildFilesRecordsFromChanges implements FIB's rollback/restore path: one
// merged PartitionFiles record per partition from the normalized changes,
// enforcing I3 (a filename cannot be both added and deleted in one action).
func BuildFilesRecordsFromChanges(changes *NormalizedChanges) ([]Record, error) {
	var records []Record
	seen := map[string]bool{}

	for partition, deleted := range changes.Deleted {
		seen[partition] = true
		appended := changes.Appended[partition]

		if err := checkDisjoint(partition, deleted, appended); err != nil {
			return nil, err
		}

		rec := Record{Kind: PartitionFilesType, Partition: partition, FilesDeleted: deleted}
		if len(appended) > 0 {
			rec.FilesAdded = appended
		}
		records = append(records, rec)
	}

	for partition, appended := range changes.Appended {
		if seen[partition] {
			continue
		}
		records = append(records, Record{Kind: PartitionFilesType, Partition: partition, FilesAdded: appended})
	}

	return records, nil
}

func checkDisjoint(partition string, deleted []string, appended map[string]int64) error {
	if len(appended) == 0 {
		return nil
	}
	for _, name := range deleted {
		if _, ok := appended[name]; ok {
			return &InvariantViolation{
				Invariant: "I3",
				Detail:    "file " + name + " in partition " + partition + " both appended and deleted in one action",
			}
		}
	}
	return nil
}

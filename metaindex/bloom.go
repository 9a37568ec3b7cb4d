package metaindex

import (
	"hudi-metaindex/action"
	"hudi-metaindex/engine"
)

// BuildBloomFilterRecords implements BIB (spec §4.4): one BloomFilterEntry
// per added base file (read through readers), one tombstone per deleted
// base file. Delta write stats and non-base filenames are skipped (I4).
// instantTs is empty for the clean/rollback/restore paths, which carry no
// single originating instant the way a commit does; records from those
// paths simply have an empty InstantTs.
func BuildBloomFilterRecords(
	ctx engine.Context,
	cfg Config,
	changes *NormalizedChanges,
	instantTs string,
	readers FileReaderFactory,
	log Logger,
) ([]Record, error) {
	var deletedItems []any
	for partition, files := range changes.Deleted {
		for _, f := range files {
			if IsBaseFile(f) {
				deletedItems = append(deletedItems, deletedBloomInput{partition: partition, file: f})
			}
		}
	}

	var addedItems []any
	for partition, files := range changes.Appended {
		for f := range files {
			if IsBaseFile(f) {
				addedItems = append(addedItems, addedBloomInput{partition: partition, file: f})
			}
		}
	}

	var out []Record

	if len(deletedItems) > 0 {
		parallelism := engine.Parallelism(len(deletedItems), cfg.BloomIndexParallelism)
		results, err := ctx.Map(deletedItems, parallelism, func(item any) (any, error) {
			in := item.(deletedBloomInput)
			return Record{
				Kind:      PartitionBloomFilters,
				Partition: in.partition,
				FileName:  in.file,
				InstantTs: instantTs,
				IsDeleted: true,
			}, nil
		})
		if err != nil {
			return nil, err
		}
		for _, r := range results {
			out = append(out, r.(Record))
		}
	}

	if len(addedItems) > 0 {
		parallelism := engine.Parallelism(len(addedItems), cfg.BloomIndexParallelism)
		results, err := ctx.FlatMap(addedItems, parallelism, func(item any) ([]any, error) {
			in := item.(addedBloomInput)
			rec, ok, err := readBloomFilterRecord(readers, cfg, in.partition, in.file, instantTs, log)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, nil
			}
			return []any{rec}, nil
		})
		if err != nil {
			return nil, err
		}
		for _, r := range results {
			out = append(out, r.(Record))
		}
	}

	return out, nil
}

type deletedBloomInput struct {
	partition string
	file      string
}

type addedBloomInput struct {
	partition string
	file      string
}

// readBloomFilterRecord opens a base file and reads its bloom filter.
// Read failures are logged and yield no record (ok=false, err=nil) — they
// are TransientIo, isolated to this file (spec §7).
func readBloomFilterRecord(readers FileReaderFactory, cfg Config, partition, file, instantTs string, log Logger) (Record, bool, error) {
	path := partition + "/" + file
	if partition == NonPartitionedName {
		path = file
	}

	reader, err := readers.Open(path)
	if err != nil {
		log.Errorf("failed to open %s for bloom filter read: %v", path, err)
		return Record{}, false, nil
	}

	filterType, filterBytes, ok, err := reader.ReadBloomFilter()
	if err != nil {
		log.Errorf("failed to read bloom filter for %s: %v", path, err)
		return Record{}, false, nil
	}
	if !ok {
		log.Errorf("no bloom filter present in %s", path)
		return Record{}, false, nil
	}
	if filterType == "" {
		filterType = cfg.BloomFilterType
	}

	return Record{
		Kind:        PartitionBloomFilters,
		Partition:   partition,
		FileName:    file,
		InstantTs:   instantTs,
		FilterType:  filterType,
		FilterBytes: filterBytes,
		IsDeleted:   false,
	}, true, nil
}

// BuildBloomFilterRecordsFromCommit is BIB's commit path: write stats carry
// the partition-prefixed path directly rather than the separate
// added/deleted maps RN produces.
func BuildBloomFilterRecordsFromCommit(
	ctx engine.Context,
	cfg Config,
	c *action.CommitMetadata,
	instantTs string,
	readers FileReaderFactory,
	log Logger,
) ([]Record, error) {
	var items []any
	for partitionName, stats := range c.PartitionToWriteStats {
		partition := Partition(partitionName)
		for _, stat := range stats {
			if stat.IsDelta || stat.Path == "" {
				continue
			}
			filename := StripPartitionPrefix(partition, stat.Path)
			if !IsBaseFile(filename) {
				continue
			}
			items = append(items, addedBloomInput{partition: partition, file: filename})
		}
	}
	if len(items) == 0 {
		return nil, nil
	}

	parallelism := engine.Parallelism(len(items), cfg.BloomIndexParallelism)
	results, err := ctx.FlatMap(items, parallelism, func(item any) ([]any, error) {
		in := item.(addedBloomInput)
		rec, ok, err := readBloomFilterRecord(readers, cfg, in.partition, in.file, instantTs, log)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		return []any{rec}, nil
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

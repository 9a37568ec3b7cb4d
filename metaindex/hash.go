package metaindex

// MapRecordKeyToFileGroupIndex is the exact 32-bit polynomial hash required
// by I6: h = 31*h + c over UTF-8 bytes of the key, folded by |h| mod N. It
// must stay bit-stable across languages and versions, so it is implemented
// with explicit int32 arithmetic rather than any Go string-hashing
// convenience (maphash, fnv, etc. all hash differently).
func MapRecordKeyToFileGroupIndex(recordKey string, numFileGroups int) int {
	var h int32
	for i := 0; i < len(recordKey); i++ {
		h = 31*h + int32(recordKey[i])
	}

	return int(abs32(abs32(h) % int32(numFileGroups)))
}

// abs32 mirrors java.lang.Math.abs(int): negates, except for MinInt32
// which has no positive int32 counterpart and is returned unchanged.
func abs32(n int32) int32 {
	if n < 0 {
		return -n
	}
	return n
}

// Partition maps the empty partition path to the non-partitioned sentinel
// (I1); every other path passes through unchanged.
func Partition(path string) string {
	if path == EmptyPartitionName {
		return NonPartitionedName
	}
	return path
}

// StripPartitionPrefix derives a bare filename from a partition-prefixed
// path per the Prefix rule in spec §4.3: for the non-partitioned sentinel,
// strip a single leading '/' if present; otherwise strip
// partition.length()+1 leading characters.
func StripPartitionPrefix(partition, pathWithPartition string) string {
	if partition == NonPartitionedName {
		if len(pathWithPartition) > 0 && pathWithPartition[0] == '/' {
			return pathWithPartition[1:]
		}
		return pathWithPartition
	}
	offset := len(partition) + 1
	if offset > len(pathWithPartition) {
		return pathWithPartition
	}
	return pathWithPartition[offset:]
}

package metaindex

import "strings"

// BaseFileExtension is the only base-file format this repo's CIB reads
// column ranges from directly (spec §4.5's "non-columnar base files raise
// UnsupportedForColumnStats").
const BaseFileExtension = ".parquet"

// IsBaseFile distinguishes a primary data file from a delta/log file by
// naming convention (I4): log files carry a ".log." infix segment the way
// Hudi's own FSUtils.isBaseFile check does.
func IsBaseFile(filename string) bool {
	return !strings.Contains(filename, ".log.")
}

// IsParquet reports whether filename has the Parquet base-file extension.
func IsParquet(filename string) bool {
	return strings.HasSuffix(filename, BaseFileExtension)
}

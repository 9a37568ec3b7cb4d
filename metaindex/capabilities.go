package metaindex

import "hudi-metaindex/action"

// FileReader is the capability BIB/CIB consume to pull bloom filters and
// column ranges out of a base file, without this package knowing anything
// about Parquet (spec §6). Concrete implementations live in fsreader.
type FileReader interface {
	// ReadBloomFilter returns the embedded filter's type code and bytes.
	// ok is false (no error) when the file carries no bloom filter.
	ReadBloomFilter() (filterType string, filterBytes []byte, ok bool, err error)
	// ReadColumnRanges returns one range per requested column, in the
	// requested order, read from the file's metadata.
	ReadColumnRanges(columns []string) ([]action.ColumnRange, error)
}

// FileReaderFactory opens a FileReader for a base file path, relative to a
// table's base path.
type FileReaderFactory interface {
	Open(path string) (FileReader, error)
}

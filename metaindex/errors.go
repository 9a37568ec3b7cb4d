package metaindex

import "fmt"

// ArchivedDependency reports that a rollback/restore targets an instant
// that predates the metadata timeline's retained history — it cannot be
// reconciled and requires operator intervention (spec §4.2 Case B, §7).
type ArchivedDependency struct {
	Instant string
}

func (e *ArchivedDependency) Error() string {
	return fmt.Sprintf("instant %s required to sync rollback has been archived", e.Instant)
}

// InvariantViolation reports a breach of one of the numbered invariants in
// spec §3. Only I3 (delete/append disjointness) is raised by this package;
// it is always fatal.
type InvariantViolation struct {
	Invariant string
	Detail    string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant %s violated: %s", e.Invariant, e.Detail)
}

// UnsupportedColumnStatsFormat reports that CIB was asked to index a base
// file whose format it cannot read column ranges from.
type UnsupportedColumnStatsFormat struct {
	Path string
}

func (e *UnsupportedColumnStatsFormat) Error() string {
	return fmt.Sprintf("column range index not supported for file %s", e.Path)
}

// Unsupported reports an operation the FS-fallback metadata view cannot
// answer (bloom filter / column stats lookups — spec §7's "Unsupported"
// taxonomy entry).
type Unsupported struct {
	Operation string
}

func (e *Unsupported) Error() string {
	return fmt.Sprintf("unsupported operation: %s", e.Operation)
}

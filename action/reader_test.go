package action

import "testing"

func TestReadCommit(t *testing.T) {
	blob := []byte(`{
		"operation_type": "insert",
		"partition_to_write_stats": {
			"P": [{"partition_path":"P","path":"P/a.parquet","file_size_bytes":100}]
		}
	}`)

	c, err := ReadCommit(blob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stats, ok := c.PartitionToWriteStats["P"]
	if !ok || len(stats) != 1 || stats[0].FileSizeBytes != 100 {
		t.Fatalf("unexpected write stats: %+v", c.PartitionToWriteStats)
	}
}

func TestReadCommitMissingRequiredField(t *testing.T) {
	_, err := ReadCommit([]byte(`{"operation_type":"insert"}`))
	if err == nil {
		t.Fatal("expected MalformedAction for missing partition_to_write_stats")
	}
	if _, ok := err.(*MalformedAction); !ok {
		t.Fatalf("expected *MalformedAction, got %T", err)
	}
}

func TestReadCommitInvalidJSON(t *testing.T) {
	_, err := ReadCommit([]byte(`not json`))
	if _, ok := err.(*MalformedAction); !ok {
		t.Fatalf("expected *MalformedAction for invalid JSON, got %T: %v", err, err)
	}
}

func TestReadRollbackInstantToRollback(t *testing.T) {
	r, err := ReadRollback([]byte(`{"commits_rolled_back":["t7"],"partition_metadata":{}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ts, err := r.InstantToRollback()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts != "t7" {
		t.Fatalf("InstantToRollback() = %q, want t7", ts)
	}
}

func TestCommitMetadataWriterSchemaFields(t *testing.T) {
	c := &CommitMetadata{ExtraMetadata: map[string]string{"schema_fields": "a, b ,c"}}
	fields, ok := c.WriterSchemaFields()
	if !ok {
		t.Fatal("expected ok=true")
	}
	want := []string{"a", "b", "c"}
	for i, f := range want {
		if fields[i] != f {
			t.Errorf("fields[%d] = %q, want %q", i, fields[i], f)
		}
	}
}

func TestCommitMetadataWriterSchemaFieldsAbsent(t *testing.T) {
	c := &CommitMetadata{}
	if _, ok := c.WriterSchemaFields(); ok {
		t.Fatal("expected ok=false when extra_metadata is nil")
	}
}

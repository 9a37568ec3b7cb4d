package metaindex

import "log"

// Logger is the structured-logging capability builders use for transient,
// per-file failures and skip decisions — passed explicitly rather than
// reached for as ambient global state (spec §9 design notes).
type Logger interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// StdLogger logs through the standard library's log package, the same way
// every component of the teacher repo does (main.go, replication.go,
// proxy.go all call log.Printf/log.Fatalf directly).
type StdLogger struct{}

func (StdLogger) Infof(format string, args ...any)  { log.Printf("INFO "+format, args...) }
func (StdLogger) Errorf(format string, args ...any) { log.Printf("ERROR "+format, args...) }

// NopLogger discards everything; useful in tests that assert on record
// output and don't want log noise.
type NopLogger struct{}

func (NopLogger) Infof(format string, args ...any)  {}
func (NopLogger) Errorf(format string, args ...any) {}

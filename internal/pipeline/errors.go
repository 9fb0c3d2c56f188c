package pipeline

import (
	"fmt"

	"github.com/sells-group/sales-etl/internal/model"
)

// Stage names, in execution order. A run moves through them exactly once.
const (
	StageLoad      = "load"
	StageDedupe    = "dedupe"
	StageNormalize = "normalize"
	StageFilter    = "filter"
	StageEnrich    = "enrich"
	StageSinkCSV   = "sink_csv"
	StageSinkDB    = "sink_db"
)

// SourceReadError reports an unreachable source or a structural schema
// mismatch (wrong column count or names). It is fatal and raised before any
// transformation runs.
type SourceReadError struct {
	Path string
	Err  error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("source read error: %s: %v", e.Path, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

// SinkWriteError reports a failed sink write. A failure in one sink does not
// roll back a sink that already succeeded.
type SinkWriteError struct {
	Sink string // "csv" or "db"
	Err  error
}

func (e *SinkWriteError) Error() string {
	return fmt.Sprintf("sink write error: %s: %v", e.Sink, e.Err)
}

func (e *SinkWriteError) Unwrap() error { return e.Err }

// RunError wraps a fatal stage failure together with the counters
// accumulated up to that point.
type RunError struct {
	Stage   string
	Summary model.Summary
	Err     error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run failed at stage %s: %v", e.Stage, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

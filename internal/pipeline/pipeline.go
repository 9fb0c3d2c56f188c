// Package pipeline implements the sales ETL transformation pipeline: load,
// dedupe, date normalization, null filtering, enrichment, and sink handoff.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/sales-etl/internal/config"
	"github.com/sells-group/sales-etl/internal/model"
	"github.com/sells-group/sales-etl/internal/sink"
	"github.com/sells-group/sales-etl/internal/store"
)

// Pipeline runs the ETL over one finite batch. It holds no state across
// runs; each Run is independent and idempotent given the same input.
type Pipeline struct {
	cfg *config.Config
	st  store.Store // nil disables the database sink
}

// New creates a Pipeline. Pass a nil store to skip the database sink.
func New(cfg *config.Config, st store.Store) *Pipeline {
	return &Pipeline{cfg: cfg, st: st}
}

// Run executes one complete pass: source → transform stages → sinks. Row
// level problems are absorbed into the summary counters and never surface as
// errors; only systemic failures (unreadable source, failed sink) are
// returned, wrapped in a *RunError carrying the counters accumulated so far.
// The summary is returned in both cases.
func (p *Pipeline) Run(ctx context.Context) (*model.Summary, error) {
	log := zap.L().With(zap.String("source", p.cfg.Source.Path))

	summary := &model.Summary{
		RunID:     uuid.New().String(),
		Status:    model.RunStatusFailed,
		StartedAt: time.Now().UTC(),
	}
	finish := func() {
		summary.FinishedAt = time.Now().UTC()
		summary.DurationSeconds = summary.FinishedAt.Sub(summary.StartedAt).Seconds()
	}
	fail := func(stage string, err error) (*model.Summary, error) {
		summary.FailedStage = stage
		finish()
		return summary, &RunError{Stage: stage, Summary: *summary, Err: err}
	}

	log.Info("starting ETL run", zap.String("run_id", summary.RunID))

	raw, err := Load(p.cfg.Source.Path, p.cfg.Source.Sheet)
	if err != nil {
		return fail(StageLoad, err)
	}
	summary.RowsLoaded = len(raw)
	log.Info("extracted rows", zap.Int("rows", len(raw)))

	deduped, dupes := Dedupe(raw)
	summary.DuplicatesRemoved = dupes
	log.Info("removed duplicate rows", zap.Int("removed", dupes))

	tagged := NormalizeDates(deduped, p.cfg.Source.DateFormat)

	valid, dropped := FilterInvalid(tagged)
	summary.InvalidDropped = dropped
	log.Info("removed invalid rows", zap.Int("removed", dropped))

	clean := Enrich(valid)
	log.Info("transformation complete", zap.Int("rows", len(clean)))

	if err := sink.WriteCSV(p.cfg.Output.Path, clean); err != nil {
		return fail(StageSinkCSV, &SinkWriteError{Sink: "csv", Err: err})
	}
	summary.OutputFile = p.cfg.Output.Path
	summary.RowsWritten = len(clean)
	log.Info("csv export complete", zap.String("path", p.cfg.Output.Path))

	if p.st != nil {
		n, err := p.st.ReplaceTransactions(ctx, p.cfg.Store.Table, clean)
		if err != nil {
			return fail(StageSinkDB, &SinkWriteError{Sink: "db", Err: err})
		}
		summary.Table = p.cfg.Store.Table
		log.Info("database load complete",
			zap.String("table", p.cfg.Store.Table),
			zap.Int64("rows", n),
		)
	}

	summary.Status = model.RunStatusSuccess
	finish()

	log.Info("ETL run complete",
		zap.String("run_id", summary.RunID),
		zap.Int("rows_loaded", summary.RowsLoaded),
		zap.Int("duplicates_removed", summary.DuplicatesRemoved),
		zap.Int("invalid_dropped", summary.InvalidDropped),
		zap.Int("rows_written", summary.RowsWritten),
		zap.Float64("duration_seconds", summary.DurationSeconds),
	)

	return summary, nil
}

// Package model defines the records and run summary shared across the ETL stages.
package model

import "time"

// RawRecord is one input row exactly as read from the source extract.
// All cells are kept as text: nothing is validated or coerced at this stage,
// so any field may be malformed. The struct is comparable, which lets the
// deduplicator use full-tuple equality directly as a map key.
type RawRecord struct {
	OrderID   string `json:"order_id"`
	OrderDate string `json:"order_date"`
	Customer  string `json:"customer"`
	Region    string `json:"region"`
	Product   string `json:"product"`
	Sales     string `json:"sales"`
	Cost      string `json:"cost"`
}

// CleanRecord is a row that survived deduplication and validity filtering,
// enriched with profit, year, and month. OrderDate is always a valid calendar
// date once a record reaches this type. Created only by the enrich stage and
// never mutated afterwards.
type CleanRecord struct {
	OrderID   int       `json:"order_id"`
	OrderDate time.Time `json:"order_date"`
	Customer  string    `json:"customer"`
	Region    string    `json:"region"`
	Product   string    `json:"product"`
	Sales     int       `json:"sales"`
	Cost      int       `json:"cost"`
	Profit    int       `json:"profit"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
}

// RunStatus is the terminal outcome of a pipeline run.
type RunStatus string

const (
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

// Summary is the diagnostic record for one pipeline run. It is returned to
// the caller and logged, never persisted.
type Summary struct {
	RunID             string    `json:"run_id"`
	Status            RunStatus `json:"status"`
	RowsLoaded        int       `json:"rows_loaded"`
	DuplicatesRemoved int       `json:"duplicates_removed"`
	InvalidDropped    int       `json:"invalid_dropped"`
	RowsWritten       int       `json:"rows_written"`
	StartedAt         time.Time `json:"started_at"`
	FinishedAt        time.Time `json:"finished_at"`
	DurationSeconds   float64   `json:"duration_seconds"`
	OutputFile        string    `json:"output_file,omitempty"`
	Table             string    `json:"table,omitempty"`
	FailedStage       string    `json:"failed_stage,omitempty"`
}

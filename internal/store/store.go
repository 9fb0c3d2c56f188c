// Package store persists clean records to a relational backend.
package store

import (
	"context"
	"regexp"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sales-etl/internal/model"
)

// Store defines the persistence interface for the database sink.
type Store interface {
	// Migrate creates the target table if it does not exist.
	Migrate(ctx context.Context, table string) error

	// ReplaceTransactions replaces the entire contents of the target table
	// with the given records in one transaction. Whole-batch replace keeps
	// re-runs of the pipeline idempotent at the database sink.
	ReplaceTransactions(ctx context.Context, table string, records []model.CleanRecord) (int64, error)

	// Lifecycle
	Close() error
}

// tableColumns is the ordered column list of the target table, matching the
// flat-file sink's output order.
var tableColumns = []string{
	"order_id", "order_date", "customer", "region",
	"product", "sales", "cost", "profit", "year", "month",
}

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// validateTable rejects table names that cannot be safely interpolated into
// DDL. Names may be schema-qualified.
func validateTable(table string) error {
	if !tableNameRe.MatchString(table) {
		return eris.Errorf("store: invalid table name %q", table)
	}
	return nil
}

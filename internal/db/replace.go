package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// BulkReplace replaces the entire contents of a table in one transaction.
// 1. DELETE FROM target
// 2. COPY rows into target
// 3. Commit
// The delete and the copy commit together, so readers never observe a
// half-replaced table.
func BulkReplace(ctx context.Context, pool Pool, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, eris.New("db: replace: no columns specified")
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "db: replace: begin tx")
	}
	defer tx.Rollback(ctx)

	deleteSQL := fmt.Sprintf("DELETE FROM %s", sanitizeTable(table))
	if _, err := tx.Exec(ctx, deleteSQL); err != nil {
		return 0, eris.Wrapf(err, "db: replace: clear %s", table)
	}

	var n int64
	if len(rows) > 0 {
		copySource := pgx.CopyFromRows(rows)
		n, err = tx.CopyFrom(ctx, tableIdentifier(table), columns, copySource)
		if err != nil {
			return 0, eris.Wrapf(err, "db: replace: COPY into %s", table)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "db: replace: commit tx")
	}

	return n, nil
}

// sanitizeTable handles schema-qualified table names like "reporting.sales_data".
func sanitizeTable(table string) string {
	return tableIdentifier(table).Sanitize()
}

func tableIdentifier(table string) pgx.Identifier {
	parts := strings.SplitN(table, ".", 2)
	if len(parts) == 2 {
		return pgx.Identifier{parts[0], parts[1]}
	}
	return pgx.Identifier{table}
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/sales-etl/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteTableTemplate = `
CREATE TABLE IF NOT EXISTS %s (
	order_id   INTEGER NOT NULL,
	order_date DATE    NOT NULL,
	customer   TEXT    NOT NULL,
	region     TEXT    NOT NULL,
	product    TEXT    NOT NULL,
	sales      INTEGER NOT NULL,
	cost       INTEGER NOT NULL,
	profit     INTEGER NOT NULL,
	year       INTEGER NOT NULL,
	month      INTEGER NOT NULL
)`

func (s *SQLiteStore) Migrate(ctx context.Context, table string) error {
	if err := validateTable(table); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(sqliteTableTemplate, table))
	return eris.Wrapf(err, "sqlite: migrate %s", table)
}

func (s *SQLiteStore) ReplaceTransactions(ctx context.Context, table string, records []model.CleanRecord) (int64, error) {
	if err := validateTable(table); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
		return 0, eris.Wrapf(err, "sqlite: clear %s", table)
	}

	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		table, strings.Join(tableColumns, ", "),
	)
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: prepare insert %s", table)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.ExecContext(ctx,
			r.OrderID, r.OrderDate.Format("2006-01-02"), r.Customer, r.Region,
			r.Product, r.Sales, r.Cost, r.Profit, r.Year, r.Month,
		)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert into %s", table)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit tx")
	}

	return int64(len(records)), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/sales-etl/internal/db"
	"github.com/sells-group/sales-etl/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.MaxConns = 4
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresTableTemplate = `
CREATE TABLE IF NOT EXISTS %s (
	order_id   INT     NOT NULL,
	order_date DATE    NOT NULL,
	customer   VARCHAR(255) NOT NULL,
	region     VARCHAR(64)  NOT NULL,
	product    VARCHAR(255) NOT NULL,
	sales      INT NOT NULL,
	cost       INT NOT NULL,
	profit     INT NOT NULL,
	year       INT NOT NULL,
	month      INT NOT NULL
)`

func (s *PostgresStore) Migrate(ctx context.Context, table string) error {
	if err := validateTable(table); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, fmt.Sprintf(postgresTableTemplate, pgxTableName(table)))
	return eris.Wrapf(err, "postgres: migrate %s", table)
}

func (s *PostgresStore) ReplaceTransactions(ctx context.Context, table string, records []model.CleanRecord) (int64, error) {
	if err := validateTable(table); err != nil {
		return 0, err
	}

	rows := make([][]any, len(records))
	for i, r := range records {
		rows[i] = []any{
			r.OrderID, r.OrderDate, r.Customer, r.Region,
			r.Product, r.Sales, r.Cost, r.Profit, r.Year, r.Month,
		}
	}

	return db.BulkReplace(ctx, s.pool, table, tableColumns, rows)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// pgxTableName quotes a possibly schema-qualified table name for DDL.
func pgxTableName(table string) string {
	if schema, name, ok := strings.Cut(table, "."); ok {
		return pgx.Identifier{schema, name}.Sanitize()
	}
	return pgx.Identifier{table}.Sanitize()
}

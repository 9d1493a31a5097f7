package store

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/logger"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/query"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/resource"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool (and pgx.Tx) the store uses.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Result is one page of rows plus the number of rows matching the filter.
type Result struct {
	Rows  []map[string]any
	Total int
}

type Postgres struct {
	db Querier
}

func New(db Querier) *Postgres {
	return &Postgres{db: db}
}

// List runs q against res. Rows are keyed by public field name.
func (s *Postgres) List(ctx context.Context, res *resource.Resource, q query.Query) (Result, error) {
	total, err := s.count(ctx, res.Table, q.Filter)
	if err != nil {
		return Result{}, err
	}

	sb, err := BuildListQuery(res.Table, res.SelectColumns(), q)
	if err != nil {
		return Result{}, err
	}
	sqlText, args, err := toSQL(sb)
	if err != nil {
		return Result{}, err
	}

	rows, err := s.db.Query(ctx, sqlText, args...)
	if err != nil {
		return Result{}, fmt.Errorf("list %s: %w", res.Name, err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return Result{}, fmt.Errorf("scan %s: %w", res.Name, err)
	}
	if items == nil {
		items = []map[string]any{}
	}
	return Result{Rows: items, Total: total}, nil
}

func (s *Postgres) count(ctx context.Context, table string, f query.Filter) (int, error) {
	sb, err := BuildCountQuery(table, f)
	if err != nil {
		return 0, err
	}
	sqlText, args, err := toSQL(sb)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := s.db.QueryRow(ctx, sqlText, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return int(total), nil
}

// toSQL renders a builder and logs the statement at debug level.
func toSQL(b squirrel.Sqlizer) (string, []any, error) {
	sqlText, args, err := b.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build sql: %w", err)
	}
	logger.Debug("sql", map[string]any{"sql": sqlText, "args": args})
	return sqlText, args, nil
}

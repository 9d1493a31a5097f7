package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/domain"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/query"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const categoriesTable = "categories"

var categoryColumns = []string{"category_id", "parent_id", "name", "description", "created_at", "updated_at"}

// Categories is the Postgres side of the category tree.
type Categories struct {
	db Querier
}

func NewCategories(db Querier) *Categories {
	return &Categories{db: db}
}

func (s *Categories) queryOne(ctx context.Context, b squirrel.Sqlizer) (*domain.Category, error) {
	sqlText, args, err := toSQL(b)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, sqlText, args...)
	if err != nil {
		return nil, err
	}
	c, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.Category])
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Categories) queryAll(ctx context.Context, b squirrel.Sqlizer) ([]domain.Category, error) {
	sqlText, args, err := toSQL(b)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, sqlText, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[domain.Category])
}

func (s *Categories) find(ctx context.Context, column, value string) (*domain.Category, error) {
	c, err := s.queryOne(ctx, psql.Select(categoryColumns...).From(categoriesTable).Where(squirrel.Eq{column: value}))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundError{Resource: "category", Key: value, Err: err}
	}
	if err != nil {
		return nil, fmt.Errorf("find category by %s: %w", column, err)
	}
	return c, nil
}

func (s *Categories) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	return s.find(ctx, "category_id", id)
}

func (s *Categories) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	return s.find(ctx, "name", name)
}

// FindChildren returns the direct children of parentID, newest first.
func (s *Categories) FindChildren(ctx context.Context, parentID string) ([]domain.Category, error) {
	children, err := s.queryAll(ctx, psql.Select(categoryColumns...).
		From(categoriesTable).
		Where(squirrel.Eq{"parent_id": parentID}).
		OrderBy("created_at DESC", "category_id ASC"))
	if err != nil {
		return nil, fmt.Errorf("find children of %s: %w", parentID, err)
	}
	return children, nil
}

// FindIDsByNames returns the IDs of the categories whose names are listed.
// Unknown names are skipped.
func (s *Categories) FindIDsByNames(ctx context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}
	sqlText, args, err := toSQL(psql.Select("category_id").
		From(categoriesTable).
		Where(squirrel.Eq{"name": names}).
		OrderBy("category_id"))
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("find category ids: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (s *Categories) ListCategories(ctx context.Context, q query.Query) ([]domain.Category, int, error) {
	countSQL, err := BuildCountQuery(categoriesTable, q.Filter)
	if err != nil {
		return nil, 0, err
	}
	sqlText, args, err := toSQL(countSQL)
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := s.db.QueryRow(ctx, sqlText, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	sb, err := BuildListQuery(categoriesTable, categoryColumns, q)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.queryAll(ctx, sb)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	if items == nil {
		items = []domain.Category{}
	}
	return items, int(total), nil
}

func (s *Categories) CreateCategory(ctx context.Context, c domain.Category) (*domain.Category, error) {
	created, err := s.queryOne(ctx, psql.Insert(categoriesTable).
		Columns("category_id", "parent_id", "name", "description").
		Values(c.CategoryID, c.ParentID, c.Name, c.Description).
		Suffix("RETURNING "+joinColumns()))
	if err != nil {
		return nil, mapWriteError(err, c)
	}
	return created, nil
}

// UpdateCategory overwrites name, description and parent of c.CategoryID.
func (s *Categories) UpdateCategory(ctx context.Context, c domain.Category) (*domain.Category, error) {
	updated, err := s.queryOne(ctx, psql.Update(categoriesTable).
		Set("parent_id", c.ParentID).
		Set("name", c.Name).
		Set("description", c.Description).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"category_id": c.CategoryID}).
		Suffix("RETURNING "+joinColumns()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundError{Resource: "category", Key: c.CategoryID, Err: err}
	}
	if err != nil {
		return nil, mapWriteError(err, c)
	}
	return updated, nil
}

func (s *Categories) DeleteCategory(ctx context.Context, id string) error {
	sqlText, args, err := toSQL(psql.Delete(categoriesTable).Where(squirrel.Eq{"category_id": id}))
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, sqlText, args...)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundError{Resource: "category", Key: id}
	}
	return nil
}

func joinColumns() string {
	return strings.Join(categoryColumns, ", ")
}

func mapWriteError(err error, c domain.Category) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return domain.ConflictError{Resource: "category", Msg: fmt.Sprintf("name %q already exists", c.Name), Err: err}
		case pgerrcode.ForeignKeyViolation:
			parent := ""
			if c.ParentID != nil {
				parent = *c.ParentID
			}
			return domain.NotFoundError{Resource: "parent category", Key: parent, Err: err}
		}
	}
	return fmt.Errorf("write category: %w", err)
}

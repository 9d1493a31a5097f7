// Package store executes compiled list queries against Postgres.
package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/query"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps s for a substring ILIKE match with its wildcards escaped.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// columnFor compares date operands against the calendar day of timestamp
// columns.
func columnFor(c query.Condition) string {
	switch v := c.Operand.(type) {
	case time.Time:
		return c.Column + "::date"
	case []any:
		if len(v) > 0 {
			if _, ok := v[0].(time.Time); ok {
				return c.Column + "::date"
			}
		}
	}
	return c.Column
}

func conditionSQL(c query.Condition) (squirrel.Sqlizer, error) {
	col := columnFor(c)
	switch c.Operator {
	case query.OpEq:
		return squirrel.Eq{col: c.Operand}, nil
	case query.OpNe:
		return squirrel.NotEq{col: c.Operand}, nil
	case query.OpGt:
		return squirrel.Gt{col: c.Operand}, nil
	case query.OpGte:
		return squirrel.GtOrEq{col: c.Operand}, nil
	case query.OpLt:
		return squirrel.Lt{col: c.Operand}, nil
	case query.OpLte:
		return squirrel.LtOrEq{col: c.Operand}, nil
	case query.OpLike:
		s, ok := c.Operand.(string)
		if !ok {
			return nil, fmt.Errorf("like on %s needs a string operand, got %T", c.Field, c.Operand)
		}
		return squirrel.ILike{col: likePattern(s)}, nil
	case query.OpBetween:
		bounds, ok := c.Operand.([]any)
		if !ok || len(bounds) != 2 {
			return nil, fmt.Errorf("between on %s needs two bounds", c.Field)
		}
		return squirrel.Expr(col+" BETWEEN ? AND ?", bounds[0], bounds[1]), nil
	}
	return nil, fmt.Errorf("unsupported operator %q on %s", c.Operator, c.Field)
}

// WhereClause ANDs the OR-groups of f. It returns nil for an empty filter.
func WhereClause(f query.Filter) (squirrel.Sqlizer, error) {
	groups := f.Groups()
	if len(groups) == 0 {
		return nil, nil
	}

	exprs := make(squirrel.And, 0, len(groups))
	for _, group := range groups {
		parts := make(squirrel.Or, 0, len(group))
		for _, c := range group {
			expr, err := conditionSQL(c)
			if err != nil {
				return nil, err
			}
			parts = append(parts, expr)
		}
		if len(parts) == 1 {
			exprs = append(exprs, parts[0])
		} else {
			exprs = append(exprs, parts)
		}
	}
	if len(exprs) == 1 {
		return exprs[0], nil
	}
	return exprs, nil
}

func ApplyFilter(sb squirrel.SelectBuilder, f query.Filter) (squirrel.SelectBuilder, error) {
	where, err := WhereClause(f)
	if err != nil {
		return sb, err
	}
	if where != nil {
		sb = sb.Where(where)
	}
	return sb, nil
}

func ApplyOrder(sb squirrel.SelectBuilder, order query.SortSpec) squirrel.SelectBuilder {
	if len(order) == 0 {
		return sb
	}
	return sb.OrderBy(order.Clauses()...)
}

func ApplyPage(sb squirrel.SelectBuilder, page query.PageSpec) squirrel.SelectBuilder {
	if page.Limit > 0 {
		sb = sb.Limit(uint64(page.Limit))
	}
	if page.Offset > 0 {
		sb = sb.Offset(uint64(page.Offset))
	}
	return sb
}

// BuildListQuery selects one page of table rows matching q.
func BuildListQuery(table string, columns []string, q query.Query) (squirrel.SelectBuilder, error) {
	sb, err := ApplyFilter(psql.Select(columns...).From(table), q.Filter)
	if err != nil {
		return sb, err
	}
	sb = ApplyOrder(sb, q.Order)
	return ApplyPage(sb, q.Page), nil
}

// BuildCountQuery counts every row matching f, ignoring order and window.
func BuildCountQuery(table string, f query.Filter) (squirrel.SelectBuilder, error) {
	return ApplyFilter(psql.Select("COUNT(*)").From(table), f)
}

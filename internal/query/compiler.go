// Package query compiles list-request query strings into validated filter,
// sort and pagination value objects for the store.
package query

import "github.com/hashicorp/go-multierror"

// ParamSort is the query key holding sort tokens.
const ParamSort = "sort"

// Query is the package handed to the store: conditions, order and window.
type Query struct {
	Filter Filter
	Order  SortSpec
	Page   PageSpec
}

// Compiler runs the filter, sort and pagination builders of one resource.
type Compiler struct {
	filters *FilterBuilder
	sorts   *SortBuilder
	pages   *PaginationBuilder
}

func NewCompiler(filters *FilterBuilder, sorts *SortBuilder, pages *PaginationBuilder) *Compiler {
	return &Compiler{filters: filters, sorts: sorts, pages: pages}
}

// Compile validates params completely before returning; the errors of all
// three builders are reported together.
func (c *Compiler) Compile(params Params) (Query, error) {
	var result *multierror.Error
	var q Query
	var err error

	if q.Filter, err = c.filters.Build(params); err != nil {
		result = Collect(result, err)
	}
	if q.Order, err = c.sorts.Build(params[ParamSort]); err != nil {
		result = Collect(result, err)
	}
	if q.Page, err = c.pages.Build(params); err != nil {
		result = Collect(result, err)
	}

	if err := result.ErrorOrNil(); err != nil {
		return Query{}, err
	}
	return q, nil
}

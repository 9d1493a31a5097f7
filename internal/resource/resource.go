// Package resource holds the per-resource field tables that decide which
// request fields are filterable or sortable and which store column each one
// maps to.
package resource

import (
	"fmt"
	"sort"

	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/query"
)

// Resource is one listable collection: its table, its client-visible fields
// and the order appended to every sort.
type Resource struct {
	Name     string
	Table    string
	Fields   []query.FieldSpec
	TieBreak query.Order

	byName map[string]query.FieldSpec
}

func newResource(name, table string, fields []query.FieldSpec, tieBreak query.Order) *Resource {
	r := &Resource{
		Name:     name,
		Table:    table,
		Fields:   fields,
		TieBreak: tieBreak,
		byName:   make(map[string]query.FieldSpec, len(fields)),
	}
	for _, f := range fields {
		r.byName[f.Name] = f
	}
	return r
}

// Field looks up a declared field by its public name.
func (r *Resource) Field(name string) (query.FieldSpec, bool) {
	f, ok := r.byName[name]
	return f, ok
}

// Column returns the store column of a declared field, or "" when the field
// is unknown.
func (r *Resource) Column(name string) string {
	return r.byName[name].Column
}

// SortColumns maps every sortable public name to its column.
func (r *Resource) SortColumns() map[string]string {
	out := make(map[string]string)
	for _, f := range r.Fields {
		if f.Sort {
			out[f.Name] = f.Column
		}
	}
	return out
}

// SortFields lists the sortable public names in alphabetical order.
func (r *Resource) SortFields() []string {
	cols := r.SortColumns()
	out := make([]string, 0, len(cols))
	for name := range cols {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SelectColumns renders the projection with every column aliased to its public
// name, so rows come back keyed the way clients filter them.
func (r *Resource) SelectColumns() []string {
	out := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		out = append(out, fmt.Sprintf("%s AS %q", f.Column, f.Name))
	}
	return out
}

// Compiler returns a fresh query compiler for this resource.
func (r *Resource) Compiler(pages *query.PaginationBuilder, opts ...query.FilterOption) *query.Compiler {
	return query.NewCompiler(
		query.NewFilterBuilder(r.Fields, opts...),
		query.NewSortBuilder(r.SortColumns(), r.TieBreak),
		pages,
	)
}

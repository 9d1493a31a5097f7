package query

import (
	"testing"

	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/domain"
	"github.com/google/go-cmp/cmp"
)

func newProductCompiler() *Compiler {
	columns := map[string]string{}
	for _, f := range productFields() {
		if f.Sort {
			columns[f.Name] = f.Column
		}
	}
	return NewCompiler(
		NewFilterBuilder(productFields()),
		NewSortBuilder(columns, Order{Column: "id", Direction: Asc}),
		NewPaginationBuilder(DefaultPage, DefaultPageSize),
	)
}

func TestCompiler_Compile(t *testing.T) {
	q, err := newProductCompiler().Compile(Params{
		"price":   "[lte]50",
		ParamSort: "-price",
		ParamPage: "3",
		ParamSize: "5",
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	wantFilter := Filter{{Field: "price", Column: "price", Operator: OpLte, Operand: int64(50)}}
	if diff := cmp.Diff(wantFilter, q.Filter); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"price DESC", "id ASC"}, q.Order.Clauses()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if q.Page != (PageSpec{Offset: 10, Limit: 5}) {
		t.Fatalf("unexpected page: %+v", q.Page)
	}
}

func TestCompiler_AggregatesAllErrors(t *testing.T) {
	_, err := newProductCompiler().Compile(Params{
		"price":   "cheap",
		ParamSort: "bogus",
		ParamSize: "0",
	})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !domain.IsValidation(err) {
		t.Fatalf("expected a validation error, got %T", err)
	}
	want := []string{
		"price should have valid number format",
		"Invalid sort field: bogus",
		"size should be a positive integer",
	}
	if diff := cmp.Diff(want, Messages(err)); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if got := err.Error(); got != "price should have valid number format; Invalid sort field: bogus; size should be a positive integer" {
		t.Fatalf("unexpected error text: %q", got)
	}
}

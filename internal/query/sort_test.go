package query

import (
	"errors"
	"testing"

	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/domain"
	"github.com/google/go-cmp/cmp"
)

func categorySorts() *SortBuilder {
	return NewSortBuilder(map[string]string{
		"categoryID": "category_id",
		"name":       "name",
		"createdAt":  "created_at",
	}, Order{Column: "category_id", Direction: Asc})
}

func TestSanitizeSort(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want []string
	}{
		{name: "comma joined", raw: "a,b", want: []string{"a", "b"}},
		{name: "array", raw: []string{"a", "b"}, want: []string{"a", "b"}},
		{name: "nested", raw: []any{"a", []any{"b,c"}}, want: []string{"a", "b", "c"}},
		{name: "blanks dropped", raw: " a , ,b,", want: []string{"a", "b"}},
		{name: "missing", raw: nil, want: nil},
		{name: "non string ignored", raw: 3, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, SanitizeSort(tt.raw)); diff != "" {
				t.Fatalf("SanitizeSort(%v) mismatch (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}

func buildSort(t *testing.T, b *SortBuilder, raw any) SortSpec {
	t.Helper()
	got, err := b.Build(raw)
	if err != nil {
		t.Fatalf("Build(%v): %v", raw, err)
	}
	return got
}

func TestSortBuilder_Build(t *testing.T) {
	got := buildSort(t, categorySorts(), []string{"-categoryID", "name"})
	want := []string{"category_id DESC", "name ASC", "category_id ASC"}
	if diff := cmp.Diff(want, got.Clauses()); diff != "" {
		t.Fatalf("clauses mismatch (-want +got):\n%s", diff)
	}
}

func TestSortBuilder_TieBreakAlwaysAppended(t *testing.T) {
	b := categorySorts()

	if diff := cmp.Diff(SortSpec{b.TieBreak()}, buildSort(t, b, nil)); diff != "" {
		t.Fatalf("empty sort mismatch (-want +got):\n%s", diff)
	}
	got := buildSort(t, b, "categoryID")
	if diff := cmp.Diff([]string{"category_id ASC", "category_id ASC"}, got.Clauses()); diff != "" {
		t.Fatalf("clauses mismatch (-want +got):\n%s", diff)
	}
}

func TestSortBuilder_StringAndArrayAgree(t *testing.T) {
	b := categorySorts()

	joined := buildSort(t, b, "name,-createdAt")
	split := buildSort(t, b, []string{"name", "-createdAt"})
	if diff := cmp.Diff(joined, split); diff != "" {
		t.Fatalf("string and array forms differ (-string +array):\n%s", diff)
	}
}

func TestSortBuilder_UnknownField(t *testing.T) {
	_, err := categorySorts().Build("name,-price")
	if err == nil || err.Error() != "Invalid sort field: price" {
		t.Fatalf("unexpected error: %v", err)
	}
	if !domain.IsValidation(err) {
		t.Fatalf("expected a validation error, got %T", err)
	}

	var unknown domain.UnknownFieldError
	if !errors.As(err, &unknown) || unknown.Field != "price" {
		t.Fatalf("expected UnknownFieldError for price, got %#v", err)
	}
}

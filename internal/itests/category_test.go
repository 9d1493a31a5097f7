//go:build integration

package itests

import (
	"context"
	"testing"

	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/category"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/domain"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/query"
	"github.com/google/go-cmp/cmp"
)

func names(cats []domain.Category) []string {
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, c.Name)
	}
	return out
}

func mustCreate(t *testing.T, name, parent string) *domain.Category {
	t.Helper()
	c, err := categorySvc.CreateCategory(context.Background(), category.CreateInput{Name: name, Parent: parent})
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return c
}

func TestCategoryTree(t *testing.T) {
	resetTables(t)
	ctx := context.Background()

	mustCreate(t, "Fashion", "")
	mustCreate(t, "Shoes", "Fashion")
	mustCreate(t, "Sneakers", "Shoes")
	mustCreate(t, "Hats", "Fashion")

	asc, err := categorySvc.GetAscendantCategories(ctx, "Sneakers")
	if err != nil {
		t.Fatalf("ascendants: %v", err)
	}
	if diff := cmp.Diff([]string{"Sneakers", "Shoes", "Fashion"}, names(asc)); diff != "" {
		t.Fatalf("ascendants mismatch (-want +got):\n%s", diff)
	}

	desc, err := categorySvc.GetDescendantCategories(ctx, "Fashion")
	if err != nil {
		t.Fatalf("descendants: %v", err)
	}
	// children newest first, then each child's subtree
	if diff := cmp.Diff([]string{"Fashion", "Hats", "Shoes", "Sneakers"}, names(desc)); diff != "" {
		t.Fatalf("descendants mismatch (-want +got):\n%s", diff)
	}

	if _, err := categorySvc.GetDescendantCategories(ctx, "Nope"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if got, err := categorySvc.GetAscendantCategories(ctx, "Nope"); err != nil || len(got) != 0 {
		t.Fatalf("expected empty ascendants, got %v, %v", got, err)
	}
}

func TestCategoryLifecycle(t *testing.T) {
	resetTables(t)
	ctx := context.Background()

	fashion := mustCreate(t, "Fashion", "")
	shoes := mustCreate(t, "Shoes", fashion.CategoryID)
	if shoes.ParentID == nil || *shoes.ParentID != fashion.CategoryID {
		t.Fatalf("parent not set: %+v", shoes)
	}

	if _, err := categorySvc.CreateCategory(ctx, category.CreateInput{Name: "Shoes"}); !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	none := ""
	updated, err := categorySvc.UpdateCategory(ctx, "Shoes", category.UpdateInput{Parent: &none})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.IsRoot() || updated.UpdatedAt.Before(updated.CreatedAt) {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	mustCreate(t, "Boots", "Fashion")
	if err := categorySvc.DeleteCategory(ctx, "Fashion"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	boots, err := categorySvc.GetCategory(ctx, "Boots")
	if err != nil {
		t.Fatalf("get boots: %v", err)
	}
	if !boots.IsRoot() {
		t.Fatalf("children of a deleted category should become roots")
	}
}

func TestGetCategories_ParentName(t *testing.T) {
	resetTables(t)
	ctx := context.Background()

	mustCreate(t, "Fashion", "")
	mustCreate(t, "Garden", "")
	mustCreate(t, "Shoes", "Fashion")
	mustCreate(t, "Hats", "Fashion")
	mustCreate(t, "Tools", "Garden")

	page, err := categorySvc.GetCategories(ctx, query.Params{"parentName": "Fashion", "sort": "name"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if diff := cmp.Diff([]string{"Hats", "Shoes"}, names(page.Items)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if page.Total != 2 {
		t.Fatalf("unexpected total %d", page.Total)
	}

	page, err = categorySvc.GetCategories(ctx, query.Params{"parentName": "Nobody"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 5 {
		t.Fatalf("unknown parent name must not constrain the listing, got %d", page.Total)
	}

	page, err = categorySvc.GetCategories(ctx, query.Params{"name": "[like]o", "size": "1", "page": "2", "sort": "name"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// Fashion, Shoes, Tools
	if page.Total != 3 || len(page.Items) != 1 || page.Items[0].Name != "Shoes" {
		t.Fatalf("unexpected page: total=%d items=%v", page.Total, names(page.Items))
	}
}

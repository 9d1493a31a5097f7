//go:build integration

package itests

import (
	"context"
	"log"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/category"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/config"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/db"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/handler"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/query"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/resource"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/router"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool        *pgxpool.Pool
	registry    *resource.Registry
	categorySvc *category.Service
	testBaseURL string
)

func TestMain(m *testing.M) {
	cfg := config.LoadConfig()

	testDSN, teardown, err := setupTestDB(cfg.PostgresDSN)
	if err != nil {
		println("setup test DB failed:", err.Error())
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err = db.Connect(ctx, testDSN)
	if err != nil {
		println("connect failed:", err.Error())
		_ = teardown()
		os.Exit(1)
	}

	registry, err = resource.Load()
	if err != nil {
		println("registry init failed:", err.Error())
		pool.Close()
		_ = teardown()
		os.Exit(1)
	}

	pages := query.NewPaginationBuilder(query.DefaultPage, query.DefaultPageSize)
	categorySvc = category.NewService(store.NewCategories(pool), registry.MustGet("categories"), pages)
	srv := httptest.NewServer(router.New(
		handler.NewResourceHandler(registry, store.New(pool), pages),
		handler.NewCategoryHandler(categorySvc),
		router.Options{AllowOrigin: "*"},
	))
	testBaseURL = srv.URL

	code := m.Run()

	srv.Close()
	pool.Close()
	if err := teardown(); err != nil {
		println("drop test DB failed:", err.Error())
	} else {
		log.Printf("TestMain: test DB dropped")
	}
	os.Exit(code)
}

// resetTables empties every table between tests.
func resetTables(t *testing.T) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`TRUNCATE attributes, coupons, orders, users, variants, products, categories`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

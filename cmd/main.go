package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/category"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/config"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/db"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/handler"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/logger"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/query"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/resource"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/router"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/store"
)

func main() {
	debugFlag := flag.Bool("d", false, "enable debug logging")
	migrateFlag := flag.Bool("migrate", false, "apply database migrations before serving")
	flag.Parse()

	cfg := config.LoadConfig()
	if err := logger.Init(cfg.LogDir); err != nil {
		fmt.Fprintf(os.Stderr, "log init failed: %v\n", err)
		os.Exit(1)
	}
	logger.SetDebug(*debugFlag || cfg.LogDebug)

	if err := run(cfg, *migrateFlag || cfg.MigrateOnStart); err != nil {
		logger.Error("server_error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

func run(cfg *config.Config, migrateFirst bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, err := resource.Load()
	if err != nil {
		return fmt.Errorf("registry init: %w", err)
	}
	logger.Info("resources_loaded", map[string]any{"resources": registry.Names()})

	stringPattern, err := query.StringPatternOption(cfg.Query.StringPattern)
	if err != nil {
		return fmt.Errorf("QUERY_STRING_PATTERN: %w", err)
	}

	if migrateFirst {
		if err := db.Migrate(cfg.PostgresDSN); err != nil {
			return err
		}
	}

	pool, err := db.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("postgres_connected", nil)

	pages := query.NewPaginationBuilder(cfg.Pagination.DefaultPage, cfg.Pagination.DefaultSize)
	categories := category.NewService(store.NewCategories(pool), registry.MustGet("categories"), pages, stringPattern)

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: router.New(
			handler.NewResourceHandler(registry, store.New(pool), pages, stringPattern),
			handler.NewCategoryHandler(categories),
			router.Options{AllowOrigin: cfg.CORS.AllowOrigin, AllowCredentials: cfg.CORS.AllowCredentials},
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_start", map[string]any{"port": cfg.Port})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server_shutdown", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

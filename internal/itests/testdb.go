//go:build integration

// Package itests runs the API against a throwaway Postgres database.
package itests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/db"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const testDBName = "shop_test"

// DeriveTestDSN points baseDSN at the test database and at the "postgres"
// maintenance database used to create and drop it.
func DeriveTestDSN(baseDSN string) (testDSN, adminDSN string, err error) {
	u, err := url.Parse(baseDSN)
	if err != nil {
		return "", "", fmt.Errorf("parse DSN: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", "", errors.New("only URL DSN supported: postgres://...")
	}
	if host := u.Hostname(); host != "localhost" && host != "127.0.0.1" {
		return "", "", fmt.Errorf("refuse non-local host for tests: %s", host)
	}

	u.Path = "/" + testDBName
	testDSN = u.String()
	u.Path = "/postgres"
	adminDSN = u.String()
	return testDSN, adminDSN, nil
}

func withAdmin(dsn string, timeout time.Duration, fn func(ctx context.Context, conn *sql.DB) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(ctx, conn)
}

func createTestDatabase(adminDSN string) error {
	return withAdmin(adminDSN, 10*time.Second, func(ctx context.Context, conn *sql.DB) error {
		var exists bool
		if err := conn.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname=$1)`, testDBName,
		).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return nil
		}
		_, err := conn.ExecContext(ctx, `CREATE DATABASE `+quoteIdent(testDBName))
		return err
	})
}

func dropTestDatabase(adminDSN string) error {
	return withAdmin(adminDSN, 15*time.Second, func(ctx context.Context, conn *sql.DB) error {
		_, _ = conn.ExecContext(ctx, `
			SELECT pg_terminate_backend(pid)
			FROM pg_stat_activity
			WHERE datname = $1 AND pid <> pg_backend_pid()
		`, testDBName)
		_, err := conn.ExecContext(ctx, `DROP DATABASE IF EXISTS `+quoteIdent(testDBName))
		return err
	})
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// setupTestDB creates the database, applies the embedded migrations and
// returns the test DSN with a teardown that rolls them back and drops the
// database again.
func setupTestDB(baseDSN string) (testDSN string, teardown func() error, err error) {
	testDSN, adminDSN, err := DeriveTestDSN(baseDSN)
	if err != nil {
		return "", nil, err
	}
	if os.Getenv("APP_ENV") == "production" {
		return "", nil, errors.New("APP_ENV=production, aborting tests")
	}

	if err := createTestDatabase(adminDSN); err != nil {
		return "", nil, fmt.Errorf("create DB %q: %w (POSTGRES_DSN -> %s). Ensure Postgres is running or set POSTGRES_DSN", testDBName, err, redactDSN(baseDSN))
	}
	log.Printf("test DB %q created", testDBName)

	if err := db.Migrate(testDSN); err != nil {
		_ = dropTestDatabase(adminDSN)
		return "", nil, err
	}
	log.Printf("migrations applied to test DB")

	return testDSN, func() error { return teardownTestDB(testDSN, adminDSN) }, nil
}

// teardownTestDB rolls every migration back, checks that no application
// table survived the down scripts, then drops the database.
func teardownTestDB(testDSN, adminDSN string) error {
	if err := db.MigrateDown(testDSN); err != nil {
		_ = dropTestDatabase(adminDSN)
		return err
	}
	leftover, err := leftoverTables(testDSN)
	if err != nil {
		_ = dropTestDatabase(adminDSN)
		return err
	}
	if len(leftover) > 0 {
		_ = dropTestDatabase(adminDSN)
		return fmt.Errorf("down migrations left tables behind: %s", strings.Join(leftover, ", "))
	}
	log.Printf("migrations rolled back on test DB")
	return dropTestDatabase(adminDSN)
}

func leftoverTables(testDSN string) ([]string, error) {
	var names []string
	err := withAdmin(testDSN, 10*time.Second, func(ctx context.Context, conn *sql.DB) error {
		rows, err := conn.QueryContext(ctx, `
			SELECT table_name FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name <> 'schema_migrations'
			ORDER BY table_name
		`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return err
			}
			names = append(names, name)
		}
		return rows.Err()
	})
	return names, err
}

func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	username := u.User.Username()
	if username == "" {
		return dsn
	}
	u.User = url.UserPassword(username, "******")
	return u.String()
}

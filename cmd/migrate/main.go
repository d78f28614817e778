// Command migrate applies the SQL files under migrations/ in lexical order,
// tracking applied versions in a schema_migrations table.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/lacarta/pos-gateway/internal/config"
)

func main() {
	_ = godotenv.Load()

	dir := "migrations"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		// Migrations only need the database section; terminal URLs may be unset
		// in the environment they run from
		cfg = config.DatabaseOnlyFromEnv()
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.Database.ConnectionString())
	if err != nil {
		fatal("connect: %v", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		fatal("ensure schema_migrations: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		fatal("read migrations dir: %v", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		applied, err := isApplied(ctx, conn, name)
		if err != nil {
			fatal("check %s: %v", name, err)
		}
		if applied {
			continue
		}

		sql, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fatal("read %s: %v", name, err)
		}

		tx, err := conn.Begin(ctx)
		if err != nil {
			fatal("begin %s: %v", name, err)
		}
		if _, err := tx.Exec(ctx, string(sql)); err != nil {
			_ = tx.Rollback(ctx)
			fatal("apply %s: %v", name, err)
		}
		if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", name); err != nil {
			_ = tx.Rollback(ctx)
			fatal("record %s: %v", name, err)
		}
		if err := tx.Commit(ctx); err != nil {
			fatal("commit %s: %v", name, err)
		}
		fmt.Printf("applied %s\n", name)
	}
	fmt.Println("migrations up to date")
}

func isApplied(ctx context.Context, conn *pgx.Conn, version string) (bool, error) {
	var exists bool
	err := conn.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)", version,
	).Scan(&exists)
	return exists, err
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

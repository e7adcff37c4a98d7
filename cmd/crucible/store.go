package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/kodevadam/crucible/internal/sqlitestore"
)

// openStore opens (creating parent directories and the schema if needed)
// the SQLite-backed store at cfg.DBPath. Every crucible subcommand shares
// this single durable backend — there is no separate in-memory mode in the
// CLI, though internal/memstore remains the backend the test suite and
// library consumers reach for directly.
func openStore(ctx context.Context, path string) (*sqlitestore.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return sqlitestore.Open(ctx, path)
}

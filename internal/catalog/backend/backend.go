// Package backend selects the catalog.Store implementation by name.
package backend

import (
	"fmt"
	"os"
	"path/filepath"

	"floorctl/internal/catalog"
	"floorctl/internal/catalog/boltstore"
	"floorctl/internal/catalog/sqlstore"
)

// Backend names accepted by Open.
const (
	Bolt   = "bolt"
	SQLite = "sqlite"
)

// FileName returns the database file name used for kind inside the data dir.
func FileName(kind string) string {
	switch kind {
	case SQLite:
		return "floor.sqlite"
	default:
		return "floor.db"
	}
}

// Open creates dataDir if needed and opens the kind store inside it. An empty
// kind means Bolt.
func Open(kind, dataDir string) (catalog.Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(dataDir, FileName(kind))
	switch kind {
	case "", Bolt:
		return boltstore.Open(path)
	case SQLite:
		return sqlstore.Open(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %q or %q)", kind, Bolt, SQLite)
	}
}

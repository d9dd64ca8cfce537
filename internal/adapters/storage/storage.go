// Package storage implements ports.KeyValueStore backends for favorites.
//
// Three drivers are available: a JSON file (the default, one object of
// key → value), SQLite through the pure Go modernc.org/sqlite driver, and an
// in-memory map for tests and throwaway sessions.
package storage

import (
	"fmt"

	"github.com/jsamuelsen/quote-widget/internal/platform/config"
	"github.com/jsamuelsen/quote-widget/internal/ports"
)

// Driver names accepted by Open.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Store is a key-value store that can also report its health.
type Store interface {
	ports.KeyValueStore
	ports.HealthChecker
}

// Open creates the store selected by configuration.
func Open(cfg *config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case DriverFile:
		return OpenFile(cfg.Path)
	case DriverSQLite:
		return OpenSQLite(cfg.Path)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// Package store persists named scenarios. Two backends exist: a file-backed
// one writing JSON documents to a directory, and a database-backed one using
// Postgres with a SQLite fallback.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/the-user-created/FERS/internal/config"
	"github.com/the-user-created/FERS/internal/geo"
	"github.com/the-user-created/FERS/pkg/scenario"
)

// ErrNotFound is returned when no scenario with the requested name exists.
var ErrNotFound = errors.New("scenario not found")

// Entry describes one stored scenario.
type Entry struct {
	Name      string
	UpdatedAt time.Time
}

// Backend is the interface all scenario stores implement.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Scenario management
	Save(name string, state *scenario.State) error
	Load(name string) (*scenario.State, error)
	List() ([]Entry, error)
	Delete(name string) error
}

// NewBackend creates a storage backend based on configuration.
func NewBackend(cfg config.StoreConfig, origin geo.Origin, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "postgres", "sqlite":
		return NewGormBackend(cfg, origin, log), nil
	case "memory":
		return NewMemoryBackend(cfg.Memory, log), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

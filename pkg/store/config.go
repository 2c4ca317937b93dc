// Package store persists outlier records
package store

import (
	"errors"
	"fmt"
)

// Driver selects the storage backend
type Driver string

const (
	// DriverPostgres stores records in PostgreSQL via pgx
	DriverPostgres Driver = "postgres"
	// DriverSQLite stores records in a local SQLite file
	DriverSQLite Driver = "sqlite"
)

var (
	// ErrDSNRequired is returned when no DSN is configured
	ErrDSNRequired = errors.New("store DSN is required")
	// ErrUnknownDriver is returned for unsupported drivers
	ErrUnknownDriver = errors.New("unknown store driver")
	// ErrInvalidMaxConns is returned when the pool size is not positive
	ErrInvalidMaxConns = errors.New("max connections must be positive")
)

// Config defines the persistence backend
type Config struct {
	Driver   Driver `yaml:"driver" default:"postgres"`
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns" default:"4"`
}

// Validate checks if the store configuration is valid
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Driver)
	}

	if c.DSN == "" {
		return ErrDSNRequired
	}

	if c.MaxConns <= 0 {
		return ErrInvalidMaxConns
	}

	return nil
}

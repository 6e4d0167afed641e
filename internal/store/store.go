package store

import "errors"

// ErrSeasonNotFound is returned when a season has not been loaded.
var ErrSeasonNotFound = errors.New("season not found")

// Backend names accepted by configuration.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

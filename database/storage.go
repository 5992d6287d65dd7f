package database

import "github.com/disserto/disserto-api/repository"

// Storage defines the interface that all database implementations must satisfy
type Storage interface {
	// Lifecycle methods
	Init() error
	Close() error
	HealthCheck() error

	// Repositories returns the data-access layer backed by this store
	Repositories() *repository.Repositories
}

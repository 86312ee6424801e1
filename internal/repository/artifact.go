package repository

import (
	"context"
	"errors"

	"farestore/internal/model"
)

// ErrDuplicateStoragePath is returned by Create when an artifact with the
// same storage path is already registered.
var ErrDuplicateStoragePath = errors.New("storage path already registered")

// ArtifactRepository defines data access for artifacts using SQL queries only.
// No business logic here — strictly persistence operations.
type ArtifactRepository interface {
	// Create inserts a new artifact record.
	// The caller should provide required fields (e.g., ID, CreatedAt) according to the database schema defaults.
	// Returns the stored artifact (may include values set by the DB).
	Create(ctx context.Context, a *model.Artifact) (*model.Artifact, error)

	// FindByID returns an artifact by its ID.
	FindByID(ctx context.Context, id string) (*model.Artifact, error)

	// FindByStoragePath returns the artifact registered at the given storage path.
	FindByStoragePath(ctx context.Context, storagePath string) (*model.Artifact, error)

	// List returns a paginated list of artifacts and total rows count for the given filter.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Artifact], error)

	// Delete removes an artifact by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}

// PageQuery holds pagination parameters plus optional artifact filters.
// Empty filter fields match everything.
type PageQuery struct {
	Limit     int
	Offset    int
	Kind      model.ArtifactKind
	ModelName string
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

package model

import "time"

// ArtifactKind distinguishes the two artifact families stored in the bucket.
type ArtifactKind string

const (
	// KindDataset is a training/evaluation data file, stored under data/.
	KindDataset ArtifactKind = "dataset"
	// KindModel is a serialized model file, stored under models/<name>/<version>/.
	KindModel ArtifactKind = "model"
)

// Valid reports whether the kind is one of the known artifact kinds.
func (k ArtifactKind) Valid() bool {
	return k == KindDataset || k == KindModel
}

// Artifact represents a stored file in the registry.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Artifact struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Kind         ArtifactKind `json:"kind"`
	ModelName    string       `json:"model_name,omitempty"`
	ModelVersion string       `json:"model_version,omitempty"`
	StoragePath  string       `json:"storage_path"`
	Size         int64        `json:"size"`
	ContentType  string       `json:"content_type"`
	ETag         string       `json:"etag,omitempty"`
	ProjectID    string       `json:"project_id,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

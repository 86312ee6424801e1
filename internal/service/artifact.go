package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"farestore/internal/model"
	"farestore/internal/repository"
	"farestore/internal/storage"
)

var (
	ErrIDRequired    = errors.New("id is required")
	ErrNotFound      = errors.New("artifact not found")
	ErrReaderNil     = errors.New("reader is nil")
	ErrNameRequired  = errors.New("file name is required")
	ErrModelIdentity = errors.New("model name and version are required")
	ErrAlreadyExists = errors.New("artifact already exists at this storage path")
)

// DatasetPrefix is the bucket folder holding dataset artifacts.
const DatasetPrefix = "data"

// ModelPrefix is the bucket folder holding model artifacts.
const ModelPrefix = "models"

// ArtifactListResult is the service-level DTO for paginated artifacts.
type ArtifactListResult struct {
	Items []model.Artifact `json:"data"`
	Total int              `json:"total"`
}

// ListFilter narrows List results. Zero values match everything.
type ListFilter struct {
	Kind      model.ArtifactKind
	ModelName string
}

// ArtifactService defines the use cases for handling artifacts.
type ArtifactService interface {
	// PublishDataset streams the content to object storage under data/<basename>
	// and registers it; storage is rolled back if the registry insert fails.
	PublishDataset(ctx context.Context, r io.Reader, filename string, contentType string, size int64) (*model.Artifact, error)

	// PublishModel streams the content to models/<modelName>/<modelVersion>/<basename>
	// and registers it, with the same rollback behavior as PublishDataset.
	PublishModel(ctx context.Context, r io.Reader, filename string, contentType string, size int64, modelName, modelVersion string) (*model.Artifact, error)

	// List returns artifacts using limit/offset and a total count.
	List(ctx context.Context, limit, offset int, f ListFilter) (*ArtifactListResult, error)

	// Get returns a single artifact by its ID.
	Get(ctx context.Context, id string) (*model.Artifact, error)

	// DownloadURL returns a time-limited presigned URL for the artifact content.
	DownloadURL(ctx context.Context, id string, expiry time.Duration) (string, error)

	// Delete removes an artifact by ID from both storage and registry.
	Delete(ctx context.Context, id string) error
}

// artifactService is a concrete implementation of ArtifactService.
type artifactService struct {
	store     storage.Storage
	repo      repository.ArtifactRepository
	projectID string
}

// NewArtifactService constructs a new ArtifactService.
// projectID is recorded on every published artifact; it may be empty.
func NewArtifactService(store storage.Storage, repo repository.ArtifactRepository, projectID string) ArtifactService {
	return &artifactService{store: store, repo: repo, projectID: projectID}
}

// DatasetKey derives the object key for a dataset file.
// The object name equals the basename of the provided path.
func DatasetKey(filename string) (string, error) {
	base, err := objectBasename(filename)
	if err != nil {
		return "", err
	}
	return path.Join(DatasetPrefix, base), nil
}

// ModelKey derives the object key for a model file under the model's folder.
func ModelKey(filename, modelName, modelVersion string) (string, error) {
	if modelName == "" || modelVersion == "" {
		return "", ErrModelIdentity
	}
	base, err := objectBasename(filename)
	if err != nil {
		return "", err
	}
	return path.Join(ModelPrefix, modelName, modelVersion, base), nil
}

// objectBasename strips any directory components from a local or uploaded
// file path, leaving the name the object is stored under.
func objectBasename(filename string) (string, error) {
	base := filepath.Base(filepath.ToSlash(filename))
	if base == "" || base == "." || base == string(filepath.Separator) || base == "/" {
		return "", ErrNameRequired
	}
	return base, nil
}

func (s *artifactService) PublishDataset(ctx context.Context, r io.Reader, filename string, contentType string, size int64) (*model.Artifact, error) {
	key, err := DatasetKey(filename)
	if err != nil {
		return nil, err
	}
	return s.publish(ctx, r, key, contentType, size, model.Artifact{
		Kind: model.KindDataset,
	})
}

func (s *artifactService) PublishModel(ctx context.Context, r io.Reader, filename string, contentType string, size int64, modelName, modelVersion string) (*model.Artifact, error) {
	key, err := ModelKey(filename, modelName, modelVersion)
	if err != nil {
		return nil, err
	}
	return s.publish(ctx, r, key, contentType, size, model.Artifact{
		Kind:         model.KindModel,
		ModelName:    modelName,
		ModelVersion: modelVersion,
	})
}

// publish uploads the object, then inserts the registry row, deleting the
// object again if the insert fails.
func (s *artifactService) publish(ctx context.Context, r io.Reader, key string, contentType string, size int64, a model.Artifact) (*model.Artifact, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// Put overwrites on key collision, so the registry is checked first:
	// a registered artifact's object must never be replaced by a duplicate upload.
	if _, err := s.repo.FindByStoragePath(ctx, key); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check storage path: %w", err)
	}

	meta := map[string]string{}
	if s.projectID != "" {
		meta["project-id"] = s.projectID
	}

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata:    meta,
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	a.ID = uuid.New().String()
	a.Name = path.Base(key)
	a.StoragePath = objInfo.Key
	a.Size = objInfo.Size
	a.ContentType = contentType
	a.ETag = objInfo.ETag
	a.ProjectID = s.projectID
	a.CreatedAt = time.Now().UTC()

	stored, err := s.repo.Create(ctx, &a)
	if err != nil {
		// A concurrent publish can still win the unique storage_path between
		// the check above and this insert. The object now belongs to that
		// artifact's row, so it must not be rolled back.
		if errors.Is(err, repository.ErrDuplicateStoragePath) {
			return nil, ErrAlreadyExists
		}
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("registry save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("registry save failed: %w", err)
	}
	return stored, nil
}

// List returns paginated artifacts without exposing repository types.
func (s *artifactService) List(ctx context.Context, limit, offset int, f ListFilter) (*ArtifactListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{
		Limit:     limit,
		Offset:    offset,
		Kind:      f.Kind,
		ModelName: f.ModelName,
	})
	if err != nil {
		return nil, err
	}
	return &ArtifactListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns an artifact by ID.
func (s *artifactService) Get(ctx context.Context, id string) (*model.Artifact, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// DownloadURL resolves the artifact and presigns its storage path.
func (s *artifactService) DownloadURL(ctx context.Context, id string, expiry time.Duration) (string, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	url, err := s.store.PresignGet(ctx, a.StoragePath, expiry)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return url, nil
}

// Delete removes an artifact from storage, then deletes its record.
func (s *artifactService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	// Find the artifact to get its storage path
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	// Delete from storage first; if this fails, keep the row so the object is not orphaned silently
	if err := s.store.Delete(ctx, a.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	// Delete DB row (repository ignores missing row errors as per contract)
	return s.repo.Delete(ctx, id)
}

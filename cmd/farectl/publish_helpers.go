package main

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"farestore/internal/config"
	"farestore/internal/database"
	"farestore/internal/database/migration"
	"farestore/internal/repository/postgres"
	"farestore/internal/service"
	"farestore/internal/storage"
)

// newArtifactService wires config, database, and storage into the same
// service the API server uses, so CLI uploads land in the shared registry.
// The returned *sql.DB must be closed by the caller.
func newArtifactService(ctx context.Context, cfg *config.AppConfig) (service.ArtifactService, *sql.DB, error) {
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}

	objStore, err := storage.NewMinIO(cfg.Storage)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("initialize object storage: %w", err)
	}

	repo := postgres.NewArtifactPostgres(db)
	return service.NewArtifactService(objStore, repo, cfg.ProjectID), db, nil
}

// detectContentType maps well-known artifact file extensions to MIME types.
// Unknown extensions fall back to application/octet-stream.
func detectContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	case ".parquet":
		return "application/vnd.apache.parquet"
	default:
		return "application/octet-stream"
	}
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"farestore/internal/model"
	"farestore/internal/repository"
)

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

const artifactColumns = "id, name, kind, model_name, model_version, storage_path, size, content_type, etag, project_id, created_at"

// ArtifactPostgres is a PostgreSQL implementation of repository.ArtifactRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type ArtifactPostgres struct {
	db *sql.DB
}

// NewArtifactPostgres creates a new ArtifactPostgres repository.
func NewArtifactPostgres(db *sql.DB) *ArtifactPostgres {
	return &ArtifactPostgres{db: db}
}

var _ repository.ArtifactRepository = (*ArtifactPostgres)(nil)

func scanArtifact(row interface{ Scan(dest ...any) error }) (*model.Artifact, error) {
	var a model.Artifact
	if err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Kind,
		&a.ModelName,
		&a.ModelVersion,
		&a.StoragePath,
		&a.Size,
		&a.ContentType,
		&a.ETag,
		&a.ProjectID,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new artifact row and returns the stored record.
// A unique violation on storage_path is translated to repository.ErrDuplicateStoragePath.
func (r *ArtifactPostgres) Create(ctx context.Context, a *model.Artifact) (*model.Artifact, error) {
	const q = `
		INSERT INTO artifacts (id, name, kind, model_name, model_version, storage_path, size, content_type, etag, project_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + artifactColumns

	row := r.db.QueryRowContext(ctx, q,
		a.ID,
		a.Name,
		a.Kind,
		a.ModelName,
		a.ModelVersion,
		a.StoragePath,
		a.Size,
		a.ContentType,
		a.ETag,
		a.ProjectID,
		a.CreatedAt,
	)
	out, err := scanArtifact(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, repository.ErrDuplicateStoragePath
		}
		return nil, err
	}
	return out, nil
}

// FindByID fetches a single artifact by its ID.
func (r *ArtifactPostgres) FindByID(ctx context.Context, id string) (*model.Artifact, error) {
	const q = `
		SELECT ` + artifactColumns + `
		FROM artifacts
		WHERE id = $1
	`
	return scanArtifact(r.db.QueryRowContext(ctx, q, id))
}

// FindByStoragePath fetches a single artifact by its unique storage path.
func (r *ArtifactPostgres) FindByStoragePath(ctx context.Context, storagePath string) (*model.Artifact, error) {
	const q = `
		SELECT ` + artifactColumns + `
		FROM artifacts
		WHERE storage_path = $1
	`
	return scanArtifact(r.db.QueryRowContext(ctx, q, storagePath))
}

// List returns artifacts using LIMIT/OFFSET pagination and a total count.
// Kind and model name filters are applied to both the count and the page.
func (r *ArtifactPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Artifact], error) {
	where, args := buildFilter(pq)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM artifacts"+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	qList := fmt.Sprintf(
		"SELECT %s FROM artifacts%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		artifactColumns, where, len(args)+1, len(args)+2,
	)
	rows, err := r.db.QueryContext(ctx, qList, append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Artifact, 0)
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Artifact]{
		Items: items,
		Total: total,
	}, nil
}

// buildFilter renders the WHERE clause for the optional kind/model filters.
func buildFilter(pq repository.PageQuery) (string, []any) {
	var conds []string
	var args []any
	if pq.Kind != "" {
		args = append(args, pq.Kind)
		conds = append(conds, fmt.Sprintf("kind = $%d", len(args)))
	}
	if pq.ModelName != "" {
		args = append(args, pq.ModelName)
		conds = append(conds, fmt.Sprintf("model_name = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Delete removes an artifact by ID. It does not return an error if the row does not exist.
func (r *ArtifactPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM artifacts WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

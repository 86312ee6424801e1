package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"farestore/internal/model"
	"farestore/internal/repository"
)

var artifactRows = []string{"id", "name", "kind", "model_name", "model_version", "storage_path", "size", "content_type", "etag", "project_id", "created_at"}

func TestArtifactPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewArtifactPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	a := &model.Artifact{
		ID:          "test-uuid",
		Name:        "train_1k.csv",
		Kind:        model.KindDataset,
		StoragePath: "data/train_1k.csv",
		Size:        123,
		ContentType: "text/csv",
		ETag:        "etag-1",
		ProjectID:   "taxifare-project",
		CreatedAt:   now,
	}

	t.Run("inserted", func(t *testing.T) {
		rows := sqlmock.NewRows(artifactRows).
			AddRow(a.ID, a.Name, a.Kind, a.ModelName, a.ModelVersion, a.StoragePath, a.Size, a.ContentType, a.ETag, a.ProjectID, a.CreatedAt)

		mock.ExpectQuery("INSERT INTO artifacts").
			WithArgs(a.ID, a.Name, a.Kind, a.ModelName, a.ModelVersion, a.StoragePath, a.Size, a.ContentType, a.ETag, a.ProjectID, a.CreatedAt).
			WillReturnRows(rows)

		result, err := repo.Create(ctx, a)

		assert.NoError(t, err)
		assert.NotNil(t, result)
		assert.Equal(t, a.ID, result.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate storage path", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO artifacts").
			WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "artifacts_storage_path_key"})

		_, err := repo.Create(ctx, a)

		assert.ErrorIs(t, err, repository.ErrDuplicateStoragePath)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestArtifactPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewArtifactPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(artifactRows).
			AddRow("test-id", "model.joblib", "model", "taxifare", "v1", "models/taxifare/v1/model.joblib", 100, "application/octet-stream", "", "", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM artifacts WHERE id = ?").
			WithArgs("test-id").
			WillReturnRows(rows)

		a, err := repo.FindByID(ctx, "test-id")

		assert.NoError(t, err)
		assert.NotNil(t, a)
		assert.Equal(t, "test-id", a.ID)
		assert.Equal(t, model.KindModel, a.Kind)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM artifacts WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		a, err := repo.FindByID(ctx, "missing")

		assert.Nil(t, a)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestArtifactPostgres_FindByStoragePath(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewArtifactPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(artifactRows).
			AddRow("a1", "train.csv", "dataset", "", "", "data/train.csv", 10, "text/csv", "", "", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM artifacts WHERE storage_path = ?").
			WithArgs("data/train.csv").
			WillReturnRows(rows)

		a, err := repo.FindByStoragePath(ctx, "data/train.csv")

		assert.NoError(t, err)
		assert.Equal(t, "a1", a.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM artifacts WHERE storage_path = ?").
			WithArgs("data/missing.csv").
			WillReturnError(sql.ErrNoRows)

		a, err := repo.FindByStoragePath(ctx, "data/missing.csv")

		assert.Nil(t, a)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestArtifactPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewArtifactPostgres(db)
	ctx := context.Background()

	t.Run("no filter", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM artifacts`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		rows := sqlmock.NewRows(artifactRows).
			AddRow("a1", "train.csv", "dataset", "", "", "data/train.csv", 10, "text/csv", "", "", time.Now()).
			AddRow("a2", "model.joblib", "model", "taxifare", "v1", "models/taxifare/v1/model.joblib", 20, "application/octet-stream", "", "", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM artifacts ORDER BY created_at DESC").
			WithArgs(10, 0).
			WillReturnRows(rows)

		res, err := repo.List(ctx, repository.PageQuery{Limit: 10, Offset: 0})

		assert.NoError(t, err)
		assert.Equal(t, 2, res.Total)
		assert.Len(t, res.Items, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("kind and model filters", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM artifacts WHERE kind = (.+) AND model_name = ?`).
			WithArgs("model", "taxifare").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows(artifactRows).
			AddRow("a2", "model.joblib", "model", "taxifare", "v1", "models/taxifare/v1/model.joblib", 20, "application/octet-stream", "", "", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM artifacts WHERE kind = (.+) AND model_name = (.+) ORDER BY created_at DESC").
			WithArgs("model", "taxifare", 5, 0).
			WillReturnRows(rows)

		res, err := repo.List(ctx, repository.PageQuery{
			Limit:     5,
			Offset:    0,
			Kind:      model.KindModel,
			ModelName: "taxifare",
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Len(t, res.Items, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestArtifactPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewArtifactPostgres(db)
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM artifacts WHERE id = ?").
			WithArgs("a1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, "a1"))
	})

	t.Run("missing row is not an error", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM artifacts WHERE id = ?").
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, repo.Delete(ctx, "missing"))
	})
}

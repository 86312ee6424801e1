package handler

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"farestore/internal/config"
	"farestore/internal/model"
	"farestore/internal/service"
)

// defaultDownloadExpiry bounds presigned URLs when the client does not ask
// for a specific lifetime.
const defaultDownloadExpiry = 15 * time.Minute

// maxDownloadExpiry is the S3 presign ceiling. Values above it would be
// rejected by the storage backend, so they are refused up front.
const maxDownloadExpiry = 7 * 24 * time.Hour

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; all artifact logic lives in the service layer.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.ArtifactService, modelDefaults config.ModelConfig) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Get("/artifacts", ListArtifacts(svc))
	app.Post("/artifacts", UploadArtifact(svc, modelDefaults))
	app.Get("/artifacts/:id", GetArtifact(svc))
	app.Get("/artifacts/:id/download", DownloadArtifact(svc))
	app.Delete("/artifacts/:id", DeleteArtifact(svc))
}

// HealthCheck reports whether the registry database is reachable.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, CodeServiceUnavailable, "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness probe.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ListArtifacts lists registered artifacts with limit/offset pagination and
// optional kind / model_name filters.
func ListArtifacts(svc service.ArtifactService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, CodeInvalidLimit, "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, CodeInvalidOffset, "invalid offset")
		}

		filter := service.ListFilter{ModelName: c.Query("model_name")}
		if kind := c.Query("kind"); kind != "" {
			k := model.ArtifactKind(kind)
			if !k.Valid() {
				return writeError(c, fiber.StatusBadRequest, CodeInvalidKind, "kind must be dataset or model")
			}
			filter.Kind = k
		}

		res, err := svc.List(c.UserContext(), limit, offset, filter)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// UploadArtifact accepts a multipart upload (field name: file) and publishes
// it as a dataset or model artifact. Form fields:
// - kind: "dataset" (default) or "model"
// - model_name, model_version: model identity, defaulting to the configured model
func UploadArtifact(svc service.ArtifactService, modelDefaults config.ModelConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, CodeFileRequired, "file is required")
		}

		kind := model.ArtifactKind(c.FormValue("kind", string(model.KindDataset)))
		if !kind.Valid() {
			return writeError(c, fiber.StatusBadRequest, CodeInvalidKind, "kind must be dataset or model")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, CodeFileOpenError, "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		var a *model.Artifact
		switch kind {
		case model.KindModel:
			name := c.FormValue("model_name", modelDefaults.Name)
			version := c.FormValue("model_version", modelDefaults.Version)
			a, err = svc.PublishModel(c.UserContext(), f, fh.Filename, ct, fh.Size, name, version)
		default:
			a, err = svc.PublishDataset(c.UserContext(), f, fh.Filename, ct, fh.Size)
		}
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}

// GetArtifact returns a single artifact by ID.
func GetArtifact(svc service.ArtifactService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, CodeInvalidID, "invalid id format")
		}
		a, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(a)
	}
}

// DownloadArtifact returns a presigned, time-limited download URL for the
// artifact content. Query param expiry_seconds overrides the default and is
// capped at the presign ceiling of seven days.
func DownloadArtifact(svc service.ArtifactService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, CodeInvalidID, "invalid id format")
		}

		expiry := defaultDownloadExpiry
		if raw := c.Query("expiry_seconds"); raw != "" {
			secs, err := strconv.Atoi(raw)
			if err != nil || secs <= 0 {
				return writeError(c, fiber.StatusBadRequest, CodeInvalidExpiry, "invalid expiry_seconds")
			}
			expiry = time.Duration(secs) * time.Second
			if expiry > maxDownloadExpiry {
				return writeError(c, fiber.StatusBadRequest, CodeInvalidExpiry, "expiry_seconds exceeds the 7 day maximum")
			}
		}

		url, err := svc.DownloadURL(c.UserContext(), id, expiry)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"url":        url,
			"expires_in": int(expiry.Seconds()),
		})
	}
}

// DeleteArtifact removes an artifact from storage and the registry.
func DeleteArtifact(svc service.ArtifactService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, CodeInvalidID, "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"farestore/internal/service"
)

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{
		BodyLimit:    8,
		ErrorHandler: ErrorHandler(),
	})
	app.Post("/artifacts", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	t.Run("route not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/nope", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, CodeNotFound, payload.Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/artifacts", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, CodeMethodNotAllowed, payload.Error.Code)
	})

	t.Run("body over the configured limit", func(t *testing.T) {
		body := bytes.Repeat([]byte("x"), 64)
		req := httptest.NewRequest(http.MethodPost, "/artifacts", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/octet-stream")

		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, CodeRequestTooLarge, payload.Error.Code)
	})
}

func TestWriteServiceError(t *testing.T) {
	app := fiber.New()
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return writeServiceError(c, service.ErrAlreadyExists)
	})
	app.Get("/unknown", func(c *fiber.Ctx) error {
		return writeServiceError(c, assert.AnError)
	})

	t.Run("known sentinel maps to its code", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/conflict", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, CodeAlreadyExists, payload.Error.Code)
	})

	t.Run("unknown error is hidden behind 500", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/unknown", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, CodeInternalError, payload.Error.Code)
		assert.Equal(t, "internal server error", payload.Error.Message)
	})
}

package models

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternalError(cause)

	assert.Equal(t, "Internal server error: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Post with ID 7 not found", NewNotFoundError("Post", 7).Error())
}

func TestRespondWithError_HidesCause(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusInternalServerError, NewInternalError(errors.New("pq: secret detail")))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal server error", out["error"])
	assert.Equal(t, CodeInternal, out["code"])
	assert.NotContains(t, string(body), "secret detail")
}

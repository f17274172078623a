package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_UnwrapAndCode(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := fmt.Errorf("resolve session: %w", NewStoreUnavailableError(cause))

	assert.True(t, IsCode(err, CodeStoreUnavailable))
	assert.False(t, IsCode(err, CodeInternal))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "", ErrorCode(errors.New("plain")))
	assert.False(t, IsCode(nil, CodeNotFound))
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		err         error
		wantCode    string
		wantMessage string
		wantDetails string
	}{
		{
			name:        "Validation",
			status:      fiber.StatusBadRequest,
			err:         NewValidationError("Body is required"),
			wantCode:    CodeValidation,
			wantMessage: "Body is required",
		},
		{
			name:        "Not Found",
			status:      fiber.StatusNotFound,
			err:         NewNotFoundError("Post", 7),
			wantCode:    CodeNotFound,
			wantMessage: "Post with ID 7 not found",
		},
		{
			name:        "Internal Hides Details",
			status:      fiber.StatusInternalServerError,
			err:         NewInternalError(errors.New("pq: relation missing")),
			wantCode:    CodeInternal,
			wantMessage: "Internal server error",
		},
		{
			name:        "Plain Error",
			status:      fiber.StatusBadRequest,
			err:         errors.New("boom"),
			wantMessage: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return RespondWithError(c, tt.status, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.status, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMessage, body.Error)
			assert.Equal(t, tt.wantDetails, body.Details)
		})
	}
}

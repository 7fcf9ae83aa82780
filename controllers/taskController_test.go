package controllers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"tasktracker-backend/apperrors"
	"tasktracker-backend/auth"
	"tasktracker-backend/controllers"
	"tasktracker-backend/middlewares"
	"tasktracker-backend/models"
	"tasktracker-backend/routes"
	"tasktracker-backend/services"
	"tasktracker-backend/store/storefake"
)

// tokenVerifier maps literal bearer strings to identities; anything else is
// an authentication failure.
type tokenVerifier struct {
	identities map[string]auth.Identity
}

func (v *tokenVerifier) Verify(_ context.Context, raw string) (auth.Identity, error) {
	if identity, ok := v.identities[raw]; ok {
		return identity, nil
	}
	return auth.Identity{}, apperrors.NewAuthError(apperrors.ReasonBadSignature, errors.New("unknown test token"))
}

func newTestApp() (*fiber.App, *storefake.FakeTaskStore) {
	fake := storefake.New()
	app := fiber.New(fiber.Config{ErrorHandler: middlewares.NewErrorHandler(zerolog.Nop())})
	routes.Register(app, routes.Deps{
		Tasks: controllers.NewTaskController(services.NewTaskService(fake)),
		Verifier: &tokenVerifier{identities: map[string]auth.Identity{
			"u1-token": {Subject: "u1", Email: "u1@example.com"},
			"u2-token": {Subject: "u2", Email: "u2@example.com"},
		}},
	})
	return app, fake
}

func doJSON(t *testing.T, app *fiber.App, method, path, token, body string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, payload
}

func decodeTask(t *testing.T, payload []byte) models.Task {
	t.Helper()
	var task models.Task
	require.NoError(t, json.Unmarshal(payload, &task))
	return task
}

func TestTasksAPI_CreateAndToggle(t *testing.T) {
	app, _ := newTestApp()

	resp, payload := doJSON(t, app, "POST", "/tasks", "u1-token", `{"title":"Buy milk"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decodeTask(t, payload)
	require.EqualValues(t, 1, created.Id)
	require.False(t, created.Completed)
	require.Equal(t, "Buy milk", created.Title)

	resp, payload = doJSON(t, app, "PATCH", "/tasks/1/complete", "u1-token", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, decodeTask(t, payload).Completed)

	resp, payload = doJSON(t, app, "PATCH", "/tasks/1/complete", "u1-token", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.False(t, decodeTask(t, payload).Completed)
}

func TestTasksAPI_ExistenceLeak(t *testing.T) {
	app, _ := newTestApp()

	resp, _ := doJSON(t, app, "POST", "/tasks", "u1-token", `{"title":"secret"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// A foreign-owned id and a genuinely absent id must be answered
	// identically: same status, same body.
	foreignResp, foreignBody := doJSON(t, app, "GET", "/tasks/1", "u2-token", "")
	absentResp, absentBody := doJSON(t, app, "GET", "/tasks/999", "u2-token", "")
	require.Equal(t, fiber.StatusNotFound, foreignResp.StatusCode)
	require.Equal(t, fiber.StatusNotFound, absentResp.StatusCode)
	require.JSONEq(t, string(absentBody), string(foreignBody))

	for _, probe := range []struct {
		method, path, body string
	}{
		{"PUT", "/tasks/1", `{"title":"hijack"}`},
		{"DELETE", "/tasks/1", ""},
		{"PATCH", "/tasks/1/complete", ""},
	} {
		resp, _ := doJSON(t, app, probe.method, probe.path, "u2-token", probe.body)
		require.Equal(t, fiber.StatusNotFound, resp.StatusCode, "%s %s", probe.method, probe.path)
	}

	// u1 still sees the task untouched.
	resp, payload := doJSON(t, app, "GET", "/tasks/1", "u1-token", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "secret", decodeTask(t, payload).Title)

	// And u2's list does not contain it.
	resp, payload = doJSON(t, app, "GET", "/tasks", "u2-token", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var tasks []models.Task
	require.NoError(t, json.Unmarshal(payload, &tasks))
	require.Empty(t, tasks)
}

func TestTasksAPI_Validation(t *testing.T) {
	app, _ := newTestApp()

	resp, _ := doJSON(t, app, "POST", "/tasks", "u1-token", `{"title":""}`)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	// Nothing was persisted.
	resp, payload := doJSON(t, app, "GET", "/tasks", "u1-token", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var tasks []models.Task
	require.NoError(t, json.Unmarshal(payload, &tasks))
	require.Empty(t, tasks)

	resp, _ = doJSON(t, app, "POST", "/tasks", "u1-token", `{"title":"`+strings.Repeat("a", 201)+`"}`)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	// Updating an existing task with an explicitly empty title also fails.
	resp, _ = doJSON(t, app, "POST", "/tasks", "u1-token", `{"title":"ok"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp, _ = doJSON(t, app, "PUT", "/tasks/1", "u1-token", `{"title":""}`)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestTasksAPI_PartialUpdate(t *testing.T) {
	app, _ := newTestApp()

	resp, _ := doJSON(t, app, "POST", "/tasks", "u1-token", `{"title":"task","description":"keep me"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Omitting description leaves it alone.
	resp, payload := doJSON(t, app, "PUT", "/tasks/1", "u1-token", `{"title":"renamed"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	updated := decodeTask(t, payload)
	require.Equal(t, "renamed", updated.Title)
	require.NotNil(t, updated.Description)
	require.Equal(t, "keep me", *updated.Description)

	// Explicitly empty description clears it.
	resp, payload = doJSON(t, app, "PUT", "/tasks/1", "u1-token", `{"description":""}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Nil(t, decodeTask(t, payload).Description)
}

func TestTasksAPI_Delete(t *testing.T) {
	app, _ := newTestApp()

	resp, _ := doJSON(t, app, "POST", "/tasks", "u1-token", `{"title":"doomed"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, app, "DELETE", "/tasks/1", "u1-token", "")
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/tasks/1", "u1-token", "")
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestTasksAPI_Authentication(t *testing.T) {
	app, _ := newTestApp()

	t.Run("missing header", func(t *testing.T) {
		resp, _ := doJSON(t, app, "GET", "/tasks", "", "")
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unverifiable token gets a generic body", func(t *testing.T) {
		resp, payload := doJSON(t, app, "GET", "/tasks", "forged", "")
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		require.JSONEq(t, `{"message":"invalid authentication credentials"}`, string(payload))
	})
}

func TestTasksAPI_StorageUnavailable(t *testing.T) {
	app, fake := newTestApp()
	fake.FailWith = apperrors.ErrStorageUnavailable

	resp, payload := doJSON(t, app, "GET", "/tasks", "u1-token", "")
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	require.JSONEq(t, `{"message":"service temporarily unavailable"}`, string(payload))
}

func TestTasksAPI_InvalidID(t *testing.T) {
	app, _ := newTestApp()

	resp, _ := doJSON(t, app, "GET", "/tasks/abc", "u1-token", "")
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

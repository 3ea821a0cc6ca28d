package router

import (
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"expo_leads/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	_ = logger.Init(&logger.LogConfig{Output: "none"})
	os.Exit(m.Run())
}

func get(t *testing.T, app *fiber.App, path string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestSetupRoutes_PrefixesAPI(t *testing.T) {
	app := fiber.New()
	err := SetupRoutes(app, func(api fiber.Router, r *Router) error {
		api.Get("/ping", func(c fiber.Ctx) error { return c.SendString("pong") })
		return nil
	})
	require.NoError(t, err)

	status, body := get(t, app, "/api/ping")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "pong", body)

	status, _ = get(t, app, "/ping")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestSetupRoutes_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := SetupRoutes(fiber.New(),
		func(fiber.Router, *Router) error { calls++; return boom },
		func(fiber.Router, *Router) error { calls++; return nil },
	)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestSystem(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "leads"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leads", "a.txt"), []byte("card"), 0o644))

	app := fiber.New()
	require.NoError(t, SetupRoutes(app, System(SystemOptions{
		Ping:           func() error { return errors.New("down") },
		MetricsEnabled: true,
		UploadDir:      dir,
	})))

	status, body := get(t, app, "/api/health")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"mongodb":"Disconnected"`)

	status, body = get(t, app, "/metrics")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "go_goroutines")

	status, body = get(t, app, "/uploads/leads/a.txt")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "card", body)
}

func TestSystem_OptionalRoutesOff(t *testing.T) {
	app := fiber.New()
	require.NoError(t, SetupRoutes(app, System(SystemOptions{})))

	status, _ := get(t, app, "/metrics")
	assert.Equal(t, fiber.StatusNotFound, status)
}

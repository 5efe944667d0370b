package fiber_test

import (
	"bufio"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyportlabs/panel/internal/logger"
	adapter "github.com/skyportlabs/panel/internal/logger/adapter/fiber"
)

const healthPath = "/health"

type accessEntry struct {
	IP     string  `json:"IP"`
	Status int     `json:"status"`
	Perf   float64 `json:"X-Performance"`
	URI    string  `json:"URI"`
	Method string  `json:"method"`
	Host   string  `json:"host"`
	User   string  `json:"user"`
	Error  string  `json:"error"`
}

func fileConfig(dir string) logger.Log {
	return logger.Log{
		File: logger.LogFile{
			Enabled: true,
			Path:    dir,
			Access:  logger.RollingFile{Name: "access.log", MaxSize: 1},
		},
	}
}

func newApp(cfg adapter.Config) *fiber.App {
	app := fiber.New()
	app.Use(adapter.New(cfg))

	app.Get("/admin/settings", func(c *fiber.Ctx) error {
		c.Locals(adapter.LocalsUsername, "admin")
		return c.SendString("settings")
	})
	app.Get(healthPath, func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Post("/admin/settings/change/logo", func(_ *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusUnsupportedMediaType, "not an image")
	})

	return app
}

func readEntries(t *testing.T, file string) []accessEntry {
	t.Helper()

	f, err := os.Open(file)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)

	defer func() {
		_ = f.Close()
	}()

	var entries []accessEntry

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e accessEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e), scanner.Text())
		entries = append(entries, e)
	}

	require.NoError(t, scanner.Err())

	return entries
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		target   string
		noCheck  bool
		want     *accessEntry
		noOutput bool
	}{
		{
			name:   "logged in user",
			method: fiber.MethodGet,
			target: "/admin/settings",
			want:   &accessEntry{Status: 200, URI: "/admin/settings", Method: fiber.MethodGet, User: "admin"},
		},
		{
			name:   "query string kept",
			method: fiber.MethodGet,
			target: "/admin/settings?changednameto=Skyport",
			want: &accessEntry{
				Status: 200,
				URI:    "/admin/settings?changednameto=Skyport",
				Method: fiber.MethodGet,
				User:   "admin",
			},
		},
		{
			name:   "handler error",
			method: fiber.MethodPost,
			target: "/admin/settings/change/logo",
			want: &accessEntry{
				Status: 415,
				URI:    "/admin/settings/change/logo",
				Method: fiber.MethodPost,
				Error:  "not an image",
			},
		},
		{
			name:   "health logged by default",
			method: fiber.MethodGet,
			target: healthPath,
			want:   &accessEntry{Status: 200, URI: healthPath, Method: fiber.MethodGet},
		},
		{
			name:     "health skipped",
			method:   fiber.MethodGet,
			target:   healthPath,
			noCheck:  true,
			noOutput: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()

			cfg := fileConfig(dir)
			cfg.DisableCheckAlive = tt.noCheck

			app := newApp(adapter.Config{Config: cfg, CheckAliveURI: healthPath})

			_, err := app.Test(httptest.NewRequest(tt.method, tt.target, nil), -1)
			require.NoError(t, err)

			entries := readEntries(t, filepath.Join(dir, "access.log"))
			if tt.noOutput {
				assert.Empty(t, entries)
				return
			}

			require.Len(t, entries, 1)

			got := entries[0]
			assert.Equal(t, tt.want.Status, got.Status)
			assert.Equal(t, tt.want.URI, got.URI)
			assert.Equal(t, tt.want.Method, got.Method)
			assert.Equal(t, tt.want.User, got.User)
			assert.Equal(t, tt.want.Error, got.Error)
			assert.Equal(t, "example.com", got.Host)
			assert.Equal(t, "0.0.0.0", got.IP)
			assert.GreaterOrEqual(t, got.Perf, 0.0)
		})
	}
}

func TestNew_NoSinks(t *testing.T) {
	dir := t.TempDir()

	app := newApp(adapter.Config{Config: logger.Log{File: logger.LogFile{Path: dir}}})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/admin/settings", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, err = os.Stat(filepath.Join(dir, "access.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestNew_Skip(t *testing.T) {
	dir := t.TempDir()

	app := newApp(adapter.Config{
		Config: fileConfig(dir),
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/admin/settings"
		},
	})

	_, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/admin/settings", nil), -1)
	require.NoError(t, err)

	assert.Empty(t, readEntries(t, filepath.Join(dir, "access.log")))
}

package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skyportlabs/panel/internal/auth"
	"github.com/skyportlabs/panel/internal/config"
	"github.com/skyportlabs/panel/internal/db/models"
	"github.com/skyportlabs/panel/internal/web/handler/login"
	"github.com/skyportlabs/panel/internal/web/handler/logout"
	"github.com/skyportlabs/panel/internal/web/session"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Setting{},
		&models.Role{},
		&models.Permission{},
		&models.RolePermission{},
		&models.User{},
		&models.AuditLog{},
	))

	return db
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	return newTestServiceWith(t, nil)
}

func newTestServiceWith(t *testing.T, configure func(cfg *config.Config)) *Service {
	t.Helper()

	session.Init(nil, time.Minute)

	cfg := &config.Config{
		Title: "Skyport",
		Storage: config.Storage{
			ThemeFile: "/srv/skyport/storage/theme.json",
			LogoFile:  "/srv/skyport/public/assets/logo.png",
		},
		Webserver: config.Webserver{
			Port:          3001,
			MaxUploadSize: 1 << 20,
			Session:       config.Session{ExpiryTime: time.Minute},
		},
	}

	if configure != nil {
		configure(cfg)
	}

	return New(cfg, setupTestDB(t), afero.NewMemMapFs())
}

func request(t *testing.T, app *fiber.App, target string) (*http.Response, string) {
	t.Helper()

	return requestWithSession(t, app, target, "")
}

func requestWithSession(t *testing.T, app *fiber.App, target, sessionID string) (*http.Response, string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sessionID})
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

func TestNew_PublicRoutes(t *testing.T) {
	svc := newTestService(t)

	resp, body := request(t, svc.App, CheckAlivePath)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body)

	resp, _ = request(t, svc.App, "/static/css/panel.css")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = request(t, svc.App, "/assets/logo.png")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, "no logo installed yet")

	resp, body = request(t, svc.App, login.Path)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `action="/login"`)
}

func TestNew_RedirectsAnonymousToLogin(t *testing.T) {
	svc := newTestService(t)

	for _, target := range []string{"/", "/admin/settings", "/admin/settings/theme", MetricsPath} {
		resp, _ := request(t, svc.App, target)
		assert.Equal(t, fiber.StatusFound, resp.StatusCode, target)
		assert.Equal(t, login.Path, resp.Header.Get(fiber.HeaderLocation), target)
	}
}

func TestCheckAlive_Draining(t *testing.T) {
	svc := newTestService(t)
	svc.alive.Store(false)

	resp, _ := request(t, svc.App, CheckAlivePath)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestNew_EncryptsCookies(t *testing.T) {
	clearedCookie := func(svc *Service) string {
		resp, _ := request(t, svc.App, logout.Path)
		require.Equal(t, fiber.StatusFound, resp.StatusCode)

		for _, c := range resp.Cookies() {
			if c.Name == session.CookieName {
				return c.Value
			}
		}

		t.Fatal("no session cookie in response")

		return ""
	}

	assert.Empty(t, clearedCookie(newTestService(t)))

	key := "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="
	assert.NotEmpty(t, clearedCookie(newTestServiceWith(t, func(cfg *config.Config) {
		cfg.Webserver.CookieEncryptionKey = key
	})))
}

// loginAs stores a session for a new user, granting admin.settings when admin is set.
func loginAs(t *testing.T, svc *Service, username string, admin bool) string {
	t.Helper()

	authService := auth.NewService(svc.db)
	require.NoError(t, authService.EnsurePermissions())

	role := models.Role{Name: username + "-role"}
	require.NoError(t, svc.db.Create(&role).Error)

	if admin {
		require.NoError(t, authService.GrantPermission(role.ID, auth.PermAdminSettings))
	}

	user, err := auth.NewLocalProvider(svc.db).CreateUser(username, username+"@example.com", "secret", role.ID)
	require.NoError(t, err)

	id, err := session.GenerateSessionID()
	require.NoError(t, err)
	require.NoError(t, (&session.Data{User: *user}).Write(id, time.Minute))

	return id
}

func TestMetrics_RequiresAdmin(t *testing.T) {
	svc := newTestService(t)

	resp, _ := request(t, svc.App, MetricsPath)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, login.Path, resp.Header.Get(fiber.HeaderLocation))

	resp, _ = requestWithSession(t, svc.App, MetricsPath, loginAs(t, svc, "viewer", false))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, body := requestWithSession(t, svc.App, MetricsPath, loginAs(t, svc, "operator", true))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "go_goroutines")
}

func TestMetrics_Public(t *testing.T) {
	svc := newTestServiceWith(t, func(cfg *config.Config) {
		cfg.Webserver.PublicMetrics = true
	})

	resp, body := request(t, svc.App, MetricsPath)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "go_goroutines")
}

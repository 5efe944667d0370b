package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	coreauth "github.com/skyportlabs/panel/internal/auth"
	"github.com/skyportlabs/panel/internal/web/handler"
	"github.com/skyportlabs/panel/internal/web/handler/login"
	"github.com/skyportlabs/panel/internal/web/handler/logout"
	"github.com/skyportlabs/panel/internal/web/session"
)

// publicPrefixes are served without a session.
var publicPrefixes = []string{"/static", "/assets", "/health"}

// Middleware is a Fiber middleware that checks for user authentication.
func Middleware(c *fiber.Ctx) error {
	isLoginPage := IsLoginPage(c)

	if IsPublic(c) || IsLogoutPage(c) {
		return c.Next()
	}

	// get session cookie
	loginCookie := c.Cookies(session.CookieName)

	// if no session cookie, redirect to login page
	if loginCookie == "" {
		if isLoginPage {
			return c.Next()
		}

		return c.Redirect(login.Path)
	}

	// check session validity
	sessData := new(session.Data)
	if err := sessData.Read(loginCookie); err != nil || sessData.User.ID == 0 {
		// already on the login page, a redirect would loop
		if isLoginPage {
			return c.Next()
		}

		return c.Redirect(login.Path)
	}

	if isLoginPage {
		return c.Redirect(handler.HomePath)
	}

	c.Locals(coreauth.LocalsCurrentUser, sessData.User)

	return c.Next()
}

// IsPublic reports whether the request targets an asset or endpoint served without a session.
func IsPublic(c *fiber.Ctx) bool {
	originalURL := strings.ToLower(c.OriginalURL())
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(originalURL, prefix) {
			return true
		}
	}

	return false
}

// IsLoginPage checks if the current request is for the login page.
func IsLoginPage(c *fiber.Ctx) bool {
	originalURL := strings.ToLower(c.OriginalURL())
	return strings.HasPrefix(originalURL, login.Path)
}

// IsLogoutPage checks if the current request is for the logout page.
func IsLogoutPage(c *fiber.Ctx) bool {
	originalURL := strings.ToLower(c.OriginalURL())
	return strings.HasPrefix(originalURL, logout.Path)
}

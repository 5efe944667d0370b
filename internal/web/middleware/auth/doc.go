// Package auth provides authentication middleware for the web application.
//
// The middleware validates the session cookie and redirects unauthenticated
// requests to the login page. Static assets, the uploaded logo, the metrics
// and health endpoints and the logout page are reachable without a session.
// The current user is added to fiber.Locals for templates.
//
// Usage:
//
//	app.Use(authmiddleware.Middleware)
//
// Permission checks are done per route by the internal/auth package.
package auth

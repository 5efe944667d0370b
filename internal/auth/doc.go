// Package auth provides authentication and authorization functionality for the panel.
//
// Users authenticate against the local database with Argon2id password hashing
// (LocalProvider). Authorization is role based: every user has one role and
// each role carries a set of permissions.
//
// The Service type checks permissions, the RequirePermission middleware
// protects fiber routes with them:
//
//	authService := auth.NewService(db)
//
//	app.Post("/admin/settings/toggle/footer",
//	    auth.RequirePermission(authService, auth.PermAdminSettings),
//	    handler,
//	)
//
// Handlers behind RequirePermission read the acting user with CurrentUser.
package auth

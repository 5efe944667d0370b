package daemon

import (
	"crypto/rand"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/skyportlabs/panel/internal/auth"
	"github.com/skyportlabs/panel/internal/config"
	"github.com/skyportlabs/panel/internal/db/controller/panel"
	"github.com/skyportlabs/panel/internal/db/models"
	"github.com/skyportlabs/panel/internal/logo"
)

const adminRoleName = "admin"

// seed creates the permissions, the admin role and, on an empty user table,
// the initial administrator.
func seed(cfg *config.Config, db *gorm.DB) error {
	authService := auth.NewService(db)

	if err := authService.EnsurePermissions(); err != nil {
		return err
	}

	role := models.Role{
		Name:        adminRoleName,
		Description: "Full access to the panel settings",
		IsSystem:    true,
	}
	if err := db.Where(models.Role{Name: adminRoleName}).FirstOrCreate(&role).Error; err != nil {
		return errors.Wrap(err, "failed to create admin role")
	}

	for _, perm := range auth.Permissions {
		if err := authService.GrantPermission(role.ID, perm.Name); err != nil {
			return err
		}
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return errors.Wrap(err, "failed to count users")
	}

	if count > 0 {
		return nil
	}

	password := cfg.Admin.Password
	if password == "" {
		password = rand.Text()

		log.Warn().
			Str("username", cfg.Admin.Username).
			Str("password", password).
			Msg("created initial administrator with a generated password, change it after the first login")
	}

	if _, err := auth.NewLocalProvider(db).CreateUser(cfg.Admin.Username, cfg.Admin.Email, password, role.ID); err != nil {
		return err
	}

	log.Info().Str("username", cfg.Admin.Username).Msg("initial administrator created")

	return nil
}

// reconcileLogo makes the logo flag match the file on disk.
// Both are only written together by the logo handler, a crash or a manual
// change of the assets directory can leave them apart.
func reconcileLogo(db *gorm.DB, store *logo.Store) error {
	exists, err := store.Exists()
	if err != nil {
		return err
	}

	present, err := panel.LoadLogoPresence(db)
	if err != nil {
		return err
	}

	if exists == present {
		return nil
	}

	log.Warn().
		Bool("flag", present).
		Bool("file", exists).
		Str("path", store.Path()).
		Msg("logo flag does not match logo file, correcting flag")

	return panel.SaveLogoPresence(db, exists)
}

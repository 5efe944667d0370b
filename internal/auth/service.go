package auth

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skyportlabs/panel/internal/db/models"
)

// Service provides authorization functionality.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// HasPermission checks if the user's role has the permission assigned.
func (s *Service) HasPermission(userID uint64, permission string) (bool, error) {
	var count int64

	err := s.db.Table("permissions").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN users ON users.role_id = role_permissions.role_id").
		Where("users.id = ? AND users.active = ? AND permissions.name = ?", userID, true, permission).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check role permission: %w", err)
	}

	return count > 0, nil
}

// GetUserPermissions retrieves all permission names of the user's role.
func (s *Service) GetUserPermissions(userID uint64) ([]string, error) {
	var permissions []string

	err := s.db.Table("permissions").
		Select("DISTINCT permissions.name").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN users ON users.role_id = role_permissions.role_id").
		Where("users.id = ?", userID).
		Pluck("permissions.name", &permissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user permissions: %w", err)
	}

	return permissions, nil
}

// EnsurePermissions creates the known permissions that do not exist yet.
func (s *Service) EnsurePermissions() error {
	for _, def := range Permissions {
		perm := models.Permission{
			Name:        def.Name,
			Resource:    def.Resource,
			Action:      def.Action,
			Description: def.Description,
		}

		if err := s.db.Where(models.Permission{Name: def.Name}).FirstOrCreate(&perm).Error; err != nil {
			return fmt.Errorf("failed to create permission %s: %w", def.Name, err)
		}
	}

	return nil
}

// GrantPermission assigns the named permission to a role. Granting twice is a no-op.
func (s *Service) GrantPermission(roleID uint, permission string) error {
	var perm models.Permission

	err := s.db.Where("name = ?", permission).First(&perm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrPermissionUnknown, permission)
	}

	if err != nil {
		return fmt.Errorf("failed to load permission %s: %w", permission, err)
	}

	return s.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.RolePermission{RoleID: roleID, PermissionID: perm.ID}).Error
}

// AssignRoleToUser assigns a role to a user.
func (s *Service) AssignRoleToUser(userID uint64, roleID uint) error {
	return s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("role_id", roleID).Error
}

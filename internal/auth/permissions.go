package auth

// Permission constants define the available permissions in the system.
const (
	// PermAdminSettings allows managing panel-wide settings: name, toggles, theme, SMTP and logo.
	PermAdminSettings = "admin.settings"
)

// PermissionDefinition describes a permission row created by the seeder.
type PermissionDefinition struct {
	Name        string
	Resource    string
	Action      string
	Description string
}

// Permissions lists every permission known to the panel.
var Permissions = []PermissionDefinition{
	{
		Name:        PermAdminSettings,
		Resource:    "admin",
		Action:      "settings",
		Description: "Manage panel-wide settings",
	},
}

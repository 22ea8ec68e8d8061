package enums

import "fmt"

// Permission is a capability key granted to roles.
type Permission string

const (
	PermissionAdminAll       Permission = "admin:all"
	PermissionChildrenRead   Permission = "children:read"
	PermissionChildrenWrite  Permission = "children:write"
	PermissionChildrenDelete Permission = "children:delete"
	PermissionDrillsRead     Permission = "drills:read"
	PermissionDrillsWrite    Permission = "drills:write"
	PermissionSessionsRead   Permission = "sessions:read"
	PermissionSessionsWrite  Permission = "sessions:write"
	PermissionSettingsRead   Permission = "settings:read"
	PermissionSettingsWrite  Permission = "settings:write"
)

var validPermissions = []Permission{
	PermissionAdminAll,
	PermissionChildrenRead,
	PermissionChildrenWrite,
	PermissionChildrenDelete,
	PermissionDrillsRead,
	PermissionDrillsWrite,
	PermissionSessionsRead,
	PermissionSessionsWrite,
	PermissionSettingsRead,
	PermissionSettingsWrite,
}

// String implements fmt.Stringer.
func (p Permission) String() string {
	return string(p)
}

// IsValid reports whether the value is a known Permission.
func (p Permission) IsValid() bool {
	for _, candidate := range validPermissions {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePermission converts raw input into a Permission.
func ParsePermission(value string) (Permission, error) {
	for _, candidate := range validPermissions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid permission %q", value)
}

// RoleName identifies the seeded account roles.
type RoleName string

const (
	RoleAdmin  RoleName = "admin"
	RoleParent RoleName = "parent"
)

// String implements fmt.Stringer.
func (r RoleName) String() string {
	return string(r)
}

// IsAdmin reports whether the role bypasses permission checks.
func (r RoleName) IsAdmin() bool {
	return r == RoleAdmin
}

package models

// PermissionCategory names one organisation-level permission.
type PermissionCategory string

const (
	PermissionCanViewTransactions        PermissionCategory = "canViewTransactions"
	PermissionCanViewRefunds             PermissionCategory = "canViewRefunds"
	PermissionCanLogRefunds              PermissionCategory = "canLogRefunds"
	PermissionCanViewUsers               PermissionCategory = "canViewUsers"
	PermissionCanCreateUsers             PermissionCategory = "canCreateUsers"
	PermissionCanEditUsers               PermissionCategory = "canEditUsers"
	PermissionCanBlacklistWhitelistUsers PermissionCategory = "canBlacklistWhitelistUsers"
)

// PermissionCategories returns every category in declaration order.
func PermissionCategories() []PermissionCategory {
	return []PermissionCategory{
		PermissionCanViewTransactions,
		PermissionCanViewRefunds,
		PermissionCanLogRefunds,
		PermissionCanViewUsers,
		PermissionCanCreateUsers,
		PermissionCanEditUsers,
		PermissionCanBlacklistWhitelistUsers,
	}
}

// DefaultPermissions is the lookup row for one permission category.
type DefaultPermissions struct {
	Base
	Category       PermissionCategory `json:"category" gorm:"uniqueIndex;not null"`
	PermissionList bool               `json:"permission_list" gorm:"not null;default:false"`
}

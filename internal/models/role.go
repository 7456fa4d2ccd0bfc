package models

// RoleCategory names one default organisation role.
type RoleCategory string

const (
	RoleSuperAdmin    RoleCategory = "super-admin"
	RoleAdministrator RoleCategory = "admin"
	RoleUser          RoleCategory = "user"
	RoleGuest         RoleCategory = "guest"
)

var roleDescriptions = map[RoleCategory]string{
	RoleSuperAdmin:    "Super admin with full access to every organisation",
	RoleAdministrator: "Organisation administrator who manages members and settings",
	RoleUser:          "Regular organisation member",
	RoleGuest:         "Guest with read-only access",
}

// RoleCategories returns every category in declaration order.
func RoleCategories() []RoleCategory {
	return []RoleCategory{RoleSuperAdmin, RoleAdministrator, RoleUser, RoleGuest}
}

// Description returns the human readable description seeded with the role.
func (r RoleCategory) Description() string {
	return roleDescriptions[r]
}

type DefaultRole struct {
	Base
	Name        RoleCategory `json:"name" gorm:"uniqueIndex;not null"`
	Description string       `json:"description"`
}

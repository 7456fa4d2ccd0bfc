package models

// Invite admits someone to an organisation. A generic invite has no Email and
// is accepted by whoever presents the token.
type Invite struct {
	Base
	Token          string        `json:"token" gorm:"uniqueIndex;not null"`
	Email          *string       `json:"email,omitempty"`
	IsAccepted     bool          `json:"isAccepted" gorm:"not null;default:false"`
	IsGeneric      bool          `json:"isGeneric" gorm:"not null;default:false"`
	OrganisationID string        `json:"organisation_id" gorm:"type:uuid;not null;index"`
	Organisation   *Organisation `json:"organisation,omitempty" gorm:"foreignKey:OrganisationID"`
}

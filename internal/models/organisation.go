package models

type Organisation struct {
	Base
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	Email       string `json:"email"`
	Industry    string `json:"industry"`
	Type        string `json:"type"`
	Country     string `json:"country"`
	State       string `json:"state"`
	Address     string `json:"address"`
	OwnerID     string `json:"owner_id" gorm:"type:uuid;not null"`
	Owner       *User  `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	CreatorID   string `json:"creator_id" gorm:"type:uuid;not null"`
	Creator     *User  `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
	IsDeleted   bool   `json:"isDeleted" gorm:"not null;default:false"`
}

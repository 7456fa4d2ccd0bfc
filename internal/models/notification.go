package models

type Notification struct {
	Base
	Message string `json:"message" gorm:"not null"`
	IsRead  bool   `json:"is_read" gorm:"not null;default:false"`
	UserID  string `json:"user_id" gorm:"type:uuid;not null;index"`
	User    *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

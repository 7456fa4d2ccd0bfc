package models

type Profile struct {
	Base
	Username string `json:"username" gorm:"not null"`
	Email    string `json:"email"`
}

package models

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserType is the account tier stored in users.user_type.
type UserType string

const (
	UserTypeSuperAdmin UserType = "super-admin"
	UserTypeAdmin      UserType = "admin"
	UserTypeVendor     UserType = "vendor"
)

// PasswordCost is the bcrypt cost used when hashing user passwords.
var PasswordCost = bcrypt.DefaultCost

type User struct {
	Base
	FirstName string   `json:"first_name" gorm:"not null"`
	LastName  string   `json:"last_name" gorm:"not null"`
	Email     string   `json:"email" gorm:"uniqueIndex;not null"`
	Password  string   `json:"-" gorm:"not null"`
	UserType  UserType `json:"user_type" gorm:"size:20;not null;default:vendor"`
	IsActive  bool     `json:"is_active" gorm:"not null;default:true"`
	ProfileID *string  `json:"profile_id,omitempty" gorm:"type:uuid"`
	Profile   *Profile `json:"profile,omitempty" gorm:"foreignKey:ProfileID"`
}

// BeforeCreate assigns the id and replaces a plaintext password with its
// bcrypt hash. Values that already look like a bcrypt hash are left alone.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if err := u.Base.BeforeCreate(tx); err != nil {
		return err
	}
	if u.UserType == "" {
		u.UserType = UserTypeVendor
	}
	if u.Password == "" || isBcryptHash(u.Password) {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), PasswordCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword reports whether plain matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

func isBcryptHash(s string) bool {
	if _, err := bcrypt.Cost([]byte(s)); err != nil {
		return false
	}
	return strings.HasPrefix(s, "$2")
}

// Package models holds the gorm entities written by the seeder.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the UUID primary key and timestamps shared by every table.
type Base struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a v4 UUID when the caller did not set one.
func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// All lists every model in foreign-key dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&DefaultPermissions{},
		&DefaultRole{},
		&Profile{},
		&User{},
		&Organisation{},
		&ProductCategory{},
		&Product{},
		&Invite{},
		&Notification{},
	}
}

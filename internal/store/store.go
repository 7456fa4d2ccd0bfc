// Package store exposes one repository per seeder entity and a transaction
// manager on top of gorm.
package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"arc-framework/seeder/internal/models"
)

// Store groups the repositories bound to a single gorm handle. A Store
// obtained inside Transaction is bound to that transaction.
type Store struct {
	db *gorm.DB

	Users         *Repository[models.User]
	Profiles      *Repository[models.Profile]
	Organisations *Repository[models.Organisation]
	Products      *Repository[models.Product]
	Categories    *Repository[models.ProductCategory]
	Invites       *Repository[models.Invite]
	Notifications *Repository[models.Notification]
	Permissions   *Repository[models.DefaultPermissions]
	Roles         *Repository[models.DefaultRole]
}

// New binds a Store to db.
func New(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         newRepository[models.User](db, "users"),
		Profiles:      newRepository[models.Profile](db, "profiles"),
		Organisations: newRepository[models.Organisation](db, "organisations"),
		Products:      newRepository[models.Product](db, "products"),
		Categories:    newRepository[models.ProductCategory](db, "product_categories"),
		Invites:       newRepository[models.Invite](db, "invites"),
		Notifications: newRepository[models.Notification](db, "notifications"),
		Permissions:   newRepository[models.DefaultPermissions](db, "default_permissions"),
		Roles:         newRepository[models.DefaultRole](db, "default_roles"),
	}
}

// Transaction runs fn against a transaction-bound Store. The transaction is
// committed when fn returns nil and rolled back on error or panic.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Ping checks the underlying connection pool.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("connection pool: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// DB exposes the gorm handle for migrations and probes.
func (s *Store) DB() *gorm.DB {
	return s.db
}

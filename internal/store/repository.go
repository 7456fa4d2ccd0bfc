package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned by FindOneBy when no row matches.
var ErrNotFound = errors.New("record not found")

// FindOption adjusts the query built by Find.
type FindOption func(*gorm.DB) *gorm.DB

// WithRelations eager-loads the named associations.
func WithRelations(names ...string) FindOption {
	return func(q *gorm.DB) *gorm.DB {
		for _, name := range names {
			q = q.Preload(name)
		}
		return q
	}
}

// OrderBy sorts results, e.g. OrderBy("created_at ASC").
func OrderBy(order string) FindOption {
	return func(q *gorm.DB) *gorm.DB {
		return q.Order(order)
	}
}

// Repository is a gorm-backed table gateway for one entity type.
type Repository[T any] struct {
	db    *gorm.DB
	table string
}

func newRepository[T any](db *gorm.DB, table string) *Repository[T] {
	return &Repository[T]{db: db, table: table}
}

// Create inserts records in one statement. Hooks run per record, so ids and
// password hashes are populated on the passed structs.
func (r *Repository[T]) Create(ctx context.Context, records ...*T) error {
	if len(records) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&records).Error; err != nil {
		return fmt.Errorf("insert %s: %w", r.table, err)
	}
	return nil
}

// Save writes every column of an existing record. Associations are not
// cascaded; set foreign keys explicitly.
func (r *Repository[T]) Save(ctx context.Context, record *T) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(record).Error; err != nil {
		return fmt.Errorf("save %s: %w", r.table, err)
	}
	return nil
}

// Find returns all rows. An empty table yields an empty, non-nil slice.
func (r *Repository[T]) Find(ctx context.Context, opts ...FindOption) ([]T, error) {
	q := r.db.WithContext(ctx)
	for _, opt := range opts {
		q = opt(q)
	}
	out := make([]T, 0)
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("find %s: %w", r.table, err)
	}
	return out, nil
}

// Count returns the number of rows in the table.
func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(new(T)).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", r.table, err)
	}
	return n, nil
}

// FindOneBy returns the first row whose column equals value, or ErrNotFound.
func (r *Repository[T]) FindOneBy(ctx context.Context, column string, value any) (*T, error) {
	out := new(T)
	err := r.db.WithContext(ctx).Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).Take(out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %s by %s: %w", r.table, column, err)
	}
	return out, nil
}

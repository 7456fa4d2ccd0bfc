package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arc-framework/seeder/internal/models"
	"arc-framework/seeder/internal/store"
	"arc-framework/seeder/internal/testhelpers"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(testhelpers.NewTestDB(t))
}

func TestRepository_CreateAndCount(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()

	u1 := &models.User{FirstName: "John", LastName: "Smith", Email: "john@example.com", Password: "password"}
	u2 := &models.User{FirstName: "Jane", LastName: "Smith", Email: "jane@example.com", Password: "password"}
	require.NoError(t, s.Users.Create(ctx, u1, u2))

	assert.NotEmpty(t, u1.ID)
	assert.NotEmpty(t, u2.ID)
	assert.NotEqual(t, u1.ID, u2.ID)

	n, err := s.Users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestRepository_CreateNothing(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	assert.NoError(t, s.Users.Create(context.Background()))
}

func TestRepository_CreateDuplicateEmail(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users.Create(ctx, &models.User{Email: "dup@example.com", Password: "x"}))
	err := s.Users.Create(ctx, &models.User{Email: "dup@example.com", Password: "x"})
	assert.ErrorContains(t, err, "insert users")
}

func TestRepository_FindEmpty(t *testing.T) {
	t.Parallel()

	s := newStore(t)

	users, err := s.Users.Find(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestRepository_FindOneBy(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users.Create(ctx, &models.User{FirstName: "Ada", Email: "ada@example.com", Password: "x"}))

	got, err := s.Users.FindOneBy(ctx, "email", "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.FirstName)

	_, err = s.Users.FindOneBy(ctx, "email", "missing@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRepository_SaveLinksProfile(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()

	u := &models.User{Email: "john@example.com", Password: "x"}
	p := &models.Profile{Username: "Johnsmith", Email: "john@example.com"}
	require.NoError(t, s.Users.Create(ctx, u))
	require.NoError(t, s.Profiles.Create(ctx, p))

	u.ProfileID = &p.ID
	require.NoError(t, s.Users.Save(ctx, u))

	users, err := s.Users.Find(ctx, store.WithRelations("Profile"))
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.NotNil(t, users[0].Profile)
	assert.Equal(t, "Johnsmith", users[0].Profile.Username)
}

func TestRepository_FindWithRelationsAndOrder(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()

	owner := &models.User{Email: "owner@example.com", Password: "x"}
	require.NoError(t, s.Users.Create(ctx, owner))
	org := &models.Organisation{Name: "Org", OwnerID: owner.ID, CreatorID: owner.ID}
	require.NoError(t, s.Organisations.Create(ctx, org))

	cat := &models.ProductCategory{Name: "B"}
	other := &models.ProductCategory{Name: "A"}
	require.NoError(t, s.Categories.Create(ctx, cat, other))
	require.NoError(t, s.Products.Create(ctx,
		&models.Product{Name: "P1", OrgID: org.ID, CategoryID: &cat.ID},
		&models.Product{Name: "P2", OrgID: org.ID, CategoryID: &cat.ID},
	))

	cats, err := s.Categories.Find(ctx, store.WithRelations("Products"), store.OrderBy("name ASC"))
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "A", cats[0].Name)
	assert.Empty(t, cats[0].Products)
	assert.Len(t, cats[1].Products, 2)
}

func TestStore_TransactionCommits(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()

	err := s.Transaction(ctx, func(tx *store.Store) error {
		return tx.Profiles.Create(ctx, &models.Profile{Username: "a"})
	})
	require.NoError(t, err)

	n, err := s.Profiles.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestStore_TransactionRollsBack(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.Profiles.Create(ctx, &models.Profile{Username: "a"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := s.Profiles.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_TransactionRollsBackOnPanic(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = s.Transaction(ctx, func(tx *store.Store) error {
			_ = tx.Profiles.Create(ctx, &models.Profile{Username: "a"})
			panic("kaboom")
		})
	})

	n, err := s.Profiles.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_Ping(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

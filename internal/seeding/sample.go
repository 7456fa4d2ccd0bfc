package seeding

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"arc-framework/seeder/internal/models"
	"arc-framework/seeder/internal/store"
)

// seedSampleData writes the demo users, organisations, catalogue, invites and
// notifications. tx must be transaction-bound; any error aborts the caller's
// transaction.
func seedSampleData(ctx context.Context, tx *store.Store) error {
	users := []*models.User{
		{FirstName: "John", LastName: "Smith", Email: "john.smith@example.com", Password: "password", IsActive: true},
		{FirstName: "Jane", LastName: "Smith", Email: "jane.smith@example.com", Password: "password", IsActive: true},
	}
	if err := tx.Users.Create(ctx, users...); err != nil {
		return err
	}
	if err := expectCount(ctx, tx.Users, 2, "users"); err != nil {
		return err
	}

	profiles := []*models.Profile{
		{Username: "Johnsmith", Email: "john.smith@example.com"},
		{Username: "Janesmith", Email: "jane.smith@example.com"},
	}
	if err := tx.Profiles.Create(ctx, profiles...); err != nil {
		return err
	}
	if err := expectCount(ctx, tx.Profiles, 2, "profiles"); err != nil {
		return err
	}

	for i, u := range users {
		u.ProfileID = &profiles[i].ID
		if err := tx.Users.Save(ctx, u); err != nil {
			return err
		}
	}

	owner := users[0]
	orgs := []*models.Organisation{
		{
			Name: "Org 1", Description: "Description 1", Email: "test1@email.com",
			Industry: "industry1", Type: "type1", Country: "country1", State: "state1", Address: "address1",
			OwnerID: owner.ID, CreatorID: owner.ID,
		},
		{
			Name: "Org 2", Description: "Description 2", Email: "test2@email.com",
			Industry: "industry2", Type: "type2", Country: "country2", State: "state2", Address: "address2",
			OwnerID: owner.ID, CreatorID: owner.ID,
		},
	}
	if err := tx.Organisations.Create(ctx, orgs...); err != nil {
		return err
	}
	if err := expectCount(ctx, tx.Organisations, 2, "organisations"); err != nil {
		return err
	}

	categories := []*models.ProductCategory{
		{Name: "Category 1", Description: "Description for Category 1"},
		{Name: "Category 2", Description: "Description for Category 2"},
		{Name: "Category 3", Description: "Description for Category 3"},
	}
	if err := tx.Categories.Create(ctx, categories...); err != nil {
		return err
	}

	products := []*models.Product{
		{
			Name: "Product 1", Description: "Description for Product 1",
			Size: models.ProductSizeStandard, Quantity: 1, Price: 500,
			OrgID: orgs[0].ID, CategoryID: &categories[0].ID,
		},
		{
			Name: "Product 2", Description: "Description for Product 2",
			Size: models.ProductSizeLarge, Quantity: 2, Price: 50,
			OrgID: orgs[1].ID, CategoryID: &categories[1].ID,
		},
		{
			Name: "Product 2", Description: "Description for Product 2",
			Size: models.ProductSizeStandard, Quantity: 2, Price: 50,
			OrgID: orgs[0].ID, CategoryID: &categories[1].ID,
		},
		{
			Name: "Product 2", Description: "Description for Product 2",
			Size: models.ProductSizeSmall, Quantity: 2, Price: 50,
			OrgID: orgs[1].ID, CategoryID: &categories[2].ID,
		},
	}
	if err := tx.Products.Create(ctx, products...); err != nil {
		return err
	}
	if err := expectCount(ctx, tx.Products, 4, "products"); err != nil {
		return err
	}

	invites := make([]*models.Invite, 0, len(orgs))
	for _, org := range orgs {
		invites = append(invites, &models.Invite{
			Token:          uuid.NewString(),
			IsAccepted:     false,
			IsGeneric:      true,
			OrganisationID: org.ID,
		})
	}
	if err := tx.Invites.Create(ctx, invites...); err != nil {
		return err
	}
	if err := expectCount(ctx, tx.Invites, 2, "invites"); err != nil {
		return err
	}

	savedCategories, err := tx.Categories.Find(ctx, store.WithRelations("Products"))
	if err != nil {
		return err
	}
	if len(savedCategories) != 3 {
		return fmt.Errorf("failed to create all categories: have %d, want 3", len(savedCategories))
	}

	notifications := []*models.Notification{
		{Message: "Notification 1 for John", UserID: users[0].ID},
		{Message: "Notification 2 for John", UserID: users[0].ID},
		{Message: "Notification 1 for Jane", UserID: users[1].ID},
		{Message: "Notification 2 for Jane", UserID: users[1].ID},
	}
	if err := tx.Notifications.Create(ctx, notifications...); err != nil {
		return err
	}
	return expectCount(ctx, tx.Notifications, 4, "notifications")
}

func expectCount[T any](ctx context.Context, repo *store.Repository[T], want int64, what string) error {
	n, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if n != want {
		return fmt.Errorf("failed to create all %s: have %d, want %d", what, n, want)
	}
	return nil
}

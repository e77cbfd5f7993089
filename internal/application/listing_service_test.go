package application_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thryve-market/service-marketplace/internal/application"
	listingDomain "github.com/thryve-market/service-marketplace/internal/domain/listing"
	"github.com/thryve-market/service-marketplace/internal/platform/domain"
)

func TestCreateListing_TypeRules(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	ownerID := uuid.New()

	_, err := stack.Listings.CreateListing(ctx, ownerID, application.CreateListingRequest{
		Type:        "sale",
		Category:    "furniture",
		Title:       "Oak desk",
		ContactName: "Sam",
	})
	assert.True(t, domain.IsCode(err, domain.ErrCodeValidation), "a sale listing needs a price")

	_, err = stack.Listings.CreateListing(ctx, ownerID, application.CreateListingRequest{
		Type:        "swap",
		Category:    "electronics",
		Title:       "Monitor for keyboard",
		ContactName: "Sam",
	})
	assert.True(t, domain.IsCode(err, domain.ErrCodeValidation), "a swap listing needs a swap target")

	budget := int64(50000)
	lst, err := stack.Listings.CreateListing(ctx, ownerID, application.CreateListingRequest{
		Type:        "buy",
		Category:    "other",
		Title:       "Looking for a cargo bike",
		BudgetCents: &budget,
		ContactName: "Sam",
	})
	require.NoError(t, err)
	assert.True(t, lst.Available)
}

func TestBrowse_Filters(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	ownerID := uuid.New()

	price := int64(90000)
	_, err := stack.Listings.CreateListing(ctx, ownerID, application.CreateListingRequest{
		Type: "sale", Category: "electronics", Title: "Espresso machine",
		PriceCents: &price, ContactName: "Sam",
	})
	require.NoError(t, err)
	_, err = stack.Listings.CreateListing(ctx, ownerID, application.CreateListingRequest{
		Type: "swap", Category: "furniture", Title: "Bookshelf for armchair",
		SwapFor: "armchair", ContactName: "Sam",
	})
	require.NoError(t, err)

	all, err := stack.Listings.Browse(ctx, listingDomain.SearchFilter{}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)

	byCategory, err := stack.Listings.Browse(ctx, listingDomain.SearchFilter{Category: listingDomain.CategoryFurniture}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), byCategory.Total)

	byQuery, err := stack.Listings.Browse(ctx, listingDomain.SearchFilter{Query: "espresso"}, 1, 20)
	require.NoError(t, err)
	require.Equal(t, int64(1), byQuery.Total)
	assert.Equal(t, "Espresso machine", byQuery.Items[0].Title)
}

func TestUpdateListing_OwnerOnly(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	ownerID := uuid.New()
	lst := seedListing(t, stack, ownerID)

	price := int64(110000)
	req := application.UpdateListingRequest{Title: "Espresso machine, serviced", PriceCents: &price}

	_, err := stack.Listings.UpdateListing(ctx, lst.ID, uuid.New(), req)
	assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound), "a non-owner cannot tell the listing exists")

	updated, err := stack.Listings.UpdateListing(ctx, lst.ID, ownerID, req)
	require.NoError(t, err)
	assert.Equal(t, "Espresso machine, serviced", updated.Title)
	assert.Equal(t, lst.Version+1, updated.Version)
}

func TestDeleteListing(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	ownerID := uuid.New()
	lst := seedListing(t, stack, ownerID)

	err := stack.Listings.DeleteListing(ctx, lst.ID, uuid.New())
	assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound))

	require.NoError(t, stack.Listings.DeleteListing(ctx, lst.ID, ownerID))

	_, err = stack.Listings.GetListing(ctx, lst.ID)
	assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound))
}

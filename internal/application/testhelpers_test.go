package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/thryve-market/service-marketplace/internal/application"
	"github.com/thryve-market/service-marketplace/internal/repository"
)

// setupDB opens an in-memory SQLite database with the full schema. A single
// connection keeps every query on the same memory database.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&repository.ListingModel{},
		&repository.BookingRequestModel{},
		&repository.ConnectionRequestModel{},
		&repository.ConnectionModel{},
		&repository.PostModel{},
		&repository.LikeModel{},
		&repository.CommentModel{},
	))

	return db
}

// marketplaceStack wires every application service against one database.
// The nil producer drops events, which is what these tests want.
type marketplaceStack struct {
	Bookings    *application.BookingService
	Listings    *application.ListingService
	Connections *application.ConnectionService
	Community   *application.CommunityService
}

func setupStack(t *testing.T) *marketplaceStack {
	t.Helper()

	db := setupDB(t)
	log := zap.NewNop()

	listingRepo := repository.NewGormListingRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	requestRepo := repository.NewGormConnectionRequestRepository(db)
	connectionRepo := repository.NewGormConnectionRepository(db)
	communityRepo := repository.NewGormCommunityRepository(db)

	return &marketplaceStack{
		Bookings:    application.NewBookingService(bookingRepo, listingRepo, nil, log),
		Listings:    application.NewListingService(listingRepo, nil, log),
		Connections: application.NewConnectionService(requestRepo, connectionRepo, nil, log),
		Community:   application.NewCommunityService(communityRepo, log),
	}
}

func seedListing(t *testing.T, stack *marketplaceStack, ownerID uuid.UUID) *application.ListingDTO {
	t.Helper()

	price := int64(125000)
	lst, err := stack.Listings.CreateListing(context.Background(), ownerID, application.CreateListingRequest{
		Type:        "sale",
		Category:    "electronics",
		Title:       "Refurbished espresso machine",
		Description: "Serviced last month, new gaskets",
		PriceCents:  &price,
		ContactName: "Dana",
		Location:    "Rotterdam",
	})
	require.NoError(t, err)
	return lst
}

func bookingDates(startDay, endDay int) (time.Time, time.Time) {
	return time.Date(2026, 5, startDay, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 5, endDay, 0, 0, 0, 0, time.UTC)
}

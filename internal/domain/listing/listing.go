package listing

import (
	"time"

	"github.com/google/uuid"

	"github.com/thryve-market/service-marketplace/internal/platform/domain"
)

// ListingType says what the owner wants to do with the item or service.
type ListingType string

const (
	TypeSale ListingType = "sale"
	TypeSwap ListingType = "swap"
	TypeBuy  ListingType = "buy"
)

// IsValid returns true if the listing type is recognized.
func (t ListingType) IsValid() bool {
	switch t {
	case TypeSale, TypeSwap, TypeBuy:
		return true
	}
	return false
}

// Category is the marketplace category a listing is filed under.
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryFurniture   Category = "furniture"
	CategoryOther       Category = "other"
)

// IsValid returns true if the category is recognized.
func (c Category) IsValid() bool {
	switch c {
	case CategoryElectronics, CategoryFurniture, CategoryOther:
		return true
	}
	return false
}

// ImageRef is metadata for one listing image. Storage and serving of the
// bytes live elsewhere; the marketplace only keeps the reference.
type ImageRef struct {
	URL      string `json:"url"`
	Position int    `json:"position"`
}

// Listing is the aggregate root for a marketplace listing.
type Listing struct {
	id          uuid.UUID
	ownerID     uuid.UUID
	listingType ListingType
	category    Category
	title       string
	description string
	priceCents  *int64
	swapFor     string
	budgetCents *int64
	contactName string
	company     string
	location    string
	images      []ImageRef
	available   bool

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewListing creates a Listing with the fields its type requires: a price
// for sales, a swap target for swaps, a budget for buy requests.
func NewListing(
	ownerID uuid.UUID,
	listingType ListingType,
	category Category,
	title, description string,
	priceCents *int64,
	swapFor string,
	budgetCents *int64,
	contactName, company, location string,
) (*Listing, error) {
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if !listingType.IsValid() {
		return nil, domain.NewValidationError("invalid listing type: " + string(listingType))
	}
	if !category.IsValid() {
		return nil, domain.NewValidationError("invalid category: " + string(category))
	}
	if title == "" {
		return nil, domain.NewValidationError("title is required")
	}
	if contactName == "" {
		return nil, domain.NewValidationError("contact name is required")
	}

	switch listingType {
	case TypeSale:
		if priceCents == nil || *priceCents <= 0 {
			return nil, domain.NewValidationError("a sale listing requires a positive price")
		}
	case TypeSwap:
		if swapFor == "" {
			return nil, domain.NewValidationError("a swap listing requires a swap target")
		}
	case TypeBuy:
		if budgetCents == nil || *budgetCents <= 0 {
			return nil, domain.NewValidationError("a buy listing requires a positive budget")
		}
	}

	now := time.Now().UTC()
	return &Listing{
		id:          uuid.New(),
		ownerID:     ownerID,
		listingType: listingType,
		category:    category,
		title:       title,
		description: description,
		priceCents:  priceCents,
		swapFor:     swapFor,
		budgetCents: budgetCents,
		contactName: contactName,
		company:     company,
		location:    location,
		available:   true,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructListing rebuilds a Listing from persistence data (no validation).
func ReconstructListing(
	id, ownerID uuid.UUID,
	listingType ListingType,
	category Category,
	title, description string,
	priceCents *int64,
	swapFor string,
	budgetCents *int64,
	contactName, company, location string,
	images []ImageRef,
	available bool,
	version int64,
	createdAt, updatedAt time.Time,
) *Listing {
	return &Listing{
		id:          id,
		ownerID:     ownerID,
		listingType: listingType,
		category:    category,
		title:       title,
		description: description,
		priceCents:  priceCents,
		swapFor:     swapFor,
		budgetCents: budgetCents,
		contactName: contactName,
		company:     company,
		location:    location,
		images:      images,
		available:   available,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

// ID returns the listing's unique identifier.
func (l *Listing) ID() uuid.UUID { return l.id }

// OwnerID returns the owning user's id.
func (l *Listing) OwnerID() uuid.UUID { return l.ownerID }

// Type returns the listing type.
func (l *Listing) Type() ListingType { return l.listingType }

// Category returns the listing category.
func (l *Listing) Category() Category { return l.category }

// Title returns the listing title.
func (l *Listing) Title() string { return l.title }

// Description returns the listing description.
func (l *Listing) Description() string { return l.description }

// PriceCents returns the sale price in cents, or nil for non-sale listings.
func (l *Listing) PriceCents() *int64 { return l.priceCents }

// SwapFor returns what the owner wants in exchange, for swap listings.
func (l *Listing) SwapFor() string { return l.swapFor }

// BudgetCents returns the buyer's budget in cents, for buy listings.
func (l *Listing) BudgetCents() *int64 { return l.budgetCents }

// ContactName returns the name shown to interested users.
func (l *Listing) ContactName() string { return l.contactName }

// Company returns the owner's company name.
func (l *Listing) Company() string { return l.company }

// Location returns the listing location.
func (l *Listing) Location() string { return l.location }

// Images returns the listing's image references in display order.
func (l *Listing) Images() []ImageRef { return l.images }

// Available reports whether the listing accepts new booking requests.
func (l *Listing) Available() bool { return l.available }

// Version returns the entity version for optimistic locking.
func (l *Listing) Version() int64 { return l.version }

// CreatedAt returns the creation timestamp.
func (l *Listing) CreatedAt() time.Time { return l.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (l *Listing) UpdatedAt() time.Time { return l.updatedAt }

// --- Behavior ---

// IsOwner reports whether actor owns this listing.
func (l *Listing) IsOwner(actor uuid.UUID) bool {
	return l.ownerID == actor
}

// SetAvailability flips whether the listing accepts new booking requests.
func (l *Listing) SetAvailability(available bool) {
	l.available = available
	l.updatedAt = time.Now().UTC()
}

// UpdateDetails replaces the listing's editable fields. Type-specific field
// rules are the same as at creation.
func (l *Listing) UpdateDetails(title, description string, priceCents *int64, swapFor string, budgetCents *int64, location string) error {
	if title == "" {
		return domain.NewValidationError("title is required")
	}
	switch l.listingType {
	case TypeSale:
		if priceCents == nil || *priceCents <= 0 {
			return domain.NewValidationError("a sale listing requires a positive price")
		}
	case TypeSwap:
		if swapFor == "" {
			return domain.NewValidationError("a swap listing requires a swap target")
		}
	case TypeBuy:
		if budgetCents == nil || *budgetCents <= 0 {
			return domain.NewValidationError("a buy listing requires a positive budget")
		}
	}

	l.title = title
	l.description = description
	l.priceCents = priceCents
	l.swapFor = swapFor
	l.budgetCents = budgetCents
	l.location = location
	l.updatedAt = time.Now().UTC()
	return nil
}

// SetImages replaces the listing's image references.
func (l *Listing) SetImages(images []ImageRef) {
	l.images = images
	l.updatedAt = time.Now().UTC()
}

// IncrementVersion bumps the version for optimistic locking.
func (l *Listing) IncrementVersion() {
	l.version++
	l.updatedAt = time.Now().UTC()
}

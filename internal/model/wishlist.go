package model

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem represents a tenant's standing interest in a property. The id
// pair (tenant, property) is unique; the row is never mutated after insert.
type WishlistItem struct {
	ID           uuid.UUID `json:"wishlist_item_id" db:"wishlist_item_id"`
	TenantUserID uuid.UUID `json:"tenant_user_id" db:"tenant_user_id"`
	PropertyID   uuid.UUID `json:"property_id" db:"property_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// PropertySummary is the enrichment payload fetched live from the property
// service. It is never persisted or cached.
type PropertySummary struct {
	PropertyID       uuid.UUID `json:"property_id"`
	Name             string    `json:"name"`
	Address          string    `json:"address"`
	MonthlyRentPrice int64     `json:"monthly_rent_price"`
}

// PlaceholderPropertySummary is the degraded summary used when enrichment for
// a property fails. The property id is preserved so clients can still act on
// the item.
func PlaceholderPropertySummary(propertyID uuid.UUID) PropertySummary {
	return PropertySummary{
		PropertyID:       propertyID,
		Name:             "Property " + propertyID.String() + " (details unavailable)",
		Address:          "N/A",
		MonthlyRentPrice: 0,
	}
}

// RentalDetails is the payload returned by the rental service for a rental.
type RentalDetails struct {
	RentalID             uuid.UUID `json:"rental_id"`
	TenantUserID         uuid.UUID `json:"tenant_user_id"`
	PropertyID           uuid.UUID `json:"kos_id"`
	OwnerUserID          uuid.UUID `json:"owner_user_id"`
	PropertyName         string    `json:"kos_name"`
	RentalDurationMonths int       `json:"rental_duration_months"`
	Status               string    `json:"status"`
}

// WishlistItemView combines a stored wishlist item with its live enrichment.
type WishlistItemView struct {
	ID           uuid.UUID       `json:"wishlist_item_id"`
	TenantUserID uuid.UUID       `json:"tenant_user_id"`
	Property     PropertySummary `json:"property"`
	CreatedAt    time.Time       `json:"created_at"`
}

// AddToWishlistRequest is the payload for adding a property to the caller's
// wishlist.
type AddToWishlistRequest struct {
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
}

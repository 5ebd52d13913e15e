package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType classifies a notification
type NotificationType string

const (
	TypeBroadcast       NotificationType = "BROADCAST"
	TypeWishlistVacancy NotificationType = "WISHLIST_VACANCY"
	TypeRentalUpdate    NotificationType = "RENTAL_UPDATE"
	TypePaymentUpdate   NotificationType = "PAYMENT_UPDATE"
	TypeAccountApproved NotificationType = "ACCOUNT_APPROVED"
	TypeInternal        NotificationType = "INTERNAL"
)

// Valid reports whether t is one of the known notification types.
func (t NotificationType) Valid() bool {
	switch t {
	case TypeBroadcast, TypeWishlistVacancy, TypeRentalUpdate,
		TypePaymentUpdate, TypeAccountApproved, TypeInternal:
		return true
	}
	return false
}

// Notification represents a message delivered to one recipient, or to all
// users when RecipientUserID is nil (broadcast).
type Notification struct {
	ID                uuid.UUID        `json:"notification_id" db:"notification_id"`
	RecipientUserID   *uuid.UUID       `json:"recipient_user_id,omitempty" db:"recipient_user_id"`
	Type              NotificationType `json:"notification_type" db:"notification_type"`
	Title             string           `json:"title" db:"title"`
	Message           string           `json:"message" db:"message"`
	IsRead            bool             `json:"is_read" db:"is_read"`
	RelatedPropertyID *uuid.UUID       `json:"related_property_id,omitempty" db:"related_property_id"`
	RelatedRentalID   *uuid.UUID       `json:"related_rental_id,omitempty" db:"related_rental_id"`
	CreatedAt         time.Time        `json:"created_at" db:"created_at"`
}

// IsBroadcast reports whether the notification has no specific recipient.
func (n *Notification) IsBroadcast() bool {
	return n.RecipientUserID == nil
}

// BroadcastRequest is the payload for creating a broadcast notification.
type BroadcastRequest struct {
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// InternalNotificationRequest is the payload used by other services to push a
// notification to a single user.
type InternalNotificationRequest struct {
	RecipientUserID   uuid.UUID        `json:"recipient_user_id" binding:"required"`
	Type              NotificationType `json:"notification_type" binding:"required"`
	Title             string           `json:"title" binding:"required"`
	Message           string           `json:"message" binding:"required"`
	RelatedPropertyID *uuid.UUID       `json:"related_property_id,omitempty"`
	RelatedRentalID   *uuid.UUID       `json:"related_rental_id,omitempty"`
}

// RentalUpdateRequest is the payload for a rental-update notification.
type RentalUpdateRequest struct {
	RelatedRentalID   uuid.UUID `json:"related_rental_id" binding:"required"`
	RelatedPropertyID uuid.UUID `json:"related_property_id" binding:"required"`
	RecipientUserID   uuid.UUID `json:"recipient_id" binding:"required"`
	Title             string    `json:"title" binding:"required"`
	Message           string    `json:"message" binding:"required"`
}

// VacancyUpdateRequest triggers the vacancy fan-out for a property.
type VacancyUpdateRequest struct {
	RelatedPropertyID uuid.UUID `json:"related_property_id" binding:"required"`
	Title             string    `json:"title" binding:"required"`
	Message           string    `json:"message"`
}

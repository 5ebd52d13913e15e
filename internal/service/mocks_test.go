package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/papikos/notification-service/internal/client"
	"github.com/papikos/notification-service/internal/model"
)

// --- mocks ---

type mockWishlistStore struct{ mock.Mock }

func (m *mockWishlistStore) Exists(ctx context.Context, tenantUserID, propertyID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantUserID, propertyID)
	return args.Bool(0), args.Error(1)
}
func (m *mockWishlistStore) Insert(ctx context.Context, tenantUserID, propertyID uuid.UUID) (*model.WishlistItem, error) {
	args := m.Called(ctx, tenantUserID, propertyID)
	if item, _ := args.Get(0).(*model.WishlistItem); item != nil {
		return item, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockWishlistStore) DeleteByTenantAndProperty(ctx context.Context, tenantUserID, propertyID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantUserID, propertyID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockWishlistStore) ListByTenant(ctx context.Context, tenantUserID uuid.UUID) ([]model.WishlistItem, error) {
	args := m.Called(ctx, tenantUserID)
	if items, _ := args.Get(0).([]model.WishlistItem); items != nil {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockWishlistStore) ListTenantsByProperty(ctx context.Context, propertyID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, propertyID)
	if ids, _ := args.Get(0).([]uuid.UUID); ids != nil {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockNotificationStore struct{ mock.Mock }

func (m *mockNotificationStore) Insert(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	args := m.Called(ctx, n)
	if saved, _ := args.Get(0).(*model.Notification); saved != nil {
		return saved, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotificationStore) InsertBatch(ctx context.Context, notifications []model.Notification) ([]model.Notification, error) {
	args := m.Called(ctx, notifications)
	if saved, _ := args.Get(0).([]model.Notification); saved != nil {
		return saved, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotificationStore) GetByID(ctx context.Context, notificationID uuid.UUID) (*model.Notification, error) {
	args := m.Called(ctx, notificationID)
	if n, _ := args.Get(0).(*model.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotificationStore) ListByRecipient(ctx context.Context, recipientUserID uuid.UUID, unreadOnly bool) ([]model.Notification, error) {
	args := m.Called(ctx, recipientUserID, unreadOnly)
	if ns, _ := args.Get(0).([]model.Notification); ns != nil {
		return ns, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotificationStore) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	return m.Called(ctx, notificationID).Error(0)
}

type mockPropertyGateway struct{ mock.Mock }

func (m *mockPropertyGateway) FetchProperty(ctx context.Context, propertyID uuid.UUID) client.PropertyResult {
	args := m.Called(ctx, propertyID)
	return args.Get(0).(client.PropertyResult)
}

type mockRentalGateway struct{ mock.Mock }

func (m *mockRentalGateway) FetchRental(ctx context.Context, rentalID uuid.UUID) client.RentalResult {
	args := m.Called(ctx, rentalID)
	return args.Get(0).(client.RentalResult)
}

// --- result helpers ---

func foundProperty(summary model.PropertySummary) client.PropertyResult {
	return client.PropertyResult{Outcome: client.OutcomeFound, Summary: &summary}
}

func propertyOutcome(outcome client.Outcome, err error) client.PropertyResult {
	return client.PropertyResult{Outcome: outcome, Err: err}
}

func foundRental(details model.RentalDetails) client.RentalResult {
	return client.RentalResult{Outcome: client.OutcomeFound, Rental: &details}
}

func rentalOutcome(outcome client.Outcome, err error) client.RentalResult {
	return client.RentalResult{Outcome: outcome, Err: err}
}

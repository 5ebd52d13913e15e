package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/papikos/notification-service/internal/apperrors"
	"github.com/papikos/notification-service/internal/client"
	"github.com/papikos/notification-service/internal/model"
)

func newWishlistService(repo *mockWishlistStore, gateway *mockPropertyGateway) *WishlistService {
	return NewWishlistService(repo, gateway, zap.NewNop())
}

func TestWishlistAdd_Success(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	propertyID := uuid.New()

	repo := new(mockWishlistStore)
	gateway := new(mockPropertyGateway)

	gateway.On("FetchProperty", ctx, propertyID).Return(foundProperty(model.PropertySummary{
		PropertyID:       propertyID,
		Name:             "Cozy Room",
		Address:          "Jl. Margonda Raya 1",
		MonthlyRentPrice: 2_000_000,
	})).Once()
	repo.On("Exists", ctx, tenantID, propertyID).Return(false, nil).Once()
	repo.On("Insert", ctx, tenantID, propertyID).Return(&model.WishlistItem{
		ID:           uuid.New(),
		TenantUserID: tenantID,
		PropertyID:   propertyID,
		CreatedAt:    time.Now().UTC(),
	}, nil).Once()

	view, err := newWishlistService(repo, gateway).Add(ctx, tenantID, propertyID)

	require.NoError(t, err)
	assert.Equal(t, tenantID, view.TenantUserID)
	assert.Equal(t, propertyID, view.Property.PropertyID)
	assert.Equal(t, "Cozy Room", view.Property.Name)
	assert.Equal(t, int64(2_000_000), view.Property.MonthlyRentPrice)
	assert.False(t, view.CreatedAt.IsZero())

	// The summary from the pre-insert fetch is reused, not re-fetched.
	gateway.AssertNumberOfCalls(t, "FetchProperty", 1)
	repo.AssertExpectations(t)
}

func TestWishlistAdd_PropertyNotFound(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	propertyID := uuid.New()

	repo := new(mockWishlistStore)
	gateway := new(mockPropertyGateway)
	gateway.On("FetchProperty", ctx, propertyID).
		Return(propertyOutcome(client.OutcomeNotFound, errors.New("404"))).Once()

	view, err := newWishlistService(repo, gateway).Add(ctx, tenantID, propertyID)

	assert.Nil(t, view)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	// The add aborts before touching local state.
	repo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
}

func TestWishlistAdd_CatalogUnavailable(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	propertyID := uuid.New()

	repo := new(mockWishlistStore)
	gateway := new(mockPropertyGateway)
	gateway.On("FetchProperty", ctx, propertyID).
		Return(propertyOutcome(client.OutcomeUnavailable, errors.New("connection refused"))).Once()

	_, err := newWishlistService(repo, gateway).Add(ctx, tenantID, propertyID)

	assert.True(t, apperrors.IsKind(err, apperrors.KindUnavailable))
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
}

func TestWishlistAdd_CatalogInteractionError(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	propertyID := uuid.New()

	repo := new(mockWishlistStore)
	gateway := new(mockPropertyGateway)
	gateway.On("FetchProperty", ctx, propertyID).
		Return(propertyOutcome(client.OutcomeInteractionError, errors.New("status 500"))).Once()

	_, err := newWishlistService(repo, gateway).Add(ctx, tenantID, propertyID)

	assert.True(t, apperrors.IsKind(err, apperrors.KindInteraction))
}

func TestWishlistAdd_AlreadyWishlisted(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	propertyID := uuid.New()

	repo := new(mockWishlistStore)
	gateway := new(mockPropertyGateway)
	gateway.On("FetchProperty", ctx, propertyID).Return(foundProperty(model.PropertySummary{
		PropertyID: propertyID,
		Name:       "Cozy Room",
	})).Once()
	repo.On("Exists", ctx, tenantID, propertyID).Return(true, nil).Once()

	_, err := newWishlistService(repo, gateway).Add(ctx, tenantID, propertyID)

	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
}

func TestWishlistList_DegradesPerItem(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	goodProperty := uuid.New()
	badProperty := uuid.New()

	repo := new(mockWishlistStore)
	gateway := new(mockPropertyGateway)

	repo.On("ListByTenant", ctx, tenantID).Return([]model.WishlistItem{
		{ID: uuid.New(), TenantUserID: tenantID, PropertyID: goodProperty, CreatedAt: time.Now().UTC()},
		{ID: uuid.New(), TenantUserID: tenantID, PropertyID: badProperty, CreatedAt: time.Now().UTC()},
	}, nil).Once()
	gateway.On("FetchProperty", ctx, goodProperty).Return(foundProperty(model.PropertySummary{
		PropertyID:       goodProperty,
		Name:             "Cozy Room",
		Address:          "Jl. Margonda Raya 1",
		MonthlyRentPrice: 2_000_000,
	})).Once()
	gateway.On("FetchProperty", ctx, badProperty).
		Return(propertyOutcome(client.OutcomeUnavailable, errors.New("timeout"))).Once()

	views, err := newWishlistService(repo, gateway).List(ctx, tenantID)

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Cozy Room", views[0].Property.Name)
	assert.Equal(t, "Property "+badProperty.String()+" (details unavailable)", views[1].Property.Name)
	assert.Equal(t, "N/A", views[1].Property.Address)
	assert.Equal(t, int64(0), views[1].Property.MonthlyRentPrice)
}

func TestWishlistList_Empty(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	repo := new(mockWishlistStore)
	gateway := new(mockPropertyGateway)
	repo.On("ListByTenant", ctx, tenantID).Return([]model.WishlistItem{}, nil).Once()

	views, err := newWishlistService(repo, gateway).List(ctx, tenantID)

	require.NoError(t, err)
	assert.Empty(t, views)
	gateway.AssertNotCalled(t, "FetchProperty", mock.Anything, mock.Anything)
}

func TestWishlistRemove_Success(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	propertyID := uuid.New()

	repo := new(mockWishlistStore)
	gateway := new(mockPropertyGateway)
	repo.On("DeleteByTenantAndProperty", ctx, tenantID, propertyID).Return(int64(1), nil).Once()

	err := newWishlistService(repo, gateway).Remove(ctx, tenantID, propertyID)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestWishlistRemove_Absent(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	propertyID := uuid.New()

	repo := new(mockWishlistStore)
	gateway := new(mockPropertyGateway)
	repo.On("DeleteByTenantAndProperty", ctx, tenantID, propertyID).Return(int64(0), nil).Once()

	err := newWishlistService(repo, gateway).Remove(ctx, tenantID, propertyID)

	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papikos/notification-service/internal/apperrors"
	"github.com/papikos/notification-service/internal/client"
	"github.com/papikos/notification-service/internal/model"
)

// PropertyGateway defines methods for interacting with the Property Service
type PropertyGateway interface {
	FetchProperty(ctx context.Context, propertyID uuid.UUID) client.PropertyResult
}

// RentalGateway defines methods for interacting with the Rental Service
type RentalGateway interface {
	FetchRental(ctx context.Context, rentalID uuid.UUID) client.RentalResult
}

// WishlistStore defines the persistence operations for wishlist items
type WishlistStore interface {
	Exists(ctx context.Context, tenantUserID, propertyID uuid.UUID) (bool, error)
	Insert(ctx context.Context, tenantUserID, propertyID uuid.UUID) (*model.WishlistItem, error)
	DeleteByTenantAndProperty(ctx context.Context, tenantUserID, propertyID uuid.UUID) (int64, error)
	ListByTenant(ctx context.Context, tenantUserID uuid.UUID) ([]model.WishlistItem, error)
	ListTenantsByProperty(ctx context.Context, propertyID uuid.UUID) ([]uuid.UUID, error)
}

// WishlistService handles wishlist operations
type WishlistService struct {
	wishlistRepo   WishlistStore
	propertyClient PropertyGateway
	logger         *zap.Logger
}

// NewWishlistService creates a new wishlist service
func NewWishlistService(wishlistRepo WishlistStore, propertyClient PropertyGateway, logger *zap.Logger) *WishlistService {
	return &WishlistService{
		wishlistRepo:   wishlistRepo,
		propertyClient: propertyClient,
		logger:         logger,
	}
}

// Add puts a property on the tenant's wishlist. The property service is
// consulted before the local uniqueness check so that a dead property id is
// rejected with NotFound even if a stale local row exists for it.
func (s *WishlistService) Add(ctx context.Context, tenantUserID, propertyID uuid.UUID) (*model.WishlistItemView, error) {
	s.logger.Info("Adding property to wishlist",
		zap.String("tenant_user_id", tenantUserID.String()),
		zap.String("property_id", propertyID.String()))

	result := s.propertyClient.FetchProperty(ctx, propertyID)
	switch result.Outcome {
	case client.OutcomeFound:
		// continue with the summary
	case client.OutcomeNotFound:
		s.logger.Warn("Wishlist add failed: property not found",
			zap.String("property_id", propertyID.String()))
		return nil, apperrors.Wrap(apperrors.KindNotFound,
			"property not found with ID: "+propertyID.String(), result.Err)
	case client.OutcomeUnavailable:
		return nil, apperrors.Wrap(apperrors.KindUnavailable,
			"property service unavailable while adding to wishlist", result.Err)
	default:
		return nil, apperrors.Wrap(apperrors.KindInteraction,
			"property service reported an issue while adding to wishlist", result.Err)
	}

	exists, err := s.wishlistRepo.Exists(ctx, tenantUserID, propertyID)
	if err != nil {
		return nil, err
	}
	if exists {
		s.logger.Warn("Wishlist add failed: already wishlisted",
			zap.String("tenant_user_id", tenantUserID.String()),
			zap.String("property_id", propertyID.String()))
		return nil, apperrors.Newf(apperrors.KindConflict,
			"property %s is already in the wishlist", propertyID)
	}

	item, err := s.wishlistRepo.Insert(ctx, tenantUserID, propertyID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Property added to wishlist",
		zap.String("tenant_user_id", tenantUserID.String()),
		zap.String("property_id", propertyID.String()))

	// Reuse the summary fetched above; the catalog is not consulted twice.
	return &model.WishlistItemView{
		ID:           item.ID,
		TenantUserID: item.TenantUserID,
		Property:     *result.Summary,
		CreatedAt:    item.CreatedAt,
	}, nil
}

// List returns the tenant's wishlist with live enrichment. Entries whose
// enrichment fails get a placeholder summary instead of failing the list;
// membership is local data and stays useful when the catalog is down.
func (s *WishlistService) List(ctx context.Context, tenantUserID uuid.UUID) ([]model.WishlistItemView, error) {
	items, err := s.wishlistRepo.ListByTenant(ctx, tenantUserID)
	if err != nil {
		return nil, err
	}

	views := make([]model.WishlistItemView, 0, len(items))
	for _, item := range items {
		summary := s.propertySummaryOrPlaceholder(ctx, item.PropertyID)
		views = append(views, model.WishlistItemView{
			ID:           item.ID,
			TenantUserID: item.TenantUserID,
			Property:     summary,
			CreatedAt:    item.CreatedAt,
		})
	}

	return views, nil
}

// Remove deletes the (tenant, property) row. A second remove for the same
// pair deterministically reports NotFound.
func (s *WishlistService) Remove(ctx context.Context, tenantUserID, propertyID uuid.UUID) error {
	s.logger.Info("Removing property from wishlist",
		zap.String("tenant_user_id", tenantUserID.String()),
		zap.String("property_id", propertyID.String()))

	rows, err := s.wishlistRepo.DeleteByTenantAndProperty(ctx, tenantUserID, propertyID)
	if err != nil {
		return err
	}
	if rows == 0 {
		s.logger.Warn("Wishlist remove failed: item not found",
			zap.String("tenant_user_id", tenantUserID.String()),
			zap.String("property_id", propertyID.String()))
		return apperrors.Newf(apperrors.KindNotFound,
			"property %s not found in wishlist for this user", propertyID)
	}

	return nil
}

// propertySummaryOrPlaceholder fetches enrichment for a property, degrading
// to a placeholder on any failure outcome.
func (s *WishlistService) propertySummaryOrPlaceholder(ctx context.Context, propertyID uuid.UUID) model.PropertySummary {
	result := s.propertyClient.FetchProperty(ctx, propertyID)
	if result.Outcome == client.OutcomeFound {
		return *result.Summary
	}

	s.logger.Warn("Property enrichment degraded to placeholder",
		zap.String("property_id", propertyID.String()),
		zap.String("outcome", result.Outcome.String()),
		zap.Error(result.Err))
	return model.PlaceholderPropertySummary(propertyID)
}

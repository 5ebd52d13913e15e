package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/papikos/notification-service/internal/apperrors"
	"github.com/papikos/notification-service/internal/model"
)

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// WishlistRepository handles database operations for wishlist items
type WishlistRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewWishlistRepository creates a new wishlist repository
func NewWishlistRepository(db *sqlx.DB, logger *zap.Logger) *WishlistRepository {
	return &WishlistRepository{
		db:     db,
		logger: logger,
	}
}

// Exists checks whether the tenant already wishlisted the property
func (r *WishlistRepository) Exists(ctx context.Context, tenantUserID, propertyID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM wishlist_items WHERE tenant_user_id = $1 AND property_id = $2
	)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, tenantUserID, propertyID)
	if err != nil {
		r.logger.Error("Failed to check wishlist existence", zap.Error(err))
		return false, err
	}

	return exists, nil
}

// Insert stores a new wishlist item. A concurrent duplicate insert loses to
// the unique constraint and surfaces as a Conflict.
func (r *WishlistRepository) Insert(ctx context.Context, tenantUserID, propertyID uuid.UUID) (*model.WishlistItem, error) {
	item := &model.WishlistItem{
		ID:           uuid.New(),
		TenantUserID: tenantUserID,
		PropertyID:   propertyID,
		CreatedAt:    time.Now().UTC(),
	}

	query := `INSERT INTO wishlist_items (wishlist_item_id, tenant_user_id, property_id, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, item.ID, item.TenantUserID, item.PropertyID, item.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, apperrors.Newf(apperrors.KindConflict,
				"property %s is already in the wishlist", propertyID)
		}
		r.logger.Error("Failed to insert wishlist item",
			zap.String("tenant_user_id", tenantUserID.String()),
			zap.String("property_id", propertyID.String()),
			zap.Error(err))
		return nil, err
	}

	return item, nil
}

// DeleteByTenantAndProperty removes the (tenant, property) row and returns the
// number of rows affected.
func (r *WishlistRepository) DeleteByTenantAndProperty(ctx context.Context, tenantUserID, propertyID uuid.UUID) (int64, error) {
	query := `DELETE FROM wishlist_items WHERE tenant_user_id = $1 AND property_id = $2`

	result, err := r.db.ExecContext(ctx, query, tenantUserID, propertyID)
	if err != nil {
		r.logger.Error("Failed to delete wishlist item", zap.Error(err))
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return rows, nil
}

// ListByTenant retrieves all wishlist items for a tenant, newest first
func (r *WishlistRepository) ListByTenant(ctx context.Context, tenantUserID uuid.UUID) ([]model.WishlistItem, error) {
	query := `SELECT wishlist_item_id, tenant_user_id, property_id, created_at
		FROM wishlist_items
		WHERE tenant_user_id = $1
		ORDER BY created_at DESC`

	var items []model.WishlistItem
	err := r.db.SelectContext(ctx, &items, query, tenantUserID)
	if err != nil {
		r.logger.Error("Failed to list wishlist items", zap.Error(err))
		return nil, err
	}

	return items, nil
}

// ListTenantsByProperty retrieves the ids of all tenants wishlisting a property
func (r *WishlistRepository) ListTenantsByProperty(ctx context.Context, propertyID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT tenant_user_id FROM wishlist_items WHERE property_id = $1`

	var tenantIDs []uuid.UUID
	err := r.db.SelectContext(ctx, &tenantIDs, query, propertyID)
	if err != nil {
		r.logger.Error("Failed to list tenants by property", zap.Error(err))
		return nil, err
	}

	return tenantIDs, nil
}

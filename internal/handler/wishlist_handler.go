package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papikos/notification-service/internal/middleware"
	"github.com/papikos/notification-service/internal/model"
)

// WishlistService defines the wishlist operations used by the handler
type WishlistService interface {
	Add(ctx context.Context, tenantUserID, propertyID uuid.UUID) (*model.WishlistItemView, error)
	List(ctx context.Context, tenantUserID uuid.UUID) ([]model.WishlistItemView, error)
	Remove(ctx context.Context, tenantUserID, propertyID uuid.UUID) error
}

// WishlistHandler handles wishlist-related HTTP requests
type WishlistHandler struct {
	wishlistService WishlistService
	logger          *zap.Logger
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(wishlistService WishlistService, logger *zap.Logger) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: wishlistService,
		logger:          logger,
	}
}

// AddToWishlist handles adding a property to the caller's wishlist
// POST /api/v1/wishlist
func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	tenantID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req model.AddToWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	view, err := h.wishlistService.Add(c.Request.Context(), tenantID, req.PropertyID)
	if err != nil {
		h.logger.Warn("Failed to add to wishlist", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// GetWishlist handles listing the caller's wishlist
// GET /api/v1/wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	tenantID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	views, err := h.wishlistService.List(c.Request.Context(), tenantID)
	if err != nil {
		h.logger.Error("Failed to get wishlist", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// RemoveFromWishlist handles removing a property from the caller's wishlist
// DELETE /api/v1/wishlist/:propertyId
func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	tenantID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	propertyID, err := uuid.Parse(c.Param("propertyId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID"})
		return
	}

	if err := h.wishlistService.Remove(c.Request.Context(), tenantID, propertyID); err != nil {
		h.logger.Warn("Failed to remove from wishlist", zap.Error(err))
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

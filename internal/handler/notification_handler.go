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

// NotificationService defines the notification operations used by the handler
type NotificationService interface {
	GetNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]model.Notification, error)
	MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) (*model.Notification, error)
	CreateBroadcast(ctx context.Context, req model.BroadcastRequest) (*model.Notification, error)
	CreateInternal(ctx context.Context, req model.InternalNotificationRequest) (*model.Notification, error)
	NotifyRentalUpdate(ctx context.Context, req model.RentalUpdateRequest) (*model.Notification, error)
	NotifyWishlistUsersOnVacancy(ctx context.Context, req model.VacancyUpdateRequest) ([]model.Notification, error)
	NotifyApprovedAccount(ctx context.Context, recipientID uuid.UUID) error
	NotifyPaymentUpdate(ctx context.Context, rentalID, recipientID uuid.UUID, title, message string) error
}

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationService NotificationService
	logger              *zap.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// GetNotifications handles retrieving the caller's notifications
// GET /api/v1/notifications?unread_only=true
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	unreadOnly := c.Query("unread_only") == "true"

	notifications, err := h.notificationService.GetNotifications(c.Request.Context(), userID, unreadOnly)
	if err != nil {
		h.logger.Error("Failed to get notifications", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationAsRead handles marking a notification as read
// PATCH /api/v1/notifications/:notificationId/read
func (h *NotificationHandler) MarkNotificationAsRead(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	notificationID, err := uuid.Parse(c.Param("notificationId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	notification, err := h.notificationService.MarkAsRead(c.Request.Context(), userID, notificationID)
	if err != nil {
		h.logger.Warn("Failed to mark notification as read", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, notification)
}

// SendBroadcast handles creating a broadcast notification
// POST /api/v1/notifications/broadcast (admin)
func (h *NotificationHandler) SendBroadcast(c *gin.Context) {
	var req model.BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	notification, err := h.notificationService.CreateBroadcast(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("Failed to send broadcast notification", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, notification)
}

// SendVacancyNotification handles triggering the vacancy fan-out
// POST /api/v1/notifications/vacancy (admin)
func (h *NotificationHandler) SendVacancyNotification(c *gin.Context) {
	var req model.VacancyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	notifications, err := h.notificationService.NotifyWishlistUsersOnVacancy(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("Failed to send vacancy notifications", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, notifications)
}

// SendRentalUpdate handles creating a rental-update notification
// POST /api/v1/notifications/rental-update (admin)
func (h *NotificationHandler) SendRentalUpdate(c *gin.Context) {
	var req model.RentalUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	notification, err := h.notificationService.NotifyRentalUpdate(c.Request.Context(), req)
	if err != nil {
		h.logger.Warn("Failed to send rental update notification", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, notification)
}

// SendInternal handles notifications pushed by sibling services
// POST /api/v1/internal/notifications (service key)
func (h *NotificationHandler) SendInternal(c *gin.Context) {
	var req model.InternalNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	notification, err := h.notificationService.CreateInternal(c.Request.Context(), req)
	if err != nil {
		h.logger.Warn("Failed to send internal notification", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, notification)
}

// accountApprovedRequest is the payload for the account-approved hook.
type accountApprovedRequest struct {
	RecipientUserID uuid.UUID `json:"recipient_user_id" binding:"required"`
}

// SendAccountApproved handles the auth service's account-approval hook
// POST /api/v1/internal/notifications/account-approved (service key)
func (h *NotificationHandler) SendAccountApproved(c *gin.Context) {
	var req accountApprovedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := h.notificationService.NotifyApprovedAccount(c.Request.Context(), req.RecipientUserID); err != nil {
		h.logger.Warn("Failed to send account approved notification", zap.Error(err))
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// paymentUpdateRequest is the payload for the payment-update hook.
type paymentUpdateRequest struct {
	RelatedRentalID uuid.UUID `json:"related_rental_id" binding:"required"`
	RecipientUserID uuid.UUID `json:"recipient_user_id" binding:"required"`
	Title           string    `json:"title" binding:"required"`
	Message         string    `json:"message" binding:"required"`
}

// SendPaymentUpdate handles the payment service's update hook
// POST /api/v1/internal/notifications/payment-update (service key)
func (h *NotificationHandler) SendPaymentUpdate(c *gin.Context) {
	var req paymentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	err := h.notificationService.NotifyPaymentUpdate(c.Request.Context(),
		req.RelatedRentalID, req.RecipientUserID, req.Title, req.Message)
	if err != nil {
		h.logger.Warn("Failed to send payment update notification", zap.Error(err))
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

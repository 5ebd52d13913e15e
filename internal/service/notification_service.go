package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papikos/notification-service/internal/apperrors"
	"github.com/papikos/notification-service/internal/client"
	"github.com/papikos/notification-service/internal/model"
)

// NotificationStore defines the persistence operations for notifications
type NotificationStore interface {
	Insert(ctx context.Context, n *model.Notification) (*model.Notification, error)
	InsertBatch(ctx context.Context, notifications []model.Notification) ([]model.Notification, error)
	GetByID(ctx context.Context, notificationID uuid.UUID) (*model.Notification, error)
	ListByRecipient(ctx context.Context, recipientUserID uuid.UUID, unreadOnly bool) ([]model.Notification, error)
	MarkRead(ctx context.Context, notificationID uuid.UUID) error
}

// NotificationService handles notification creation, listing and read-state
// transitions, including the wishlist vacancy fan-out.
type NotificationService struct {
	notificationRepo NotificationStore
	wishlistRepo     WishlistStore
	propertyClient   PropertyGateway
	rentalClient     RentalGateway
	logger           *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notificationRepo NotificationStore,
	wishlistRepo WishlistStore,
	propertyClient PropertyGateway,
	rentalClient RentalGateway,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		wishlistRepo:     wishlistRepo,
		propertyClient:   propertyClient,
		rentalClient:     rentalClient,
		logger:           logger,
	}
}

// GetNotifications retrieves a user's notifications, broadcasts included,
// newest first.
func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]model.Notification, error) {
	return s.notificationRepo.ListByRecipient(ctx, userID, unreadOnly)
}

// MarkAsRead transitions a notification from unread to read on behalf of its
// recipient. The transition is monotonic: marking an already-read notification
// changes nothing and performs no write. Broadcasts have no per-user read
// state and are rejected.
func (s *NotificationService) MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) (*model.Notification, error) {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if notification == nil {
		s.logger.Warn("Mark as read failed: notification not found",
			zap.String("notification_id", notificationID.String()))
		return nil, apperrors.Newf(apperrors.KindNotFound,
			"notification not found with ID: %s", notificationID)
	}

	if notification.IsBroadcast() {
		s.logger.Warn("Mark as read attempt on broadcast notification",
			zap.String("notification_id", notificationID.String()),
			zap.String("user_id", userID.String()))
		return nil, apperrors.New(apperrors.KindForbidden,
			"broadcast notifications cannot be marked as read by individual users")
	}

	if *notification.RecipientUserID != userID {
		s.logger.Warn("Mark as read failed: user is not the recipient",
			zap.String("notification_id", notificationID.String()),
			zap.String("user_id", userID.String()))
		return nil, apperrors.New(apperrors.KindForbidden,
			"user is not the recipient of this notification")
	}

	if notification.IsRead {
		return notification, nil
	}

	if err := s.notificationRepo.MarkRead(ctx, notificationID); err != nil {
		return nil, err
	}
	notification.IsRead = true

	s.logger.Info("Notification marked as read",
		zap.String("notification_id", notificationID.String()),
		zap.String("user_id", userID.String()))
	return notification, nil
}

// CreateBroadcast persists a notification addressed to nobody in particular;
// it is visible to every user and carries no read state.
func (s *NotificationService) CreateBroadcast(ctx context.Context, req model.BroadcastRequest) (*model.Notification, error) {
	if err := validateContent(req.Title, req.Message); err != nil {
		return nil, err
	}

	notification := &model.Notification{
		ID:        uuid.New(),
		Type:      model.TypeBroadcast,
		Title:     req.Title,
		Message:   req.Message,
		CreatedAt: time.Now().UTC(),
	}

	saved, err := s.notificationRepo.Insert(ctx, notification)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Broadcast notification saved",
		zap.String("notification_id", saved.ID.String()),
		zap.String("title", saved.Title))
	return saved, nil
}

// CreateInternal persists a notification pushed by another service for a
// single user.
func (s *NotificationService) CreateInternal(ctx context.Context, req model.InternalNotificationRequest) (*model.Notification, error) {
	if err := validateContent(req.Title, req.Message); err != nil {
		return nil, err
	}
	if req.RecipientUserID == uuid.Nil {
		return nil, apperrors.New(apperrors.KindInvalid, "recipient is required")
	}
	if !req.Type.Valid() {
		return nil, apperrors.Newf(apperrors.KindInvalid, "unknown notification type %q", req.Type)
	}

	recipient := req.RecipientUserID
	notification := &model.Notification{
		ID:                uuid.New(),
		RecipientUserID:   &recipient,
		Type:              req.Type,
		Title:             req.Title,
		Message:           req.Message,
		RelatedPropertyID: req.RelatedPropertyID,
		RelatedRentalID:   req.RelatedRentalID,
		CreatedAt:         time.Now().UTC(),
	}

	saved, err := s.notificationRepo.Insert(ctx, notification)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Internal notification saved",
		zap.String("notification_id", saved.ID.String()),
		zap.String("recipient_user_id", recipient.String()),
		zap.String("type", string(saved.Type)))
	return saved, nil
}

// CreateTargeted persists a notification for a single user. The related
// property id is a logical reference and is stored without an existence check.
func (s *NotificationService) CreateTargeted(ctx context.Context, recipientID uuid.UUID, nType model.NotificationType, title, message string, relatedPropertyID *uuid.UUID) (*model.Notification, error) {
	if err := validateContent(title, message); err != nil {
		return nil, err
	}
	if recipientID == uuid.Nil {
		return nil, apperrors.New(apperrors.KindInvalid, "recipient is required")
	}
	if !nType.Valid() {
		return nil, apperrors.Newf(apperrors.KindInvalid, "unknown notification type %q", nType)
	}

	notification := &model.Notification{
		ID:                uuid.New(),
		RecipientUserID:   &recipientID,
		Type:              nType,
		Title:             title,
		Message:           message,
		RelatedPropertyID: relatedPropertyID,
		CreatedAt:         time.Now().UTC(),
	}

	saved, err := s.notificationRepo.Insert(ctx, notification)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User notification saved",
		zap.String("notification_id", saved.ID.String()),
		zap.String("recipient_user_id", recipientID.String()),
		zap.String("type", string(nType)))
	return saved, nil
}

// NotifyApprovedAccount tells a user their account was approved.
func (s *NotificationService) NotifyApprovedAccount(ctx context.Context, recipientID uuid.UUID) error {
	if recipientID == uuid.Nil {
		return apperrors.New(apperrors.KindInvalid, "recipient is required")
	}

	notification := &model.Notification{
		ID:              uuid.New(),
		RecipientUserID: &recipientID,
		Type:            model.TypeAccountApproved,
		Title:           "Account Approved",
		Message:         "Congratulations! Your Papikos account has been approved.",
		CreatedAt:       time.Now().UTC(),
	}

	if _, err := s.notificationRepo.Insert(ctx, notification); err != nil {
		return err
	}

	s.logger.Info("Account approved notification sent",
		zap.String("recipient_user_id", recipientID.String()))
	return nil
}

// NotifyPaymentUpdate tells a user about a payment change on their rental.
// The rental id is a logical reference; no existence check is performed.
func (s *NotificationService) NotifyPaymentUpdate(ctx context.Context, rentalID, recipientID uuid.UUID, title, message string) error {
	if err := validateContent(title, message); err != nil {
		return err
	}

	notification := &model.Notification{
		ID:              uuid.New(),
		RecipientUserID: &recipientID,
		Type:            model.TypePaymentUpdate,
		Title:           title,
		Message:         message,
		RelatedRentalID: &rentalID,
		CreatedAt:       time.Now().UTC(),
	}

	if _, err := s.notificationRepo.Insert(ctx, notification); err != nil {
		return err
	}

	s.logger.Info("Payment update notification sent",
		zap.String("rental_id", rentalID.String()),
		zap.String("recipient_user_id", recipientID.String()))
	return nil
}

// NotifyRentalUpdate persists a rental-update notification after confirming
// that both the rental and the property still exist. Unlike the vacancy
// fan-out this aborts on any gateway failure; an update naming a fabricated
// property would mislead the user.
func (s *NotificationService) NotifyRentalUpdate(ctx context.Context, req model.RentalUpdateRequest) (*model.Notification, error) {
	if err := validateContent(req.Title, req.Message); err != nil {
		return nil, err
	}

	s.logger.Info("Processing rental update notification",
		zap.String("rental_id", req.RelatedRentalID.String()),
		zap.String("property_id", req.RelatedPropertyID.String()),
		zap.String("recipient_user_id", req.RecipientUserID.String()))

	rentalResult := s.rentalClient.FetchRental(ctx, req.RelatedRentalID)
	switch rentalResult.Outcome {
	case client.OutcomeFound:
	case client.OutcomeNotFound:
		return nil, apperrors.Wrap(apperrors.KindNotFound,
			"rental not found with ID: "+req.RelatedRentalID.String(), rentalResult.Err)
	case client.OutcomeUnavailable:
		return nil, apperrors.Wrap(apperrors.KindUnavailable,
			"rental service unavailable while confirming rental", rentalResult.Err)
	default:
		return nil, apperrors.Wrap(apperrors.KindInteraction,
			"rental service reported an issue while confirming rental", rentalResult.Err)
	}

	propertyResult := s.propertyClient.FetchProperty(ctx, req.RelatedPropertyID)
	switch propertyResult.Outcome {
	case client.OutcomeFound:
	case client.OutcomeNotFound:
		return nil, apperrors.Wrap(apperrors.KindNotFound,
			"property not found with ID: "+req.RelatedPropertyID.String(), propertyResult.Err)
	case client.OutcomeUnavailable:
		return nil, apperrors.Wrap(apperrors.KindUnavailable,
			"property service unavailable while confirming property", propertyResult.Err)
	default:
		return nil, apperrors.Wrap(apperrors.KindInteraction,
			"property service reported an issue while confirming property", propertyResult.Err)
	}

	recipient := req.RecipientUserID
	rentalID := req.RelatedRentalID
	propertyID := req.RelatedPropertyID
	notification := &model.Notification{
		ID:                uuid.New(),
		RecipientUserID:   &recipient,
		Type:              model.TypeRentalUpdate,
		Title:             req.Title,
		Message:           req.Message,
		RelatedPropertyID: &propertyID,
		RelatedRentalID:   &rentalID,
		CreatedAt:         time.Now().UTC(),
	}

	saved, err := s.notificationRepo.Insert(ctx, notification)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Rental update notification created",
		zap.String("notification_id", saved.ID.String()),
		zap.String("rental_id", rentalID.String()),
		zap.String("property_name", propertyResult.Summary.Name))
	return saved, nil
}

// NotifyWishlistUsersOnVacancy builds one WISHLIST_VACANCY notification per
// tenant wishlisting the property and persists them in a single batch; either
// all of them land or none do. Enrichment failure degrades to a placeholder
// name so the alert still goes out while the catalog is down. Calling this
// twice for the same vacancy event duplicates notifications; at-most-once
// invocation is the trigger's responsibility.
func (s *NotificationService) NotifyWishlistUsersOnVacancy(ctx context.Context, req model.VacancyUpdateRequest) ([]model.Notification, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperrors.New(apperrors.KindInvalid, "title is required")
	}

	s.logger.Info("Processing vacancy notification",
		zap.String("property_id", req.RelatedPropertyID.String()))

	propertyName := model.PlaceholderPropertySummary(req.RelatedPropertyID).Name
	result := s.propertyClient.FetchProperty(ctx, req.RelatedPropertyID)
	if result.Outcome == client.OutcomeFound {
		propertyName = result.Summary.Name
	} else {
		s.logger.Warn("Vacancy enrichment degraded to placeholder name",
			zap.String("property_id", req.RelatedPropertyID.String()),
			zap.String("outcome", result.Outcome.String()),
			zap.Error(result.Err))
	}

	tenantIDs, err := s.wishlistRepo.ListTenantsByProperty(ctx, req.RelatedPropertyID)
	if err != nil {
		return nil, err
	}
	if len(tenantIDs) == 0 {
		s.logger.Info("No users wishlisting property",
			zap.String("property_id", req.RelatedPropertyID.String()),
			zap.String("property_name", propertyName))
		return []model.Notification{}, nil
	}

	message := renderVacancyMessage(req.Message, propertyName)

	propertyID := req.RelatedPropertyID
	now := time.Now().UTC()
	notifications := make([]model.Notification, 0, len(tenantIDs))
	for _, tenantID := range tenantIDs {
		recipient := tenantID
		notifications = append(notifications, model.Notification{
			ID:                uuid.New(),
			RecipientUserID:   &recipient,
			Type:              model.TypeWishlistVacancy,
			Title:             req.Title,
			Message:           message,
			RelatedPropertyID: &propertyID,
			CreatedAt:         now,
		})
	}

	saved, err := s.notificationRepo.InsertBatch(ctx, notifications)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Vacancy notifications sent",
		zap.Int("count", len(saved)),
		zap.String("property_id", propertyID.String()),
		zap.String("property_name", propertyName))
	return saved, nil
}

// renderVacancyMessage applies the template policy: a "%s" placeholder gets
// the property name interpolated, a blank template gets the default message,
// anything else goes out verbatim.
func renderVacancyMessage(template, propertyName string) string {
	if strings.Contains(template, "%s") {
		return strings.Replace(template, "%s", propertyName, 1)
	}
	if strings.TrimSpace(template) == "" {
		return "A property on your wishlist, " + propertyName + ", now has a vacancy!"
	}
	return template
}

func validateContent(title, message string) error {
	if strings.TrimSpace(title) == "" {
		return apperrors.New(apperrors.KindInvalid, "title is required")
	}
	if strings.TrimSpace(message) == "" {
		return apperrors.New(apperrors.KindInvalid, "message is required")
	}
	return nil
}

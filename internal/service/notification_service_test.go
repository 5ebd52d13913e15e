package service

import (
	"context"
	"errors"
	"strings"
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

type notificationMocks struct {
	notifications *mockNotificationStore
	wishlist      *mockWishlistStore
	property      *mockPropertyGateway
	rental        *mockRentalGateway
}

func newNotificationService(t *testing.T) (*NotificationService, notificationMocks) {
	t.Helper()
	m := notificationMocks{
		notifications: new(mockNotificationStore),
		wishlist:      new(mockWishlistStore),
		property:      new(mockPropertyGateway),
		rental:        new(mockRentalGateway),
	}
	svc := NewNotificationService(m.notifications, m.wishlist, m.property, m.rental, zap.NewNop())
	return svc, m
}

func targetedNotification(recipient uuid.UUID, isRead bool) *model.Notification {
	return &model.Notification{
		ID:              uuid.New(),
		RecipientUserID: &recipient,
		Type:            model.TypeRentalUpdate,
		Title:           "Rental status changed",
		Message:         "Your rental was updated.",
		IsRead:          isRead,
		CreatedAt:       time.Now().UTC(),
	}
}

// --- MarkAsRead ---

func TestMarkAsRead_Transition(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	svc, m := newNotificationService(t)

	notification := targetedNotification(userID, false)
	m.notifications.On("GetByID", ctx, notification.ID).Return(notification, nil).Once()
	m.notifications.On("MarkRead", ctx, notification.ID).Return(nil).Once()

	updated, err := svc.MarkAsRead(ctx, userID, notification.ID)

	require.NoError(t, err)
	assert.True(t, updated.IsRead)
	m.notifications.AssertExpectations(t)
}

func TestMarkAsRead_IdempotentNoWrite(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	svc, m := newNotificationService(t)

	notification := targetedNotification(userID, true)
	m.notifications.On("GetByID", ctx, notification.ID).Return(notification, nil).Once()

	updated, err := svc.MarkAsRead(ctx, userID, notification.ID)

	require.NoError(t, err)
	assert.True(t, updated.IsRead)
	m.notifications.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
}

func TestMarkAsRead_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, m := newNotificationService(t)

	notificationID := uuid.New()
	m.notifications.On("GetByID", ctx, notificationID).Return(nil, nil).Once()

	_, err := svc.MarkAsRead(ctx, uuid.New(), notificationID)

	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestMarkAsRead_WrongRecipient(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	intruder := uuid.New()
	svc, m := newNotificationService(t)

	notification := targetedNotification(owner, false)
	m.notifications.On("GetByID", ctx, notification.ID).Return(notification, nil).Once()

	_, err := svc.MarkAsRead(ctx, intruder, notification.ID)

	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	m.notifications.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
}

func TestMarkAsRead_BroadcastRejected(t *testing.T) {
	ctx := context.Background()
	svc, m := newNotificationService(t)

	broadcast := &model.Notification{
		ID:        uuid.New(),
		Type:      model.TypeBroadcast,
		Title:     "Maintenance window",
		Message:   "The platform will be down tonight.",
		CreatedAt: time.Now().UTC(),
	}
	m.notifications.On("GetByID", ctx, broadcast.ID).Return(broadcast, nil).Once()

	_, err := svc.MarkAsRead(ctx, uuid.New(), broadcast.ID)

	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	m.notifications.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
}

// --- creation ---

func TestCreateBroadcast(t *testing.T) {
	ctx := context.Background()
	svc, m := newNotificationService(t)

	m.notifications.On("Insert", ctx, mock.MatchedBy(func(n *model.Notification) bool {
		return n.RecipientUserID == nil &&
			n.Type == model.TypeBroadcast &&
			!n.IsRead
	})).Return(&model.Notification{ID: uuid.New()}, nil).Once()

	_, err := svc.CreateBroadcast(ctx, model.BroadcastRequest{
		Title:   "Maintenance window",
		Message: "The platform will be down tonight.",
	})

	require.NoError(t, err)
	m.notifications.AssertExpectations(t)
}

func TestCreateBroadcast_BlankTitle(t *testing.T) {
	ctx := context.Background()
	svc, m := newNotificationService(t)

	_, err := svc.CreateBroadcast(ctx, model.BroadcastRequest{Title: "  ", Message: "hello"})

	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalid))
	m.notifications.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateInternal_RequiresRecipient(t *testing.T) {
	ctx := context.Background()
	svc, _ := newNotificationService(t)

	_, err := svc.CreateInternal(ctx, model.InternalNotificationRequest{
		Type:    model.TypeInternal,
		Title:   "t",
		Message: "m",
	})

	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalid))
}

func TestCreateTargeted_UnknownType(t *testing.T) {
	ctx := context.Background()
	svc, _ := newNotificationService(t)

	_, err := svc.CreateTargeted(ctx, uuid.New(), "SHOUTING", "t", "m", nil)

	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalid))
}

func TestNotifyApprovedAccount(t *testing.T) {
	ctx := context.Background()
	recipient := uuid.New()
	svc, m := newNotificationService(t)

	m.notifications.On("Insert", ctx, mock.MatchedBy(func(n *model.Notification) bool {
		return n.RecipientUserID != nil && *n.RecipientUserID == recipient &&
			n.Type == model.TypeAccountApproved &&
			n.Title == "Account Approved"
	})).Return(&model.Notification{ID: uuid.New()}, nil).Once()

	require.NoError(t, svc.NotifyApprovedAccount(ctx, recipient))
	m.notifications.AssertExpectations(t)
}

// --- rental update ---

func TestNotifyRentalUpdate_Success(t *testing.T) {
	ctx := context.Background()
	svc, m := newNotificationService(t)

	req := model.RentalUpdateRequest{
		RelatedRentalID:   uuid.New(),
		RelatedPropertyID: uuid.New(),
		RecipientUserID:   uuid.New(),
		Title:             "Rental approved",
		Message:           "Your rental request was approved.",
	}

	m.rental.On("FetchRental", ctx, req.RelatedRentalID).
		Return(foundRental(model.RentalDetails{RentalID: req.RelatedRentalID, Status: "ACTIVE"})).Once()
	m.property.On("FetchProperty", ctx, req.RelatedPropertyID).
		Return(foundProperty(model.PropertySummary{PropertyID: req.RelatedPropertyID, Name: "Cozy Room"})).Once()
	m.notifications.On("Insert", ctx, mock.MatchedBy(func(n *model.Notification) bool {
		return n.Type == model.TypeRentalUpdate &&
			*n.RecipientUserID == req.RecipientUserID &&
			*n.RelatedRentalID == req.RelatedRentalID &&
			*n.RelatedPropertyID == req.RelatedPropertyID
	})).Return(&model.Notification{ID: uuid.New()}, nil).Once()

	_, err := svc.NotifyRentalUpdate(ctx, req)

	require.NoError(t, err)
	m.notifications.AssertExpectations(t)
}

func TestNotifyRentalUpdate_RentalNotFound(t *testing.T) {
	ctx := context.Background()
	svc, m := newNotificationService(t)

	req := model.RentalUpdateRequest{
		RelatedRentalID:   uuid.New(),
		RelatedPropertyID: uuid.New(),
		RecipientUserID:   uuid.New(),
		Title:             "Rental approved",
		Message:           "m",
	}
	m.rental.On("FetchRental", ctx, req.RelatedRentalID).
		Return(rentalOutcome(client.OutcomeNotFound, errors.New("404"))).Once()

	_, err := svc.NotifyRentalUpdate(ctx, req)

	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	m.notifications.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestNotifyRentalUpdate_AbortsWhenPropertyServiceDown(t *testing.T) {
	// Rental updates abort on dependency failure; only the vacancy fan-out
	// and wishlist listing degrade.
	ctx := context.Background()
	svc, m := newNotificationService(t)

	req := model.RentalUpdateRequest{
		RelatedRentalID:   uuid.New(),
		RelatedPropertyID: uuid.New(),
		RecipientUserID:   uuid.New(),
		Title:             "Rental approved",
		Message:           "m",
	}
	m.rental.On("FetchRental", ctx, req.RelatedRentalID).
		Return(foundRental(model.RentalDetails{RentalID: req.RelatedRentalID})).Once()
	m.property.On("FetchProperty", ctx, req.RelatedPropertyID).
		Return(propertyOutcome(client.OutcomeUnavailable, errors.New("timeout"))).Once()

	_, err := svc.NotifyRentalUpdate(ctx, req)

	assert.True(t, apperrors.IsKind(err, apperrors.KindUnavailable))
	m.notifications.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

// --- vacancy fan-out ---

func TestVacancyFanOut_OneNotificationPerTenant(t *testing.T) {
	ctx := context.Background()
	svc, m := newNotificationService(t)

	propertyID := uuid.New()
	tenants := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	m.property.On("FetchProperty", ctx, propertyID).
		Return(foundProperty(model.PropertySummary{PropertyID: propertyID, Name: "Cozy Room"})).Once()
	m.wishlist.On("ListTenantsByProperty", ctx, propertyID).Return(tenants, nil).Once()
	m.notifications.On("InsertBatch", ctx, mock.MatchedBy(func(batch []model.Notification) bool {
		if len(batch) != len(tenants) {
			return false
		}
		for i, n := range batch {
			if n.RecipientUserID == nil || *n.RecipientUserID != tenants[i] {
				return false
			}
			if n.Type != model.TypeWishlistVacancy || *n.RelatedPropertyID != propertyID || n.IsRead {
				return false
			}
		}
		return true
	})).Return([]model.Notification{{}, {}, {}}, nil).Once()

	saved, err := svc.NotifyWishlistUsersOnVacancy(ctx, model.VacancyUpdateRequest{
		RelatedPropertyID: propertyID,
		Title:             "Room Available",
	})

	require.NoError(t, err)
	assert.Len(t, saved, 3)
	m.notifications.AssertExpectations(t)
}

func TestVacancyFanOut_EmptyAudienceNoWrites(t *testing.T) {
	ctx := context.Background()
	svc, m := newNotificationService(t)

	propertyID := uuid.New()
	m.property.On("FetchProperty", ctx, propertyID).
		Return(foundProperty(model.PropertySummary{PropertyID: propertyID, Name: "Cozy Room"})).Once()
	m.wishlist.On("ListTenantsByProperty", ctx, propertyID).Return([]uuid.UUID{}, nil).Once()

	saved, err := svc.NotifyWishlistUsersOnVacancy(ctx, model.VacancyUpdateRequest{
		RelatedPropertyID: propertyID,
		Title:             "Room Available",
	})

	require.NoError(t, err)
	assert.Empty(t, saved)
	m.notifications.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
}

func TestVacancyFanOut_DegradesWhenCatalogUnreachable(t *testing.T) {
	ctx := context.Background()
	svc, m := newNotificationService(t)

	propertyID := uuid.New()
	tenants := []uuid.UUID{uuid.New(), uuid.New()}
	placeholder := "Property " + propertyID.String() + " (details unavailable)"

	m.property.On("FetchProperty", ctx, propertyID).
		Return(propertyOutcome(client.OutcomeUnavailable, errors.New("connection refused"))).Once()
	m.wishlist.On("ListTenantsByProperty", ctx, propertyID).Return(tenants, nil).Once()
	m.notifications.On("InsertBatch", ctx, mock.MatchedBy(func(batch []model.Notification) bool {
		if len(batch) != 2 {
			return false
		}
		for _, n := range batch {
			if !strings.Contains(n.Message, placeholder) {
				return false
			}
		}
		return true
	})).Return([]model.Notification{{}, {}}, nil).Once()

	saved, err := svc.NotifyWishlistUsersOnVacancy(ctx, model.VacancyUpdateRequest{
		RelatedPropertyID: propertyID,
		Title:             "Room Available",
	})

	require.NoError(t, err)
	assert.Len(t, saved, 2)
	m.notifications.AssertExpectations(t)
}

func TestVacancyFanOut_BatchFailurePersistsNothing(t *testing.T) {
	ctx := context.Background()
	svc, m := newNotificationService(t)

	propertyID := uuid.New()
	m.property.On("FetchProperty", ctx, propertyID).
		Return(foundProperty(model.PropertySummary{PropertyID: propertyID, Name: "Cozy Room"})).Once()
	m.wishlist.On("ListTenantsByProperty", ctx, propertyID).
		Return([]uuid.UUID{uuid.New(), uuid.New()}, nil).Once()
	m.notifications.On("InsertBatch", ctx, mock.Anything).
		Return(nil, errors.New("tx aborted")).Once()

	saved, err := svc.NotifyWishlistUsersOnVacancy(ctx, model.VacancyUpdateRequest{
		RelatedPropertyID: propertyID,
		Title:             "Room Available",
	})

	assert.Error(t, err)
	assert.Nil(t, saved)
}

func TestRenderVacancyMessage(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{
			name:     "placeholder interpolated",
			template: "Good news, %s has a free room!",
			want:     "Good news, Cozy Room has a free room!",
		},
		{
			name:     "blank template gets default",
			template: "   ",
			want:     "A property on your wishlist, Cozy Room, now has a vacancy!",
		},
		{
			name:     "verbatim otherwise",
			template: "A room opened up.",
			want:     "A room opened up.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderVacancyMessage(tt.template, "Cozy Room"))
		})
	}
}

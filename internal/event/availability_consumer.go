// Package event consumes room-availability events and feeds the vacancy
// fan-out. One event means "property P became available"; there is no
// general observer registry, the fan-out is the only reaction.
package event

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/papikos/notification-service/internal/model"
)

// VacancyNotifier is the slice of NotificationService the consumer needs.
type VacancyNotifier interface {
	NotifyWishlistUsersOnVacancy(ctx context.Context, req model.VacancyUpdateRequest) ([]model.Notification, error)
}

// roomAvailabilityEvent is the wire format published by the property service
// when a room frees up.
type roomAvailabilityEvent struct {
	PropertyID uuid.UUID `json:"property_id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
}

// AvailabilityConsumer reads room-availability events from Kafka and triggers
// the vacancy fan-out for each one.
type AvailabilityConsumer struct {
	reader   *kafka.Reader
	notifier VacancyNotifier
	logger   *zap.Logger
}

// NewAvailabilityConsumer creates a consumer bound to the room-availability topic.
func NewAvailabilityConsumer(brokers []string, groupID, topic string, notifier VacancyNotifier, logger *zap.Logger) *AvailabilityConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &AvailabilityConsumer{
		reader:   reader,
		notifier: notifier,
		logger:   logger,
	}
}

// Run consumes events until ctx is cancelled. Broker errors are retried with
// exponential backoff; malformed events are logged and skipped. Delivery is
// at-least-once, so a broker-side redelivery can duplicate a fan-out.
func (c *AvailabilityConsumer) Run(ctx context.Context) error {
	fetchBackoff := backoff.NewExponentialBackOff()
	fetchBackoff.MaxElapsedTime = 0

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return ctx.Err()
			}
			wait := fetchBackoff.NextBackOff()
			c.logger.Warn("Failed to fetch availability event, retrying after backoff",
				zap.Duration("backoff", wait),
				zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			continue
		}
		fetchBackoff.Reset()

		if err := c.handleMessage(ctx, msg.Value); err != nil {
			// Leave the offset uncommitted so the event is redelivered.
			c.logger.Error("Vacancy fan-out failed for availability event",
				zap.Int64("offset", msg.Offset),
				zap.Error(err))
			continue
		}

		c.commit(ctx, msg)
	}
}

// handleMessage decodes one availability event and triggers the fan-out.
// Malformed events are dropped (returning nil commits them); fan-out failures
// are returned so the event is redelivered.
func (c *AvailabilityConsumer) handleMessage(ctx context.Context, value []byte) error {
	var ev roomAvailabilityEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		c.logger.Error("Skipping malformed availability event", zap.Error(err))
		return nil
	}
	if ev.PropertyID == uuid.Nil {
		c.logger.Error("Skipping availability event without property id")
		return nil
	}

	title := ev.Title
	if title == "" {
		title = "Room Available"
	}

	_, err := c.notifier.NotifyWishlistUsersOnVacancy(ctx, model.VacancyUpdateRequest{
		RelatedPropertyID: ev.PropertyID,
		Title:             title,
		Message:           ev.Message,
	})
	return err
}

// Close releases the underlying Kafka reader.
func (c *AvailabilityConsumer) Close() error {
	return c.reader.Close()
}

func (c *AvailabilityConsumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Warn("Failed to commit availability event offset",
			zap.Int64("offset", msg.Offset),
			zap.Error(err))
	}
}

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papikos/notification-service/internal/model"
)

// RentalResult is the outcome of a rental lookup. Rental is non-nil only when
// Outcome is OutcomeFound.
type RentalResult struct {
	Outcome Outcome
	Rental  *model.RentalDetails
	Err     error
}

type rentalEnvelope struct {
	Status    int                  `json:"status"`
	Message   string               `json:"message"`
	Data      *model.RentalDetails `json:"data"`
	Timestamp int64                `json:"timestamp"`
}

// RentalClient handles communication with the Rental Service
type RentalClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewRentalClient creates a new Rental Service client
func NewRentalClient(baseURL, serviceKey string, timeout time.Duration, logger *zap.Logger) *RentalClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RentalClient{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchRental looks up a rental by id and classifies the reply. The
// classification rules are the same as FetchProperty's.
func (c *RentalClient) FetchRental(ctx context.Context, rentalID uuid.UUID) RentalResult {
	url := fmt.Sprintf("%s/api/v1/rentals/%s", c.baseURL, rentalID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return RentalResult{Outcome: OutcomeUnavailable, Err: err}
	}
	req.Header.Set("X-Service-Key", c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to reach rental service",
			zap.String("rental_id", rentalID.String()),
			zap.Error(err))
		return RentalResult{Outcome: OutcomeUnavailable, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return RentalResult{
			Outcome: OutcomeNotFound,
			Err:     fmt.Errorf("rental %s not found (HTTP 404)", rentalID),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("Rental service returned non-OK status",
			zap.String("rental_id", rentalID.String()),
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("body", body))
		return RentalResult{
			Outcome: OutcomeInteractionError,
			Err:     fmt.Errorf("rental service returned status code %d", resp.StatusCode),
		}
	}

	var envelope rentalEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		c.logger.Error("Failed to decode rental service response",
			zap.String("rental_id", rentalID.String()),
			zap.Error(err))
		return RentalResult{Outcome: OutcomeUnavailable, Err: err}
	}

	if envelope.Status == http.StatusNotFound {
		return RentalResult{
			Outcome: OutcomeNotFound,
			Err:     fmt.Errorf("rental %s not found: %s", rentalID, envelope.Message),
		}
	}

	if envelope.Status != http.StatusOK {
		c.logger.Warn("Rental service reported an issue",
			zap.String("rental_id", rentalID.String()),
			zap.Int("envelope_status", envelope.Status),
			zap.String("message", envelope.Message))
		return RentalResult{
			Outcome: OutcomeInteractionError,
			Err:     fmt.Errorf("rental service reported %d: %s", envelope.Status, envelope.Message),
		}
	}

	if envelope.Data == nil {
		c.logger.Error("Rental service returned OK status but no data",
			zap.String("rental_id", rentalID.String()))
		return RentalResult{
			Outcome: OutcomeUnavailable,
			Err:     fmt.Errorf("rental service returned no data for %s", rentalID),
		}
	}

	return RentalResult{Outcome: OutcomeFound, Rental: envelope.Data}
}

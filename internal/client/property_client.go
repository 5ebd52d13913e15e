// Package client contains HTTP clients for the property and rental services.
//
// Both services wrap responses in a JSON envelope carrying their own status
// code, so a lookup has to be classified twice: once at the HTTP level and
// once at the envelope level. Every lookup lands on exactly one of four
// outcomes; callers switch on the outcome instead of unwrapping errors.
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

// Outcome classifies the result of a downstream lookup.
type Outcome int

const (
	// OutcomeFound means the service returned a complete record.
	OutcomeFound Outcome = iota
	// OutcomeNotFound means the service explicitly reports the id does not exist.
	OutcomeNotFound
	// OutcomeUnavailable means the service could not be reached or gave no
	// interpretable reply.
	OutcomeUnavailable
	// OutcomeInteractionError means the service was reached and replied, but
	// the reply signals a server-side problem.
	OutcomeInteractionError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeInteractionError:
		return "interaction_error"
	default:
		return "unknown"
	}
}

// PropertyResult is the outcome of a property lookup. Summary is non-nil only
// when Outcome is OutcomeFound; Err carries detail for the two failure outcomes.
type PropertyResult struct {
	Outcome Outcome
	Summary *model.PropertySummary
	Err     error
}

// propertyEnvelope is the wire envelope the property service wraps payloads in.
type propertyEnvelope struct {
	Status    int                    `json:"status"`
	Message   string                 `json:"message"`
	Data      *model.PropertySummary `json:"data"`
	Timestamp int64                  `json:"timestamp"`
}

// PropertyClient handles communication with the Property Service
type PropertyClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewPropertyClient creates a new Property Service client
func NewPropertyClient(baseURL, serviceKey string, timeout time.Duration, logger *zap.Logger) *PropertyClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PropertyClient{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchProperty looks up a property by id and classifies the reply.
func (c *PropertyClient) FetchProperty(ctx context.Context, propertyID uuid.UUID) PropertyResult {
	url := fmt.Sprintf("%s/api/v1/kos/%s", c.baseURL, propertyID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return PropertyResult{Outcome: OutcomeUnavailable, Err: err}
	}
	req.Header.Set("X-Service-Key", c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to reach property service",
			zap.String("property_id", propertyID.String()),
			zap.Error(err))
		return PropertyResult{Outcome: OutcomeUnavailable, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return PropertyResult{
			Outcome: OutcomeNotFound,
			Err:     fmt.Errorf("property %s not found (HTTP 404)", propertyID),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("Property service returned non-OK status",
			zap.String("property_id", propertyID.String()),
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("body", body))
		return PropertyResult{
			Outcome: OutcomeInteractionError,
			Err:     fmt.Errorf("property service returned status code %d", resp.StatusCode),
		}
	}

	var envelope propertyEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		c.logger.Error("Failed to decode property service response",
			zap.String("property_id", propertyID.String()),
			zap.Error(err))
		return PropertyResult{Outcome: OutcomeUnavailable, Err: err}
	}

	if envelope.Status == http.StatusNotFound {
		return PropertyResult{
			Outcome: OutcomeNotFound,
			Err:     fmt.Errorf("property %s not found: %s", propertyID, envelope.Message),
		}
	}

	if envelope.Status != http.StatusOK {
		c.logger.Warn("Property service reported an issue",
			zap.String("property_id", propertyID.String()),
			zap.Int("envelope_status", envelope.Status),
			zap.String("message", envelope.Message))
		return PropertyResult{
			Outcome: OutcomeInteractionError,
			Err:     fmt.Errorf("property service reported %d: %s", envelope.Status, envelope.Message),
		}
	}

	// An OK envelope with no payload is a service defect, not an empty record.
	if envelope.Data == nil {
		c.logger.Error("Property service returned OK status but no data",
			zap.String("property_id", propertyID.String()))
		return PropertyResult{
			Outcome: OutcomeUnavailable,
			Err:     fmt.Errorf("property service returned no data for %s", propertyID),
		}
	}

	return PropertyResult{Outcome: OutcomeFound, Summary: envelope.Data}
}

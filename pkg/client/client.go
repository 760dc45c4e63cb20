// Package client is a small SDK for the trip planner API. It owns the
// request-side half of the generation contract: preconditions before the
// wire, error-body interpretation, and re-validation of structured plans
// even when the HTTP layer reported success.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tripwise/go-trip-planner/internal/types"
)

var (
	// ErrIncompleteRequest is returned before any network I/O when one of
	// the four required request fields is absent.
	ErrIncompleteRequest = errors.New("incomplete trip request")

	// ErrMalformedPlan is returned when a 200 response fails the
	// client-side structural checks. No partial plan is ever surfaced.
	ErrMalformedPlan = errors.New("malformed trip plan response")
)

// APIError carries the server's error body for a non-success status.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (status %d): %s", e.Message, e.StatusCode, e.Details)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateTrip submits the request and returns the validated structured
// plan. The call is at-most-once: no retry on any failure.
func (c *Client) GenerateTrip(ctx context.Context, req types.TripRequest) (*types.TripPlan, error) {
	body, err := c.post(ctx, "/api/generate-trip", req)
	if err != nil {
		return nil, err
	}

	var plan types.TripPlan
	if err := json.Unmarshal(body, &plan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPlan, err)
	}
	if err := validatePlanShape(&plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// GenerateTripText submits the request against the free-text variant and
// returns the prose itinerary.
func (c *Client) GenerateTripText(ctx context.Context, req types.TripRequest) (string, error) {
	body, err := c.post(ctx, "/api/generate-trip/text", req)
	if err != nil {
		return "", err
	}

	var result types.TripPlanText
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedPlan, err)
	}
	if result.TripPlan == "" {
		return "", fmt.Errorf("%w: empty tripPlan", ErrMalformedPlan)
	}
	return result.TripPlan, nil
}

func (c *Client) post(ctx context.Context, path string, req types.TripRequest) ([]byte, error) {
	if missing := req.MissingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrIncompleteRequest, strings.Join(missing, ", "))
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode trip request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build trip request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("trip request failed: %w", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp.StatusCode, buf.Bytes())
	}
	return buf.Bytes(), nil
}

// decodeAPIError surfaces the body's error message, falling back to a
// generic one when the body is not parsable.
func decodeAPIError(status int, body []byte) *APIError {
	var errBody struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(body, &errBody); err != nil || errBody.Error == "" {
		return &APIError{StatusCode: status, Message: "Failed to generate trip plan"}
	}
	return &APIError{StatusCode: status, Message: errBody.Error, Details: errBody.Details}
}

// validatePlanShape re-checks the structural invariants the client relies
// on for rendering. A violation fails the whole call even though the
// HTTP layer reported success.
func validatePlanShape(plan *types.TripPlan) error {
	if len(plan.Hotels) == 0 {
		return fmt.Errorf("%w: hotels list is empty", ErrMalformedPlan)
	}
	if len(plan.Itinerary.DailyPlans) == 0 {
		return fmt.Errorf("%w: itinerary has no daily plans", ErrMalformedPlan)
	}
	for i, dp := range plan.Itinerary.DailyPlans {
		if len(dp.Activities) == 0 {
			return fmt.Errorf("%w: day %d has no activities", ErrMalformedPlan, i+1)
		}
		if len(dp.Meals) == 0 {
			return fmt.Errorf("%w: day %d has no meals", ErrMalformedPlan, i+1)
		}
	}
	return nil
}

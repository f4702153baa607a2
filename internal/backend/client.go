// Package backend talks to the marketplace API on behalf of a professional.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/probook/prodash/pkg/models"
)

// Scope identifies whose data is fetched and from where.
type Scope struct {
	BaseURL string `validate:"required,url"`
	UserID  string `validate:"required"`
}

var validate = validator.New()

// Validate reports whether the scope is complete enough to start the app.
// An empty user id at load time is handled downstream as a silent no-op; this
// check exists to fail fast on startup misconfiguration.
func (s Scope) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid backend scope: %w", err)
	}
	return nil
}

// Client fetches request and booking datasets over HTTP. It deliberately
// enforces no timeout of its own; cancellation comes from the caller's
// context and the transport's defaults apply otherwise.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given backend base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{},
	}
}

// FetchRequests loads the professional's service requests.
func (c *Client) FetchRequests(ctx context.Context, userID string) ([]models.ServiceRequest, error) {
	body, err := c.get(ctx, "/api/pro/requests", userID)
	if err != nil {
		return nil, err
	}
	return decodeRequests(body), nil
}

// FetchBookings loads the professional's bookings.
func (c *Client) FetchBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	body, err := c.get(ctx, "/api/pro/bookings", userID)
	if err != nil {
		return nil, err
	}
	return decodeBookings(body), nil
}

func (c *Client) get(ctx context.Context, path, userID string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s%s?userId=%s", c.baseURL, path, url.QueryEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("backend returned %d for %s", resp.StatusCode, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", path, err)
	}
	return body, nil
}

// decodeRequests normalizes a requests payload: a bare array, an object with
// a "requests" field, or anything malformed, which degrades to an empty set.
func decodeRequests(body []byte) []models.ServiceRequest {
	var bare []models.ServiceRequest
	if err := json.Unmarshal(body, &bare); err == nil {
		return nonNilRequests(bare)
	}
	var wrapped struct {
		Requests []models.ServiceRequest `json:"requests"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil {
		return nonNilRequests(wrapped.Requests)
	}
	return []models.ServiceRequest{}
}

// decodeBookings mirrors decodeRequests for the bookings endpoint.
func decodeBookings(body []byte) []models.Booking {
	var bare []models.Booking
	if err := json.Unmarshal(body, &bare); err == nil {
		return nonNilBookings(bare)
	}
	var wrapped struct {
		Bookings []models.Booking `json:"bookings"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil {
		return nonNilBookings(wrapped.Bookings)
	}
	return []models.Booking{}
}

func nonNilRequests(rs []models.ServiceRequest) []models.ServiceRequest {
	if rs == nil {
		return []models.ServiceRequest{}
	}
	return rs
}

func nonNilBookings(bs []models.Booking) []models.Booking {
	if bs == nil {
		return []models.Booking{}
	}
	return bs
}

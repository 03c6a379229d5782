package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/wayfarer-backend/internal/booking"
	pkgerrors "github.com/angelmondragon/wayfarer-backend/pkg/errors"
)

const (
	defaultTimeout                = 10 * time.Second
	responseBodyReadLimit   int64 = 4096
	createBookingPath             = "bookings"
	fallbackRejectedMessage       = "booking was rejected"
)

var errBaseURLRequired = errors.New("booking api base url is required")

// Submitter creates bookings on the external booking API.
type Submitter interface {
	CreateBooking(ctx context.Context, sub booking.Submission) (*Confirmation, error)
}

// Confirmation is the created record returned by the booking API. Raw keeps
// the full body for fields this service does not model.
type Confirmation struct {
	ID        string          `json:"id"`
	Reference string          `json:"reference,omitempty"`
	Status    string          `json:"status,omitempty"`
	Raw       json.RawMessage `json:"-"`
}

// Client posts submissions to {baseURL}/bookings.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithToken sends the value as a bearer token on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithTimeout bounds each request when the default HTTP client is in use.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// CreateBooking submits one booking. A 4xx answer becomes a validation error
// carrying the API's message; anything else that is not 2xx, and transport
// failures, become dependency errors.
func (c *Client) CreateBooking(ctx context.Context, sub booking.Submission) (*Confirmation, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "booking api client not configured")
	}

	payload, err := json.Marshal(sub)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal booking submission")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+createBookingPath, bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build booking request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "booking api unreachable")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return decodeConfirmation(resp.Body)
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, rejectionMessage(body)).
			WithDetails(map[string]any{"status": resp.StatusCode})
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), "booking request failed")
}

func decodeConfirmation(r io.Reader) (*Confirmation, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read booking response")
	}
	out := &Confirmation{Raw: json.RawMessage(raw)}
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode booking response")
	}
	return out, nil
}

func rejectionMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
		return strings.TrimSpace(payload.Message)
	}
	return fallbackRejectedMessage
}

// Package maxapi provides a thin client for the Max messaging platform HTTP API.
package maxapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the production Max platform API endpoint.
	DefaultBaseURL = "https://platform-api.max.ru"

	// APIVersion is sent as the "v" query parameter on message sends;
	// without it the API may answer 403.
	APIVersion = "1.2.5"

	pathMe       = "/me"
	pathMessages = "/messages"

	meTimeout   = 10 * time.Second
	sendTimeout = 15 * time.Second

	maxResponseBytes = 1 << 20 // prevent unbounded reads from API responses
)

// ErrUnauthorized is returned by Me when the API rejects the access token.
var ErrUnauthorized = errors.New("max: invalid access token")

// StatusError is returned when the API answers with an unexpected status.
type StatusError struct {
	Status int
	Body   string
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("max: API returned status %d", e.Status)
}

// TransportError wraps a network-level failure reaching the API.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("max: request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPClient allows mocking HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the Max platform API on behalf of one access token.
type Client struct {
	httpClient HTTPClient
	baseURL    string
	token      string
}

// New creates a new Max API client.
func New(token string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: DefaultBaseURL,
		token:   token,
	}
}

// NewWithClient creates a new Max API client with a custom HTTP client and
// base URL.
func NewWithClient(token string, httpClient HTTPClient, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      token,
	}
}

// sendMessageRequest is the request body for the Max send-message API.
type sendMessageRequest struct {
	Text string `json:"text"`
}

// Me checks the access token against GET /me. It returns nil when the token
// is accepted, ErrUnauthorized on 401, a *StatusError on any other non-200
// status and a *TransportError on network failure.
func (c *Client) Me(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, meTimeout)
	defer cancel()

	url := c.baseURL + pathMe

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating /me request: %w", err)
	}
	req.Header.Set("Authorization", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		return &StatusError{
			Status: resp.StatusCode,
			Body:   string(body),
			URL:    url,
		}
	}
}

// SendMessage posts text to the given recipient. recipientParam is the query
// parameter name identifying the recipient kind ("user_id" or "chat_id").
// The recipient and API version travel in the query string; the body carries
// only the text.
func (c *Client) SendMessage(ctx context.Context, recipientParam string, recipientID int64, text string) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	url := fmt.Sprintf("%s%s?%s=%d&v=%s", c.baseURL, pathMessages, recipientParam, recipientID, APIVersion)

	jsonBody, err := json.Marshal(sendMessageRequest{Text: text})
	if err != nil {
		return fmt.Errorf("marshaling message body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("creating /messages request: %w", err)
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		return &StatusError{
			Status: resp.StatusCode,
			Body:   string(body),
			URL:    url,
		}
	}

	return nil
}

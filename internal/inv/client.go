package inv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dhruv-4604/inventory-cli/internal/listview"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Colors for terminal output
const (
	Red    = "\033[0;31m"
	Green  = "\033[0;32m"
	Yellow = "\033[1;33m"
	Blue   = "\033[0;34m"
	Cyan   = "\033[0;36m"
	Reset  = "\033[0m"
)

// Client handles API requests
type Client struct {
	Config     *Config
	HTTPClient *http.Client
	Log        *logrus.Logger
}

// APIError is a response with an HTTP error status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// NewClient creates a new API client
func NewClient(config *Config, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = NopLogger()
	}
	return &Client{
		Config: config,
		HTTPClient: &http.Client{
			Timeout: config.Timeout(),
		},
		Log: logger,
	}
}

// Request makes an API request and returns the response payload, unwrapped
// from {"data": ...} when the backend uses that envelope.
func (c *Client) Request(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	fullURL := c.Config.APIURL + "/" + strings.TrimLeft(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Config.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.Config.APIToken)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		err = fmt.Errorf("request failed: %w", err)
		LogError(c.Log, "client", "Request", method+" "+fullURL, requestID, err)
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.Log.WithFields(logrus.Fields{
		"method":     method,
		"url":        fullURL,
		"status":     resp.StatusCode,
		"duration":   time.Since(start).String(),
		"request_id": requestID,
	}).Debug("api request")

	result, err := parseAPIResponse(resp.StatusCode, respBody)
	if err != nil {
		LogError(c.Log, "client", "Request", method+" "+fullURL, requestID, err)
		return nil, err
	}
	return result, nil
}

// parseAPIResponse maps an HTTP response to its payload or an *APIError.
func parseAPIResponse(status int, body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)

	if status >= 400 {
		msg := http.StatusText(status)
		var envelope map[string]any
		if json.Unmarshal(trimmed, &envelope) == nil {
			for _, key := range []string{"message", "error"} {
				if s, ok := envelope[key].(string); ok && s != "" {
					msg = s
					break
				}
			}
		} else if len(trimmed) > 0 && len(trimmed) <= 200 {
			msg = string(trimmed)
		}
		return nil, &APIError{StatusCode: status, Message: msg}
	}

	if len(trimmed) == 0 {
		return nil, nil
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("failed to parse response: %.200s", trimmed)
	}

	if trimmed[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err == nil {
			if data, ok := envelope["data"]; ok {
				return data, nil
			}
		}
	}
	return json.RawMessage(trimmed), nil
}

func itemPath(res *Resource, id string) string {
	return res.Path() + "/" + url.PathEscape(id)
}

// List fetches every record of a collection.
func (c *Client) List(ctx context.Context, res *Resource) ([]listview.Record, error) {
	raw, err := c.Request(ctx, http.MethodGet, res.Path(), nil)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", res.Name, err)
	}
	if raw == nil {
		return []listview.Record{}, nil
	}
	return res.decodeList(raw)
}

// Get fetches one record.
func (c *Client) Get(ctx context.Context, res *Resource, id string) (listview.Record, error) {
	raw, err := c.Request(ctx, http.MethodGet, itemPath(res, id), nil)
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", res.Singular, id, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("get %s %s: empty response", res.Singular, id)
	}
	return res.decodeOne(raw)
}

// Create posts a new record. The backend may answer without a body, in which
// case the returned record is nil.
func (c *Client) Create(ctx context.Context, res *Resource, payload map[string]any) (listview.Record, error) {
	raw, err := c.Request(ctx, http.MethodPost, res.Path(), payload)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", res.Singular, err)
	}
	if raw == nil {
		return nil, nil
	}
	return res.decodeOne(raw)
}

// Update replaces the given fields of a record.
func (c *Client) Update(ctx context.Context, res *Resource, id string, payload map[string]any) (listview.Record, error) {
	raw, err := c.Request(ctx, http.MethodPut, itemPath(res, id), payload)
	if err != nil {
		return nil, fmt.Errorf("update %s %s: %w", res.Singular, id, err)
	}
	if raw == nil {
		return nil, nil
	}
	return res.decodeOne(raw)
}

// Delete removes a record.
func (c *Client) Delete(ctx context.Context, res *Resource, id string) error {
	if _, err := c.Request(ctx, http.MethodDelete, itemPath(res, id), nil); err != nil {
		return fmt.Errorf("delete %s %s: %w", res.Singular, id, err)
	}
	return nil
}

// fetchAll decodes a whole collection into typed entities.
func fetchAll[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	raw, err := c.Request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var rows []T
	if raw == nil {
		return rows, nil
	}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return rows, nil
}

// SalesOrder fetches one sales order with its lines.
func (c *Client) SalesOrder(ctx context.Context, id string) (*SalesOrder, error) {
	raw, err := c.Request(ctx, http.MethodGet, "sales-orders/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("get sales order %s: %w", id, err)
	}
	var so SalesOrder
	if err := json.Unmarshal(raw, &so); err != nil {
		return nil, fmt.Errorf("failed to parse sales order %s: %w", id, err)
	}
	return &so, nil
}

// Customer fetches one customer by id.
func (c *Client) Customer(ctx context.Context, id string) (*Customer, error) {
	raw, err := c.Request(ctx, http.MethodGet, "customers/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("get customer %s: %w", id, err)
	}
	var cu Customer
	if err := json.Unmarshal(raw, &cu); err != nil {
		return nil, fmt.Errorf("failed to parse customer %s: %w", id, err)
	}
	return &cu, nil
}

// Ping checks that the backend answers a list request and reports the round trip.
func (c *Client) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if _, err := c.Request(ctx, http.MethodGet, "items", nil); err != nil {
		return 0, fmt.Errorf("connection failed: %w", err)
	}
	return time.Since(start), nil
}

package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxErrorBody caps how much of an upstream error response is kept for diagnostics.
const maxErrorBody = 4 << 10

// Order is the order-service record the relay joins payments against.
type Order struct {
	ID          string     `json:"id"`
	OrderNumber int64      `json:"orderNumber"`
	LineItems   []LineItem `json:"lineItems"`
}

// LineItem is a single purchased line on an order.
type LineItem struct {
	ProductName string `json:"productName"`
}

// FetchError reports a non-2xx response from the order service.
type FetchError struct {
	StatusCode int
	Status     string
	Body       string
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("orders: fetch failed: %s: %s", e.Status, e.Body)
}

// Client reads orders from the order service.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// NewClient constructs an order-service client with the given request
// timeout. Outbound reads are traced so they join the request span.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		APIKey:  apiKey,
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Get fetches a single order by id.
func (c *Client) Get(ctx context.Context, orderID string) (Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return Order{}, errors.New("orders: order id is required")
	}
	endpoint := fmt.Sprintf("%s/%s", strings.TrimRight(c.BaseURL, "/"), url.PathEscape(orderID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Order{}, fmt.Errorf("orders: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Order{}, fmt.Errorf("orders: request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return Order{}, &FetchError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return Order{}, fmt.Errorf("orders: decode response: %w", err)
	}
	return order, nil
}

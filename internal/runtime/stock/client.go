// Package stock queries the external stock-management API for product
// availability.
package stock

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fiberline/orderflow/internal/runtime/jsoncodec"
)

// Status is the normalised availability of a product model.
type Status string

const (
	StatusInStock    Status = "InStock"
	StatusOutOfStock Status = "OutOfStock"
	StatusLimited    Status = "Limited"
)

// Wire values used by the inventory authority.
const (
	wireInStock    = "In Stock"
	wireOutOfStock = "Out of Stock"
	wireLimited    = "Limited"
)

// subscriptionKeyHeader authenticates against the API gateway fronting the
// stock service.
const subscriptionKeyHeader = "Ocp-Apim-Subscription-Key"

const defaultTimeout = 10 * time.Second

// Result is the outcome of a stock query for one model.
type Result struct {
	Model    string `json:"model"`
	Quantity int    `json:"quantity"`
	Status   Status `json:"status"`
}

// InStock reports whether the model can be fulfilled. Limited availability
// still counts as in stock; partial fulfillment is handled downstream.
func (r Result) InStock() bool {
	return r.Status != StatusOutOfStock
}

// Error classifies stock query failures. Transient failures (network,
// timeout, 5xx) may succeed on retry; permanent ones (malformed response)
// will not.
type Error struct {
	Transient bool
	Err       error
}

func (e *Error) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("stock query (%s): %v", kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func transientErr(err error) error { return &Error{Transient: true, Err: err} }
func permanentErr(err error) error { return &Error{Transient: false, Err: err} }

type stockResponse struct {
	Inventory *struct {
		LastUpdated *string `json:"lastUpdated"`
		Items       []struct {
			Model    string `json:"model"`
			Quantity int    `json:"quantity"`
			Status   string `json:"status"`
		} `json:"items"`
	} `json:"inventory"`
}

// Client queries the inventory authority over HTTP. It is safe for
// concurrent use; the underlying http.Client pools connections.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a stock client for the given API base URL. A zero timeout
// falls back to 10s so a slow inventory service can never stall a worker
// indefinitely.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Query fetches availability for a product model. A model the inventory does
// not list is reported as out of stock with quantity zero, not as an error.
func (c *Client) Query(ctx context.Context, model string) (Result, error) {
	if model == "" {
		return Result{}, permanentErr(errors.New("model is required"))
	}

	endpoint := fmt.Sprintf("%s/stock?model=%s", c.baseURL, url.QueryEscape(model))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{}, permanentErr(err)
	}
	if c.apiKey != "" {
		req.Header.Set(subscriptionKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network failures and timeouts are worth retrying.
		return Result{}, transientErr(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return Result{}, transientErr(fmt.Errorf("stock service returned status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return Result{}, permanentErr(fmt.Errorf("stock service returned status %d", resp.StatusCode))
	}

	var payload stockResponse
	if err := jsoncodec.Decode(resp.Body, &payload); err != nil {
		return Result{}, permanentErr(fmt.Errorf("malformed stock response: %w", err))
	}
	if payload.Inventory == nil || payload.Inventory.LastUpdated == nil || payload.Inventory.Items == nil {
		return Result{}, permanentErr(errors.New("malformed stock response: missing inventory envelope"))
	}

	for _, item := range payload.Inventory.Items {
		if item.Model != model {
			continue
		}
		status, err := parseStatus(item.Status)
		if err != nil {
			return Result{}, permanentErr(err)
		}
		return Result{Model: model, Quantity: item.Quantity, Status: status}, nil
	}

	// Not listed means not stocked. This is an answer, not a failure.
	return Result{Model: model, Quantity: 0, Status: StatusOutOfStock}, nil
}

func parseStatus(wire string) (Status, error) {
	switch wire {
	case wireInStock:
		return StatusInStock, nil
	case wireOutOfStock:
		return StatusOutOfStock, nil
	case wireLimited:
		return StatusLimited, nil
	default:
		return "", fmt.Errorf("unknown stock status %q", wire)
	}
}

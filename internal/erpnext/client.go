package erpnext

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

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/kidusabdula/oskaz-storefront-api/internal/config"
	"github.com/kidusabdula/oskaz-storefront-api/pkg/errors"
)

// Client calls the ERPNext (Frappe) REST API with token auth. Every request
// carries the caller's context and passes through a shared circuit breaker,
// so a wedged ERP instance fails fast instead of holding the checkout open.
type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	logger     *zap.Logger
}

// NewClient creates a new ERPNext REST client
func NewClient(cfg config.ERPNextConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	// Normalize base URL - remove trailing slashes
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "erpnext",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// Missing documents are an answer, not an outage.
			_, notFound := err.(*errors.ErrNotFound)
			return notFound
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("ERPNext circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		breaker:    breaker,
		logger:     logger,
	}
}

// ListOptions narrows a document list request. Filters use Frappe's triple
// form: [field, operator, value].
type ListOptions struct {
	Fields  []string
	Filters [][3]any
	OrderBy string
	Limit   int
}

// frappeEnvelope is the {"data": ...} wrapper Frappe puts around every
// resource response.
type frappeEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// GetDoc fetches a single document by doctype and name into out.
func (c *Client) GetDoc(ctx context.Context, doctype, name string, out any) error {
	path := "/api/resource/" + url.PathEscape(doctype) + "/" + url.PathEscape(name)
	body, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	return unwrap(body, out)
}

// ListDocs fetches documents of the given doctype into out (a pointer to a
// slice).
func (c *Client) ListDocs(ctx context.Context, doctype string, opts ListOptions, out any) error {
	q := url.Values{}
	if len(opts.Fields) > 0 {
		fields, err := json.Marshal(opts.Fields)
		if err != nil {
			return fmt.Errorf("failed to marshal fields: %w", err)
		}
		q.Set("fields", string(fields))
	}
	if len(opts.Filters) > 0 {
		filters, err := json.Marshal(opts.Filters)
		if err != nil {
			return fmt.Errorf("failed to marshal filters: %w", err)
		}
		q.Set("filters", string(filters))
	}
	if opts.OrderBy != "" {
		q.Set("order_by", opts.OrderBy)
	}
	if opts.Limit > 0 {
		q.Set("limit_page_length", fmt.Sprintf("%d", opts.Limit))
	}

	path := "/api/resource/" + url.PathEscape(doctype)
	body, err := c.do(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return err
	}
	return unwrap(body, out)
}

// CreateDoc inserts a new document and decodes the created record into out
// (pass nil to discard it).
func (c *Client) CreateDoc(ctx context.Context, doctype string, doc any, out any) error {
	path := "/api/resource/" + url.PathEscape(doctype)
	body, err := c.do(ctx, http.MethodPost, path, nil, doc)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return unwrap(body, out)
}

// FetchFile streams a backend file (e.g. a product image) from ERPNext.
// The caller must close the returned body. File requests bypass the
// breaker: a missing image must not trip checkout traffic.
func (c *Client) FetchFile(ctx context.Context, filePath string) (io.ReadCloser, string, error) {
	if !strings.HasPrefix(filePath, "/") {
		filePath = "/" + filePath
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+filePath, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch file: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, "", &errors.ErrNotFound{Resource: "file", ID: filePath}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", fmt.Errorf("erpnext file fetch returned %d for %s", resp.StatusCode, filePath)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	return c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", c.authHeader())
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to execute request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode == http.StatusNotFound {
			return nil, &errors.ErrNotFound{Resource: "document", ID: path}
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("erpnext API error: status %d, body: %s", resp.StatusCode, string(body))
		}
		return body, nil
	})
}

func (c *Client) authHeader() string {
	return "token " + c.apiKey + ":" + c.apiSecret
}

func unwrap(body []byte, out any) error {
	var envelope frappeEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response data: %w", err)
	}
	return nil
}

// Package rest implements the remote catalog collaborator over HTTP/JSON.
// The remote service owns product identifiers; this client only transports.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/CursosTech/cursoteca/internal/domain/catalog"
)

// resourcePath is the fixed base resource of the remote catalog.
const resourcePath = "/productos"

// defaultTimeout bounds catalog requests when no custom client is supplied.
const defaultTimeout = 10 * time.Second

// Client talks to the remote catalog REST service. Requests are attempted
// exactly once: no retries, no backoff. In-flight requests are not aborted
// when the caller's view goes away; cancellation only happens through the
// caller's context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewClient creates a catalog client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: defaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

// List fetches the full product list.
func (c *Client) List(ctx context.Context) ([]catalog.Product, error) {
	var out []catalog.Product
	if err := c.doRequest(ctx, http.MethodGet, resourcePath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches a single product by identifier.
func (c *Client) Get(ctx context.Context, id string) (catalog.Product, error) {
	var out catalog.Product
	if err := c.doRequest(ctx, http.MethodGet, resourcePath+"/"+url.PathEscape(id), nil, &out); err != nil {
		return catalog.Product{}, err
	}
	return out, nil
}

// Create sends a draft; the response carries the assigned identifier.
func (c *Client) Create(ctx context.Context, draft catalog.Draft) (catalog.Product, error) {
	var out catalog.Product
	if err := c.doRequest(ctx, http.MethodPost, resourcePath, draft, &out); err != nil {
		return catalog.Product{}, err
	}
	return out, nil
}

// Update sends the merged record and returns the remote-confirmed version.
func (c *Client) Update(ctx context.Context, id string, record catalog.Product) (catalog.Product, error) {
	var out catalog.Product
	if err := c.doRequest(ctx, http.MethodPut, resourcePath+"/"+url.PathEscape(id), record, &out); err != nil {
		return catalog.Product{}, err
	}
	return out, nil
}

// Delete removes a product by identifier.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.doRequest(ctx, http.MethodDelete, resourcePath+"/"+url.PathEscape(id), nil, nil)
}

// doRequest performs one HTTP request against the remote catalog. Any
// non-2xx status is a failure; there is no status-code-specific handling.
func (c *Client) doRequest(ctx context.Context, method, path string, body any, result any) (retErr error) {
	if c.tracer != nil {
		var span trace.Span
		ctx, span = c.tracer.Start(ctx, "catalog.request",
			trace.WithAttributes(
				attribute.String("http.method", method),
				attribute.String("http.path", path),
			),
		)
		defer func() {
			if retErr != nil {
				span.SetStatus(codes.Error, retErr.Error())
			}
			span.End()
		}()
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug("catalog request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("catalog request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return &APIError{
			StatusCode: httpResp.StatusCode,
			Body:       string(respBody),
		}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// Compile-time interface verification.
var _ catalog.Client = (*Client)(nil)

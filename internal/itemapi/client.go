// Package itemapi is the only code in tada that talks to the item REST API.
package itemapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Makepad-fr/tada/internal/model"
)

// RequestIDHeader carries a per-request id so client and backend logs line up.
const RequestIDHeader = "X-Request-ID"

// maxBody caps how much of a response is read.
const maxBody = 4 << 20

// Client issues single-shot requests against a fixed item endpoint.
// There is no retry and no caching; failures are returned to the caller as-is.
type Client struct {
	base   string
	http   *http.Client
	logger *log.Logger
	newID  func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a client for baseURL, e.g. http://localhost:8080/api/v1/items.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("base url: want an absolute http(s) URL, got %q", baseURL)
	}
	c := &Client{
		base:   strings.TrimRight(u.String(), "/"),
		http:   &http.Client{},
		logger: log.New(io.Discard),
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the endpoint the client talks to.
func (c *Client) BaseURL() string { return c.base }

// List fetches every item, in backend order.
func (c *Client) List(ctx context.Context) ([]model.Item, error) {
	body, err := c.do(ctx, "list", http.MethodGet, c.base, nil)
	if err != nil {
		return nil, err
	}
	if err := validate(listSchema, body); err != nil {
		return nil, &DecodeError{Op: "list", Err: err}
	}
	var items []model.Item
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, &DecodeError{Op: "list", Err: err}
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// Create submits item without its id. The response body is returned untouched.
func (c *Client) Create(ctx context.Context, item model.Item) (json.RawMessage, error) {
	body, err := c.do(ctx, "create", http.MethodPost, c.base, item.Draft())
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// Get fetches one item. A missing id yields an error matching ErrNotFound.
func (c *Client) Get(ctx context.Context, id int64) (model.Item, error) {
	body, err := c.do(ctx, "get", http.MethodGet, c.itemURL(id), nil)
	if err != nil {
		return model.Item{}, err
	}
	if err := validate(itemSchema, body); err != nil {
		return model.Item{}, &DecodeError{Op: "get", Err: err}
	}
	var it model.Item
	if err := json.Unmarshal(body, &it); err != nil {
		return model.Item{}, &DecodeError{Op: "get", Err: err}
	}
	return it, nil
}

// Update replaces the item stored at id. The response body is returned untouched.
func (c *Client) Update(ctx context.Context, id int64, item model.Item) (json.RawMessage, error) {
	body, err := c.do(ctx, "update", http.MethodPut, c.itemURL(id), item)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// Delete finishes (removes) the item at id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	_, err := c.do(ctx, "delete", http.MethodDelete, c.itemURL(id), nil)
	return err
}

func (c *Client) itemURL(id int64) string {
	return c.base + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, op, method, target string, in any) ([]byte, error) {
	var payload io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("%s: json marshal: %w", op, err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, fmt.Errorf("%s: new request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rid := c.newID()
	req.Header.Set(RequestIDHeader, rid)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "op", op, "method", method, "url", target, "request_id", rid, "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}
	c.logger.Debug("request",
		"op", op,
		"method", method,
		"url", target,
		"status", resp.StatusCode,
		"request_id", rid,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Op:         op,
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Message:    messageFrom(body),
		}
	}
	if op == "create" || op == "update" {
		c.logger.Debug("response", "op", op, "body", string(body))
	}
	return body, nil
}

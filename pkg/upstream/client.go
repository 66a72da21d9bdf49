// Package upstream is the HTTP client for the school API that owns students,
// payments, inventory and workshops. Every failure is classified into the
// network, rejection or data-shape taxonomy of pkg/errors.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/school-admin-gateway/pkg/errors"
	"github.com/noah-isme/school-admin-gateway/pkg/middleware/requestid"
)

const maxErrorBody = 4 << 10

// Observer receives one observation per completed upstream call.
type Observer interface {
	ObserveUpstream(method, route string, status int, duration time.Duration)
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Observer   Observer
	Logger     *zap.Logger
}

// Client issues JSON requests against the school API.
type Client struct {
	baseURL  string
	timeout  time.Duration
	http     *http.Client
	observer Observer
	logger   *zap.Logger
}

// Request describes one call. Route is the path template used as a metrics
// label, e.g. "/payments/{id}"; it defaults to Path.
type Request struct {
	Method string
	Path   string
	Route  string
	Query  url.Values
	Body   interface{}
}

// New constructs a Client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		timeout:  timeout,
		http:     httpClient,
		observer: cfg.Observer,
		logger:   logger,
	}
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get decodes the response of a GET into out.
func (c *Client) Get(ctx context.Context, path, route string, query url.Values, out interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Route: route, Query: query}, out)
}

// Post sends body as JSON and decodes the response into out when non-nil.
func (c *Client) Post(ctx context.Context, path, route string, query url.Values, body, out interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Route: route, Query: query, Body: body}, out)
}

// Put sends body as JSON and decodes the response into out when non-nil.
func (c *Client) Put(ctx context.Context, path, route string, body, out interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Route: route, Body: body}, out)
}

// Delete issues a DELETE and discards the response body.
func (c *Client) Delete(ctx context.Context, path, route string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path, Route: route}, nil)
}

// Do performs req within the client timeout and decodes a 2xx body into out.
func (c *Client) Do(ctx context.Context, req Request, out interface{}) error {
	route := req.Route
	if route == "" {
		route = req.Path
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build upstream request")
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.observe(req.Method, route, 0, time.Since(start))
		c.logger.Warn("upstream request failed",
			zap.String("method", req.Method),
			zap.String("route", route),
			zap.Error(err),
		)
		return appErrors.Wrap(err, appErrors.ErrNetworkFailure.Code, appErrors.ErrNetworkFailure.Status, networkMessage(err))
	}
	defer resp.Body.Close() //nolint:errcheck
	c.observe(req.Method, route, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		detail := extractDetail(raw)
		c.logger.Warn("upstream rejected request",
			zap.String("method", req.Method),
			zap.String("route", route),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", detail),
		)
		return appErrors.Rejection(resp.StatusCode, detail)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return appErrors.Wrap(ctxErr, appErrors.ErrNetworkFailure.Code, appErrors.ErrNetworkFailure.Status, networkMessage(ctxErr))
		}
		c.logger.Warn("upstream response shape mismatch",
			zap.String("method", req.Method),
			zap.String("route", route),
			zap.Error(err),
		)
		return appErrors.Wrap(err, appErrors.ErrDataShape.Code, appErrors.ErrDataShape.Status,
			fmt.Sprintf("%s from %s %s", appErrors.ErrDataShape.Message, req.Method, route))
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if id := requestid.FromContext(ctx); id != "" {
		httpReq.Header.Set(requestid.HeaderKey, id)
	}
	return httpReq, nil
}

func (c *Client) observe(method, route string, status int, d time.Duration) {
	if c.observer != nil {
		c.observer.ObserveUpstream(method, route, status, d)
	}
}

func networkMessage(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "upstream request timed out"
	case errors.Is(err, context.Canceled):
		return "upstream request cancelled"
	default:
		return appErrors.ErrNetworkFailure.Message
	}
}

// extractDetail pulls the message out of an error body. The school API answers
// with {"detail": "..."} or, for validation errors, {"detail": [{"msg": ...}]}.
func extractDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return strings.TrimSpace(string(raw))
	}

	var text string
	if err := json.Unmarshal(body.Detail, &text); err == nil {
		return text
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return strings.TrimSpace(string(body.Detail))
}

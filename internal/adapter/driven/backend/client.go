// Package backend implements the BackendClient port against the work-order
// REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/gregjones/httpcache"

	"github.com/jcastellan/workpanel/internal/domain/model"
	"github.com/jcastellan/workpanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.BackendClient = (*Client)(nil)

// Client implements the driven.BackendClient port over plain JSON/HTTP.
// Requests carry the bearer token from the configured TokenSource when one
// is present; the token exchange itself never does.
type Client struct {
	http    *http.Client
	baseURL string // always ends with "/"

	mu     sync.RWMutex
	tokens driven.TokenSource
}

// NewClient creates a Client for the given base API path with an ETag-based
// caching transport (conditional requests for list/detail GETs).
func NewClient(baseURL string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()

	return &Client{
		http:    &http.Client{Transport: cacheTransport},
		baseURL: normalizeBase(baseURL),
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
// This constructor is intended for testing, allowing injection of an
// httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		http:    httpClient,
		baseURL: normalizeBase(baseURL),
	}
}

// SetTokenSource attaches the source of the session bearer token. Called
// once at wiring time; a nil source means requests go out unauthenticated.
func (c *Client) SetTokenSource(ts driven.TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = ts
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

func normalizeBase(baseURL string) string {
	if baseURL == "" || baseURL[len(baseURL)-1] == '/' {
		return baseURL
	}
	return baseURL + "/"
}

// tokenResponse is the success shape of the token exchange endpoint.
type tokenResponse struct {
	Access string `json:"access"`
}

// Login exchanges a username and password for a bearer token. This is the
// one request that never carries an Authorization header.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}

	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "auth/token/", nil, body, &resp, false); err != nil {
		return "", err
	}
	if resp.Access == "" {
		return "", &model.APIError{Kind: model.KindOperationFailed, Message: "token endpoint returned no access token"}
	}
	return resp.Access, nil
}

// ListWorkOrders fetches one page of work orders, optionally filtered by
// status.
func (c *Client) ListWorkOrders(ctx context.Context, status model.WorkOrderStatus, page int) (model.Page[model.WorkOrder], error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}
	return listResource[model.WorkOrder](ctx, c, "workorders/", query, page)
}

// GetWorkOrder fetches a single work order by id.
func (c *Client) GetWorkOrder(ctx context.Context, id int64) (*model.WorkOrder, error) {
	var wo model.WorkOrder
	path := fmt.Sprintf("workorders/%d/", id)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &wo, true); err != nil {
		return nil, err
	}
	return &wo, nil
}

// CreateWorkOrder creates a work order and returns the backend's
// representation of it.
func (c *Client) CreateWorkOrder(ctx context.Context, fields model.WorkOrderFields) (*model.WorkOrder, error) {
	var wo model.WorkOrder
	if err := c.do(ctx, http.MethodPost, "workorders/", nil, fields, &wo, true); err != nil {
		return nil, err
	}
	return &wo, nil
}

// UpdateWorkOrder applies a partial update. The returned entity is the
// backend's post-update representation, which replaces any local copy.
func (c *Client) UpdateWorkOrder(ctx context.Context, id int64, patch model.WorkOrderPatch) (*model.WorkOrder, error) {
	var wo model.WorkOrder
	path := fmt.Sprintf("workorders/%d/", id)
	if err := c.do(ctx, http.MethodPatch, path, nil, patch, &wo, true); err != nil {
		return nil, err
	}
	return &wo, nil
}

// DeleteWorkOrder removes a work order. Success has no body.
func (c *Client) DeleteWorkOrder(ctx context.Context, id int64) error {
	path := fmt.Sprintf("workorders/%d/", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, true)
}

// ListInspections fetches one page of inspections scoped to a work order.
func (c *Client) ListInspections(ctx context.Context, workOrder int64, page int) (model.Page[model.Inspection], error) {
	query := url.Values{}
	query.Set("work_order", strconv.FormatInt(workOrder, 10))
	return listResource[model.Inspection](ctx, c, "inspections/", query, page)
}

// CreateInspection creates an inspection scoped to its work order.
func (c *Client) CreateInspection(ctx context.Context, fields model.InspectionFields) (*model.Inspection, error) {
	var ins model.Inspection
	if err := c.do(ctx, http.MethodPost, "inspections/", nil, fields, &ins, true); err != nil {
		return nil, err
	}
	return &ins, nil
}

// UpdateInspection applies a partial update to an inspection.
func (c *Client) UpdateInspection(ctx context.Context, id int64, patch model.InspectionPatch) (*model.Inspection, error) {
	var ins model.Inspection
	path := fmt.Sprintf("inspections/%d/", id)
	if err := c.do(ctx, http.MethodPatch, path, nil, patch, &ins, true); err != nil {
		return nil, err
	}
	return &ins, nil
}

// DeleteInspection removes an inspection.
func (c *Client) DeleteInspection(ctx context.Context, id int64) error {
	path := fmt.Sprintf("inspections/%d/", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, true)
}

// listResource issues a list request and normalizes the response shape.
func listResource[T any](ctx context.Context, c *Client, path string, query url.Values, page int) (model.Page[T], error) {
	if page < 1 {
		page = 1
	}
	query.Set("page", strconv.Itoa(page))

	raw, err := c.doRaw(ctx, http.MethodGet, path, query, nil, true)
	if err != nil {
		return model.Page[T]{}, err
	}
	return decodeCollection[T](raw)
}

// envelope is the paginated list shape: items plus total count and cursors.
type envelope[T any] struct {
	Results  []T     `json:"results"`
	Count    *int    `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// decodeCollection resolves the backend's list-response union — a bare JSON
// array or a paginated envelope — into a uniform Page. This is the only
// place in the codebase that inspects the response shape.
func decodeCollection[T any](raw []byte) (model.Page[T], error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return model.Page[T]{}, fmt.Errorf("decode list body: %w", err)
		}
		if items == nil {
			items = []T{}
		}
		return model.Page[T]{Items: items}, nil
	}

	var env envelope[T]
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return model.Page[T]{}, fmt.Errorf("decode list envelope: %w", err)
	}
	if env.Results == nil {
		env.Results = []T{}
	}
	return model.Page[T]{
		Items:   env.Results,
		Count:   env.Count,
		HasNext: env.Next != nil,
		HasPrev: env.Previous != nil,
	}, nil
}

// do issues a request and decodes a JSON success body into out (skipped when
// out is nil or the response has no content).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, auth bool) error {
	raw, err := c.doRaw(ctx, method, path, query, body, auth)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// doRaw issues a request and returns the success body bytes. Every non-2xx
// response is turned into a classified *model.APIError.
func (c *Client) doRaw(ctx context.Context, method, path string, query url.Values, body any, auth bool) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	slog.Debug("backend api call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"bytes", len(raw),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classify(resp.StatusCode, raw)
	}
	return raw, nil
}

// classify maps a non-2xx response to the tagged error taxonomy. Field
// validation bodies ({"field": ["msg", ...]}) keep their per-field messages;
// other shapes fall back to the "detail" message or a generic summary.
func classify(status int, body []byte) *model.APIError {
	apiErr := &model.APIError{
		Kind:    model.ClassifyStatus(status),
		Status:  status,
		Message: http.StatusText(status),
	}

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(body, &parsed); err != nil {
		return apiErr
	}

	if detail, ok := parsed["detail"]; ok {
		var msg string
		if json.Unmarshal(detail, &msg) == nil && msg != "" {
			apiErr.Message = msg
		}
		delete(parsed, "detail")
	}

	if apiErr.Kind != model.KindFieldValidation || len(parsed) == 0 {
		return apiErr
	}

	fields := make(map[string][]string, len(parsed))
	for field, raw := range parsed {
		var msgs []string
		if json.Unmarshal(raw, &msgs) == nil {
			fields[field] = msgs
			continue
		}
		var single string
		if json.Unmarshal(raw, &single) == nil {
			fields[field] = []string{single}
		}
	}
	if len(fields) > 0 {
		apiErr.Fields = fields
	}
	return apiErr
}

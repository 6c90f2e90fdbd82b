package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/alderbrook/civicd/internal/model"
	"github.com/alderbrook/civicd/internal/reconcile"
)

// HTTPClient implements AdminClient using the civicd HTTP/JSON API.
type HTTPClient struct {
	baseURL    string
	token      string
	role       string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request. The role claim is sent on every request;
// CLI sessions run as admin.
func NewHTTPClient(baseURL, token, role string) *HTTPClient {
	if role == "" {
		role = model.RoleAdmin.String()
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		role:       role,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

func adminPath(typ model.CollectionType, parts ...string) string {
	p := "/v1/admin/" + url.PathEscape(typ.String())
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

// --- Record CRUD ---

func (c *HTTPClient) Create(ctx context.Context, typ model.CollectionType, fields json.RawMessage) (json.RawMessage, error) {
	return c.doJSON(ctx, http.MethodPost, adminPath(typ), fields)
}

func (c *HTTPClient) Get(ctx context.Context, typ model.CollectionType, id string) (json.RawMessage, error) {
	return c.doJSON(ctx, http.MethodGet, adminPath(typ, id), nil)
}

func (c *HTTPClient) List(ctx context.Context, typ model.CollectionType) (json.RawMessage, error) {
	return c.doJSON(ctx, http.MethodGet, adminPath(typ), nil)
}

func (c *HTTPClient) Update(ctx context.Context, typ model.CollectionType, id string, fields json.RawMessage) (json.RawMessage, error) {
	return c.doJSON(ctx, http.MethodPut, adminPath(typ, id), fields)
}

func (c *HTTPClient) PartialUpdate(ctx context.Context, typ model.CollectionType, id string, patch map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("marshaling patch: %w", err)
	}
	return c.doJSON(ctx, http.MethodPatch, adminPath(typ, id), body)
}

func (c *HTTPClient) Delete(ctx context.Context, typ model.CollectionType, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, adminPath(typ, id), nil)
	return err
}

// --- Keyed sections ---

func (c *HTTPClient) Section(ctx context.Context, typ model.CollectionType, name string) (map[string]any, error) {
	data, err := c.doJSON(ctx, http.MethodGet, adminPath(typ, name), nil)
	if err != nil {
		return nil, err
	}
	var section map[string]any
	if err := json.Unmarshal(data, &section); err != nil {
		return nil, fmt.Errorf("decoding section: %w", err)
	}
	return section, nil
}

func (c *HTTPClient) SaveSection(ctx context.Context, typ model.CollectionType, name string, data map[string]any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling section: %w", err)
	}
	_, err = c.doJSON(ctx, http.MethodPut, adminPath(typ, name), body)
	return err
}

// --- Identity view ---

func (c *HTTPClient) Identities(ctx context.Context) ([]reconcile.MergedView, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/v1/identities", nil)
	if err != nil {
		return nil, err
	}
	var views []reconcile.MergedView
	if err := json.Unmarshal(data, &views); err != nil {
		return nil, fmt.Errorf("decoding identities: %w", err)
	}
	return views, nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil)
	if err != nil {
		return "", err
	}
	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("decoding health: %w", err)
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with an optional JSON body, unwraps the
// {success, message, data} envelope, and returns the data payload.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body json.RawMessage) (json.RawMessage, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("X-Civicd-Role", c.role)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var env struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if resp.StatusCode >= 400 || !env.Success {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	return env.Data, nil
}

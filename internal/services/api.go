package services

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the status is 2xx.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get performs a GET request to the specified path and returns the raw response.
//
// The bearer token is attached when a session is active. Non-2xx statuses are not errors.
func (c *Client) Get(ctx context.Context, path string) (*APIResponse, error) {
	return c.raw(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (c *Client) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return c.raw(ctx, http.MethodPost, path, data)
}

func (c *Client) raw(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	resp, body, err := c.send(ctx, method, path, c.session.Authenticated(), data)
	if err != nil {
		return nil, err
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

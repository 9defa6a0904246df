// ABOUTME: Authenticated HTTP client for the Hearth smart-home cloud.
// ABOUTME: Attaches the bearer credential and classifies failures into the error taxonomy.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Backend endpoint paths, relative to the configured base URL.
const (
	ParamPath   = "/mcp/getMcpData/param"
	ListPath    = "/mcp/getAllDeviceGroupScene"
	OperatePath = "/mcp/sendOperate"
)

// Client issues authenticated requests against the Hearth cloud. It performs
// no retries; every failure propagates synchronously to the caller.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a backend client for the given base URL and bearer token.
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// RequestText performs an authenticated request and returns the raw response
// body verbatim. No parsing or schema enforcement is applied; interpretation
// is the caller's responsibility.
func (c *Client) RequestText(ctx context.Context, method, path string, body any) (string, error) {
	respBody, err := c.do(ctx, method, path, body)
	if err != nil {
		return "", err
	}
	return string(respBody), nil
}

// RequestJSON performs an authenticated request and returns the response body
// after confirming it parses as JSON. The original bytes are returned
// unmodified so well-formed backend responses survive byte-for-byte. A parse
// failure on an otherwise-successful response yields MalformedResponseError.
func (c *Client) RequestJSON(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	respBody, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	if !json.Valid(respBody) {
		return nil, &MalformedResponseError{Body: string(respBody)}
	}

	return json.RawMessage(respBody), nil
}

// do builds and issues one authenticated request, returning the response body
// on a 2xx status and TransportError otherwise.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("backend request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("backend request failed",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
		)
		return nil, &TransportError{Status: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}

package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// connector call timeouts per the resource model: 30 s soft is enforced by
// the shared client, 60 s hard by the caller's context.
const connectorCallTimeout = 30 * time.Second

// classifyHTTPStatus maps a provider response code onto the connector error
// taxonomy.
func classifyHTTPStatus(status int) ConnectorErrorKind {
	switch {
	case status == http.StatusTooManyRequests:
		return ConnectorErrRateLimited
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ConnectorErrAuthExpired
	case status == http.StatusNotFound:
		return ConnectorErrNotFound
	case status >= 500:
		return ConnectorErrTransient
	default:
		return ConnectorErrPermanent
	}
}

// httpClient is the shared connector transport.
type httpClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func newHTTPClient(baseURL, apiKey string) *httpClient {
	return &httpClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: connectorCallTimeout},
	}
}

// doJSON performs a request and returns the raw response body. Non-2xx
// responses become classified connector errors, honoring Retry-After.
func (c *httpClient) doJSON(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, NewConnectorError(ConnectorErrPermanent, "failed to encode request body", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, NewConnectorError(ConnectorErrPermanent, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewConnectorError(ConnectorErrTransient, "request cancelled or timed out", err)
		}
		return nil, NewConnectorError(ConnectorErrTransient, "request failed", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewConnectorError(ConnectorErrTransient, "failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		kind := classifyHTTPStatus(resp.StatusCode)
		connErr := NewConnectorError(kind, fmt.Sprintf("%s %s returned %d", method, path, resp.StatusCode), nil)
		if kind == ConnectorErrRateLimited {
			if seconds, parseErr := strconv.Atoi(resp.Header.Get("Retry-After")); parseErr == nil {
				connErr.RetryAfter = time.Duration(seconds) * time.Second
			}
		}
		return nil, connErr
	}

	return responseBody, nil
}

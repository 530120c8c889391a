package gotrue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// call performs one HTTP request against the GoTrue API and returns the raw
// response body. The bearer token is an explicit per-call argument: an empty
// token falls back to the API key, so no shared header state is ever
// rewritten between calls. Non-2xx responses are parsed into classified
// errors; transport and read failures come back as plain wrapped errors.
func (c *Client) call(
	ctx context.Context,
	method, path, token string,
	body any,
) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("gotrue: rate limiter: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("gotrue: failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("gotrue: failed to create request: %w", err)
	}

	if token == "" {
		token = c.apiKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gotrue: failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gotrue: failed to read response body: %w", err)
	}

	c.logger.DebugContext(ctx, "gotrue request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseErrorResponse(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// callInto performs a request and decodes the JSON response body into
// target. A nil target discards the body.
func (c *Client) callInto(
	ctx context.Context,
	method, path, token string,
	body, target any,
) error {
	respBody, err := c.call(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	if target == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, target); err != nil {
		return fmt.Errorf("gotrue: failed to decode response: %w", err)
	}
	return nil
}

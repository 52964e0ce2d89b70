package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// url builds a complete URL by appending the path to the base URL.
func (c *SDKClient) url(path string) string {
	return c.BaseURL + path
}

// doRequest performs an HTTP request with the SDKClient's HTTP client.
// This is for unauthenticated requests (no Authorization header).
func (c *SDKClient) doRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
	headers map[string]string,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, nil
}

// postJSON sends payload as a JSON body.
func (c *SDKClient) postJSON(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := jsonBody(payload)
	if err != nil {
		return nil, err
	}
	return c.doRequest(ctx, http.MethodPost, path, body, jsonHeaders)
}

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

func jsonBody(payload any) (io.Reader, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return bytes.NewReader(b), nil
}

// doAuthRequest performs an authenticated HTTP request using the session's
// access token, refreshing it first when it is about to expire.
func (s *Session) doAuthRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
	headers map[string]string,
) (*http.Response, error) {
	token, err := s.getValidToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, s.client.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, nil
}

// decodeData unwraps a success envelope into T. Any other status becomes an
// *APIError.
func decodeData[T any](resp *http.Response, expectedStatus int) (T, error) {
	defer resp.Body.Close()

	var zero T

	// Read body once for both error parsing and success decoding
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return zero, parseErrorResponse(resp, bodyBytes)
	}

	var env Envelope[T]
	if err := json.Unmarshal(bodyBytes, &env); err != nil {
		return zero, fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.Success {
		return zero, parseErrorResponse(resp, bodyBytes)
	}

	return env.Data, nil
}

// decodeJSON decodes a bare JSON body, used by the health endpoints which
// are not enveloped.
func decodeJSON(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

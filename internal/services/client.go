// internal/services/client.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// UnauthorizedHook is invoked whenever a backend responds 401. There is a
// single hook for all services so session invalidation happens in exactly
// one place instead of each client deciding on its own.
type UnauthorizedHook func(ctx context.Context)

// client is the shared HTTP plumbing behind every service: one base URL,
// JSON in and out, bearer token from the request context, and normalized
// errors. Requests are never retried.
type client struct {
	http           *http.Client
	baseURL        string
	onUnauthorized UnauthorizedHook
}

func newClient(baseURL string, timeout time.Duration, onUnauthorized UnauthorizedHook) *client {
	return &client{
		http:           &http.Client{Timeout: timeout},
		baseURL:        strings.TrimRight(baseURL, "/"),
		onUnauthorized: onUnauthorized,
	}
}

func (c *client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := TokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if requestID, ok := RequestIDFromContext(ctx); ok {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := c.normalizeError(resp)
		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return apiErr
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, u, err)
	}
	return nil
}

// normalizeError turns an error response into an *APIError. The backends do
// not agree on a payload shape: the auth service uses
// {errorMessage, suggestionNames}, others use {message} or {error}.
func (c *client) normalizeError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	raw, err := io.ReadAll(resp.Body)
	if err != nil || len(raw) == 0 {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}

	var payload struct {
		ErrorMessage    string   `json:"errorMessage"`
		SuggestionNames []string `json:"suggestionNames"`
		Message         string   `json:"message"`
		Err             string   `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		logrus.WithField("status", resp.StatusCode).Debug("non-JSON error body from backend")
		apiErr.Message = strings.TrimSpace(string(raw))
		return apiErr
	}

	switch {
	case payload.ErrorMessage != "":
		apiErr.Message = payload.ErrorMessage
	case payload.Message != "":
		apiErr.Message = payload.Message
	case payload.Err != "":
		apiErr.Message = payload.Err
	default:
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	apiErr.Suggestions = payload.SuggestionNames
	return apiErr
}

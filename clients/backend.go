package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// userIDHeader identifies the acting user to the upstream services; the
// gateway has already authenticated the request by the time it reaches them.
const userIDHeader = "X-User-ID"

// BackendClient is a thin HTTP client for the platform API gateway. All
// typed clients in this package go through it.
type BackendClient struct {
	baseURL string
	client  *http.Client
}

func NewBackendClient(baseURL string, timeout time.Duration) *BackendClient {
	return &BackendClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Do issues a request against the gateway. A non-empty userID is forwarded as
// the user identity header.
func (b *BackendClient) Do(ctx context.Context, method, path, userID string, query url.Values, body io.Reader) (*http.Response, error) {
	u := b.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(userIDHeader, userID)
	}

	return b.client.Do(req)
}

// DoJSON marshals in (when non-nil), issues the request and decodes the
// response into out (when non-nil).
func (b *BackendClient) DoJSON(ctx context.Context, method, path, userID string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	resp, err := b.Do(ctx, method, path, userID, nil, body)
	if err != nil {
		return err
	}
	return DecodeJSON(resp, out)
}

// DecodeJSON decodes a 2xx response body into out. Error responses surface
// the upstream message when the body carries one.
func DecodeJSON(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		if msg := upstreamMessage(body); msg != "" {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("upstream error: status=%d body=%s", resp.StatusCode, string(body))
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// upstreamMessage pulls a human-readable message out of an error body, if the
// upstream sent one in a recognized field.
func upstreamMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}

package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ZaguanLabs/fieldtl"
)

// postJSON sends body as JSON and decodes a 2xx response into out. Failures
// are returned as *fieldtl.BackendError; 429 and 5xx are marked retryable.
func postJSON(ctx context.Context, client *http.Client, service fieldtl.Service, url string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &fieldtl.BackendError{Service: service, Message: "encoding request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return &fieldtl.BackendError{Service: service, Message: "building request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", fieldtl.UserAgent())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return &fieldtl.BackendError{
			Service:   service,
			Message:   "request failed",
			Cause:     err,
			Retryable: ctx.Err() == nil,
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return &fieldtl.BackendError{Service: service, Message: "reading response", Cause: err, Retryable: true}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &fieldtl.BackendError{
			Service:    service,
			Message:    fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, truncate(string(data), 200)),
			Retryable:  resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &fieldtl.BackendError{Service: service, Message: "invalid response body", Cause: err}
	}
	return nil
}

// parseRetryAfter reads a Retry-After header given in seconds or as an
// HTTP date. Anything else yields 0.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

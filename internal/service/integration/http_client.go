package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// serviceClient is the retrying JSON transport shared by the store clients.
type serviceClient struct {
	name       string
	baseURL    string
	timeout    time.Duration
	retryCount int
	retryDelay time.Duration
	client     *http.Client
	logger     zerolog.Logger
}

func newServiceClient(name, baseURL string, timeout time.Duration, retryCount int, retryDelay time.Duration, logger zerolog.Logger) serviceClient {
	if retryCount < 0 {
		retryCount = 0
	}
	return serviceClient{
		name:       name,
		baseURL:    baseURL,
		timeout:    timeout,
		retryCount: retryCount,
		retryDelay: retryDelay,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// do sends the request and decodes a 2xx body into out when out is not nil.
// 404 maps to ErrNotFound, every other failure to ErrUpstreamUnavailable.
func (c *serviceClient) do(ctx context.Context, method, path string, payload, out interface{}) error {
	url := c.baseURL + path

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	var lastErr error
	for i := 0; i <= c.retryCount; i++ {
		if i > 0 {
			c.logger.Warn().Int("attempt", i).Str("url", url).Msgf("Retrying %s request", c.name)
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %s: %v", ErrUpstreamUnavailable, c.name, ctx.Err())
			case <-time.After(c.retryDelay * time.Duration(i)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request to %s failed: %w", c.name, err)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			var decodeErr error
			if out != nil {
				decodeErr = json.NewDecoder(resp.Body).Decode(out)
			}
			resp.Body.Close()
			if decodeErr != nil {
				return fmt.Errorf("%w: %s: failed to decode response: %v", ErrMalformedUpstreamResponse, c.name, decodeErr)
			}
			return nil
		}

		if resp.StatusCode == http.StatusNotFound {
			resp.Body.Close()
			return fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
		}

		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		lastErr = fmt.Errorf("%s returned status %d: %s", c.name, resp.StatusCode, string(respBody))
	}

	return fmt.Errorf("%w: after %d attempts: %v", ErrUpstreamUnavailable, c.retryCount+1, lastErr)
}

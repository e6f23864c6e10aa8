// internal/providers/client.go
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 30 * time.Second
	maxRetries     = 2
)

// NewHTTPClient creates an HTTP client with sensible defaults for provider
// API traffic.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
		Timeout: defaultTimeout,
	}
}

// apiClient carries what both provider clients share: an authenticated HTTP
// client, a request rate limiter, and retry-on-5xx semantics.
type apiClient struct {
	http     *http.Client
	baseURL  string
	token    string
	provider string
	limiter  *rate.Limiter
	log      *logrus.Entry
}

func newAPIClient(provider, baseURL, token string, httpClient *http.Client, rps float64, log *logrus.Logger) apiClient {
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	if rps <= 0 {
		rps = 5
	}
	return apiClient{
		http:     httpClient,
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), int(rps)+1),
		log:      log.WithField("provider", provider),
	}
}

// doJSON performs an authenticated request and decodes the 2xx body into out.
// Transport errors and 5xx replies are retried with backoff; a 404 maps to
// ErrProductNotFound and any other non-2xx to *APIError.
func (c *apiClient) doJSON(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", c.provider, err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, u, strings.NewReader(string(payload)))
		if err != nil {
			return fmt.Errorf("build %s request: %w", c.provider, err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			c.log.WithError(err).WithField("attempt", attempt).Warn("provider request failed")
			continue
		}

		if resp.StatusCode >= 500 {
			drainBody(resp)
			lastErr = &APIError{Provider: c.provider, StatusCode: resp.StatusCode}
			c.log.WithFields(logrus.Fields{"status": resp.StatusCode, "attempt": attempt}).Warn("provider server error")
			continue
		}

		return c.decodeResponse(resp, out)
	}

	return fmt.Errorf("%s request failed after %d retries: %w", c.provider, maxRetries, lastErr)
}

func (c *apiClient) decodeResponse(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return ErrProductNotFound
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", c.provider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Provider:   c.provider,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(raw),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w: %v", c.provider, ErrMalformedResponse, err)
	}
	return nil
}

func drainBody(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

// errorMessage pulls a human-readable message out of a provider error body
// when one exists.
func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

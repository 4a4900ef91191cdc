// Package notion is the HTTP client for the Notion task database: the
// record store the reconciliation engine writes into, plus the page
// reader the pipeline pulls meeting-note text from.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// Default configuration values.
const (
	defaultBaseURL     = "https://api.notion.com"
	defaultVersion     = "2022-06-28"
	defaultTimeout     = 30 * time.Second
	defaultMaxRetries  = 3
	defaultBaseBackoff = 1 * time.Second
)

// Notion's public API allows an average of 3 requests per second.
const (
	defaultRateLimit = 3.0
	defaultBurst     = 3
)

var (
	// ErrInvalidConfig indicates invalid client configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrRequestFailed indicates a non-retryable API failure.
	ErrRequestFailed = errors.New("notion request failed")
)

// Config holds configuration for the Notion client.
type Config struct {
	// APIKey is the integration token.
	APIKey string

	// BaseURL overrides the API endpoint. Used by tests.
	BaseURL string

	// Version is the Notion-Version header value.
	Version string

	// Timeout is the per-request timeout in seconds.
	Timeout int
}

// Client is a minimal Notion API client covering the operations the
// pipeline needs: schema retrieval, database query, page create/update
// and block-tree text extraction.
type Client struct {
	apiKey     string `json:"-"` // Never serialize API keys
	baseURL    string
	version    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
}

// NewClient creates a Notion client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: API key required", ErrInvalidConfig)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	version := cfg.Version
	if version == "" {
		version = defaultVersion
	}

	timeout := defaultTimeout
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Second
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		version: version,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter:    rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
		maxRetries: defaultMaxRetries,
	}, nil
}

// do performs one API call with rate limiting and bounded retries on
// 429 and server errors. body may be nil for GET requests.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff
			backoff := defaultBaseBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		respBody, err := c.doOnce(ctx, method, path, payload)
		if err == nil {
			return respBody, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) doOnce(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", c.version)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &retryableError{err: fmt.Errorf("API request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &retryableError{err: fmt.Errorf("rate limited (429)")}
	}

	if resp.StatusCode >= 500 {
		return nil, &retryableError{err: fmt.Errorf("server error (%d): %s", resp.StatusCode, string(body))}
	}

	if resp.StatusCode != http.StatusOK {
		message := gjson.GetBytes(body, "message").String()
		if message == "" {
			message = string(body)
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, message)
	}

	return body, nil
}

// QueryRecords returns the records of the database with their id and
// title. One query, first page only: databases beyond the default page
// size are a documented limitation.
func (c *Client) QueryRecords(ctx context.Context, databaseID string, schema Schema) ([]RecordRow, error) {
	body, err := c.do(ctx, http.MethodPost, "/v1/databases/"+databaseID+"/query", map[string]any{})
	if err != nil {
		return nil, err
	}

	var rows []RecordRow
	for _, page := range gjson.GetBytes(body, "results").Array() {
		title := page.Get("properties").Map()[schema.TitleProperty].Get("title.0.plain_text").String()
		rows = append(rows, RecordRow{
			ID:    page.Get("id").String(),
			Title: title,
		})
	}
	return rows, nil
}

// RecordRow is one row of a database query: an opaque page id plus the
// title text used for similarity matching.
type RecordRow struct {
	ID    string
	Title string
}

// CreatePage creates a page in the database and returns its id.
func (c *Client) CreatePage(ctx context.Context, databaseID string, properties map[string]any) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/v1/pages", map[string]any{
		"parent":     map[string]any{"database_id": databaseID},
		"properties": properties,
	})
	if err != nil {
		return "", err
	}
	return gjson.GetBytes(body, "id").String(), nil
}

// UpdatePage rewrites the properties of an existing page.
func (c *Client) UpdatePage(ctx context.Context, pageID string, properties map[string]any) error {
	_, err := c.do(ctx, http.MethodPatch, "/v1/pages/"+pageID, map[string]any{
		"properties": properties,
	})
	return err
}

// retryableError wraps an error to indicate it can be retried.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return e.err.Error()
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// isRetryableError checks if an error should be retried.
func isRetryableError(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

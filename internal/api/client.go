package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.wipdash.dev/api/v1"

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *RefCache
	logger     *slog.Logger
}

func NewClient(apiKey string, baseURL string, cacheTTL time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache:  NewRefCache(cacheTTL),
		logger: logger,
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("API request", "method", method, "path", path)

	var resp *http.Response
	maxRetries := 3
	requestStart := time.Now()
	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, err = c.httpClient.Do(req)
		if err != nil {
			if attempt == maxRetries {
				c.logger.Error("API request transport error", "method", method, "path", path, "error", err, "elapsed", time.Since(requestStart))
				return nil, fmt.Errorf("sending request: %w", err)
			}
			c.logger.Debug("API request transport error, retrying", "method", method, "path", path, "attempt", attempt+1, "error", err)
			time.Sleep(backoff(attempt))
			continue
		}

		if resp.StatusCode == 429 || resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				c.logger.Error("API request failed after retries", "method", method, "path", path, "status", resp.StatusCode, "attempts", maxRetries+1, "elapsed", time.Since(requestStart))
				return nil, fmt.Errorf("API returned status %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.logger.Debug("API request retryable error", "method", method, "path", path, "status", resp.StatusCode, "attempt", attempt+1)
			time.Sleep(backoff(attempt))
			continue
		}
		break
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	c.logger.Debug("API response", "method", method, "path", path, "status", resp.StatusCode, "bytes", len(respBody), "elapsed", time.Since(requestStart))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("API request failed", "method", method, "path", path, "status", resp.StatusCode, "response", truncate(string(respBody), 200))
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

func backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * time.Second
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// ListTimeLogs fetches one page of time logs with the given filters.
func (c *Client) ListTimeLogs(ctx context.Context, params ListParams) (*TimeLogPage, error) {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.ClientID != "" {
		q.Set("clientId", params.ClientID)
	}
	if params.JobID != "" {
		q.Set("jobId", params.JobID)
	}
	if params.JobTypeID != "" {
		q.Set("jobTypeId", params.JobTypeID)
	}
	if params.TeamMemberID != "" {
		q.Set("userId", params.TeamMemberID)
	}
	if params.TimeCategoryID != "" {
		q.Set("timeCategoryId", params.TimeCategoryID)
	}
	if params.Billable != nil {
		q.Set("billable", strconv.FormatBool(*params.Billable))
	}
	if params.Status != "" {
		q.Set("status", string(params.Status))
	}
	if !params.DateFrom.IsZero() {
		q.Set("dateFrom", params.DateFrom.UTC().Format(time.RFC3339))
	}
	if !params.DateTo.IsZero() {
		q.Set("dateTo", params.DateTo.UTC().Format(time.RFC3339))
	}

	path := "/time-logs"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	data, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("listing time logs: %w", err)
	}

	var page TimeLogPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("parsing time logs response: %w", err)
	}

	return &page, nil
}

// DeleteTimeLogs removes the given logs. The backend treats the batch as
// all-or-nothing; there is no partial-success contract.
func (c *Client) DeleteTimeLogs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	body := struct {
		TimeLogIDs []string `json:"timeLogIds"`
	}{TimeLogIDs: ids}

	if _, err := c.doRequest(ctx, http.MethodDelete, "/time-logs", body); err != nil {
		return fmt.Errorf("deleting time logs: %w", err)
	}
	return nil
}

// UpdateTimeLog edits a log and returns the updated record.
func (c *Client) UpdateTimeLog(ctx context.Context, id string, update UpdateTimeLogRequest) (*TimeLog, error) {
	if id == "" {
		return nil, fmt.Errorf("time log ID is empty")
	}

	data, err := c.doRequest(ctx, http.MethodPatch, "/time-logs/"+url.PathEscape(id), update)
	if err != nil {
		return nil, fmt.Errorf("updating time log: %w", err)
	}

	var updated TimeLog
	if err := json.Unmarshal(data, &updated); err != nil {
		return nil, fmt.Errorf("parsing time log response: %w", err)
	}

	return &updated, nil
}

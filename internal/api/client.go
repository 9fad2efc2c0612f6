// Package api is the read-only HTTP client for the usage backend.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/j-veylop/llm-dashboard-tui/internal/logger"
	"github.com/j-veylop/llm-dashboard-tui/internal/models"
)

// Endpoint paths served by the backend.
const (
	PathDateRange     = "/api/date-range"
	PathModels        = "/api/models"
	PathTokenData     = "/api/token-data"
	PathSampleRecords = "/api/sample-records"
	PathDebugInfo     = "/api/debug-info"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// Client fetches usage data. Every call is a fresh round trip.
type Client struct {
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is still
// wrapped with request logging.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			clone := *hc
			c.httpClient = &clone
		}
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithClock sets the clock used for date fallbacks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.httpClient.Transport = newLoggingTransport(c.httpClient.Transport)
	return c
}

// BaseURL returns the backend URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchDateRange returns the window of days for which the backend has data.
// Missing bounds fall back to the last 30 days ending today.
func (c *Client) FetchDateRange(ctx context.Context) (models.DateBounds, error) {
	var resp dateRangeResponse
	if err := c.get(ctx, PathDateRange, nil, &resp); err != nil {
		return models.DateBounds{}, err
	}

	today := models.Day(c.now())
	bounds := models.DateBounds{Min: today.AddDate(0, 0, -30), Max: today}

	if resp.MinDate != "" {
		d, err := models.ParseDate(resp.MinDate)
		if err != nil {
			return models.DateBounds{}, decodeError(PathDateRange, err)
		}
		bounds.Min = d
	}
	if resp.MaxDate != "" {
		d, err := models.ParseDate(resp.MaxDate)
		if err != nil {
			return models.DateBounds{}, decodeError(PathDateRange, err)
		}
		bounds.Max = d
	}
	if bounds.Min.After(bounds.Max) {
		bounds.Min, bounds.Max = bounds.Max, bounds.Min
	}
	return bounds, nil
}

// FetchModelList returns the model names known to the backend.
func (c *Client) FetchModelList(ctx context.Context) ([]string, error) {
	var resp modelsResponse
	if err := c.get(ctx, PathModels, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Models == nil {
		return []string{}, nil
	}
	return resp.Models, nil
}

// FetchUsage returns the aggregated usage for a filter.
func (c *Client) FetchUsage(ctx context.Context, f models.Filter) (models.UsageReport, error) {
	var resp tokenDataResponse
	if err := c.get(ctx, PathTokenData, filterQuery(f), &resp); err != nil {
		return models.UsageReport{}, err
	}

	report := models.UsageReport{
		Summary: resp.OverallStats.toSummary(),
		Models:  make([]models.ModelUsageRow, 0, len(resp.ModelData)),
		Daily:   make([]models.DailyUsageRow, 0, len(resp.DateData)),
	}
	for _, row := range resp.ModelData {
		report.Models = append(report.Models, row.toModel())
	}
	for _, row := range resp.DateData {
		d, err := row.toModel()
		if err != nil {
			return models.UsageReport{}, decodeError(PathTokenData, err)
		}
		report.Daily = append(report.Daily, d)
	}
	return report, nil
}

// FetchHighCostRecords returns the backend's flagged requests in server order.
func (c *Client) FetchHighCostRecords(ctx context.Context, f models.Filter) ([]models.HighCostRecord, error) {
	var resp sampleRecordsResponse
	if err := c.get(ctx, PathSampleRecords, filterQuery(f), &resp); err != nil {
		return nil, err
	}
	records := make([]models.HighCostRecord, 0, len(resp.Records))
	for _, r := range resp.Records {
		records = append(records, r.toModel())
	}
	return records, nil
}

// FetchDebugInfo returns the backend's database diagnostics.
func (c *Client) FetchDebugInfo(ctx context.Context) (DebugInfo, error) {
	var resp debugInfoResponse
	if err := c.get(ctx, PathDebugInfo, nil, &resp); err != nil {
		return DebugInfo{}, err
	}
	return resp.DebugInfo, nil
}

func filterQuery(f models.Filter) url.Values {
	q := url.Values{}
	q.Set("start_date", models.FormatDate(f.Range.Start))
	q.Set("end_date", models.FormatDate(f.Range.End))
	q.Set("model", f.Model.String())
	return q
}

// failure is implemented by every response type through its envelope.
type failure interface {
	failed() bool
	serverMessage() string
}

func (e envelope) serverMessage() string {
	return e.Error
}

// get issues a GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out failure) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return transportError(path, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(path, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(path, resp.StatusCode, serverError(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return decodeError(path, err)
	}

	if out.failed() {
		return payloadError(path, out.serverMessage())
	}
	return nil
}

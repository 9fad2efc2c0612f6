package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/llm-dashboard-tui/internal/models"
)

type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func mockClient(fn func(req *http.Request) (*http.Response, error)) *Client {
	return New("http://backend.test",
		WithHTTPClient(&http.Client{Transport: &MockRoundTripper{RoundTripFunc: fn}}),
		WithClock(func() time.Time { return time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC) }),
	)
}

func testFilter() models.Filter {
	start, _ := models.ParseDate("2024-01-01")
	end, _ := models.ParseDate("2024-01-07")
	return models.Filter{Range: models.DateRange{Start: start, End: end}, Model: models.AllModels}
}

const tokenDataBody = `{
  "success": true,
  "overall_stats": {
    "total_requests": 4, "total_prompt_tokens": 1500, "total_completion_tokens": 500,
    "total_tokens": 2000, "total_cost": 12.3456, "avg_cost_per_request": 3.0864
  },
  "model_data": [
    {"model": "openai/gpt-4", "requests": 3, "prompt_tokens": 1000, "completion_tokens": 400,
     "total_tokens": 1400, "total_cost": 12.0, "avg_cost_per_request": 4.0, "cost_per_1k_tokens": 0.0001234},
    {"model": "local-model", "requests": 1, "prompt_tokens": 500.0, "completion_tokens": 100,
     "total_tokens": 600, "total_cost": null, "avg_cost_per_request": 0, "cost_per_1k_tokens": 0}
  ],
  "date_data": [
    {"date": "2024-01-01", "requests": 1, "prompt_tokens": 500, "completion_tokens": 100, "total_tokens": 600, "total_cost": 0.3456},
    {"date": "2024-01-03", "requests": 3, "prompt_tokens": 1000, "completion_tokens": 400, "total_tokens": 1400, "total_cost": 12.0}
  ]
}`

func TestFetchUsage(t *testing.T) {
	var gotQuery string
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		assert.Equal(t, http.MethodGet, r.Method)
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, tokenDataBody)
	}))
	defer srv.Close()

	client := New(srv.URL + "/")
	report, err := client.FetchUsage(context.Background(), testFilter())
	require.NoError(t, err)

	assert.Equal(t, PathTokenData, gotPath)
	assert.Equal(t, "end_date=2024-01-07&model=all&start_date=2024-01-01", gotQuery)

	assert.Equal(t, int64(4), report.Summary.TotalRequests)
	assert.Equal(t, int64(2000), report.Summary.TotalTokens)
	assert.InDelta(t, 12.3456, report.Summary.TotalCost, 1e-9)

	require.Len(t, report.Models, 2)
	assert.Equal(t, "openai/gpt-4", report.Models[0].Model)
	assert.Equal(t, int64(500), report.Models[1].PromptTokens)
	assert.Zero(t, report.Models[1].TotalCost, "null cost should decode as zero")
	assert.InDelta(t, 0.0001234, report.Models[0].CostPer1KTokens, 1e-12)

	require.Len(t, report.Daily, 2)
	assert.Equal(t, "2024-01-03", models.FormatDate(report.Daily[1].Date))
}

func TestFetchUsage_EmptyModelData(t *testing.T) {
	client := mockClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"success": true, "overall_stats": {}, "model_data": [], "date_data": []}`), nil
	})

	report, err := client.FetchUsage(context.Background(), testFilter())
	require.NoError(t, err)
	assert.Empty(t, report.Models)
	assert.Empty(t, report.Daily)
	assert.True(t, report.IsEmpty())
}

func TestFetchUsage_BadDateRow(t *testing.T) {
	client := mockClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"success": true, "date_data": [{"date": "Jan 1"}]}`), nil
	})

	_, err := client.FetchUsage(context.Background(), testFilter())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindDecode, apiErr.Kind)
}

func TestFetch_FailureTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		fn       func(req *http.Request) (*http.Response, error)
		wantKind Kind
		wantMsg  string
	}{
		{
			name: "Transport",
			fn: func(req *http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
			wantKind: KindTransport,
			wantMsg:  "Request failed",
		},
		{
			name: "StatusWithJSONError",
			fn: func(req *http.Request) (*http.Response, error) {
				return jsonResponse(500, `{"error": "no such table: responses", "traceback": "...", "success": false}`), nil
			},
			wantKind: KindStatus,
			wantMsg:  "Server returned 500: no such table: responses",
		},
		{
			name: "StatusPlainBody",
			fn: func(req *http.Request) (*http.Response, error) {
				return jsonResponse(404, "Not Found"), nil
			},
			wantKind: KindStatus,
			wantMsg:  "Server returned 404: Not Found",
		},
		{
			name: "PayloadFailure",
			fn: func(req *http.Request) (*http.Response, error) {
				return jsonResponse(200, `{"success": false, "error": "Invalid date format"}`), nil
			},
			wantKind: KindPayload,
			wantMsg:  "Invalid date format",
		},
		{
			name: "MalformedJSON",
			fn: func(req *http.Request) (*http.Response, error) {
				return jsonResponse(200, `<html>oops</html>`), nil
			},
			wantKind: KindDecode,
			wantMsg:  "Failed to parse JSON response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mockClient(tt.fn)

			_, err := client.FetchUsage(context.Background(), testFilter())
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantKind, apiErr.Kind)
			assert.Equal(t, PathTokenData, apiErr.Endpoint)
			assert.Contains(t, UserMessage(err), tt.wantMsg)
		})
	}
}

func TestFetchDateRange(t *testing.T) {
	client := mockClient(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, PathDateRange, req.URL.Path)
		assert.Empty(t, req.URL.RawQuery)
		return jsonResponse(200, `{"success": true, "min_date": "2023-11-02", "max_date": "2024-01-20",
			"raw_min_date": "2023-11-02T08:00:00", "raw_max_date": "2024-01-20T09:00:00"}`), nil
	})

	bounds, err := client.FetchDateRange(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2023-11-02", models.FormatDate(bounds.Min))
	assert.Equal(t, "2024-01-20", models.FormatDate(bounds.Max))
}

func TestFetchDateRange_MissingBoundsFallBack(t *testing.T) {
	client := mockClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"success": true, "min_date": null, "max_date": null}`), nil
	})

	bounds, err := client.FetchDateRange(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", models.FormatDate(bounds.Min))
	assert.Equal(t, "2024-01-31", models.FormatDate(bounds.Max))
}

func TestFetchDateRange_InvalidDate(t *testing.T) {
	client := mockClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"success": true, "min_date": "yesterday", "max_date": "2024-01-20"}`), nil
	})

	_, err := client.FetchDateRange(context.Background())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindDecode, apiErr.Kind)
}

func TestFetchModelList(t *testing.T) {
	client := mockClient(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, PathModels, req.URL.Path)
		return jsonResponse(200, `{"success": true, "models": ["openai/gpt-4", "local-model"]}`), nil
	})

	list, err := client.FetchModelList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"openai/gpt-4", "local-model"}, list)

	empty := mockClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"success": true}`), nil
	})
	list, err = empty.FetchModelList(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestFetchHighCostRecords(t *testing.T) {
	client := mockClient(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, PathSampleRecords, req.URL.Path)
		assert.Equal(t, "openai/gpt-4", req.URL.Query().Get("model"))
		return jsonResponse(200, `{"success": true, "records": [
			{"id": "01HMZ", "model": "openai/gpt-4", "prompt_tokens": 900, "completion_tokens": 100, "total_tokens": 1000, "cost": 0.9, "datetime": "2024-01-03T10:00:00"},
			{"id": 42, "model": "openai/gpt-4", "prompt_tokens": 10, "completion_tokens": 1, "total_tokens": 11, "cost": 0.01, "datetime": "2024-01-02T10:00:00"}
		]}`), nil
	})

	f := testFilter()
	f.Model = "openai/gpt-4"
	records, err := client.FetchHighCostRecords(context.Background(), f)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "01HMZ", records[0].ID)
	assert.Equal(t, "42", records[1].ID, "numeric ids are kept as text")
	assert.Equal(t, "2024-01-03T10:00:00", records[0].Timestamp)
	assert.InDelta(t, 0.9, records[0].Cost, 1e-9)
}

func TestFetchDebugInfo_NoSuccessField(t *testing.T) {
	client := mockClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"db_path": "/data/logs.db", "db_exists": true, "tables": ["responses"],
			"sample_dates": ["2024-01-01T00:00:00"], "chunk_record_count": 17,
			"date_parsing_tests": [{"original": "2024-01-01T00:00:00", "parsed": "2024-01-01", "success": true}]}`), nil
	})

	info, err := client.FetchDebugInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/data/logs.db", info.DBPath)
	assert.True(t, info.DBExists)
	assert.Equal(t, []string{"responses"}, info.Tables)
	assert.Equal(t, int64(17), info.ChunkRecordCount)
	require.Len(t, info.DateParsingTests, 1)
	assert.True(t, info.DateParsingTests[0].Success)
}

func TestFetch_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	client := New(srv.URL)

	errCh := make(chan error, 1)
	go func() {
		_, err := client.FetchUsage(ctx, testFilter())
		errCh <- err
	}()
	cancel()

	select {
	case err := <-errCh:
		require.Error(t, err)
		assert.True(t, IsCanceled(err), "cancelled fetch should be recognisable, got %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("FetchUsage did not return after cancellation")
	}
}

func TestWithTimeout(t *testing.T) {
	c := New("http://backend.test", WithTimeout(0))
	assert.Zero(t, c.httpClient.Timeout)

	c = New("http://backend.test")
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
	assert.Equal(t, "http://backend.test", c.BaseURL())
}

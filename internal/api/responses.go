package api

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/j-veylop/llm-dashboard-tui/internal/models"
)

// envelope carries the fields every endpoint shares.
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

// failed reports whether the server flagged the payload as a failure.
func (e envelope) failed() bool {
	return e.Success != nil && !*e.Success
}

type dateRangeResponse struct {
	envelope
	MinDate    string `json:"min_date"`
	MaxDate    string `json:"max_date"`
	RawMinDate string `json:"raw_min_date"`
	RawMaxDate string `json:"raw_max_date"`
}

type modelsResponse struct {
	envelope
	Models []string `json:"models"`
}

type overallStats struct {
	TotalRequests         float64 `json:"total_requests"`
	TotalPromptTokens     float64 `json:"total_prompt_tokens"`
	TotalCompletionTokens float64 `json:"total_completion_tokens"`
	TotalTokens           float64 `json:"total_tokens"`
	TotalCost             float64 `json:"total_cost"`
	AvgCostPerRequest     float64 `json:"avg_cost_per_request"`
}

type modelRow struct {
	Model             string  `json:"model"`
	Requests          float64 `json:"requests"`
	PromptTokens      float64 `json:"prompt_tokens"`
	CompletionTokens  float64 `json:"completion_tokens"`
	TotalTokens       float64 `json:"total_tokens"`
	TotalCost         float64 `json:"total_cost"`
	AvgCostPerRequest float64 `json:"avg_cost_per_request"`
	CostPer1KTokens   float64 `json:"cost_per_1k_tokens"`
}

type dateRow struct {
	Date             string  `json:"date"`
	Requests         float64 `json:"requests"`
	PromptTokens     float64 `json:"prompt_tokens"`
	CompletionTokens float64 `json:"completion_tokens"`
	TotalTokens      float64 `json:"total_tokens"`
	TotalCost        float64 `json:"total_cost"`
}

type tokenDataResponse struct {
	envelope
	OverallStats overallStats `json:"overall_stats"`
	ModelData    []modelRow   `json:"model_data"`
	DateData     []dateRow    `json:"date_data"`
}

type sampleRecord struct {
	ID               flexString `json:"id"`
	Model            string     `json:"model"`
	PromptTokens     float64    `json:"prompt_tokens"`
	CompletionTokens float64    `json:"completion_tokens"`
	TotalTokens      float64    `json:"total_tokens"`
	Cost             float64    `json:"cost"`
	Datetime         string     `json:"datetime"`
}

type sampleRecordsResponse struct {
	envelope
	Records []sampleRecord `json:"records"`
}

// DateParsingTest is one server-side date parsing probe.
type DateParsingTest struct {
	Original string `json:"original"`
	Parsed   string `json:"parsed"`
	Success  bool   `json:"success"`
}

// DebugInfo describes the backend's database as reported by /api/debug-info.
type DebugInfo struct {
	DBPath           string            `json:"db_path"`
	DBExists         bool              `json:"db_exists"`
	Tables           []string          `json:"tables"`
	SampleDates      []string          `json:"sample_dates"`
	DateParsingTests []DateParsingTest `json:"date_parsing_tests"`
	ChunkRecordCount int64             `json:"chunk_record_count"`
	ChunkMinDate     string            `json:"chunk_min_date"`
	ChunkMaxDate     string            `json:"chunk_max_date"`
}

type debugInfoResponse struct {
	envelope
	DebugInfo
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func count(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(math.Round(v))
}

func (o overallStats) toSummary() models.UsageSummary {
	return models.UsageSummary{
		TotalRequests:         count(o.TotalRequests),
		TotalPromptTokens:     count(o.TotalPromptTokens),
		TotalCompletionTokens: count(o.TotalCompletionTokens),
		TotalTokens:           count(o.TotalTokens),
		TotalCost:             o.TotalCost,
		AvgCostPerRequest:     o.AvgCostPerRequest,
	}
}

func (r modelRow) toModel() models.ModelUsageRow {
	return models.ModelUsageRow{
		Model:             r.Model,
		Requests:          count(r.Requests),
		PromptTokens:      count(r.PromptTokens),
		CompletionTokens:  count(r.CompletionTokens),
		TotalTokens:       count(r.TotalTokens),
		TotalCost:         r.TotalCost,
		AvgCostPerRequest: r.AvgCostPerRequest,
		CostPer1KTokens:   r.CostPer1KTokens,
	}
}

func (r dateRow) toModel() (models.DailyUsageRow, error) {
	d, err := models.ParseDate(r.Date)
	if err != nil {
		return models.DailyUsageRow{}, err
	}
	return models.DailyUsageRow{
		Date:             d,
		Requests:         count(r.Requests),
		PromptTokens:     count(r.PromptTokens),
		CompletionTokens: count(r.CompletionTokens),
		TotalTokens:      count(r.TotalTokens),
		TotalCost:        r.TotalCost,
	}, nil
}

func (r sampleRecord) toModel() models.HighCostRecord {
	return models.HighCostRecord{
		ID:               string(r.ID),
		Model:            r.Model,
		PromptTokens:     count(r.PromptTokens),
		CompletionTokens: count(r.CompletionTokens),
		TotalTokens:      count(r.TotalTokens),
		Cost:             r.Cost,
		Timestamp:        r.Datetime,
	}
}

// serverError extracts the "error" field of a JSON error body, falling back
// to the raw body cut to a readable length.
func serverError(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != "" {
		return env.Error
	}
	s := string(bytes.TrimSpace(body))
	const maxLen = 200
	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}
	return s
}

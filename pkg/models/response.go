package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// SubmitResponse is the JSON body returned by POST /submit-query.
// Paid tiers carry URL on success, failures carry Detail.
type SubmitResponse struct {
	URL     string          `json:"url,omitempty"`
	Detail  json.RawMessage `json:"detail,omitempty"`
	Message string          `json:"message,omitempty"`
}

// DetailText returns the error detail as text.
// String details are returned verbatim; other JSON (validation error lists)
// is returned compacted. Absent or null detail yields "".
func (r SubmitResponse) DetailText() string {
	return detailText(r.Detail)
}

// SubmitResult pairs a decoded response body with its HTTP status.
type SubmitResult struct {
	StatusCode int
	Body       SubmitResponse
}

// OK reports whether the status is 2xx.
func (r SubmitResult) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// TestResponse is the JSON body returned by GET /test.
type TestResponse struct {
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail,omitempty"`
}

// DetailText returns the error detail as text.
func (r TestResponse) DetailText() string {
	return detailText(r.Detail)
}

func detailText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// HistoryEntry represents a submission in the history file.
// The email address is never recorded.
type HistoryEntry struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Query       string    `json:"query"`
	ReportType  string    `json:"report_type"`
	State       string    `json:"state"`
	Message     string    `json:"message,omitempty"`
	RedirectURL string    `json:"redirect_url,omitempty"`
}

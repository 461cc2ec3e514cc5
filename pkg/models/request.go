package models

// SubmitRequest represents the payload for POST /submit-query.
type SubmitRequest struct {
	ResearchQuery string `json:"research_query"`
	ReportType    string `json:"report_type"`
	// Email is set only for the free tier.
	Email *string `json:"email,omitempty"`
}

// NewSubmitRequest builds the payload for a query.
// The email is attached only when the tier requires one.
func NewSubmitRequest(query string, reportType ReportType, email, midLabel string) SubmitRequest {
	req := SubmitRequest{
		ResearchQuery: query,
		ReportType:    reportType.WireLabel(midLabel),
	}

	if reportType.RequiresEmail() {
		e := email
		req.Email = &e
	}

	return req
}

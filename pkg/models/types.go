// Package models defines data structures for cryptointel API requests and responses.
package models

import (
	"fmt"
	"strings"
)

// ReportType represents the report tier selected for a research query.
type ReportType string

const (
	ReportFree ReportType = "free"
	ReportMid  ReportType = "mid"
	ReportDeep ReportType = "deep"
)

// Wire labels accepted by the backend for the mid-priced tier.
const (
	MidLabelAdvanced = "advanced"
	MidLabelBasic    = "basic"
)

// DefaultMidLabel is the wire label sent for ReportMid unless configured otherwise.
const DefaultMidLabel = MidLabelAdvanced

// AvailableReportTypes contains all valid report tiers, cheapest first.
var AvailableReportTypes = []ReportType{
	ReportFree,
	ReportMid,
	ReportDeep,
}

// AvailableMidLabels contains the wire labels the mid tier may be sent as.
var AvailableMidLabels = []string{
	MidLabelAdvanced,
	MidLabelBasic,
}

// IsValidReportType checks if a report type is one of the known tiers.
func IsValidReportType(r ReportType) bool {
	switch r {
	case ReportFree, ReportMid, ReportDeep:
		return true
	}
	return false
}

// IsValidMidLabel checks if a mid-tier wire label is supported.
func IsValidMidLabel(label string) bool {
	for _, valid := range AvailableMidLabels {
		if label == valid {
			return true
		}
	}
	return false
}

// ParseReportType converts user input into a ReportType.
// The mid tier is also accepted under its wire labels.
func ParseReportType(s string) (ReportType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "free":
		return ReportFree, nil
	case "mid", MidLabelAdvanced, MidLabelBasic:
		return ReportMid, nil
	case "deep":
		return ReportDeep, nil
	}
	return "", fmt.Errorf("unknown report type: %q", s)
}

// RequiresEmail reports whether the tier delivers by email and so needs an address.
func (r ReportType) RequiresEmail() bool {
	return r == ReportFree
}

// IsPaid reports whether the tier goes through checkout.
func (r ReportType) IsPaid() bool {
	return r == ReportMid || r == ReportDeep
}

// WireLabel returns the report_type value sent to the backend.
func (r ReportType) WireLabel(midLabel string) string {
	if r == ReportMid {
		if midLabel == "" {
			return DefaultMidLabel
		}
		return midLabel
	}
	return string(r)
}

// DisplayName returns the human readable tier name.
func (r ReportType) DisplayName() string {
	switch r {
	case ReportFree:
		return "Free Report"
	case ReportMid:
		return "Advanced Research Report ($29)"
	case ReportDeep:
		return "Deep Research Report ($99)"
	default:
		return string(r)
	}
}

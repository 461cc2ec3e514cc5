package config

import "errors"

// Configuration validation errors, usable with errors.Is.
var (
	ErrMissingBaseURL    = errors.New("api_base_url is required")
	ErrInvalidBaseURL    = errors.New("invalid api_base_url: must be an absolute http(s) URL")
	ErrInvalidReportType = errors.New("invalid default_report_type")
	ErrInvalidMidLabel   = errors.New("invalid mid_tier_label: must be advanced or basic")
	ErrInvalidTimeout    = errors.New("invalid timeout_seconds: must be non-negative")
	ErrInvalidLogLevel   = errors.New("invalid log_level")
	ErrInvalidEmail      = errors.New("invalid email")
	ErrUnknownKey        = errors.New("unknown config key")
	ErrInvalidValue      = errors.New("invalid value")
)

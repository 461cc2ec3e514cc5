package models

import "testing"

func TestIsValidReportType(t *testing.T) {
	tests := []struct {
		name string
		r    ReportType
		want bool
	}{
		{"free", ReportFree, true},
		{"mid", ReportMid, true},
		{"deep", ReportDeep, true},
		{"wire label is not a tier", ReportType("advanced"), false},
		{"empty", ReportType(""), false},
		{"unknown", ReportType("premium"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidReportType(tt.r); got != tt.want {
				t.Errorf("IsValidReportType(%q) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestParseReportType(t *testing.T) {
	tests := []struct {
		input   string
		want    ReportType
		wantErr bool
	}{
		{"free", ReportFree, false},
		{"FREE", ReportFree, false},
		{" deep ", ReportDeep, false},
		{"mid", ReportMid, false},
		{"advanced", ReportMid, false},
		{"basic", ReportMid, false},
		{"", "", true},
		{"gold", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseReportType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseReportType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseReportType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestReportTypeRequiresEmail(t *testing.T) {
	if !ReportFree.RequiresEmail() {
		t.Error("free tier should require email")
	}
	if ReportMid.RequiresEmail() || ReportDeep.RequiresEmail() {
		t.Error("paid tiers should not require email")
	}
	if ReportFree.IsPaid() {
		t.Error("free tier should not be paid")
	}
	if !ReportMid.IsPaid() || !ReportDeep.IsPaid() {
		t.Error("mid and deep should be paid")
	}
}

func TestReportTypeWireLabel(t *testing.T) {
	tests := []struct {
		name     string
		r        ReportType
		midLabel string
		want     string
	}{
		{"free ignores label", ReportFree, MidLabelBasic, "free"},
		{"deep ignores label", ReportDeep, MidLabelBasic, "deep"},
		{"mid default", ReportMid, "", "advanced"},
		{"mid advanced", ReportMid, MidLabelAdvanced, "advanced"},
		{"mid basic", ReportMid, MidLabelBasic, "basic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.WireLabel(tt.midLabel); got != tt.want {
				t.Errorf("WireLabel(%q) = %q, want %q", tt.midLabel, got, tt.want)
			}
		})
	}
}

func TestIsValidMidLabel(t *testing.T) {
	for _, label := range AvailableMidLabels {
		if !IsValidMidLabel(label) {
			t.Errorf("IsValidMidLabel(%q) = false, want true", label)
		}
	}
	if IsValidMidLabel("mid") {
		t.Error("IsValidMidLabel(mid) = true, want false")
	}
}

func TestDisplayName(t *testing.T) {
	if got := ReportDeep.DisplayName(); got != "Deep Research Report ($99)" {
		t.Errorf("DisplayName() = %q", got)
	}
	if got := ReportType("x").DisplayName(); got != "x" {
		t.Errorf("DisplayName() = %q, want %q", got, "x")
	}
}

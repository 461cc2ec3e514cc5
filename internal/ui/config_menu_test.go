package ui

import (
	"errors"
	"testing"

	"github.com/diogo/cryptointel-go/internal/config"
	"github.com/diogo/cryptointel-go/pkg/models"
	"github.com/google/go-cmp/cmp"
)

func testConfig() *config.Config {
	return &config.Config{
		APIBaseURL:        "https://api.example.com",
		DefaultReportType: models.ReportDeep,
		MidTierLabel:      models.MidLabelBasic,
		Email:             "me@example.com",
		OpenBrowser:       false,
		Incognito:         true,
		HistoryFile:       "/path/to/history.jsonl",
		TimeoutSeconds:    30,
		LogLevel:          "info",
	}
}

func TestBuildConfigMenuItems(t *testing.T) {
	items := buildConfigMenuItems(testConfig())

	if len(items) != len(config.Keys) {
		t.Fatalf("Expected %d menu items, got %d", len(config.Keys), len(items))
	}

	expected := map[string]string{
		config.KeyAPIBaseURL:        "https://api.example.com",
		config.KeyDefaultReportType: "deep",
		config.KeyMidTierLabel:      "basic",
		config.KeyEmail:             "me@example.com",
		config.KeyOpenBrowser:       "false",
		config.KeyIncognito:         "true",
		config.KeyHistoryFile:       "/path/to/history.jsonl",
		config.KeyTimeoutSeconds:    "30",
		config.KeyLogLevel:          "info",
	}

	for i, item := range items {
		if item.Key != config.Keys[i] {
			t.Errorf("items[%d].Key = %q, want %q", i, item.Key, config.Keys[i])
		}
		if item.Value != expected[item.Key] {
			t.Errorf("Item %s: expected value %q, got %q", item.Key, expected[item.Key], item.Value)
		}
		if item.Label == "" || item.Description == "" {
			t.Errorf("Item %s should have a label and description", item.Key)
		}
	}
}

func TestBuildConfigMenuItems_EmptyValue(t *testing.T) {
	cfg := testConfig()
	cfg.Email = ""

	for _, item := range buildConfigMenuItems(cfg) {
		if item.Key == config.KeyEmail && item.Value != "(not set)" {
			t.Errorf("empty email shown as %q, want (not set)", item.Value)
		}
	}
}

func TestChoicesFor(t *testing.T) {
	tests := []struct {
		key  string
		want []string
	}{
		{config.KeyDefaultReportType, []string{"free", "mid", "deep"}},
		{config.KeyMidTierLabel, []string{"advanced", "basic"}},
		{config.KeyOpenBrowser, []string{"true", "false"}},
		{config.KeyIncognito, []string{"true", "false"}},
		{config.KeyLogLevel, []string{"debug", "info", "warn", "error"}},
		{config.KeyAPIBaseURL, nil},
		{config.KeyEmail, nil},
		{config.KeyTimeoutSeconds, nil},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, choicesFor(tt.key)); diff != "" {
				t.Errorf("choicesFor(%q) mismatch (-want +got):\n%s", tt.key, diff)
			}
		})
	}
}

func TestChoicesAreAcceptedBySet(t *testing.T) {
	for _, k := range config.Keys {
		for _, choice := range choicesFor(k) {
			cfg := testConfig()
			if err := cfg.Set(k, choice); err != nil {
				t.Errorf("Set(%q, %q) error = %v", k, choice, err)
			}
		}
	}
}

func TestValidatorFor(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		key     string
		value   string
		wantErr error
	}{
		{config.KeyAPIBaseURL, "https://other.example.com/", nil},
		{config.KeyAPIBaseURL, "not a url", config.ErrInvalidBaseURL},
		{config.KeyEmail, "", nil},
		{config.KeyEmail, "nope", config.ErrInvalidEmail},
		{config.KeyTimeoutSeconds, "-1", config.ErrInvalidTimeout},
		{config.KeyTimeoutSeconds, "abc", config.ErrInvalidValue},
		{config.KeyTimeoutSeconds, "15", nil},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := validatorFor(cfg, tt.key)(tt.value)
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if diff := cmp.Diff(testConfig(), cfg); diff != "" {
		t.Errorf("validator must not modify the config (-want +got):\n%s", diff)
	}
}

func TestResetConfig(t *testing.T) {
	cfg := testConfig()
	defaults := config.Config{
		APIBaseURL:        config.DefaultBaseURL,
		DefaultReportType: models.ReportFree,
		MidTierLabel:      models.DefaultMidLabel,
		OpenBrowser:       true,
		HistoryFile:       "/default/history.jsonl",
		LogLevel:          "warn",
	}

	resetConfig(cfg, defaults)

	want := defaults
	want.HistoryFile = "/path/to/history.jsonl"
	if diff := cmp.Diff(&want, cfg); diff != "" {
		t.Errorf("resetConfig mismatch (-want +got):\n%s", diff)
	}
}

func TestResetConfig_NoHistoryFile(t *testing.T) {
	cfg := &config.Config{}
	defaults := config.Config{HistoryFile: "/default/history.jsonl"}

	resetConfig(cfg, defaults)

	if cfg.HistoryFile != "/default/history.jsonl" {
		t.Errorf("HistoryFile = %q, want default", cfg.HistoryFile)
	}
}

func TestMenuLabelsCoverAllKeys(t *testing.T) {
	for _, k := range config.Keys {
		if _, ok := menuLabels[k]; !ok {
			t.Errorf("no menu label for %q", k)
		}
	}
}

func TestCustomKeyMap(t *testing.T) {
	km := customKeyMap()
	if km == nil {
		t.Fatal("customKeyMap() returned nil")
	}

	keys := km.Quit.Keys()
	if diff := cmp.Diff([]string{"esc", "ctrl+c"}, keys); diff != "" {
		t.Errorf("Quit keys mismatch (-want +got):\n%s", diff)
	}
}

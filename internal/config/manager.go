// Package config handles configuration management.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/diogo/cryptointel-go/internal/logging"
	"github.com/diogo/cryptointel-go/pkg/form"
	"github.com/diogo/cryptointel-go/pkg/models"
	"github.com/spf13/viper"
)

const (
	appName        = "cryptointel"
	configFileName = "config"
	configFileType = "json"
	envPrefix      = "CRYPTOINTEL"

	// DefaultBaseURL is the production API.
	DefaultBaseURL = "https://cryptointelai-production.up.railway.app"
)

// Config keys.
const (
	KeyAPIBaseURL        = "api_base_url"
	KeyDefaultReportType = "default_report_type"
	KeyMidTierLabel      = "mid_tier_label"
	KeyEmail             = "email"
	KeyOpenBrowser       = "open_browser"
	KeyIncognito         = "incognito"
	KeyHistoryFile       = "history_file"
	KeyTimeoutSeconds    = "timeout_seconds"
	KeyLogLevel          = "log_level"
)

// Keys lists every settable key in display order.
var Keys = []string{
	KeyAPIBaseURL,
	KeyDefaultReportType,
	KeyMidTierLabel,
	KeyEmail,
	KeyOpenBrowser,
	KeyIncognito,
	KeyHistoryFile,
	KeyTimeoutSeconds,
	KeyLogLevel,
}

// Config holds all configuration options.
type Config struct {
	APIBaseURL        string            `mapstructure:"api_base_url"`
	DefaultReportType models.ReportType `mapstructure:"default_report_type"`
	MidTierLabel      string            `mapstructure:"mid_tier_label"`
	Email             string            `mapstructure:"email"`
	OpenBrowser       bool              `mapstructure:"open_browser"`
	Incognito         bool              `mapstructure:"incognito"`
	HistoryFile       string            `mapstructure:"history_file"`
	TimeoutSeconds    int               `mapstructure:"timeout_seconds"`
	LogLevel          string            `mapstructure:"log_level"`
}

// Manager handles configuration loading and saving.
type Manager struct {
	v       *viper.Viper
	cfgDir  string
	cfgFile string
	dataDir string
}

// NewManager creates a configuration manager using the XDG base directories.
func NewManager() (*Manager, error) {
	m, err := NewManagerWithDirs(
		filepath.Join(xdg.ConfigHome, appName),
		filepath.Join(xdg.DataHome, appName),
	)
	if err != nil {
		return nil, err
	}
	m.v.AddConfigPath(".")
	return m, nil
}

// NewManagerWithDirs creates a configuration manager rooted at explicit directories.
func NewManagerWithDirs(cfgDir, dataDir string) (*Manager, error) {
	if cfgDir == "" || dataDir == "" {
		return nil, errors.New("config and data directories are required")
	}

	m := &Manager{
		v:       viper.New(),
		cfgDir:  cfgDir,
		cfgFile: filepath.Join(cfgDir, configFileName+"."+configFileType),
		dataDir: dataDir,
	}

	m.setDefaults()

	m.v.SetConfigName(configFileName)
	m.v.SetConfigType(configFileType)
	m.v.AddConfigPath(cfgDir)

	// Environment variable support
	m.v.SetEnvPrefix(envPrefix)
	m.v.AutomaticEnv()
	m.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return m, nil
}

// setDefaults sets default configuration values.
func (m *Manager) setDefaults() {
	d := m.Defaults()
	m.v.SetDefault(KeyAPIBaseURL, d.APIBaseURL)
	m.v.SetDefault(KeyDefaultReportType, string(d.DefaultReportType))
	m.v.SetDefault(KeyMidTierLabel, d.MidTierLabel)
	m.v.SetDefault(KeyEmail, d.Email)
	m.v.SetDefault(KeyOpenBrowser, d.OpenBrowser)
	m.v.SetDefault(KeyIncognito, d.Incognito)
	m.v.SetDefault(KeyHistoryFile, d.HistoryFile)
	m.v.SetDefault(KeyTimeoutSeconds, d.TimeoutSeconds)
	m.v.SetDefault(KeyLogLevel, d.LogLevel)
}

// Defaults returns the built-in configuration.
func (m *Manager) Defaults() Config {
	return Config{
		APIBaseURL:        DefaultBaseURL,
		DefaultReportType: models.ReportFree,
		MidTierLabel:      models.DefaultMidLabel,
		OpenBrowser:       true,
		HistoryFile:       filepath.Join(m.dataDir, "history.jsonl"),
		LogLevel:          logging.DefaultLevel,
	}
}

// Load reads configuration from file and environment and validates it.
func (m *Manager) Load() (*Config, error) {
	cfg, err := m.LoadRaw()
	if err != nil {
		return nil, err
	}
	if err := m.validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadRaw reads configuration without validating values, so that a config
// holding bad values can still be shown and repaired. An unparseable
// default_report_type is kept verbatim.
func (m *Manager) LoadRaw() (*Config, error) {
	if err := m.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		APIBaseURL:     m.v.GetString(KeyAPIBaseURL),
		MidTierLabel:   strings.ToLower(strings.TrimSpace(m.v.GetString(KeyMidTierLabel))),
		Email:          strings.TrimSpace(m.v.GetString(KeyEmail)),
		OpenBrowser:    m.v.GetBool(KeyOpenBrowser),
		Incognito:      m.v.GetBool(KeyIncognito),
		HistoryFile:    m.v.GetString(KeyHistoryFile),
		TimeoutSeconds: m.v.GetInt(KeyTimeoutSeconds),
		LogLevel:       m.v.GetString(KeyLogLevel),
	}

	raw := m.v.GetString(KeyDefaultReportType)
	if rt, err := models.ParseReportType(raw); err == nil {
		cfg.DefaultReportType = rt
	} else {
		cfg.DefaultReportType = models.ReportType(raw)
	}

	return cfg, nil
}

// Save writes configuration to file.
func (m *Manager) Save(cfg *Config) error {
	if err := m.validate(cfg); err != nil {
		return err
	}

	if err := os.MkdirAll(m.cfgDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	m.v.Set(KeyAPIBaseURL, cfg.APIBaseURL)
	m.v.Set(KeyDefaultReportType, string(cfg.DefaultReportType))
	m.v.Set(KeyMidTierLabel, cfg.MidTierLabel)
	m.v.Set(KeyEmail, cfg.Email)
	m.v.Set(KeyOpenBrowser, cfg.OpenBrowser)
	m.v.Set(KeyIncognito, cfg.Incognito)
	m.v.Set(KeyHistoryFile, cfg.HistoryFile)
	m.v.Set(KeyTimeoutSeconds, cfg.TimeoutSeconds)
	m.v.Set(KeyLogLevel, cfg.LogLevel)

	return m.v.WriteConfigAs(m.cfgFile)
}

// validate checks configuration values and normalizes the base URL.
func (m *Manager) validate(cfg *Config) error {
	base, err := NormalizeBaseURL(cfg.APIBaseURL)
	if err != nil {
		return err
	}
	cfg.APIBaseURL = base

	if !models.IsValidReportType(cfg.DefaultReportType) {
		return fmt.Errorf("%w: %q", ErrInvalidReportType, cfg.DefaultReportType)
	}

	if !models.IsValidMidLabel(cfg.MidTierLabel) {
		return fmt.Errorf("%w (got %q)", ErrInvalidMidLabel, cfg.MidTierLabel)
	}

	if cfg.Email != "" {
		if err := form.ValidateEmail(cfg.Email); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidEmail, err)
		}
	}

	if cfg.TimeoutSeconds < 0 {
		return ErrInvalidTimeout
	}

	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.LogLevel)
	}

	return nil
}

// GetConfigDir returns the configuration directory path.
func (m *Manager) GetConfigDir() string {
	return m.cfgDir
}

// GetConfigFile returns the configuration file path.
func (m *Manager) GetConfigFile() string {
	return m.cfgFile
}

// NormalizeBaseURL validates an API root and strips any trailing slash.
func NormalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrMissingBaseURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidBaseURL, raw)
	}
	if u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidBaseURL, raw)
	}
	// Catches concatenated literals such as "https://a.apphttps://a.app".
	if strings.HasSuffix(u.Host, ":") || strings.Contains(u.Path, "//") {
		return "", fmt.Errorf("%w: %q", ErrInvalidBaseURL, raw)
	}

	return strings.TrimRight(raw, "/"), nil
}

// Get returns the string form of a config value.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case KeyAPIBaseURL:
		return c.APIBaseURL, nil
	case KeyDefaultReportType:
		return string(c.DefaultReportType), nil
	case KeyMidTierLabel:
		return c.MidTierLabel, nil
	case KeyEmail:
		return c.Email, nil
	case KeyOpenBrowser:
		return strconv.FormatBool(c.OpenBrowser), nil
	case KeyIncognito:
		return strconv.FormatBool(c.Incognito), nil
	case KeyHistoryFile:
		return c.HistoryFile, nil
	case KeyTimeoutSeconds:
		return strconv.Itoa(c.TimeoutSeconds), nil
	case KeyLogLevel:
		return c.LogLevel, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// Set parses value and assigns it to key.
// Only the syntax of the value is checked here; Save validates the whole config.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case KeyAPIBaseURL:
		base, err := NormalizeBaseURL(value)
		if err != nil {
			return err
		}
		c.APIBaseURL = base

	case KeyDefaultReportType:
		rt, err := models.ParseReportType(value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidReportType, err)
		}
		c.DefaultReportType = rt

	case KeyMidTierLabel:
		label := strings.ToLower(value)
		if !models.IsValidMidLabel(label) {
			return fmt.Errorf("%w (got %q)", ErrInvalidMidLabel, value)
		}
		c.MidTierLabel = label

	case KeyEmail:
		if value != "" {
			if err := form.ValidateEmail(value); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidEmail, err)
			}
		}
		c.Email = value

	case KeyOpenBrowser:
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		c.OpenBrowser = b

	case KeyIncognito:
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		c.Incognito = b

	case KeyHistoryFile:
		if value == "" {
			return fmt.Errorf("%w: history_file cannot be empty", ErrInvalidValue)
		}
		c.HistoryFile = value

	case KeyTimeoutSeconds:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: timeout_seconds must be an integer", ErrInvalidValue)
		}
		if n < 0 {
			return ErrInvalidTimeout
		}
		c.TimeoutSeconds = n

	case KeyLogLevel:
		if _, err := logging.ParseLevel(value); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidLogLevel, value)
		}
		c.LogLevel = strings.ToLower(value)

	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	return nil
}

// parseBool accepts true/false, 1/0, yes/no and on/off.
func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("%w: expected a boolean, got %q", ErrInvalidValue, value)
}

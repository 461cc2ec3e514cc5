package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/huh"
	"github.com/diogo/cryptointel-go/internal/config"
	"github.com/diogo/cryptointel-go/pkg/models"
)

// customKeyMap returns a keymap that includes ESC as a quit key.
func customKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "back"),
	)
	return km
}

// ConfigMenuItem represents a configuration option in the menu.
type ConfigMenuItem struct {
	Key         string
	Label       string
	Description string
	Value       string
}

var menuLabels = map[string][2]string{
	config.KeyAPIBaseURL:        {"API URL", "Base URL of the research API"},
	config.KeyDefaultReportType: {"Report type", "Tier used when --tier is not given"},
	config.KeyMidTierLabel:      {"Mid tier label", "report_type value sent for the mid tier"},
	config.KeyEmail:             {"Email", "Default address for free reports"},
	config.KeyOpenBrowser:       {"Open browser", "Open checkout pages automatically"},
	config.KeyIncognito:         {"Incognito", "Don't save to history"},
	config.KeyHistoryFile:       {"History file", "Path to history file"},
	config.KeyTimeoutSeconds:    {"Timeout", "Request timeout in seconds, 0 for none"},
	config.KeyLogLevel:          {"Log level", "debug, info, warn or error"},
}

var logLevels = []string{"debug", "info", "warn", "error"}

// RunInteractiveConfig displays an interactive configuration menu.
func RunInteractiveConfig(cfg *config.Config, cfgMgr *config.Manager) error {
	for {
		items := buildConfigMenuItems(cfg)

		options := make([]huh.Option[string], len(items)+2)
		for i, item := range items {
			label := fmt.Sprintf("%-18s %s", item.Label, DimStyle.Render(item.Value))
			options[i] = huh.NewOption(label, item.Key)
		}
		options[len(items)] = huh.NewOption(SuccessStyle.Render("Save and exit"), "save")
		options[len(items)+1] = huh.NewOption(WarningStyle.Render("Reset to defaults"), "reset")

		var selected string
		selectForm := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Configuration").
					Description("Select an option to modify").
					Options(options...).
					Value(&selected),
			),
		)

		if err := selectForm.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}

		switch selected {
		case "save":
			if err := cfgMgr.Save(cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Println(SuccessStyle.Render("Configuration saved!"))
			return nil

		case "reset":
			if err := handleReset(cfg, cfgMgr.Defaults()); err != nil {
				return err
			}

		default:
			if err := handleConfigEdit(cfg, selected); err != nil {
				return err
			}
		}
	}
}

func buildConfigMenuItems(cfg *config.Config) []ConfigMenuItem {
	items := make([]ConfigMenuItem, 0, len(config.Keys))
	for _, k := range config.Keys {
		value, _ := cfg.Get(k)
		if value == "" {
			value = "(not set)"
		}
		label := menuLabels[k]
		items = append(items, ConfigMenuItem{
			Key:         k,
			Label:       label[0],
			Description: label[1],
			Value:       value,
		})
	}
	return items
}

// choicesFor returns the fixed set of values a key accepts, or nil for free text.
func choicesFor(k string) []string {
	switch k {
	case config.KeyDefaultReportType:
		choices := make([]string, len(models.AvailableReportTypes))
		for i, rt := range models.AvailableReportTypes {
			choices[i] = string(rt)
		}
		return choices
	case config.KeyMidTierLabel:
		return models.AvailableMidLabels
	case config.KeyOpenBrowser, config.KeyIncognito:
		return []string{"true", "false"}
	case config.KeyLogLevel:
		return logLevels
	}
	return nil
}

// validatorFor checks a candidate value by applying it to a copy of cfg.
func validatorFor(cfg *config.Config, k string) func(string) error {
	return func(s string) error {
		probe := *cfg
		return probe.Set(k, s)
	}
}

func handleConfigEdit(cfg *config.Config, k string) error {
	current, err := cfg.Get(k)
	if err != nil {
		return err
	}

	title := menuLabels[k][0]
	value := current

	var field huh.Field
	if choices := choicesFor(k); choices != nil {
		options := make([]huh.Option[string], len(choices))
		for i, c := range choices {
			options[i] = huh.NewOption(c, c)
		}
		field = huh.NewSelect[string]().
			Title(title + " (Esc to go back)").
			Description(menuLabels[k][1]).
			Options(options...).
			Value(&value)
	} else {
		field = huh.NewInput().
			Title(title + " (Esc to go back)").
			Description(menuLabels[k][1]).
			Value(&value).
			Validate(validatorFor(cfg, k))
	}

	form := huh.NewForm(huh.NewGroup(field)).WithKeyMap(customKeyMap())
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}

	return cfg.Set(k, value)
}

func handleReset(cfg *config.Config, defaults config.Config) error {
	var confirm bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Reset Configuration (Esc to go back)").
				Description("Are you sure you want to reset all settings to defaults?").
				Affirmative("Yes, reset").
				Negative("Cancel").
				Value(&confirm),
		),
	).WithKeyMap(customKeyMap())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}

	if confirm {
		resetConfig(cfg, defaults)
		fmt.Println(WarningStyle.Render("Configuration reset to defaults"))
	}

	return nil
}

// resetConfig restores defaults but keeps the history location.
func resetConfig(cfg *config.Config, defaults config.Config) {
	historyFile := cfg.HistoryFile
	*cfg = defaults
	if historyFile != "" {
		cfg.HistoryFile = historyFile
	}
}

package main

import (
	"fmt"

	"github.com/diogo/cryptointel-go/internal/config"
	"github.com/diogo/cryptointel-go/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and modify cryptointel CLI configuration settings.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		render.RenderTitle("Configuration")
		render.RenderInfo(fmt.Sprintf("Config file: %s", cfgMgr.GetConfigFile()))
		render.NewLine()

		for _, key := range config.Keys {
			value, err := cfg.Get(key)
			if err != nil {
				return err
			}
			render.RenderKeyValue(key, value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: fmt.Sprintf(`Set a configuration value and save it.

Keys: %v`, config.Keys),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setConfigValue(cfg, cfgMgr, args[0], args[1])
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset configuration to defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults := cfgMgr.Defaults()
		if err := cfgMgr.Save(&defaults); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		*cfg = defaults

		render.RenderSuccess("Configuration reset to defaults")
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), cfgMgr.GetConfigFile())
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		return ui.RunInteractiveConfig(cfg, cfgMgr)
	},
}

// setConfigValue applies key=value to c and saves it.
func setConfigValue(c *config.Config, mgr *config.Manager, key, value string) error {
	updated := *c
	if err := updated.Set(key, value); err != nil {
		return err
	}
	if err := mgr.Save(&updated); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	*c = updated

	saved, _ := c.Get(key)
	render.RenderSuccess(fmt.Sprintf("Set %s = %s", key, saved))
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configResetCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
}

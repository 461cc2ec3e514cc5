package main

import (
	"github.com/spf13/cobra"
)

var tiersCmd = &cobra.Command{
	Use:     "tiers",
	Short:   "List report tiers and prices",
	Args:    cobra.NoArgs,
	PreRunE: requireValidConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		return render.RenderTiers(cfg.MidTierLabel)
	},
}

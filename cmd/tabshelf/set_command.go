package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tabshelf/internal/ipc"
)

func newSetCommand(ctx *commandContext) *cobra.Command {
	var threshold int
	var minTabs int
	var autoGroup string
	var autoUngroup string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update runtime engine settings",
		Long: `Update runtime engine settings.

Changes persist in the daemon's state database and override the config file
until the database is cleared.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := ipc.ConfigureRequest{}
			changed := false
			if cmd.Flags().Changed("threshold") {
				req.ThresholdMinutes = &threshold
				changed = true
			}
			if cmd.Flags().Changed("min-tabs") {
				req.MinGroupTabs = &minTabs
				changed = true
			}
			if cmd.Flags().Changed("auto-group") {
				enabled, err := parseBoolFlag("auto-group", autoGroup)
				if err != nil {
					return err
				}
				req.AutoGroup = &enabled
				changed = true
			}
			if cmd.Flags().Changed("auto-ungroup") {
				enabled, err := parseBoolFlag("auto-ungroup", autoUngroup)
				if err != nil {
					return err
				}
				req.AutoUngroup = &enabled
				changed = true
			}
			if !changed {
				return fmt.Errorf("nothing to update; pass at least one of --threshold, --min-tabs, --auto-group, --auto-ungroup")
			}

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Configure(req)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&threshold, "threshold", 0, "Idle threshold in minutes")
	cmd.Flags().IntVar(&minTabs, "min-tabs", 0, "Minimum inactive tabs required to group")
	cmd.Flags().StringVar(&autoGroup, "auto-group", "", "Enable or disable automatic grouping (true/false)")
	cmd.Flags().StringVar(&autoUngroup, "auto-ungroup", "", "Enable or disable release of reactivated tabs (true/false)")
	return cmd
}

func parseBoolFlag(name, value string) (bool, error) {
	switch value {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid value %q for --%s (use true or false)", value, name)
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tabshelf/internal/ipc"
)

func newStartCommand(ctx *commandContext) *cobra.Command {
	var minutes int

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Arm the grouping countdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.StartCountdown(minutes)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Countdown started: grouping in %d minutes\n", resp.Minutes)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "Idle threshold in minutes (0 uses the configured value)")
	return cmd
}

func newStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Disarm the grouping countdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.StopCountdown()
				if err != nil {
					return err
				}
				if resp.WasRunning {
					fmt.Fprintln(cmd.OutOrStdout(), "Countdown stopped")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "No countdown was running")
				}
				return nil
			})
		},
	}
}

func newGroupNowCommand(ctx *commandContext) *cobra.Command {
	var minutes int

	cmd := &cobra.Command{
		Use:   "group-now",
		Short: "Run a grouping pass immediately",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.GroupNow(minutes)
				if err != nil {
					return err
				}
				if !resp.Grouped {
					fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
					return nil
				}
				noun := "tabs"
				if resp.Count == 1 {
					noun = "tab"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Shelved %d %s\n", resp.Count, noun)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "Idle threshold in minutes (0 uses the configured value)")
	return cmd
}

func newResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard engine state and rebuild from the browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Reset()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
				return nil
			})
		},
	}
}

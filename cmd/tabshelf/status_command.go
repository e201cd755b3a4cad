package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tabshelf/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and engine status",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()

			var status *ipc.StatusResponse
			err := ctx.withClient(func(client *ipc.Client) error {
				resp, callErr := client.Status()
				if callErr != nil {
					return callErr
				}
				status = resp
				return nil
			})
			if err != nil {
				if jsonOut {
					return writeJSON(cmd, map[string]any{"running": false, "error": err.Error()})
				}
				colorize := shouldColorize(stdout)
				for _, line := range renderSectionHeader("Daemon", colorize) {
					fmt.Fprintln(stdout, line)
				}
				fmt.Fprintln(stdout, renderStatusLine("Daemon", statusWarn, "Not running (run `tabshelf daemon start`)", colorize))
				return nil
			}

			if jsonOut {
				return writeJSON(cmd, status)
			}

			colorize := shouldColorize(stdout)
			for _, line := range renderSectionHeader("Daemon", colorize) {
				fmt.Fprintln(stdout, line)
			}
			if status.Running {
				fmt.Fprintln(stdout, renderStatusLine("Daemon", statusOK, fmt.Sprintf("Running (pid %d)", status.PID), colorize))
			} else {
				fmt.Fprintln(stdout, renderStatusLine("Daemon", statusWarn, "Process up but not started", colorize))
			}
			if status.BridgeAttached {
				fmt.Fprintln(stdout, renderStatusLine("Extension", statusOK, fmt.Sprintf("Connected (%s)", status.BridgeAddr), colorize))
			} else {
				fmt.Fprintln(stdout, renderStatusLine("Extension", statusWarn, fmt.Sprintf("Not connected (bridge on %s)", status.BridgeAddr), colorize))
			}
			if status.SessionStartTime != "" {
				fmt.Fprintln(stdout, renderStatusLine("Session", statusInfo, "Started "+status.SessionStartTime, colorize))
			}

			fmt.Fprintln(stdout)
			for _, line := range renderSectionHeader("Engine", colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout, renderStatusLine("Countdown", countdownKind(status), countdownDetail(status), colorize))
			if status.GroupingInFlight {
				fmt.Fprintln(stdout, renderStatusLine("Grouping", statusWarn, "Pass in flight", colorize))
			} else {
				fmt.Fprintln(stdout, renderStatusLine("Grouping", statusOK, "Idle", colorize))
			}
			fmt.Fprintln(stdout, renderStatusLine("Auto group", statusInfo, yesNo(status.AutoGroup), colorize))
			fmt.Fprintln(stdout, renderStatusLine("Auto ungroup", statusInfo, yesNo(status.AutoUngroup), colorize))

			fmt.Fprintln(stdout)
			rows := [][]string{
				{"Idle threshold", fmt.Sprintf("%d min", status.ThresholdMinutes)},
				{"Grouping floor", fmt.Sprintf("%d tabs", status.MinGroupTabs)},
				{"Tracked tabs", fmt.Sprintf("%d", status.TrackedTabs)},
				{"Queued releases", fmt.Sprintf("%d", status.QueuedReleases)},
			}
			if status.HoldingGroupID != nil {
				rows = append(rows, []string{"Holding group", fmt.Sprintf("%d", *status.HoldingGroupID)})
			}
			fmt.Fprintln(stdout, renderTable([]string{"Setting", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit status as JSON")
	return cmd
}

func countdownKind(status *ipc.StatusResponse) statusKind {
	if status.CountdownRunning {
		return statusOK
	}
	return statusInfo
}

func countdownDetail(status *ipc.StatusResponse) string {
	if !status.CountdownRunning {
		return "Idle"
	}
	if status.CountdownEnd != "" {
		if end, err := time.Parse(time.RFC3339, status.CountdownEnd); err == nil {
			remaining := time.Until(end).Round(time.Second)
			if remaining > 0 {
				return fmt.Sprintf("Armed, fires in %s", remaining)
			}
		}
	}
	return "Armed"
}

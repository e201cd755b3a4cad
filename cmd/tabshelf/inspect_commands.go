package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tabshelf/internal/engine"
	"tabshelf/internal/events"
	"tabshelf/internal/ipc"
)

type tabRow = engine.TabInfo

func newEventsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show recent engine events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Events()
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, resp.Events)
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Events) == 0 {
					fmt.Fprintln(stdout, "No recent events")
					return nil
				}
				rows := make([][]string, 0, len(resp.Events))
				for _, event := range resp.Events {
					rows = append(rows, []string{
						event.Time.Format("15:04:05"),
						string(event.Kind),
						eventDetail(event),
					})
				}
				fmt.Fprintln(stdout, renderTable([]string{"Time", "Event", "Detail"}, rows, []columnAlignment{alignLeft, alignLeft, alignLeft}))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit events as JSON")
	return cmd
}

func eventDetail(event events.Event) string {
	switch event.Kind {
	case events.TimerStarted:
		return fmt.Sprintf("grouping in %d minutes", event.Minutes)
	case events.NotEnoughTabs:
		return fmt.Sprintf("need %d inactive tabs", event.Required)
	case events.GroupingComplete:
		return fmt.Sprintf("shelved %d tabs", event.Grouped)
	default:
		return event.Message
	}
}

func newTabsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "tabs",
		Short: "List tracked tabs with idle times",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Tabs()
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, resp.Tabs)
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Tabs) == 0 {
					fmt.Fprintln(stdout, "No tabs tracked")
					return nil
				}
				rows := make([][]string, 0, len(resp.Tabs))
				for _, tab := range resp.Tabs {
					rows = append(rows, []string{
						fmt.Sprintf("%d", tab.ID),
						truncate(tab.Title, 48),
						formatIdle(tab),
						tabFlags(tab),
					})
				}
				fmt.Fprintln(stdout, renderTable([]string{"ID", "Title", "Idle", "Flags"}, rows, []columnAlignment{alignRight, alignLeft, alignRight, alignLeft}))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit tabs as JSON")
	return cmd
}

func formatIdle(tab tabRow) string {
	if tab.Active {
		return "active"
	}
	if tab.IdleSeconds <= 0 {
		return "-"
	}
	return (time.Duration(tab.IdleSeconds) * time.Second).Round(time.Second).String()
}

func tabFlags(tab tabRow) string {
	flags := ""
	if tab.Pinned {
		flags += "pinned "
	}
	if tab.Audible {
		flags += "audible "
	}
	if tab.Grouped {
		flags += "grouped "
	}
	if tab.QueuedRelease {
		flags += "releasing "
	}
	if flags == "" {
		return "-"
	}
	return flags[:len(flags)-1]
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

package main

import (
	"strings"
	"testing"

	"tabshelf/internal/events"
)

func TestFormatIdle(t *testing.T) {
	cases := []struct {
		name string
		tab  tabRow
		want string
	}{
		{name: "active", tab: tabRow{Active: true, IdleSeconds: 90}, want: "active"},
		{name: "untracked", tab: tabRow{}, want: "-"},
		{name: "seconds", tab: tabRow{IdleSeconds: 45}, want: "45s"},
		{name: "minutes", tab: tabRow{IdleSeconds: 150}, want: "2m30s"},
		{name: "hours", tab: tabRow{IdleSeconds: 3600}, want: "1h0m0s"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatIdle(tc.tab); got != tc.want {
				t.Fatalf("formatIdle = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTabFlags(t *testing.T) {
	if got := tabFlags(tabRow{}); got != "-" {
		t.Fatalf("plain tab flags = %q", got)
	}
	got := tabFlags(tabRow{Pinned: true, Grouped: true, QueuedRelease: true})
	if got != "pinned grouped releasing" {
		t.Fatalf("flags = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate short = %q", got)
	}
	if got := truncate("a very long tab title", 10); got != "a very ..." {
		t.Fatalf("truncate long = %q", got)
	}
	if got := truncate("abcdef", 3); got != "abc" {
		t.Fatalf("truncate tiny = %q", got)
	}
}

func TestMaskToken(t *testing.T) {
	if got := maskToken(""); got != "" {
		t.Fatalf("empty token masked to %q", got)
	}
	if got := maskToken("super-secret"); strings.Contains(got, "secret") {
		t.Fatalf("token leaked: %q", got)
	}
}

func TestParseBoolFlag(t *testing.T) {
	for _, raw := range []string{"true", "1", "on", "yes"} {
		v, err := parseBoolFlag("auto-group", raw)
		if err != nil || !v {
			t.Fatalf("parseBoolFlag(%q) = %v, %v", raw, v, err)
		}
	}
	for _, raw := range []string{"false", "0", "off", "no"} {
		v, err := parseBoolFlag("auto-group", raw)
		if err != nil || v {
			t.Fatalf("parseBoolFlag(%q) = %v, %v", raw, v, err)
		}
	}
	if _, err := parseBoolFlag("auto-group", "maybe"); err == nil {
		t.Fatal("invalid boolean should be rejected")
	}
}

func TestEventDetail(t *testing.T) {
	cases := []struct {
		event events.Event
		want  string
	}{
		{events.Event{Kind: events.TimerStarted, Minutes: 30}, "30"},
		{events.Event{Kind: events.NotEnoughTabs, Required: 5}, "5"},
		{events.Event{Kind: events.GroupingComplete, Grouped: 4}, "4"},
		{events.Event{Kind: events.Error, Message: "bridge down"}, "bridge down"},
	}
	for _, tc := range cases {
		if got := eventDetail(tc.event); !strings.Contains(got, tc.want) {
			t.Fatalf("eventDetail(%s) = %q, should mention %q", tc.event.Kind, got, tc.want)
		}
	}
}

func TestRenderStatusLineWithoutColor(t *testing.T) {
	line := renderStatusLine("Daemon", statusOK, "running", false)
	if !strings.Contains(line, "Daemon") || !strings.Contains(line, "running") {
		t.Fatalf("status line = %q", line)
	}
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("color escape emitted with colorize off: %q", line)
	}
}

func TestYesNo(t *testing.T) {
	if yesNo(true) != "yes" || yesNo(false) != "no" {
		t.Fatal("yesNo mapping broken")
	}
}

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tabshelf/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("missing file reported as existing")
	}
	if resolved == "" {
		t.Fatal("resolved path should still be reported")
	}
	if cfg.Engine.ThresholdMinutes != 30 {
		t.Fatalf("default threshold %d, want 30", cfg.Engine.ThresholdMinutes)
	}
	if cfg.Engine.GroupTitle != "Inactive Tabs" {
		t.Fatalf("default group title %q", cfg.Engine.GroupTitle)
	}
	if !cfg.Engine.AutoGroup || !cfg.Engine.AutoUngroup {
		t.Fatal("auto grouping should default to enabled")
	}
	if !strings.HasSuffix(cfg.SocketPath(), "tabshelfd.sock") {
		t.Fatalf("unexpected socket path %q", cfg.SocketPath())
	}
}

func TestLoadOverridesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
[engine]
threshold_minutes = 45
min_group_tabs = 3
auto_group = false

[bridge]
bind = "127.0.0.1:9000"

[logging]
format = "json"
`)

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("file should be reported as found")
	}
	if cfg.Engine.ThresholdMinutes != 45 {
		t.Fatalf("threshold %d, want 45", cfg.Engine.ThresholdMinutes)
	}
	if cfg.Engine.MinGroupTabs != 3 {
		t.Fatalf("min group tabs %d, want 3", cfg.Engine.MinGroupTabs)
	}
	if cfg.Engine.AutoGroup {
		t.Fatal("auto_group override ignored")
	}
	if cfg.Bridge.Bind != "127.0.0.1:9000" {
		t.Fatalf("bind %q", cfg.Bridge.Bind)
	}
	// Unset fields keep their defaults.
	if cfg.Engine.AutoStartTabs != 10 || cfg.Engine.AutoStopTabs != 5 {
		t.Fatalf("hysteresis defaults lost: start=%d stop=%d",
			cfg.Engine.AutoStartTabs, cfg.Engine.AutoStopTabs)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "info" {
		t.Fatalf("logging = %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name     string
		contents string
		want     string
	}{
		{
			name: "inverted hysteresis band",
			contents: `
[engine]
auto_start_tabs = 3
auto_stop_tabs = 8
`,
			want: "auto_stop_tabs",
		},
		{
			name: "release delay below poll interval",
			contents: `
[engine]
release_delay_seconds = 2
release_poll_seconds = 5
`,
			want: "release_delay_seconds",
		},
		{
			name: "bad bind address",
			contents: `
[bridge]
bind = "not-an-address"
`,
			want: "bridge.bind",
		},
		{
			name: "bad log format",
			contents: `
[logging]
format = "yaml"
`,
			want: "logging.format",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.contents)
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestBridgeTokenFromEnvironment(t *testing.T) {
	t.Setenv("TABSHELF_BRIDGE_TOKEN", "env-secret")
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Bridge.Token != "env-secret" {
		t.Fatalf("token %q, want env value", cfg.Bridge.Token)
	}
}

func TestCreateSampleProducesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config did not load: exists=%v err=%v", exists, err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("directory %q missing: %v", dir, err)
		}
	}
}

// Package testsupport provides shared builders for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"tabshelf/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Bridge.Bind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure config directories: %v", err)
	}
	return builder.cfg
}

// WithThreshold sets the idle threshold on the test config.
func WithThreshold(minutes int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Engine.ThresholdMinutes = minutes
	}
}

// WithMinGroupTabs sets the grouping floor on the test config.
func WithMinGroupTabs(count int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Engine.MinGroupTabs = count
	}
}

// WithBridgeToken sets the bridge auth token on the test config.
func WithBridgeToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Bridge.Token = token
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}

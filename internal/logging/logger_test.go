package logging_test

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tabshelf/internal/logging"
)

func logToFile(t *testing.T, opts logging.Options, emit func(*slog.Logger)) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.log")
	opts.OutputPaths = []string{path}
	opts.ErrorOutputPaths = []string{path}

	logger, err := logging.New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	emit(logger)

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return string(content)
}

func TestConsoleFormat(t *testing.T) {
	out := logToFile(t, logging.Options{Format: "console", Level: "info"}, func(logger *slog.Logger) {
		logger.Info("bridge listening", logging.String("address", "127.0.0.1:8274"))
		logger.Debug("suppressed")
	})

	if !strings.Contains(out, "INFO bridge listening") {
		t.Fatalf("missing level and message: %q", out)
	}
	if !strings.Contains(out, "address=127.0.0.1:8274") {
		t.Fatalf("missing key=value attr: %q", out)
	}
	if strings.Contains(out, "suppressed") {
		t.Fatalf("debug line leaked at info level: %q", out)
	}
}

func TestConsolePromotesComponentPrefix(t *testing.T) {
	out := logToFile(t, logging.Options{Format: "console", Level: "info"}, func(logger *slog.Logger) {
		logging.NewComponentLogger(logger, "engine").Info("countdown started")
	})

	if !strings.Contains(out, "engine: countdown started") {
		t.Fatalf("component not promoted into prefix: %q", out)
	}
	if strings.Contains(out, "component=") {
		t.Fatalf("component should not repeat as an attr: %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	out := logToFile(t, logging.Options{Format: "json", Level: "info"}, func(logger *slog.Logger) {
		logger.Info("grouping pass complete", logging.Int("grouped", 4))
	})

	var record map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &record); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, out)
	}
	if record["msg"] != "grouping pass complete" {
		t.Fatalf("msg = %v", record["msg"])
	}
	if record["level"] != "info" {
		t.Fatalf("level = %v", record["level"])
	}
	if record["grouped"] != float64(4) {
		t.Fatalf("grouped = %v", record["grouped"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatal("missing ts field")
	}
}

func TestWarnLevelSuppressesInfo(t *testing.T) {
	out := logToFile(t, logging.Options{Format: "console", Level: "warn"}, func(logger *slog.Logger) {
		logger.Info("routine detail")
	})
	if strings.TrimSpace(out) != "" {
		t.Fatalf("info line leaked at warn level: %q", out)
	}
}

func TestUnsupportedFormatRejected(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "logfmt"}); err == nil {
		t.Fatal("unsupported format should be rejected")
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := logging.NewFromConfig("info", "console", dir)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Info("daemon started")

	content, err := os.ReadFile(filepath.Join(dir, "tabshelf.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "daemon started") {
		t.Fatalf("log file missing entry: %q", content)
	}
}

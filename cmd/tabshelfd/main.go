// Command tabshelfd runs the tabshelf daemon in the foreground. It is the
// standalone daemon binary; `tabshelf daemon run` provides the same loop via
// the CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"tabshelf/internal/config"
	"tabshelf/internal/daemonrun"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("ensure directories: %v", err)
	}

	if err := daemonrun.Run(context.Background(), cfg, daemonrun.Options{LogLevel: *logLevel}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

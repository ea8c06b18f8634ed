package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/roman-kulish/seismic-amplitude/cmd/amplitude/app"
)

// fileList collects a repeatable flag
type fileList []string

func (f *fileList) String() string {
	return strings.Join(*f, ",")
}

func (f *fileList) Set(value string) error {
	*f = append(*f, value)
	return nil
}

func main() {
	var logLevel slog.LevelVar
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &logLevel}))

	var configPath string
	var opts app.Options
	var imports fileList
	flag.StringVar(&configPath, "c", "", "Path to the configuration file")
	flag.Var(&imports, "import", "Waveform file to import before measuring, may be repeated")
	flag.BoolVar(&opts.List, "list", false, "Print stored measurements after the run")
	flag.BoolVar(&opts.WarningsOnly, "warnings", false, "Print only measurements flagged for review")
	flag.Parse()

	if configPath == "" {
		logger.Error("no configuration file provided")
		os.Exit(1)
	}

	config, err := app.LoadConfig(configPath)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to load configuration file: %s", err.Error()), slog.String("path", configPath))
		os.Exit(1)
	}

	level, _ := config.LogLevel() // validated on load
	logLevel.Set(level)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts.Imports = imports
	opts.Output = os.Stdout

	if err = app.Run(ctx, config, logger, opts); err != nil {
		logger.Error(err.Error())

		cancel()
		os.Exit(1)
	}
}

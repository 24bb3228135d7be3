package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vendo/internal/app"
	"github.com/ternarybob/vendo/internal/common"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	// Command-line flags
	configFiles  configPaths // Multiple -config flags supported
	brandFlag    = flag.String("brand", "", "Brand name (overrides config)")
	watchFlag    = flag.Bool("watch", false, "Keep running and re-run on the configured cron schedule")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")

	// Global state
	config *common.Config
	logger arbor.ILogger
)

func init() {
	// Register custom flag for multiple config files
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	// Parse command-line flags
	flag.Parse()

	// Handle version flag
	if *showVersion || *showVersionV {
		fmt.Printf("Vendo version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Apply CLI overrides (highest priority)
	// 3. Initialize logger
	// 4. Print banner

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("vendo.toml"); err == nil {
			configFiles = append(configFiles, "vendo.toml")
		} else if _, err := os.Stat("deployments/local/vendo.toml"); err == nil {
			// Fallback: check deployments/local for users running from project root
			configFiles = append(configFiles, "deployments/local/vendo.toml")
		}
	}

	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	// Apply command-line flag overrides (highest priority)
	common.ApplyFlagOverrides(config, *brandFlag, *watchFlag)

	if config.Brand.Name == "" {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Msg("No brand configured: set brand.name in config or pass -brand")
		os.Exit(1)
	}

	logger = common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	logger.Info().
		Str("brand", config.Brand.Name).
		Str("environment", config.Environment).
		Str("output", config.Output.Dir).
		Msg("Configuration loaded")

	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
		os.Exit(1)
	}
	defer application.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel the running cycle on interrupt
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info().Msg("Interrupt signal received, stopping")
		cancel()
	}()

	if err := application.RunOnce(ctx); err != nil {
		logger.Error().Err(err).Msg("Run failed")
		if !config.Schedule.Enabled {
			os.Exit(1)
		}
	}

	if !config.Schedule.Enabled {
		return
	}

	// Watch mode: re-run on the configured cron schedule until interrupted
	scheduler := cron.New()
	_, err = scheduler.AddFunc(config.Schedule.Cron, func() {
		if err := application.RunOnce(ctx); err != nil {
			logger.Error().Err(err).Msg("Scheduled run failed")
		}
	})
	if err != nil {
		logger.Fatal().Err(err).Str("cron", config.Schedule.Cron).Msg("Invalid cron expression")
		os.Exit(1)
	}

	logger.Info().Str("cron", config.Schedule.Cron).Msg("Watch mode enabled")
	scheduler.Start()

	<-ctx.Done()
	scheduler.Stop()
	logger.Info().Msg("Stopped")
}

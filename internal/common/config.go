package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Brand       BrandConfig    `toml:"brand"`
	Pipeline    PipelineConfig `toml:"pipeline"`
	Wayback     WaybackConfig  `toml:"wayback"`
	Storage     StorageConfig  `toml:"storage"`
	Output      OutputConfig   `toml:"output"`
	Logging     LoggingConfig  `toml:"logging"`
	Schedule    ScheduleConfig `toml:"schedule"`
}

// BrandConfig identifies the retailer whose web presence is analyzed
type BrandConfig struct {
	Name        string   `toml:"name"`         // Brand name, used for event resolution and output file names
	URLs        []string `toml:"urls"`         // Site URLs to discover archived snapshots for
	CaptionsCSV string   `toml:"captions_csv"` // Optional Instagram caption export to ingest alongside crawl data
}

// PipelineConfig holds the tunable parameters of the extraction pipeline.
// The source heuristics evolved across several script variants; everything
// that differed between variants is a setting here rather than a fork.
type PipelineConfig struct {
	ContextWindow       int  `toml:"context_window"`        // Characters captured either side of a keyword hit
	MergeGapDays        int  `toml:"merge_gap_days"`        // Max gap between same-event snapshots merged into one episode
	MinKeywords         int  `toml:"min_keywords"`          // Surviving keywords required for an entry to count as promotional (1 or 2)
	EnableOCR           bool `toml:"enable_ocr"`            // Feed OCR text through the keyword pass
	OCRKeywordThreshold int  `toml:"ocr_keyword_threshold"` // Min keywords found in regular text before OCR is attempted
}

// WaybackConfig controls archived snapshot discovery and fetching
type WaybackConfig struct {
	CDXBaseURL     string        `toml:"cdx_base_url"`    // Wayback CDX API endpoint
	ReplayBaseURL  string        `toml:"replay_base_url"` // Archived page replay endpoint
	From           string        `toml:"from"`            // Start of crawl window (YYYYMMDD)
	To             string        `toml:"to"`              // End of crawl window (YYYYMMDD)
	UserAgent      string        `toml:"user_agent"`      // User agent for archive requests
	RequestTimeout time.Duration `toml:"request_timeout"` // Per-request timeout
	RequestDelay   time.Duration `toml:"request_delay"`   // Minimum delay between archive requests
	MaxRetries     int           `toml:"max_retries"`     // Retry attempts per request
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// OutputConfig controls where the forecasting feeds are written
type OutputConfig struct {
	Dir string `toml:"dir"` // Directory for episode/series CSVs and the rejection log
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// ScheduleConfig enables watch mode, re-running the pipeline on a cron schedule
type ScheduleConfig struct {
	Enabled bool   `toml:"enabled"`
	Cron    string `toml:"cron"` // Cron expression, e.g. "0 3 * * *"
}

// NewDefaultConfig returns the default configuration
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Brand: BrandConfig{
			Name: "",
			URLs: []string{},
		},
		Pipeline: PipelineConfig{
			ContextWindow:       50,
			MergeGapDays:        4,
			MinKeywords:         2, // Stricter of the two observed policies; see DESIGN.md
			EnableOCR:           false,
			OCRKeywordThreshold: 2,
		},
		Wayback: WaybackConfig{
			CDXBaseURL:     "http://web.archive.org/cdx/search/cdx",
			ReplayBaseURL:  "http://web.archive.org/web",
			From:           "20130101",
			To:             "",
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			RequestTimeout: 30 * time.Second,
			RequestDelay:   3 * time.Second,
			MaxRetries:     3,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path:           "./data/vendo",
				ResetOnStartup: false,
			},
		},
		Output: OutputConfig{
			Dir: "./output",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
		Schedule: ScheduleConfig{
			Enabled: false,
			Cron:    "0 3 * * *",
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files; later files override
// earlier ones. Priority: env > last file > ... > first file > defaults.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("VENDO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if brand := os.Getenv("VENDO_BRAND"); brand != "" {
		config.Brand.Name = brand
	}
	if urls := os.Getenv("VENDO_BRAND_URLS"); urls != "" {
		parsed := []string{}
		for _, u := range strings.Split(urls, ",") {
			if trimmed := strings.TrimSpace(u); trimmed != "" {
				parsed = append(parsed, trimmed)
			}
		}
		if len(parsed) > 0 {
			config.Brand.URLs = parsed
		}
	}

	if window := os.Getenv("VENDO_PIPELINE_CONTEXT_WINDOW"); window != "" {
		if w, err := strconv.Atoi(window); err == nil {
			config.Pipeline.ContextWindow = w
		}
	}
	if gap := os.Getenv("VENDO_PIPELINE_MERGE_GAP_DAYS"); gap != "" {
		if g, err := strconv.Atoi(gap); err == nil {
			config.Pipeline.MergeGapDays = g
		}
	}
	if minKw := os.Getenv("VENDO_PIPELINE_MIN_KEYWORDS"); minKw != "" {
		if m, err := strconv.Atoi(minKw); err == nil {
			config.Pipeline.MinKeywords = m
		}
	}

	if from := os.Getenv("VENDO_WAYBACK_FROM"); from != "" {
		config.Wayback.From = from
	}
	if to := os.Getenv("VENDO_WAYBACK_TO"); to != "" {
		config.Wayback.To = to
	}

	if badgerPath := os.Getenv("VENDO_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if outDir := os.Getenv("VENDO_OUTPUT_DIR"); outDir != "" {
		config.Output.Dir = outDir
	}

	if level := os.Getenv("VENDO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("VENDO_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}
}

// Validate checks configuration invariants that would otherwise surface as
// confusing mid-run failures.
func (c *Config) Validate() error {
	if c.Pipeline.ContextWindow <= 0 {
		return fmt.Errorf("pipeline.context_window must be positive, got %d", c.Pipeline.ContextWindow)
	}
	if c.Pipeline.MergeGapDays < 0 {
		return fmt.Errorf("pipeline.merge_gap_days must not be negative, got %d", c.Pipeline.MergeGapDays)
	}
	if c.Pipeline.MinKeywords < 1 || c.Pipeline.MinKeywords > 2 {
		return fmt.Errorf("pipeline.min_keywords must be 1 or 2, got %d", c.Pipeline.MinKeywords)
	}
	return nil
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, brand string, watch bool) {
	if brand != "" {
		config.Brand.Name = brand
	}
	if watch {
		config.Schedule.Enabled = true
	}
}

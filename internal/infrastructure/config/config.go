package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	Window    WindowConfig
	Task      TaskConfig
	Input     InputConfig
	Bridge    BridgeConfig
	RateLimit RateLimitConfig
	Shell     ShellConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// WindowConfig holds the floating window sizing and timing policy.
type WindowConfig struct {
	DensityDPI           int           `envconfig:"WINDOW_DENSITY_DPI" default:"320"`
	PortraitWidth        int           `envconfig:"WINDOW_PORTRAIT_WIDTH" default:"800"`
	PortraitHeight       int           `envconfig:"WINDOW_PORTRAIT_HEIGHT" default:"1200"`
	LandscapeHeightRatio float64       `envconfig:"WINDOW_LANDSCAPE_HEIGHT_RATIO" default:"0.85"`
	LandscapeAspect      float64       `envconfig:"WINDOW_LANDSCAPE_ASPECT" default:"0.6"`
	MinSize              int           `envconfig:"WINDOW_MIN_SIZE" default:"450"`
	ScreenMargin         int           `envconfig:"WINDOW_SCREEN_MARGIN" default:"50"`
	ChromeHeight         int           `envconfig:"WINDOW_CHROME_HEIGHT" default:"160"`
	BubbleSize           int           `envconfig:"WINDOW_BUBBLE_SIZE" default:"140"`
	BubbleInsetX         int           `envconfig:"WINDOW_BUBBLE_INSET_X" default:"100"`
	BubbleTop            int           `envconfig:"WINDOW_BUBBLE_TOP" default:"200"`
	BubbleSpacing        int           `envconfig:"WINDOW_BUBBLE_SPACING" default:"160"`
	ResizeDebounce       time.Duration `envconfig:"WINDOW_RESIZE_DEBOUNCE" default:"150ms"`
	ScreenWidth          int           `envconfig:"SCREEN_WIDTH" default:"1080"`
	ScreenHeight         int           `envconfig:"SCREEN_HEIGHT" default:"2400"`
}

// TaskConfig holds task resolution settings.
type TaskConfig struct {
	ResolveDelay   time.Duration `envconfig:"TASK_RESOLVE_DELAY" default:"500ms"`
	ResolveRetries int           `envconfig:"TASK_RESOLVE_RETRIES" default:"0"`
	RetryInterval  time.Duration `envconfig:"TASK_RETRY_INTERVAL" default:"250ms"`
}

// InputConfig holds input injection settings.
type InputConfig struct {
	BreakerFailures uint32        `envconfig:"INPUT_BREAKER_FAILURES" default:"20"`
	BreakerTimeout  time.Duration `envconfig:"INPUT_BREAKER_TIMEOUT" default:"2s"`
}

// BridgeConfig holds shell bridge settings.
type BridgeConfig struct {
	RequestTimeout time.Duration `envconfig:"BRIDGE_REQUEST_TIMEOUT" default:"2s"`
	WriteTimeout   time.Duration `envconfig:"BRIDGE_WRITE_TIMEOUT" default:"1s"`
	PingInterval   time.Duration `envconfig:"BRIDGE_PING_INTERVAL" default:"15s"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"50"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"100"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// ShellConfig points at the overlay shell's preference file.
type ShellConfig struct {
	PrefsPath string `envconfig:"SHELL_PREFS"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "127.0.0.1",
		},
		Logging: LogConfig{
			Level: "info",
		},
		Window: WindowConfig{
			DensityDPI:           320,
			PortraitWidth:        800,
			PortraitHeight:       1200,
			LandscapeHeightRatio: 0.85,
			LandscapeAspect:      0.6,
			MinSize:              450,
			ScreenMargin:         50,
			ChromeHeight:         160,
			BubbleSize:           140,
			BubbleInsetX:         100,
			BubbleTop:            200,
			BubbleSpacing:        160,
			ResizeDebounce:       150 * time.Millisecond,
			ScreenWidth:          1080,
			ScreenHeight:         2400,
		},
		Task: TaskConfig{
			ResolveDelay:  500 * time.Millisecond,
			RetryInterval: 250 * time.Millisecond,
		},
		Input: InputConfig{
			BreakerFailures: 20,
			BreakerTimeout:  2 * time.Second,
		},
		Bridge: BridgeConfig{
			RequestTimeout: 2 * time.Second,
			WriteTimeout:   time.Second,
			PingInterval:   15 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
			Enabled:           true,
		},
	}
}

// Validate rejects values the window policy cannot work with.
func (c *Config) Validate() error {
	w := c.Window
	var errs []error
	if w.DensityDPI <= 0 {
		errs = append(errs, fmt.Errorf("WINDOW_DENSITY_DPI must be positive, got %d", w.DensityDPI))
	}
	if w.PortraitWidth <= 0 || w.PortraitHeight <= 0 {
		errs = append(errs, errors.New("portrait window size must be positive"))
	}
	if w.LandscapeHeightRatio <= 0 || w.LandscapeHeightRatio > 1 {
		errs = append(errs, fmt.Errorf("WINDOW_LANDSCAPE_HEIGHT_RATIO must be in (0,1], got %v", w.LandscapeHeightRatio))
	}
	if w.LandscapeAspect <= 0 {
		errs = append(errs, fmt.Errorf("WINDOW_LANDSCAPE_ASPECT must be positive, got %v", w.LandscapeAspect))
	}
	if w.MinSize <= 0 || w.BubbleSize <= 0 {
		errs = append(errs, errors.New("min size and bubble size must be positive"))
	}
	if w.ResizeDebounce <= 0 {
		errs = append(errs, errors.New("WINDOW_RESIZE_DEBOUNCE must be positive"))
	}
	if c.Task.ResolveRetries < 0 {
		errs = append(errs, errors.New("TASK_RESOLVE_RETRIES must not be negative"))
	}
	return errors.Join(errs...)
}

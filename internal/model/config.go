package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// APIConfig holds backend connection settings.
type APIConfig struct {
	// BaseURL is the root URL of the backend (e.g., https://erp.oox.example).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds every HTTP request.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// PollingConfig holds refresh intervals in seconds. Zero disables
// periodic refresh for that view; manual refresh keeps working.
type PollingConfig struct {
	TasksIntervalSec     int `mapstructure:"tasks_interval_sec" yaml:"tasks_interval_sec"`
	OrdersIntervalSec    int `mapstructure:"orders_interval_sec" yaml:"orders_interval_sec"`
	RecordsIntervalSec   int `mapstructure:"records_interval_sec" yaml:"records_interval_sec"`
	UpdatesIntervalSec   int `mapstructure:"updates_interval_sec" yaml:"updates_interval_sec"`
	DashboardIntervalSec int `mapstructure:"dashboard_interval_sec" yaml:"dashboard_interval_sec"`
}

// NotificationConfig controls notification delivery.
type NotificationConfig struct {
	// Desktop enables native desktop notifications for urgent items.
	Desktop bool `mapstructure:"desktop" yaml:"desktop"`

	// ToastSec is how long toasts stay on screen.
	ToastSec int `mapstructure:"toast_sec" yaml:"toast_sec"`
}

// LogConfig controls the structured log file.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API           APIConfig          `mapstructure:"api" yaml:"api"`
	Polling       PollingConfig      `mapstructure:"polling" yaml:"polling"`
	Notifications NotificationConfig `mapstructure:"notifications" yaml:"notifications"`
	Log           LogConfig          `mapstructure:"log" yaml:"log"`
	Display       DisplayConfig      `mapstructure:"display" yaml:"display"`
}

// Interval converts a seconds setting into a duration.
func Interval(sec int) time.Duration {
	if sec <= 0 {
		return 0
	}
	return time.Duration(sec) * time.Second
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/oox/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "oox", "config.yaml")
}

// DefaultLogPath returns the default log file location.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "oox-console.log")
	}
	return filepath.Join(home, ".local", "state", "oox", "console.log")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		API: APIConfig{
			BaseURL:    "http://localhost:8000",
			TimeoutSec: 30,
		},
		Polling: PollingConfig{
			TasksIntervalSec:     15,
			OrdersIntervalSec:    30,
			RecordsIntervalSec:   60,
			UpdatesIntervalSec:   10,
			DashboardIntervalSec: 60,
		},
		Notifications: NotificationConfig{
			Desktop:  true,
			ToastSec: 4,
		},
		Log: LogConfig{
			Level: "info",
			File:  DefaultLogPath(),
		},
		Display: DisplayConfig{
			Theme: "default",
		},
	}
}

// setDefaults registers every default with v so that missing keys and
// environment overrides resolve consistently.
func setDefaults(v *viper.Viper) {
	d := defaultAppConfig()
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout_sec", d.API.TimeoutSec)
	v.SetDefault("polling.tasks_interval_sec", d.Polling.TasksIntervalSec)
	v.SetDefault("polling.orders_interval_sec", d.Polling.OrdersIntervalSec)
	v.SetDefault("polling.records_interval_sec", d.Polling.RecordsIntervalSec)
	v.SetDefault("polling.updates_interval_sec", d.Polling.UpdatesIntervalSec)
	v.SetDefault("polling.dashboard_interval_sec", d.Polling.DashboardIntervalSec)
	v.SetDefault("notifications.desktop", d.Notifications.Desktop)
	v.SetDefault("notifications.toast_sec", d.Notifications.ToastSec)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("display.theme", d.Display.Theme)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Values can be overridden with OOX_* environment variables
// (e.g. OOX_API_BASE_URL). If the file does not exist, defaults and
// environment overrides are used.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("oox")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !os.IsNotExist(err) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	if cfg.API.TimeoutSec <= 0 {
		cfg.API.TimeoutSec = 30
	}
	if cfg.Notifications.ToastSec <= 0 {
		cfg.Notifications.ToastSec = 4
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("polling", cfg.Polling)
	v.Set("notifications", cfg.Notifications)
	v.Set("log", cfg.Log)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

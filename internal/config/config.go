package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the application configuration
type Config struct {
	Garmin   GarminConfig   `json:"garmin"`
	Analysis AnalysisConfig `json:"analysis"`
	Display  DisplayConfig  `json:"display"`
}

// GarminConfig holds wellness API credentials
type GarminConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// AnalysisConfig holds tunable analysis windows. Zero values fall back
// to the defaults at load time.
type AnalysisConfig struct {
	ATLWindowDays        int `json:"atl_window_days"`
	CTLWindowDays        int `json:"ctl_window_days"`
	BaselineLookbackDays int `json:"baseline_lookback_days"`
	RHRBaselineDays      int `json:"rhr_baseline_days"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	DistanceUnit string `json:"distance_unit"`
	ChartDays    int    `json:"chart_days"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Analysis: AnalysisConfig{
			ATLWindowDays:        7,
			CTLWindowDays:        42,
			BaselineLookbackDays: 14,
			RHRBaselineDays:      60,
		},
		Display: DisplayConfig{
			DistanceUnit: "km",
			ChartDays:    30,
		},
	}
}

// Load reads the configuration from ~/.vitals/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults for missing values
	defaults := DefaultConfig()
	if cfg.Analysis.ATLWindowDays == 0 {
		cfg.Analysis.ATLWindowDays = defaults.Analysis.ATLWindowDays
	}
	if cfg.Analysis.CTLWindowDays == 0 {
		cfg.Analysis.CTLWindowDays = defaults.Analysis.CTLWindowDays
	}
	if cfg.Analysis.BaselineLookbackDays == 0 {
		cfg.Analysis.BaselineLookbackDays = defaults.Analysis.BaselineLookbackDays
	}
	if cfg.Analysis.RHRBaselineDays == 0 {
		cfg.Analysis.RHRBaselineDays = defaults.Analysis.RHRBaselineDays
	}
	if cfg.Display.DistanceUnit == "" {
		cfg.Display.DistanceUnit = defaults.Display.DistanceUnit
	}
	if cfg.Display.ChartDays == 0 {
		cfg.Display.ChartDays = defaults.Display.ChartDays
	}

	cfg.applyEnv()

	return &cfg, nil
}

// applyEnv lets environment variables override stored credentials, so a
// .env file can carry secrets instead of the config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("VITALS_CLIENT_ID"); v != "" {
		c.Garmin.ClientID = v
	}
	if v := os.Getenv("VITALS_CLIENT_SECRET"); v != "" {
		c.Garmin.ClientSecret = v
	}
}

// Save writes the configuration to ~/.vitals/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Garmin = GarminConfig{
		ClientID:     "YOUR_CLIENT_ID",
		ClientSecret: "YOUR_CLIENT_SECRET",
	}

	return Save(&example)
}

// Validate checks if the config has required fields
func (c *Config) Validate() error {
	if c.Garmin.ClientID == "" || c.Garmin.ClientID == "YOUR_CLIENT_ID" {
		return errors.New("garmin.client_id is required - register an application to get one")
	}
	if c.Garmin.ClientSecret == "" || c.Garmin.ClientSecret == "YOUR_CLIENT_SECRET" {
		return errors.New("garmin.client_secret is required - register an application to get one")
	}

	if c.Display.DistanceUnit != "" && c.Display.DistanceUnit != "km" && c.Display.DistanceUnit != "mi" {
		return fmt.Errorf("display.distance_unit must be \"km\" or \"mi\", got %q", c.Display.DistanceUnit)
	}

	// The acute window must be shorter than the chronic window, or TSB
	// loses its meaning.
	if c.Analysis.ATLWindowDays < 0 || c.Analysis.CTLWindowDays < 0 {
		return errors.New("analysis windows must be positive")
	}
	if c.Analysis.ATLWindowDays > 0 && c.Analysis.CTLWindowDays > 0 &&
		c.Analysis.ATLWindowDays >= c.Analysis.CTLWindowDays {
		return fmt.Errorf("analysis.atl_window_days (%d) must be less than analysis.ctl_window_days (%d)",
			c.Analysis.ATLWindowDays, c.Analysis.CTLWindowDays)
	}

	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".vitals", "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".vitals"), nil
}

package config

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Analysis.ATLWindowDays != 7 {
		t.Errorf("Analysis.ATLWindowDays = %d, want 7", cfg.Analysis.ATLWindowDays)
	}
	if cfg.Analysis.CTLWindowDays != 42 {
		t.Errorf("Analysis.CTLWindowDays = %d, want 42", cfg.Analysis.CTLWindowDays)
	}
	if cfg.Analysis.BaselineLookbackDays != 14 {
		t.Errorf("Analysis.BaselineLookbackDays = %d, want 14", cfg.Analysis.BaselineLookbackDays)
	}
	if cfg.Analysis.RHRBaselineDays != 60 {
		t.Errorf("Analysis.RHRBaselineDays = %d, want 60", cfg.Analysis.RHRBaselineDays)
	}

	if cfg.Display.DistanceUnit != "km" {
		t.Errorf("Display.DistanceUnit = %q, want %q", cfg.Display.DistanceUnit, "km")
	}
	if cfg.Display.ChartDays != 30 {
		t.Errorf("Display.ChartDays = %d, want 30", cfg.Display.ChartDays)
	}

	// Credentials should be empty by default
	if cfg.Garmin.ClientID != "" {
		t.Errorf("Garmin.ClientID should be empty, got %q", cfg.Garmin.ClientID)
	}
	if cfg.Garmin.ClientSecret != "" {
		t.Errorf("Garmin.ClientSecret should be empty, got %q", cfg.Garmin.ClientSecret)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.Garmin = GarminConfig{ClientID: "12345", ClientSecret: "abc123secret"}
		return cfg
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errContains string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:        "empty client ID",
			mutate:      func(c *Config) { c.Garmin.ClientID = "" },
			expectError: true,
			errContains: "client_id",
		},
		{
			name:        "placeholder client ID",
			mutate:      func(c *Config) { c.Garmin.ClientID = "YOUR_CLIENT_ID" },
			expectError: true,
			errContains: "client_id",
		},
		{
			name:        "empty client secret",
			mutate:      func(c *Config) { c.Garmin.ClientSecret = "" },
			expectError: true,
			errContains: "client_secret",
		},
		{
			name:        "bad distance unit",
			mutate:      func(c *Config) { c.Display.DistanceUnit = "furlongs" },
			expectError: true,
			errContains: "distance_unit",
		},
		{
			name: "atl window not below ctl window",
			mutate: func(c *Config) {
				c.Analysis.ATLWindowDays = 42
				c.Analysis.CTLWindowDays = 42
			},
			expectError: true,
			errContains: "atl_window_days",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				} else if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestApplyEnvOverridesCredentials(t *testing.T) {
	t.Setenv("VITALS_CLIENT_ID", "env-id")
	t.Setenv("VITALS_CLIENT_SECRET", "env-secret")

	cfg := DefaultConfig()
	cfg.Garmin = GarminConfig{ClientID: "file-id", ClientSecret: "file-secret"}
	cfg.applyEnv()

	if cfg.Garmin.ClientID != "env-id" {
		t.Errorf("ClientID = %q, want env-id", cfg.Garmin.ClientID)
	}
	if cfg.Garmin.ClientSecret != "env-secret" {
		t.Errorf("ClientSecret = %q, want env-secret", cfg.Garmin.ClientSecret)
	}
}

func TestApplyEnvKeepsFileValuesWhenUnset(t *testing.T) {
	t.Setenv("VITALS_CLIENT_ID", "")
	t.Setenv("VITALS_CLIENT_SECRET", "")

	cfg := DefaultConfig()
	cfg.Garmin = GarminConfig{ClientID: "file-id", ClientSecret: "file-secret"}
	cfg.applyEnv()

	if cfg.Garmin.ClientID != "file-id" || cfg.Garmin.ClientSecret != "file-secret" {
		t.Errorf("credentials = %q/%q, want file values preserved", cfg.Garmin.ClientID, cfg.Garmin.ClientSecret)
	}
}

package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/art-injener/flatland-astro/internal/geodesy"
	"github.com/art-injener/flatland-astro/internal/solar"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "astrocalc.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.RadiusKm != geodesy.EarthRadiusKm {
		t.Errorf("RadiusKm = %v, want %v", cfg.RadiusKm, geodesy.EarthRadiusKm)
	}
	if cfg.Sunrise() != solar.Iterative || cfg.Bearing() != geodesy.GreatCircle {
		t.Errorf("strategies = %s/%s", cfg.Sunrise(), cfg.Bearing())
	}
	if !cfg.VerifyChecksum {
		t.Error("VerifyChecksum should default to true")
	}
	if cfg.Level() != slog.LevelInfo {
		t.Errorf("Level() = %v, want INFO", cfg.Level())
	}
}

func TestValidate_FillsDefaults(t *testing.T) {
	cfg := &Config{RadiusKm: -1}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.RadiusKm != geodesy.EarthRadiusKm {
		t.Errorf("RadiusKm = %v, want default", cfg.RadiusKm)
	}
	if cfg.SunriseStrategy != DefaultSunriseStrategy || cfg.BearingStrategy != DefaultBearingStrategy {
		t.Errorf("strategies = %q/%q, want defaults", cfg.SunriseStrategy, cfg.BearingStrategy)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.MaxAgeDays != DefaultMaxAgeDays {
		t.Errorf("MaxAgeDays = %v, want %v", cfg.MaxAgeDays, DefaultMaxAgeDays)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr error
	}{
		{"latitude", func(c *Config) { c.Observer.Latitude = 91 }, nil},
		{"longitude", func(c *Config) { c.Observer.Longitude = -181 }, nil},
		{"zone", func(c *Config) { c.ZoneOffset = 15 * 3600 }, nil},
		{"sunrise strategy", func(c *Config) { c.SunriseStrategy = "guess" }, solar.ErrUnknownStrategy},
		{"bearing strategy", func(c *Config) { c.BearingStrategy = "rhumb" }, geodesy.ErrUnknownBearingStrategy},
		{"log level", func(c *Config) { c.LogLevel = "verbose" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if *cfg != *Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", *cfg)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
observer:
  latitude: 55.7558
  longitude: 37.6173
  altitude: 0.15
zone_offset: 10800
radius_km: 6371
sunrise_strategy: closed-form
bearing_strategy: flat
verify_checksum: false
max_age_days: 3.5
log_level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Config{
		Observer:        Observer{Latitude: 55.7558, Longitude: 37.6173, Altitude: 0.15},
		ZoneOffset:      10800,
		RadiusKm:        6371,
		SunriseStrategy: "closed-form",
		BearingStrategy: "flat",
		VerifyChecksum:  false,
		MaxAgeDays:      3.5,
		LogLevel:        "debug",
	}
	if *cfg != want {
		t.Errorf("Load() = %+v, want %+v", *cfg, want)
	}

	if cfg.Sunrise() != solar.ClosedForm || cfg.Bearing() != geodesy.Flat || cfg.Level() != slog.LevelDebug {
		t.Errorf("parsed = %s/%s/%v", cfg.Sunrise(), cfg.Bearing(), cfg.Level())
	}
	if got := cfg.ObserverCoordinate(); got.Latitude != 55.7558 || got.Altitude != 0.15 {
		t.Errorf("ObserverCoordinate() = %+v", got)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "observer:\n  latitude: -33.8688\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Observer.Latitude != -33.8688 {
		t.Errorf("Latitude = %v, want -33.8688", cfg.Observer.Latitude)
	}
	if !cfg.VerifyChecksum || cfg.SunriseStrategy != DefaultSunriseStrategy {
		t.Errorf("defaults lost: %+v", *cfg)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "observer:\n  latitude: 10\nsunrise_strategy: iterative\n")

	t.Setenv("ASTROCALC_OBSERVER_LATITUDE", "40.7128")
	t.Setenv("ASTROCALC_SUNRISE_STRATEGY", "closed-form")
	t.Setenv("ASTROCALC_VERIFY_CHECKSUM", "false")
	t.Setenv("ASTROCALC_ZONE_OFFSET", "-14400")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Observer.Latitude != 40.7128 {
		t.Errorf("Latitude = %v, want 40.7128", cfg.Observer.Latitude)
	}
	if cfg.Sunrise() != solar.ClosedForm {
		t.Errorf("Sunrise() = %s, want closed-form", cfg.Sunrise())
	}
	if cfg.VerifyChecksum {
		t.Error("VerifyChecksum = true, want false from environment")
	}
	if cfg.ZoneOffset != -14400 {
		t.Errorf("ZoneOffset = %d, want -14400", cfg.ZoneOffset)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file: expected error")
	}

	path := writeConfig(t, "observer:\n  latitude: 123\n")
	if _, err := Load(path); err == nil {
		t.Error("invalid latitude: expected error")
	}

	path = writeConfig(t, "bearing_strategy: rhumb\n")
	if _, err := Load(path); !errors.Is(err, geodesy.ErrUnknownBearingStrategy) {
		t.Errorf("error = %v, want ErrUnknownBearingStrategy", err)
	}
}

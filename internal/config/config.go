// Package config загружает настройки astrocalc из файла и переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/art-injener/flatland-astro/internal/geodesy"
	"github.com/art-injener/flatland-astro/internal/solar"
)

// Значения по умолчанию.
const (
	// DefaultSunriseStrategy алгоритм восхода по умолчанию.
	DefaultSunriseStrategy = "iterative"

	// DefaultBearingStrategy способ расчёта азимута по умолчанию.
	DefaultBearingStrategy = "great-circle"

	// DefaultLogLevel уровень логирования по умолчанию.
	DefaultLogLevel = "info"

	// DefaultMaxAgeDays возраст элементов в сутках, после которого они считаются устаревшими.
	DefaultMaxAgeDays = 7.0

	// EnvPrefix префикс переменных окружения: ASTROCALC_OBSERVER_LATITUDE и т.д.
	EnvPrefix = "ASTROCALC"

	// maxZoneOffset максимальное смещение зоны, секунды (UTC+14).
	maxZoneOffset = 14 * 3600
)

// Observer — точка наблюдения по умолчанию.
type Observer struct {
	Latitude  float64 `mapstructure:"latitude" yaml:"latitude"`
	Longitude float64 `mapstructure:"longitude" yaml:"longitude"`
	Altitude  float64 `mapstructure:"altitude" yaml:"altitude"` // км
}

// Config содержит настройки astrocalc.
type Config struct {
	// Observer наблюдатель, для которого считаются восход и закат.
	Observer Observer `mapstructure:"observer" yaml:"observer"`

	// ZoneOffset смещение гражданской зоны от UTC в секундах (восток положителен).
	// По умолчанию: 0.
	ZoneOffset int `mapstructure:"zone_offset" yaml:"zone_offset"`

	// RadiusKm радиус сферы для расстояний.
	// По умолчанию: экваториальный радиус WGS84.
	RadiusKm float64 `mapstructure:"radius_km" yaml:"radius_km"`

	// SunriseStrategy алгоритм восхода: "iterative" или "closed-form".
	SunriseStrategy string `mapstructure:"sunrise_strategy" yaml:"sunrise_strategy"`

	// BearingStrategy способ расчёта азимута: "great-circle" или "flat".
	BearingStrategy string `mapstructure:"bearing_strategy" yaml:"bearing_strategy"`

	// VerifyChecksum включает проверку контрольных сумм TLE.
	// По умолчанию: true.
	VerifyChecksum bool `mapstructure:"verify_checksum" yaml:"verify_checksum"`

	// MaxAgeDays максимальный возраст элементов в сутках.
	// По умолчанию: 7 суток.
	MaxAgeDays float64 `mapstructure:"max_age_days" yaml:"max_age_days"`

	// LogLevel уровень логирования: debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// Default возвращает конфигурацию со значениями по умолчанию.
func Default() *Config {
	return &Config{
		RadiusKm:        geodesy.EarthRadiusKm,
		SunriseStrategy: DefaultSunriseStrategy,
		BearingStrategy: DefaultBearingStrategy,
		VerifyChecksum:  true,
		MaxAgeDays:      DefaultMaxAgeDays,
		LogLevel:        DefaultLogLevel,
	}
}

// Validate проверяет и корректирует конфигурацию.
// Пустые строковые поля, неположительные радиус и возраст заменяются значениями по умолчанию.
func (c *Config) Validate() error {
	if c.RadiusKm <= 0 {
		c.RadiusKm = geodesy.EarthRadiusKm
	}
	if c.MaxAgeDays <= 0 {
		c.MaxAgeDays = DefaultMaxAgeDays
	}
	if c.SunriseStrategy == "" {
		c.SunriseStrategy = DefaultSunriseStrategy
	}
	if c.BearingStrategy == "" {
		c.BearingStrategy = DefaultBearingStrategy
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}

	if obs := c.ObserverCoordinate(); !obs.Valid() {
		return fmt.Errorf("invalid observer %s", obs)
	}

	if c.ZoneOffset < -maxZoneOffset || c.ZoneOffset > maxZoneOffset {
		return fmt.Errorf("zone offset %d s out of range ±%d", c.ZoneOffset, maxZoneOffset)
	}

	if _, err := solar.ParseStrategy(c.SunriseStrategy); err != nil {
		return err
	}
	if _, err := geodesy.ParseBearingStrategy(c.BearingStrategy); err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	return nil
}

// ObserverCoordinate возвращает наблюдателя как географическую точку.
func (c *Config) ObserverCoordinate() geodesy.Coordinate {
	return geodesy.Coordinate{
		Latitude:  c.Observer.Latitude,
		Longitude: c.Observer.Longitude,
		Altitude:  c.Observer.Altitude,
	}
}

// Sunrise возвращает алгоритм восхода. Неизвестное имя даёт Iterative.
func (c *Config) Sunrise() solar.Strategy {
	s, err := solar.ParseStrategy(c.SunriseStrategy)
	if err != nil {
		return solar.Iterative
	}
	return s
}

// Bearing возвращает способ расчёта азимута. Неизвестное имя даёт GreatCircle.
func (c *Config) Bearing() geodesy.BearingStrategy {
	s, err := geodesy.ParseBearingStrategy(c.BearingStrategy)
	if err != nil {
		return geodesy.GreatCircle
	}
	return s
}

// Level возвращает уровень логирования. Неизвестное имя даёт Info.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Load читает конфигурацию из файла path (если не пуст) и переменных окружения
// с префиксом ASTROCALC_. Окружение имеет приоритет над файлом.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// setDefaults регистрирует все ключи, иначе AutomaticEnv не увидит их при Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("observer.latitude", d.Observer.Latitude)
	v.SetDefault("observer.longitude", d.Observer.Longitude)
	v.SetDefault("observer.altitude", d.Observer.Altitude)
	v.SetDefault("zone_offset", d.ZoneOffset)
	v.SetDefault("radius_km", d.RadiusKm)
	v.SetDefault("sunrise_strategy", d.SunriseStrategy)
	v.SetDefault("bearing_strategy", d.BearingStrategy)
	v.SetDefault("verify_checksum", d.VerifyChecksum)
	v.SetDefault("max_age_days", d.MaxAgeDays)
	v.SetDefault("log_level", d.LogLevel)
}

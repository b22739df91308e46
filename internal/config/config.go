// Package config handles loading, defaulting, and validation of the satviz
// TOML configuration file. Every section maps to a typed struct, and the two
// static lookup tables (satellite keywords and reference cities) are ordered
// array tables so their declaration order survives the round trip.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// NamePlaceholder is substituted with the escaped object name in
// CatalogConfig.URLTemplate.
const NamePlaceholder = "{name}"

// Config is the top-level configuration, mirroring the TOML sections.
type Config struct {
	Server    ServerConfig    `toml:"server"    json:"server"`
	Logging   LoggingConfig   `toml:"logging"   json:"logging"`
	Catalog   CatalogConfig   `toml:"catalog"   json:"catalog"`
	Track     TrackConfig     `toml:"track"     json:"track"`
	Proximity ProximityConfig `toml:"proximity" json:"proximity"`
	RateLimit RateLimitConfig `toml:"ratelimit" json:"ratelimit"`

	DefaultSatellite string      `toml:"default_satellite" json:"default_satellite"`
	Satellites       []Satellite `toml:"satellites"        json:"satellites"`
	Cities           []City      `toml:"cities"            json:"cities"`
}

type ServerConfig struct {
	Bind string `toml:"bind" json:"bind"`
}

type LoggingConfig struct {
	Level string `toml:"level" json:"level"`
}

type CatalogConfig struct {
	URLTemplate    string `toml:"url_template"    json:"url_template"`
	TimeoutSeconds int    `toml:"timeout_seconds" json:"timeout_seconds"`
}

type TrackConfig struct {
	DurationMinutes int     `toml:"duration_minutes" json:"duration_minutes"`
	StepSeconds     int     `toml:"step_seconds"     json:"step_seconds"`
	DisplayScale    float64 `toml:"display_scale"    json:"display_scale"`
}

type ProximityConfig struct {
	ThresholdDegrees float64 `toml:"threshold_degrees" json:"threshold_degrees"`
	KmPerDegree      float64 `toml:"km_per_degree"     json:"km_per_degree"`
}

// RateLimitConfig bounds POST / per client IP. Zero disables limiting.
type RateLimitConfig struct {
	RequestsPerMinute int `toml:"requests_per_minute" json:"requests_per_minute"`
	Burst             int `toml:"burst"               json:"burst"`
}

// Satellite maps a lower-case keyword to a canonical CelesTrak object name.
type Satellite struct {
	Keyword string `toml:"keyword" json:"keyword"`
	Name    string `toml:"name"    json:"name"`
}

// City is a named reference point for the proximity check.
type City struct {
	Name string  `toml:"name" json:"name"`
	Lat  float64 `toml:"lat"  json:"lat"`
	Lon  float64 `toml:"lon"  json:"lon"`
}

// Default returns a Config populated with sane defaults. Values here are
// used whenever the TOML file omits a field or table.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "0.0.0.0:5000",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Catalog: CatalogConfig{
			URLTemplate:    "https://celestrak.org/NORAD/elements/gp.php?NAME=" + NamePlaceholder + "&FORMAT=tle",
			TimeoutSeconds: 10,
		},
		Track: TrackConfig{
			DurationMinutes: 90,
			StepSeconds:     10,
			DisplayScale:    1000,
		},
		Proximity: ProximityConfig{
			ThresholdDegrees: 10,
			KmPerDegree:      111,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 0,
			Burst:             10,
		},
		DefaultSatellite: "ISS (ZARYA)",
		Satellites:       DefaultSatellites(),
		Cities:           DefaultCities(),
	}
}

// DefaultSatellites is the built-in keyword table. Order matters: the first
// keyword found in a prompt wins.
func DefaultSatellites() []Satellite {
	return []Satellite{
		{Keyword: "iss", Name: "ISS (ZARYA)"},
		{Keyword: "hubble", Name: "HST"},
		{Keyword: "starlink", Name: "STARLINK-1007"},
		{Keyword: "noaa", Name: "NOAA 18"},
		{Keyword: "tiangong", Name: "CSS (TIANHE)"},
		{Keyword: "gps", Name: "GPS BIIA-10"},
		{Keyword: "aqua", Name: "AQUA"},
		{Keyword: "terra", Name: "TERRA"},
		{Keyword: "landsat", Name: "LANDSAT 8"},
		{Keyword: "goes", Name: "GOES 16"},
	}
}

// DefaultCities is the built-in reference city table.
func DefaultCities() []City {
	return []City{
		{Name: "London", Lat: 51.5074, Lon: -0.1278},
		{Name: "New York", Lat: 40.7128, Lon: -74.0060},
		{Name: "Tokyo", Lat: 35.6762, Lon: 139.6503},
		{Name: "Paris", Lat: 48.8566, Lon: 2.3522},
		{Name: "Beijing", Lat: 39.9042, Lon: 116.4074},
		{Name: "Sydney", Lat: -33.8688, Lon: 151.2093},
		{Name: "Mumbai", Lat: 19.0760, Lon: 72.8777},
		{Name: "Los Angeles", Lat: 34.0522, Lon: -118.2437},
		{Name: "Dubai", Lat: 25.2048, Lon: 55.2708},
		{Name: "Singapore", Lat: 1.3521, Lon: 103.8198},
	}
}

// Load reads the TOML file at path, layers it on top of the defaults, and
// validates the result. An empty path yields the validated defaults.
//
// The satellite and city tables are replaced wholesale when the file
// declares them, never merged with the built-in entries.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, validate(cfg)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	cfg.Satellites = nil
	cfg.Cities = nil
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	if len(cfg.Satellites) == 0 {
		cfg.Satellites = DefaultSatellites()
	}
	if len(cfg.Cities) == 0 {
		cfg.Cities = DefaultCities()
	}

	if err := validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Server.Bind == "" {
		return errors.New("server.bind must not be empty")
	}
	switch cfg.Logging.Level {
	case "debug", "info":
	default:
		return fmt.Errorf("logging.level must be debug or info, got %q", cfg.Logging.Level)
	}
	if !strings.Contains(cfg.Catalog.URLTemplate, NamePlaceholder) {
		return fmt.Errorf("catalog.url_template must contain %s", NamePlaceholder)
	}
	if cfg.Catalog.TimeoutSeconds < 1 {
		return errors.New("catalog.timeout_seconds must be >= 1")
	}
	if cfg.Track.DurationMinutes < 1 {
		return errors.New("track.duration_minutes must be >= 1")
	}
	if cfg.Track.StepSeconds < 1 {
		return errors.New("track.step_seconds must be >= 1")
	}
	if cfg.Track.DisplayScale <= 0 {
		return errors.New("track.display_scale must be > 0")
	}
	if cfg.Proximity.ThresholdDegrees <= 0 {
		return errors.New("proximity.threshold_degrees must be > 0")
	}
	if cfg.Proximity.KmPerDegree <= 0 {
		return errors.New("proximity.km_per_degree must be > 0")
	}
	if cfg.RateLimit.RequestsPerMinute < 0 {
		return errors.New("ratelimit.requests_per_minute must be >= 0")
	}
	if cfg.RateLimit.RequestsPerMinute > 0 && cfg.RateLimit.Burst < 1 {
		return errors.New("ratelimit.burst must be >= 1 when limiting is enabled")
	}
	if cfg.DefaultSatellite == "" {
		return errors.New("default_satellite must not be empty")
	}
	for i, s := range cfg.Satellites {
		if strings.TrimSpace(s.Keyword) == "" || strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("satellites[%d]: keyword and name are required", i)
		}
	}
	for i, c := range cfg.Cities {
		if c.Name == "" {
			return fmt.Errorf("cities[%d]: name is required", i)
		}
		if c.Lat < -90 || c.Lat > 90 {
			return fmt.Errorf("cities[%d] %s: lat must be between -90 and 90", i, c.Name)
		}
		if c.Lon < -180 || c.Lon > 180 {
			return fmt.Errorf("cities[%d] %s: lon must be between -180 and 180", i, c.Name)
		}
	}
	return nil
}

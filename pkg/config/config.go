package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"dev" validate:"required"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080" validate:"min=1,max=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"5s"`
		// RateLimit bounds state-changing requests per client IP.
		RateLimit struct {
			Burst     float64 `yaml:"burst" default:"20" validate:"min=1"`
			PerSecond float64 `yaml:"per_second" default:"5" validate:"gt=0"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
		Format string `yaml:"format" default:"json" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Backend struct {
		BaseURL     string        `yaml:"base_url" default:"http://localhost:8000" validate:"required,url"`
		Username    string        `yaml:"username"`
		Password    string        `yaml:"password"`
		Timeout     time.Duration `yaml:"timeout" default:"8s"`
		SnapshotURL string        `yaml:"snapshot_url" validate:"omitempty,url"`
	} `yaml:"backend"`
	Dashboard struct {
		TableInterval     time.Duration `yaml:"table_interval" default:"5s" validate:"min=1s"`
		ChartInterval     time.Duration `yaml:"chart_interval" default:"10s" validate:"min=1s"`
		DefaultResolution string        `yaml:"default_resolution" default:"minute" validate:"oneof=second minute hour day"`
		FineResolution    string        `yaml:"fine_resolution" default:"second" validate:"oneof=second minute hour day"`
		ChartWidth        int           `yaml:"chart_width" default:"1024" validate:"min=64"`
		ChartHeight       int           `yaml:"chart_height" default:"420"`
		MinChartHeight    int           `yaml:"min_chart_height" default:"240" validate:"min=32"`
		RecreateSurface   bool          `yaml:"recreate_surface" default:"true"`
		PanelTopN         int           `yaml:"panel_top_n" default:"5" validate:"min=1"`
		Locale            string        `yaml:"locale" default:"en"`
	} `yaml:"dashboard"`
	Frames struct {
		Backend string        `yaml:"backend" default:"memory" validate:"oneof=memory redis"`
		TTL     time.Duration `yaml:"ttl" default:"10m"`
		MaxSize int           `yaml:"max_size" default:"64"`
		Redis   struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"pulseboard"`
		} `yaml:"redis"`
	} `yaml:"frames"`
	Recorder struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"recorder"`
}

// Load reads a YAML configuration file over the defaults. A missing file
// yields the defaults alone.
func Load(path string) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides it with environment
// variables, reading a .env file first when one is present.
func LoadWithEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("DASH_BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("APP_USER"); v != "" {
		c.Backend.Username = v
	}
	if v := os.Getenv("APP_PASS"); v != "" {
		c.Backend.Password = v
	}
	if v := os.Getenv("SNAPSHOT_URL"); v != "" {
		c.Backend.SnapshotURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Frames.Backend = "redis"
		c.Frames.Redis.Addr = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Recorder.SQLitePath = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse HTTP_PORT: %w", err)
		}
		c.Server.Port = port
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// Validate checks struct constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Frames.Backend == "redis" && c.Frames.Redis.Addr == "" {
		return fmt.Errorf("frames.redis.addr is required when frames.backend is redis")
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr     string        `yaml:"addr"`
	LogLevel string        `yaml:"logLevel"`
	Data     DataConfig    `yaml:"data"`
	Charts   ChartsConfig  `yaml:"charts"`
	Sessions SessionConfig `yaml:"sessions"`
	HTTP     HTTPConfig    `yaml:"http"`
}

type DataConfig struct {
	IncomePath string `yaml:"incomePath"`
	LaborPath  string `yaml:"laborPath"`
	Watch      bool   `yaml:"watch"` // reload tables when the files change
}

type ChartsConfig struct {
	ScatterYear   int    `yaml:"scatterYear"`
	DivergingYear int    `yaml:"divergingYear"`
	MapYears      [2]int `yaml:"mapYears"`
	TopoURL       string `yaml:"topoURL"`
}

type SessionConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

type HTTPConfig struct {
	AllowOrigins []string `yaml:"allowOrigins"`
	RateLimit    float64  `yaml:"rateLimit"` // requests per second per client, 0 disables
}

func DefaultConfig() *Config {
	return &Config{
		Addr:     ":8080",
		LogLevel: "info",
		Data: DataConfig{
			IncomePath: "hh_income_state.csv",
			LaborPath:  "lfs_state_sex.csv",
			Watch:      true,
		},
		Charts: ChartsConfig{
			ScatterYear:   2022,
			DivergingYear: 2022,
			MapYears:      [2]int{2012, 2022},
			TopoURL:       "malaysia_states.topojson",
		},
		Sessions: SessionConfig{TTL: 30 * time.Minute},
		HTTP: HTTPConfig{
			AllowOrigins: []string{"*"},
			RateLimit:    20,
		},
	}
}

// Load reads path over the defaults, then applies DASH_* environment
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("DASH_ADDR"); ok {
		c.Addr = v
	}
	if v, ok := lookup("DASH_LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup("DASH_INCOME_PATH"); ok {
		c.Data.IncomePath = v
	}
	if v, ok := lookup("DASH_LABOR_PATH"); ok {
		c.Data.LaborPath = v
	}
	if v, ok := lookup("DASH_WATCH"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DASH_WATCH: %w", err)
		}
		c.Data.Watch = b
	}
	if v, ok := lookup("DASH_SCATTER_YEAR"); ok {
		y, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DASH_SCATTER_YEAR: %w", err)
		}
		c.Charts.ScatterYear = y
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.Data.IncomePath == "" || c.Data.LaborPath == "" {
		errs = append(errs, errors.New("data.incomePath and data.laborPath are required"))
	}
	if c.Charts.ScatterYear <= 0 || c.Charts.DivergingYear <= 0 {
		errs = append(errs, errors.New("charts years must be positive"))
	}
	for _, y := range c.Charts.MapYears {
		if y <= 0 {
			errs = append(errs, errors.New("charts.mapYears must be positive"))
			break
		}
	}
	if c.HTTP.RateLimit < 0 {
		errs = append(errs, errors.New("http.rateLimit must not be negative"))
	}
	return errors.Join(errs...)
}

// Package config loads server settings from a .env file, an optional YAML
// file and the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/canny-edge-mcp/internal/canny"
)

// Environment variables read by Load.
const (
	EnvConfigFile  = "CANNY_MCP_CONFIG"
	EnvLogLevel    = "CANNY_MCP_LOG_LEVEL"
	EnvLogFile     = "CANNY_MCP_LOG_FILE"
	EnvWorkers     = "CANNY_MCP_WORKERS"
	EnvKernelCache = "CANNY_MCP_KERNEL_CACHE"
	EnvRadius      = "CANNY_MCP_RADIUS"
	EnvSigma       = "CANNY_MCP_SIGMA"
	EnvLow         = "CANNY_MCP_LOW"
	EnvHigh        = "CANNY_MCP_HIGH"
	EnvGrayscale   = "CANNY_MCP_GRAYSCALE"
)

// Limits applied to raw user input by Clamp.
const (
	MaxRadius    = 10
	MaxThreshold = canny.MaxThreshold
)

// Config holds process-wide settings.
type Config struct {
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	// Workers is the pipeline pool size; 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`

	// KernelCache bounds the number of cached Gaussian kernels.
	KernelCache int `yaml:"kernel_cache"`

	// Detect supplies defaults for any parameter a tool call omits.
	Detect Detect `yaml:"detect"`
}

// Detect is the default detection parameter set.
type Detect struct {
	Radius    int     `yaml:"radius"`
	Sigma     float64 `yaml:"sigma"`
	Low       int     `yaml:"low"`
	High      int     `yaml:"high"`
	Grayscale bool    `yaml:"grayscale"`
}

// Default returns the built-in settings.
func Default() *Config {
	d := canny.DefaultConfig()
	return &Config{
		LogLevel:    "info",
		KernelCache: 32,
		Detect: Detect{
			Radius:    d.KernelRadius,
			Sigma:     d.Sigma,
			Low:       d.Low,
			High:      d.High,
			Grayscale: d.Grayscale,
		},
	}
}

// Canny converts the detection defaults to a pipeline configuration that
// runs every stage.
func (d Detect) Canny() canny.Config {
	return canny.Config{
		KernelRadius: d.Radius,
		Sigma:        d.Sigma,
		Grayscale:    d.Grayscale,
		StopAfter:    canny.StageThreshold,
		Low:          d.Low,
		High:         d.High,
	}
}

// Clamp constrains raw user input the way the interactive tool did: radius
// to [0, MaxRadius], sigma to >= 0 and both thresholds to [0, MaxThreshold].
// Orderings such as low > high are left for canny.Config.Validate to reject.
func Clamp(c canny.Config) canny.Config {
	c.KernelRadius = min(max(c.KernelRadius, 0), MaxRadius)
	c.Sigma = max(c.Sigma, 0)
	c.Low = min(max(c.Low, 0), MaxThreshold)
	c.High = min(max(c.High, 0), MaxThreshold)
	return c
}

// Load reads ./.env if present, then the YAML file named by
// CANNY_MCP_CONFIG, then environment overrides.
func Load() (*Config, error) {
	return LoadFrom(".env", os.LookupEnv)
}

// LoadFrom is Load with an explicit .env path and environment lookup.
// Variables set in the environment win over those in the .env file.
func LoadFrom(envFile string, lookup func(string) (string, bool)) (*Config, error) {
	dotenv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
	}
	get := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	cfg := Default()
	if path, ok := get(EnvConfigFile); ok && path != "" {
		if err := cfg.readYAML(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(get); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(get func(string) (string, bool)) error {
	if v, ok := get(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := get(EnvLogFile); ok {
		c.LogFile = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{EnvWorkers, &c.Workers},
		{EnvKernelCache, &c.KernelCache},
		{EnvRadius, &c.Detect.Radius},
		{EnvLow, &c.Detect.Low},
		{EnvHigh, &c.Detect.High},
	}
	for _, f := range ints {
		v, ok := get(f.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", f.key, err)
		}
		*f.dst = n
	}

	if v, ok := get(EnvSigma); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvSigma, err)
		}
		c.Detect.Sigma = f
	}
	if v, ok := get(EnvGrayscale); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvGrayscale, err)
		}
		c.Detect.Grayscale = b
	}
	return nil
}

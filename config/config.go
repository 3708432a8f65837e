package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "IMAGESTEPS_"

// Config represents the application configuration
type Config struct {
	Tool     ToolConfig     `yaml:"tool"`
	Fixtures FixturesConfig `yaml:"fixtures"`
	Compare  CompareConfig  `yaml:"compare"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ToolConfig struct {
	Binary  string        `yaml:"binary"`
	Timeout time.Duration `yaml:"timeout"` // 0 = wait for the tool indefinitely
}

type FixturesConfig struct {
	DataDir   string `yaml:"data_dir"`
	OutputDir string `yaml:"output_dir"`
}

type CompareConfig struct {
	Enabled          bool   `yaml:"enabled"`
	Threshold        int    `yaml:"threshold"`
	ScratchDir       string `yaml:"scratch_dir"`
	EnsureCompressed bool   `yaml:"ensure_compressed"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses the configuration file, then applies overrides
// from a .env file next to the working directory and from the environment.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := LoadEnv(&cfg, ".env"); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadEnv loads envFile (if present) into the process environment and
// applies IMAGESTEPS_* overrides to cfg. Variables already set win over the file.
func LoadEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if v, ok := lookup("TOOL_BINARY"); ok {
		cfg.Tool.Binary = v
	}
	if v, ok := lookup("TOOL_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sTOOL_TIMEOUT: %w", EnvPrefix, err)
		}
		cfg.Tool.Timeout = d
	}
	if v, ok := lookup("FIXTURES_DATA_DIR"); ok {
		cfg.Fixtures.DataDir = v
	}
	if v, ok := lookup("FIXTURES_OUTPUT_DIR"); ok {
		cfg.Fixtures.OutputDir = v
	}
	if v, ok := lookup("COMPARE_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sCOMPARE_ENABLED: %w", EnvPrefix, err)
		}
		cfg.Compare.Enabled = b
	}
	if v, ok := lookup("COMPARE_THRESHOLD"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sCOMPARE_THRESHOLD: %w", EnvPrefix, err)
		}
		cfg.Compare.Threshold = n
	}
	if v, ok := lookup("COMPARE_SCRATCH_DIR"); ok {
		cfg.Compare.ScratchDir = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.Logging.Level = v
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func applyDefaults(c *Config) {
	if c.Tool.Binary == "" {
		c.Tool.Binary = "mogrify"
	}
	if c.Fixtures.DataDir == "" {
		c.Fixtures.DataDir = "features/support/data"
	}
	if c.Compare.Threshold == 0 {
		c.Compare.Threshold = 10
	}
	if c.Compare.ScratchDir == "" {
		c.Compare.ScratchDir = os.TempDir()
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks configuration values are usable
func (c *Config) Validate() error {
	if c.Tool.Binary == "" {
		return fmt.Errorf("tool.binary is required")
	}
	if c.Tool.Timeout < 0 {
		return fmt.Errorf("tool.timeout must not be negative")
	}
	if c.Compare.Threshold < 0 {
		return fmt.Errorf("compare.threshold must not be negative")
	}
	if c.Fixtures.DataDir == "" {
		return fmt.Errorf("fixtures.data_dir is required")
	}
	return nil
}

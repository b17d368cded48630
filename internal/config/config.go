package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ligustah/helperfetch/internal/fetcher"
)

// Default values for a zero-argument run.
const (
	DefaultTarget = "helper_functions.py"
	DefaultURL    = "https://raw.githubusercontent.com/tonyzamyatin/learning-pytorch/master/fcc-course/helper_functions.py"
)

// Config defines configuration for the helperfetch CLI.
type Config struct {
	// Target is the file (or object key, when Bucket is set) to check and write.
	Target string `yaml:"target"`

	// URL is the remote resource to fetch.
	URL string `yaml:"url"`

	// Bucket is an optional gocloud bucket URL. When empty, Target is a
	// path on the local filesystem.
	Bucket string `yaml:"bucket"`

	// Gate selects which presence state triggers the fetch, as accepted
	// by fetcher.ParseGate.
	Gate string `yaml:"gate"`

	// Timeout bounds the request. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout"`

	// StrictStatus rejects non-2xx responses instead of writing their body.
	StrictStatus bool `yaml:"strict_status"`

	// Verbose enables diagnostic output on stderr.
	Verbose bool `yaml:"verbose"`
}

// Default returns a Config matching the historical fixed behavior.
func Default() Config {
	return Config{
		Target: DefaultTarget,
		URL:    DefaultURL,
		Gate:   fetcher.GateExists.String(),
	}
}

// yamlConfig is used for YAML unmarshaling with a string timeout.
type yamlConfig struct {
	Target       string `yaml:"target"`
	URL          string `yaml:"url"`
	Bucket       string `yaml:"bucket"`
	Gate         string `yaml:"gate"`
	Timeout      string `yaml:"timeout"`
	StrictStatus bool   `yaml:"strict_status"`
	Verbose      bool   `yaml:"verbose"`
}

// LoadFromFile loads configuration from a YAML file on top of Default.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.Target != "" {
		cfg.Target = yc.Target
	}
	if yc.URL != "" {
		cfg.URL = yc.URL
	}
	if yc.Bucket != "" {
		cfg.Bucket = yc.Bucket
	}
	if yc.Gate != "" {
		cfg.Gate = yc.Gate
	}
	if yc.Timeout != "" {
		d, err := time.ParseDuration(yc.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	cfg.StrictStatus = yc.StrictStatus
	cfg.Verbose = yc.Verbose

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the HELPERFETCH_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("HELPERFETCH_TARGET"); v != "" {
		c.Target = v
	}
	if v := os.Getenv("HELPERFETCH_URL"); v != "" {
		c.URL = v
	}
	if v := os.Getenv("HELPERFETCH_BUCKET"); v != "" {
		c.Bucket = v
	}
	if v := os.Getenv("HELPERFETCH_GATE"); v != "" {
		c.Gate = v
	}
	if v := os.Getenv("HELPERFETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse HELPERFETCH_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("HELPERFETCH_STRICT_STATUS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse HELPERFETCH_STRICT_STATUS: %w", err)
		}
		c.StrictStatus = b
	}
	if v := os.Getenv("HELPERFETCH_VERBOSE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse HELPERFETCH_VERBOSE: %w", err)
		}
		c.Verbose = b
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Target == "" {
		return errors.New("config: target is required")
	}
	if c.URL == "" {
		return errors.New("config: url is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("config: invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("config: url scheme must be http or https, got %q", u.Scheme)
	}
	if _, err := fetcher.ParseGate(c.Gate); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Timeout < 0 {
		return errors.New("config: timeout must not be negative")
	}
	return nil
}

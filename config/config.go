// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/siemens/ptrdig/dig"
	"github.com/siemens/ptrdig/resolver"
	"github.com/siemens/ptrdig/sched"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrNoConfig is returned when the configuration file is not found.
	ErrNoConfig = errors.New("configuration file not found")
)

// DefaultConfigPath is the configuration file looked for when not told
// otherwise.
const DefaultConfigPath = "/etc/ptrdig.yaml"

// Config holds the settings that can be preset in a configuration file. A
// zero Jobs means as many jobs as there are CPUs.
type Config struct {
	Jobs        int           `yaml:"jobs"`
	Resolver    string        `yaml:"resolver"`
	Backend     string        `yaml:"backend"`
	Server      string        `yaml:"server"`
	Timeout     time.Duration `yaml:"timeout"`
	Latency     time.Duration `yaml:"latency"`
	Placeholder string        `yaml:"placeholder"`
}

// Default returns the configuration used in absence of a configuration file.
func Default() *Config {
	return &Config{
		Jobs:        0,
		Resolver:    resolver.Real.String(),
		Backend:     sched.Threads.String(),
		Timeout:     resolver.DefaultTimeout,
		Latency:     resolver.DefaultLatency,
		Placeholder: resolver.FakeName,
	}
}

// Load loads the configuration from the specified path, returning the default
// configuration if there is no such file. Settings missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		if errors.Is(err, ErrNoConfig) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoConfig
		}
		return nil, fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates a YAML configuration from the specified reader.
// Unknown keys are rejected. An empty configuration yields the defaults.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: decoding config file: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Validate checks the configuration for out-of-range and unknown settings.
func (c *Config) Validate() error {
	if c.Jobs < 0 {
		return errors.New("jobs must not be negative")
	}
	if max := dig.MaxJobs(); c.Jobs > max {
		return fmt.Errorf("jobs must not exceed %d", max)
	}
	if _, err := resolver.ParseResType(c.Resolver); err != nil {
		return err
	}
	if _, err := sched.ParseBackend(c.Backend); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	if c.Latency < 0 {
		return errors.New("latency must not be negative")
	}
	if strings.TrimSpace(c.Placeholder) == "" {
		return errors.New("placeholder name cannot be empty")
	}
	return nil
}

// ResType returns the resolver type configured; Validate must have succeeded
// before.
func (c *Config) ResType() resolver.ResType {
	t, _ := resolver.ParseResType(c.Resolver)
	return t
}

// SchedBackend returns the scheduler backend configured; Validate must have
// succeeded before.
func (c *Config) SchedBackend() sched.Backend {
	b, _ := sched.ParseBackend(c.Backend)
	return b
}

// NumJobs returns the number of concurrent jobs configured, substituting the
// number of CPUs for zero.
func (c *Config) NumJobs() int {
	if c.Jobs == 0 {
		return dig.MaxJobs()
	}
	return c.Jobs
}

// ResolverOptions returns the resolver options corresponding with this
// configuration.
func (c *Config) ResolverOptions() []resolver.Option {
	opts := []resolver.Option{
		resolver.WithName(c.Placeholder),
		resolver.WithLatency(c.Latency),
		resolver.WithTimeout(c.Timeout),
	}
	if c.Server != "" {
		opts = append(opts, resolver.WithServer(c.Server))
	}
	return opts
}

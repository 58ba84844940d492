// SPDX-License-Identifier: MIT
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"qkdhal/internal/log"
)

// Config represents the bench configuration, loaded from YAML.
type Config struct {
	LogLevel     string             `yaml:"log_level"`    // Logging level (e.g., "debug", "info", "warn", "error").
	Dependencies DependenciesConfig `yaml:"dependencies"` // Optional driver dependencies.
	Instruments  []Instrument       `yaml:"instruments"`  // Instruments of the bench, opened in this order.
	Monitor      MonitorConfig      `yaml:"monitor"`      // Periodic readout of measuring instruments.
}

// DependenciesConfig controls optional driver dependencies.
type DependenciesConfig struct {
	Disabled []string `yaml:"disabled"` // Dependencies reported unavailable even when compiled in.
}

// MonitorConfig holds the settings of the monitor command.
type MonitorConfig struct {
	Interval  time.Duration `yaml:"interval"`  // Time between two polls.
	Address   string        `yaml:"address"`   // HTTP listen address for /metrics and /ws.
	Transport string        `yaml:"transport"` // Where readings go: none, log, websocket or udp.
	Target    string        `yaml:"target"`    // UDP destination when transport is udp.
}

func defaults() Config {
	interval, _ := time.ParseDuration(DefaultMonitorInterval)
	return Config{
		LogLevel: DefaultLogLevel,
		Monitor: MonitorConfig{
			Interval:  interval,
			Address:   DefaultMonitorAddress,
			Transport: DefaultTransport,
			Target:    DefaultUDPTarget,
		},
	}
}

// LoadConfig loads configuration from a YAML file specified by path. If path
// is empty, it looks for DefaultConfigFile in the working directory and
// falls back to built-in defaults (no instruments) when there is none.
// Environment variable overrides are applied last, then the result is
// validated.
func LoadConfig(path string) (*Config, error) {
	cfg := defaults()

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err != nil {
			cfg.applyEnvOverrides()
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("invalid default configuration: %w", err)
			}
			return &cfg, nil
		}
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Parse decodes YAML into cfg. Unknown keys are rejected so that a
// misspelled parameter does not silently keep its default.
func Parse(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// Validate checks instrument declarations and monitor settings.
func (c *Config) Validate() error {
	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}

	seen := map[string]bool{}
	for _, inst := range c.Instruments {
		if err := inst.validate(); err != nil {
			return err
		}
		if seen[inst.Name] {
			return fmt.Errorf("duplicate instrument name %q", inst.Name)
		}
		seen[inst.Name] = true
	}

	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("monitor.interval must be positive, got %v", c.Monitor.Interval)
	}
	switch c.Monitor.Transport {
	case TransportNone, TransportLog, TransportWebSocket:
	case TransportUDP:
		if !strings.Contains(c.Monitor.Target, ":") {
			return fmt.Errorf("monitor.target %q appears invalid (missing port?)", c.Monitor.Target)
		}
	default:
		return fmt.Errorf("unknown monitor.transport %q", c.Monitor.Transport)
	}
	return nil
}

// Instrument returns the declaration named name.
func (c *Config) Instrument(name string) (Instrument, bool) {
	for _, inst := range c.Instruments {
		if inst.Name == name {
			return inst, true
		}
	}
	return Instrument{}, false
}

// applyEnvOverrides applies the QKDHAL_* environment variables:
//
//	QKDHAL_LOG_LEVEL      log_level
//	QKDHAL_DISABLE_DEPS   comma separated, appended to dependencies.disabled
//	QKDHAL_MONITOR_ADDR   monitor.address
func (c *Config) applyEnvOverrides() {
	if val, ok := os.LookupEnv("QKDHAL_LOG_LEVEL"); ok {
		c.LogLevel = val
		log.Debugf("configuration: overriding log_level from env: %s", val)
	}
	if val, ok := os.LookupEnv("QKDHAL_DISABLE_DEPS"); ok {
		for _, name := range strings.Split(val, ",") {
			if name = strings.TrimSpace(name); name != "" {
				c.Dependencies.Disabled = append(c.Dependencies.Disabled, name)
			}
		}
		log.Debugf("configuration: disabling dependencies from env: %s", val)
	}
	if val, ok := os.LookupEnv("QKDHAL_MONITOR_ADDR"); ok {
		c.Monitor.Address = val
		log.Debugf("configuration: overriding monitor.address from env: %s", val)
	}
}

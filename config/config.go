package config

import (
	"fmt"

	"github.com/kbukum/inject/logger"
	"github.com/kbukum/inject/observability"
	"github.com/kbukum/inject/validation"
	"github.com/kbukum/inject/version"
)

// Environments accepted by Config.Environment.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Config is the configuration of a process that owns a container.
// Namespace is the import-path root passed to Registry.Init; empty means
// every marked type known to the scanner.
//
// Projects extend it by embedding:
//
//	type MyConfig struct {
//	    config.Config `yaml:",inline" mapstructure:",squash"`
//	    Orders OrdersConfig `yaml:"orders" mapstructure:"orders"`
//	}
type Config struct {
	Name        string               `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string               `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version     string               `yaml:"version" mapstructure:"version"`
	Namespace   string               `yaml:"namespace" mapstructure:"namespace" validate:"omitempty,namespace"`
	Logging     logger.Config        `yaml:"logging" mapstructure:"logging"`
	Telemetry   observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// GetConfig returns the base Config. Promoted through embedding so that
// extended configs can be handed to bootstrap directly.
func (c *Config) GetConfig() *Config {
	return c
}

// ApplyDefaults applies default values to the configuration.
func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = EnvDevelopment
	}
	if c.Version == "" {
		c.Version = version.Get().Short()
	}
	if c.Logging.Level == "" && c.Environment == EnvDevelopment {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = c.Name
	}
	if c.Telemetry.ServiceVersion == "" {
		c.Telemetry.ServiceVersion = c.Version
	}
	if c.Telemetry.Environment == "" {
		c.Telemetry.Environment = c.Environment
	}
	c.Telemetry.ApplyDefaults()
}

// Validate validates the configuration and its sections.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("config.telemetry: %w", err)
	}
	return nil
}

package bootstrap

import (
	"github.com/kbukum/inject/config"
)

// Config is the interface constraint for application configuration types.
// Any struct that embeds config.Config (value embedding) satisfies it via
// promoted methods.
//
// Example:
//
//	type MyConfig struct {
//	    config.Config `yaml:",inline" mapstructure:",squash"`
//	    Orders OrdersConfig `yaml:"orders" mapstructure:"orders"`
//	}
//
//	app, err := bootstrap.NewApp[*MyConfig](&cfg, wiring.Catalog())
type Config interface {
	GetConfig() *config.Config
	ApplyDefaults()
	Validate() error
}

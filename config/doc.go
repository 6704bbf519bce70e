// Package config loads composition-root configuration for applications
// built on the inject container.
//
// Values come from a YAML file, an optional .env file and the process
// environment, in increasing order of precedence:
//
//	var cfg config.Config
//	if err := config.LoadConfig("orders", &cfg); err != nil {
//	    return err
//	}
//
// Environment variables map onto nested keys by underscore, so
// LOGGING_LEVEL=debug sets logging.level and TELEMETRY_SAMPLE_RATE=0.5
// sets telemetry.sample_rate.
package config

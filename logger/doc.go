// Package logger provides structured logging built on zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("inject").WithComponent("registry")
//	log.Info("registry initialized", logger.Fields("count", 3))
package logger

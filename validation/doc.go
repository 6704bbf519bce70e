// Package validation validates configuration structs using struct tags
// backed by go-playground/validator.
//
//	type Config struct {
//	    Name      string `mapstructure:"name" validate:"required"`
//	    Namespace string `mapstructure:"namespace" validate:"omitempty,namespace"`
//	}
//	err := validation.Validate(cfg)
//
// Failures are returned as errors.AppError with code INVALID_INPUT and a
// "fields" detail listing each offending field.
package validation

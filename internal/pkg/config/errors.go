// internal/pkg/config/errors.go
package config

import (
	"errors"
)

// ErrMissingRequiredConfig indicates a required configuration value was not provided
var ErrMissingRequiredConfig = errors.New("missing required configuration")

// Validator validates a loaded configuration
type Validator interface {
	Validate(cfg *Config) error
}


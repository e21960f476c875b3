package game

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every ConfigError so callers can match on it
// with errors.Is.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigError reports a rejected configuration value. It is only ever returned
// from constructors; the tick loop never produces one.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

func configErr(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

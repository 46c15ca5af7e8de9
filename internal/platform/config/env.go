// Package config reads command configuration from SLIDEREEL_-prefixed
// environment variables and provides the fatal-exit helper for the CLI
// entry points.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv fills target from `env` struct tags, applying envDefault values
// for variables the environment leaves unset.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

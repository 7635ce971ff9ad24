// Package config loads command configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment variable read through this package.
// Struct tags name variables without it: `env:"MCP_TRANSPORT"` reads
// DICENOTATION_MCP_TRANSPORT.
const EnvPrefix = "DICENOTATION_"

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	return parse(target, env.Options{Prefix: EnvPrefix})
}

// ParseEnvMap loads configuration from environ instead of the process
// environment. A nil map falls back to the process environment.
func ParseEnvMap(target any, environ map[string]string) error {
	if environ == nil {
		return ParseEnv(target)
	}
	return parse(target, env.Options{Prefix: EnvPrefix, Environment: environ})
}

func parse(target any, options env.Options) error {
	if err := env.ParseWithOptions(target, options); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

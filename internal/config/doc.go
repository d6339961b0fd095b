// Package config loads the service's own runtime configuration from
// multiple sources (YAML files, environment variables, CLI flags) with
// precedence: CLI flags > YAML config > Environment variables > Defaults.
// The managed environment document lives in the settings package; this
// package only knows where to find it.
package config

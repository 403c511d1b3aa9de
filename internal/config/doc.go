// Package config loads the optional .work-dep.yaml settings file kept at the
// workspace root. Command-line flags take precedence over its values.
package config

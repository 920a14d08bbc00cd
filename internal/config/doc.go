// Package config loads, defaults, and validates digestd configuration.
//
// Configuration is YAML with ${VAR} environment expansion. Load order:
// Load -> applyDefaults -> Validate (see LoadAndValidate).
package config

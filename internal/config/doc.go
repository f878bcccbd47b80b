// Package config loads demo settings from YAML or JSON files.
package config

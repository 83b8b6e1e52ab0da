// Package config reads the YAML generation manifest. The manifest lists
// the enums to generate dispatch code for, one mode per entry, so a
// project can drive all of its pipelines from a single file instead of
// one go:generate line per enum.
package config

package config

// File represents the root of a YAML generation manifest.
type File struct {
	// Version of the manifest schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Package is the Go package pattern to load (e.g. "./internal/ops").
	Package string `yaml:"package"`

	// OutputDir overrides the package directory as the destination for
	// generated files.
	OutputDir string `yaml:"output_dir,omitempty"`

	// Enums lists the enums to generate dispatch code for.
	Enums []Enum `yaml:"enums"`
}

// Enum is one generation target.
type Enum struct {
	// Type is the enum interface's type name.
	Type string `yaml:"type"`

	// Mode selects the calling convention: execute, execute_with, or
	// execute_with_mut. Defaults to execute.
	Mode string `yaml:"mode,omitempty"`

	// Param overrides the identifier of the auxiliary argument in
	// generated code.
	Param string `yaml:"param,omitempty"`
}

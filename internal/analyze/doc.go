// Package analyze loads Go packages and extracts annotated enum
// declarations into the generator's intermediate representation.
//
// An enum is a sealed sum type: an interface declaring an unexported
// marker method, with one struct type per variant declaring that method.
// Directive comments of the form "//pipeline:<name> <arg>" attach the
// handler reference to each variant and the auxiliary argument type to
// the enum itself. Loading is AST-only: packages are not type checked,
// because generation must run before the generated methods exist.
package analyze

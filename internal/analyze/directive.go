package analyze

import (
	"go/ast"
	"strings"
)

// Directive names recognized by the generator.
const (
	// directivePrefix introduces a generator directive comment.
	directivePrefix = "//pipeline:"
	// HandlerDirective wires a variant to its handler function.
	HandlerDirective = "handler"
	// ArgTypeDirective declares the auxiliary argument type on the enum.
	ArgTypeDirective = "execute_with"
)

// Directive is one parsed "//pipeline:<name> <arg>" comment.
type Directive struct {
	Name string
	Arg  string
}

// parseDirective parses a single comment line. Returns false if the line is
// not a generator directive at all. A recognized directive with a malformed
// payload is still returned so the caller can diagnose it; payload
// validation (identifier vs selector path) belongs to the compiler.
func parseDirective(text string) (Directive, bool) {
	if !strings.HasPrefix(text, directivePrefix) {
		return Directive{}, false
	}

	rest := text[len(directivePrefix):]

	// Directive name runs to the first whitespace; the remainder is the
	// payload with surrounding whitespace stripped. No further slicing of
	// the payload happens here.
	name, arg, _ := strings.Cut(rest, " ")

	return Directive{
		Name: strings.TrimSpace(name),
		Arg:  strings.TrimSpace(arg),
	}, true
}

// directivesOf collects generator directives from a doc comment group, in
// declaration order.
func directivesOf(doc *ast.CommentGroup) []Directive {
	if doc == nil {
		return nil
	}

	var out []Directive

	for _, c := range doc.List {
		if d, ok := parseDirective(c.Text); ok {
			out = append(out, d)
		}
	}

	return out
}

// declDirectives collects directives attached to a type declaration,
// looking at both the GenDecl doc (standalone declarations) and the
// TypeSpec doc (grouped declarations).
func declDirectives(decl *ast.GenDecl, spec *ast.TypeSpec) []Directive {
	out := directivesOf(decl.Doc)
	out = append(out, directivesOf(spec.Doc)...)

	return out
}

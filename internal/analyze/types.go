package analyze

import (
	"go/token"
	"strings"

	"pipeline-generator/internal/common"
)

// TypeKind classifies the declaration a directive was attached to. Only
// enums (sealed interfaces) are accepted by the compiler; everything else
// is carried through so the compiler can reject it with a diagnostic.
type TypeKind int

const (
	KindUnknown TypeKind = iota
	KindEnum             // interface with an unexported marker method
	KindStruct           // struct type
	KindBasic            // named basic type or alias
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case KindEnum:
		return "enum"
	case KindStruct:
		return "struct"
	case KindBasic:
		return "basic"
	default:
		return common.UnknownStr
	}
}

// TypeRef is a reference written in a directive payload: a bare identifier
// or a package-qualified selector path. It is carried verbatim into the
// generated code; whether the referent exists is left to the compile of the
// generated file.
type TypeRef struct {
	// Expr is the reference exactly as written, e.g. "handleMove" or
	// "geometry.Rotate".
	Expr string
	// ImportPath is the import path backing the qualifier, resolved from
	// the import table of the file the directive appeared in. Empty for
	// bare identifiers.
	ImportPath string
	// Pos is the source position of the directive, for diagnostics.
	Pos token.Position
}

// Qualified returns true if the reference carries a package qualifier.
func (r TypeRef) Qualified() bool {
	return strings.Contains(r.Expr, ".")
}

// FieldDescription describes one field of a variant struct.
type FieldDescription struct {
	// Name is the field's call-site name. Empty for positional fields,
	// whose binding name is synthesized from their 1-based position.
	// Fields loaded from Go source are always named: embedded fields get
	// their implicit Go name.
	Name string
	// Embedded is true for embedded (anonymous) fields.
	Embedded bool
}

// VariantDescription describes one variant of an enum.
type VariantDescription struct {
	// Name is the variant struct's type name.
	Name string
	// Fields lists the variant's fields in declared order.
	Fields []FieldDescription
	// Handlers lists every handler directive found on the variant, in
	// declared order. Exactly one is required; the count rule is enforced
	// by the compiler so that violations across variants can be collected
	// into a single report.
	Handlers []TypeRef
	// Pos is the source position of the variant declaration.
	Pos token.Position
}

// EnumDescription is the generator's view of one annotated enum.
type EnumDescription struct {
	// Name is the enum interface's type name.
	Name string
	// PkgPath is the import path of the declaring package.
	PkgPath string
	// PkgName is the package name of the declaring package.
	PkgName string
	// Dir is the directory of the declaring package, used for output.
	Dir string
	// Kind records what the named declaration actually is. The compiler
	// rejects anything but KindEnum.
	Kind TypeKind
	// Marker is the unexported marker method sealing the variant set.
	Marker string
	// Variants lists the enum's variants in declared order.
	Variants []VariantDescription
	// ArgTypes lists every execute_with directive found on the enum, in
	// declared order. The argument-taking modes require exactly one.
	ArgTypes []TypeRef
	// Pos is the source position of the enum declaration.
	Pos token.Position
}

package dispatch

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	"pipeline-generator/internal/analyze"
	"pipeline-generator/internal/common"
	"pipeline-generator/internal/diagnostic"
)

// Arm is one case of the generated type switch.
type Arm struct {
	// Variant is the variant type name matched by this case.
	Variant string
	// Handler is the resolved call target.
	Handler string
	// Bindings are the call-site binding names of the variant's fields,
	// in declared order.
	Bindings []string
	// Call is the synthesized handler call expression.
	Call string
	// Ref is the handler reference as written, with its resolved import.
	Ref analyze.TypeRef
}

// Dispatch is the compiled form of one enum under one mode, ready for
// rendering.
type Dispatch struct {
	Enum *analyze.EnumDescription
	Mode Mode
	// ArgType is the auxiliary argument type. Zero for ModeNone.
	ArgType analyze.TypeRef
	// Param is the identifier of the auxiliary argument in generated code.
	Param string
	// Arms holds one entry per variant, in declared order.
	Arms []Arm
	// UsesSelf is true if any arm reads variant fields. When false the
	// switch binds no variable, so the generated code has no unused
	// identifier.
	UsesSelf bool
}

// CompilerConfig holds configuration for dispatch compilation.
type CompilerConfig struct {
	// Param overrides ParamName as the identifier of the auxiliary
	// argument in generated code. Empty means ParamName.
	Param string
}

// Compiler compiles enum descriptions into dispatches.
type Compiler struct {
	config CompilerConfig
}

// NewCompiler creates a new Compiler with the given configuration.
func NewCompiler(config CompilerConfig) *Compiler {
	return &Compiler{config: config}
}

// Compile compiles an enum description under the given mode with the
// default configuration.
func Compile(enum *analyze.EnumDescription, mode Mode) (*Dispatch, diagnostic.Diagnostics) {
	return NewCompiler(CompilerConfig{}).Compile(enum, mode)
}

// Compile compiles an enum description under the given mode. The returned
// diagnostics carry every rule violation found across the whole enum; the
// dispatch is nil if any of them is an error. There is no partial output.
func (c *Compiler) Compile(enum *analyze.EnumDescription, mode Mode) (*Dispatch, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	if enum.Kind != analyze.KindEnum {
		diags.AddError(diagnostic.CodeNotAnEnum,
			fmt.Sprintf("only enum (sealed interface) types are supported, %s is a %s", enum.Name, enum.Kind),
			enum.Name, "")

		return nil, diags
	}

	param := c.config.Param
	if param == "" {
		param = ParamName
	}

	// "self" is the switch binding; a parameter of the same name would
	// shadow it inside every arm.
	if !token.IsIdentifier(param) || param == "self" {
		diags.AddError(diagnostic.CodeBadParamName,
			fmt.Sprintf("parameter name %q is not a usable Go identifier", param),
			enum.Name, "")

		return nil, diags
	}

	d := &Dispatch{Enum: enum, Mode: mode, Param: param}

	if mode.TakesArg() {
		d.ArgType = argumentType(enum, &diags)
	}

	if common.IsEmpty(enum.Variants) {
		diags.AddInfo(diagnostic.CodeEmptyEnum,
			fmt.Sprintf("enum %s declares no variants; the generated dispatch is empty", enum.Name),
			enum.Name, "")
	}

	for _, variant := range enum.Variants {
		arm, ok := compileArm(enum, &variant, mode, param, &diags)
		if ok {
			d.Arms = append(d.Arms, arm)
			d.UsesSelf = d.UsesSelf || len(arm.Bindings) > 0
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}

	return d, diags
}

// argumentType enforces the exactly-one execute_with rule and validates the
// payload as a type reference.
func argumentType(enum *analyze.EnumDescription, diags *diagnostic.Diagnostics) analyze.TypeRef {
	if common.IsEmpty(enum.ArgTypes) {
		diags.AddError(diagnostic.CodeMissingArgumentType,
			fmt.Sprintf("enum %s is missing directive //pipeline:%s <type>", enum.Name, analyze.ArgTypeDirective),
			enum.Name, "")

		return analyze.TypeRef{}
	}

	if common.IsMultiple(enum.ArgTypes) {
		diags.AddError(diagnostic.CodeDuplicateArgumentType,
			fmt.Sprintf("enum %s carries %d //pipeline:%s directives, want exactly 1",
				enum.Name, len(enum.ArgTypes), analyze.ArgTypeDirective),
			enum.Name, "")

		return analyze.TypeRef{}
	}

	ref, _ := common.First(enum.ArgTypes)
	if !isRefPath(ref.Expr) {
		diags.AddError(diagnostic.CodeUnparseableArgumentType,
			fmt.Sprintf("directive //pipeline:%s payload %q does not parse as a type reference",
				analyze.ArgTypeDirective, ref.Expr),
			enum.Name, "")
	}

	return ref
}

// compileArm builds the switch case for one variant.
func compileArm(
	enum *analyze.EnumDescription,
	variant *analyze.VariantDescription,
	mode Mode,
	param string,
	diags *diagnostic.Diagnostics,
) (Arm, bool) {
	if common.IsEmpty(variant.Handlers) {
		diags.AddError(diagnostic.CodeMissingHandler,
			fmt.Sprintf("variant %s is missing directive //pipeline:%s <function>",
				variant.Name, analyze.HandlerDirective),
			enum.Name, variant.Name)

		return Arm{}, false
	}

	if common.IsMultiple(variant.Handlers) {
		diags.AddError(diagnostic.CodeDuplicateHandler,
			fmt.Sprintf("variant %s carries %d //pipeline:%s directives, want exactly 1",
				variant.Name, len(variant.Handlers), analyze.HandlerDirective),
			enum.Name, variant.Name)

		return Arm{}, false
	}

	ref, _ := common.First(variant.Handlers)

	handler, ok := resolveHandler(ref)
	if !ok {
		diags.AddError(diagnostic.CodeBadHandlerRef,
			fmt.Sprintf("directive //pipeline:%s payload %q does not parse as a function reference",
				analyze.HandlerDirective, ref.Expr),
			enum.Name, variant.Name)

		return Arm{}, false
	}

	bindings := bindingNames(enum, variant, diags)

	args := make([]string, 0, len(bindings)+1)
	for _, b := range bindings {
		args = append(args, "self."+b)
	}

	if mode.TakesArg() {
		args = append(args, param)
	}

	call := handler + "(" + strings.Join(args, ", ") + ")"

	// Internal-consistency check: a synthesized call that does not parse
	// indicates a compiler bug and must fail generation, not be swallowed.
	if !isCallExpr(call) {
		diags.AddError(diagnostic.CodeArmSynthesisFailure,
			fmt.Sprintf("synthesized call %q does not parse", call),
			enum.Name, variant.Name)

		return Arm{}, false
	}

	return Arm{
		Variant:  variant.Name,
		Handler:  handler,
		Bindings: bindings,
		Call:     call,
		Ref:      ref,
	}, true
}

// resolveHandler resolves a handler reference to its call target.
//
// A reference containing a qualifier is used verbatim: it is already fully
// qualified. A bare name is also emitted verbatim and binds in the enum's
// declaring package, the namespace enclosing the enum in Go. Either way
// this is a purely textual transform with no existence check; binding is
// the downstream compiler's job.
func resolveHandler(ref analyze.TypeRef) (string, bool) {
	if !isRefPath(ref.Expr) {
		return "", false
	}

	return ref.Expr, true
}

// bindingNames produces the call-site binding name per field: its own name
// if named, a synthesized placeholder otherwise. A placeholder colliding
// with a declared field name is flagged, not silently resolved.
func bindingNames(
	enum *analyze.EnumDescription,
	variant *analyze.VariantDescription,
	diags *diagnostic.Diagnostics,
) []string {
	declared := make(map[string]bool, len(variant.Fields))
	for _, f := range variant.Fields {
		if f.Name != "" {
			declared[f.Name] = true
		}
	}

	var bindings []string

	for i, f := range variant.Fields {
		name := f.Name
		if name == "" {
			name = PlaceholderPrefix + strconv.Itoa(i+1)
			if declared[name] {
				diags.AddWarning(diagnostic.CodePlaceholderCollision,
					fmt.Sprintf("synthesized placeholder %s collides with a declared field name", name),
					enum.Name, variant.Name)
			}
		}

		bindings = append(bindings, name)
	}

	return bindings
}

// isRefPath reports whether s parses as a bare identifier or a selector
// path of identifiers (e.g. "handleMove", "geometry.HandleRotate").
func isRefPath(s string) bool {
	if s == "" {
		return false
	}

	expr, err := parser.ParseExpr(s)
	if err != nil {
		return false
	}

	return isSelectorChain(expr)
}

func isSelectorChain(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.Ident:
		return true
	case *ast.SelectorExpr:
		return isSelectorChain(e.X)
	default:
		return false
	}
}

// isCallExpr reports whether s parses as a single call expression.
func isCallExpr(s string) bool {
	expr, err := parser.ParseExpr(s)
	if err != nil {
		return false
	}

	_, ok := expr.(*ast.CallExpr)

	return ok
}

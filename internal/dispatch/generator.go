package dispatch

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strings"
	"text/template"
	"unicode"

	"pipeline-generator/internal/analyze"
	"pipeline-generator/internal/common"
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// OutputDir is the directory generated files are written to. Empty
	// means the enum's own package directory.
	OutputDir string
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{}
}

// Generator renders compiled dispatches into formatted Go source.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "op_pipeline.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// templateData holds all data needed for the dispatch template.
type templateData struct {
	PackageName string
	EnumName    string
	FuncName    string
	Method      string
	ArgDecl     string // e.g. "arg Canvas", "arg *render.State", or ""
	ArgPass     string // "arg" or ""
	UsesSelf    bool
	Imports     []importSpec
	Arms        []Arm
}

// importSpec represents an import statement.
type importSpec struct {
	Alias string
	Path  string
}

// Generate renders one compiled dispatch into a formatted source file.
func (g *Generator) Generate(d *Dispatch) (*GeneratedFile, error) {
	data, err := g.buildTemplateData(d)
	if err != nil {
		return nil, err
	}

	filename := Filename(d.Enum.Name)

	var buf bytes.Buffer
	if err := dispatchTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	// Formatting re-parses the whole file: the second-level internal
	// consistency check after the per-arm parse in Compile.
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		if g.config.OutputDir != "" {
			_ = writeDebugUnformatted(g.config.OutputDir, filename, buf.Bytes())
		}

		return &GeneratedFile{
			Filename: filename,
			Content:  buf.Bytes(),
		}, fmt.Errorf("formatting code: %w (unformatted code returned)", err)
	}

	return &GeneratedFile{
		Filename: filename,
		Content:  formatted,
	}, nil
}

// buildTemplateData constructs the template data from a compiled dispatch.
func (g *Generator) buildTemplateData(d *Dispatch) (*templateData, error) {
	enum := d.Enum

	param := d.Param
	if param == "" {
		param = ParamName
	}

	data := &templateData{
		PackageName: enum.PkgName,
		EnumName:    enum.Name,
		FuncName:    FuncName(enum.Name, d.Mode),
		Method:      d.Mode.ContractMethod(),
		UsesSelf:    d.UsesSelf,
		Arms:        d.Arms,
	}

	// Keyed by qualifier: the same import path may appear under several
	// qualifiers (one spec each), but one qualifier must back one path.
	imports := make(map[string]importSpec)

	if d.Mode.TakesArg() {
		argType := d.ArgType.Expr
		if d.Mode == ModeWithMut {
			argType = "*" + argType
		}

		data.ArgDecl = param + " " + argType
		data.ArgPass = param

		if err := addImport(imports, enum.PkgPath, d.ArgType); err != nil {
			return nil, err
		}
	}

	for _, arm := range d.Arms {
		if err := addImport(imports, enum.PkgPath, arm.Ref); err != nil {
			return nil, err
		}
	}

	for _, imp := range imports {
		data.Imports = append(data.Imports, imp)
	}

	sort.Slice(data.Imports, func(i, j int) bool {
		if data.Imports[i].Path != data.Imports[j].Path {
			return data.Imports[i].Path < data.Imports[j].Path
		}

		return data.Imports[i].Alias < data.Imports[j].Alias
	})

	return data, nil
}

// addImport records the import backing a qualified reference. References
// into the enum's own package and qualifiers the source file never
// imported add nothing; the latter fail downstream, which is where
// existence checks belong. Two references binding the same qualifier to
// different paths cannot share one generated file.
func addImport(imports map[string]importSpec, pkgPath string, ref analyze.TypeRef) error {
	if !ref.Qualified() || ref.ImportPath == "" || ref.ImportPath == pkgPath {
		return nil
	}

	qualifier, _, _ := strings.Cut(ref.Expr, ".")

	if existing, ok := imports[qualifier]; ok {
		if existing.Path != ref.ImportPath {
			return fmt.Errorf("qualifier %s refers to both %q and %q",
				qualifier, existing.Path, ref.ImportPath)
		}

		return nil
	}

	spec := importSpec{Path: ref.ImportPath}
	if common.PkgAlias(ref.ImportPath) != qualifier {
		spec.Alias = qualifier
	}

	imports[qualifier] = spec

	return nil
}

// FuncName returns the name of the generated dispatch function for an enum
// under a mode, e.g. "executeOpWithMut" for enum Op under ModeWithMut.
func FuncName(enumName string, mode Mode) string {
	return "execute" + exportedName(enumName) + mode.funcSuffix()
}

// Filename returns the generated file name for an enum, e.g.
// "render_op_pipeline.go" for enum RenderOp.
func Filename(enumName string) string {
	return toSnake(enumName) + "_pipeline.go"
}

// exportedName upper-cases the first rune of a name.
func exportedName(name string) string {
	if name == "" {
		return ""
	}

	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])

	return string(r)
}

// toSnake converts a Go type name to snake case for file naming.
func toSnake(name string) string {
	var sb strings.Builder

	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			// Break before an upper rune that starts a new word: either
			// the previous rune is lower, or the next one is.
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				sb.WriteByte('_')
			}

			sb.WriteRune(unicode.ToLower(r))

			continue
		}

		sb.WriteRune(r)
	}

	return sb.String()
}

var dispatchTemplate = template.Must(template.New("dispatch").Parse(`// Code generated by pipeline-generator. DO NOT EDIT.

package {{.PackageName}}

{{if .Imports}}
import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{end}}
// {{.FuncName}} dispatches {{.EnumName}} values to the handler wired to
// their variant type.
func {{.FuncName}}(self {{.EnumName}}{{if .ArgDecl}}, {{.ArgDecl}}{{end}}) {
	switch {{if .UsesSelf}}self := {{end}}self.(type) {
{{range .Arms}}	case {{.Variant}}:
		{{.Call}}
{{end}}	}
}
{{range .Arms}}
func (self {{.Variant}}) {{$.Method}}({{$.ArgDecl}}) { {{$.FuncName}}(self{{if $.ArgPass}}, {{$.ArgPass}}{{end}}) }
{{end}}`))

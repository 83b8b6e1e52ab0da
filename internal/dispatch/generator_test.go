package dispatch

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipeline-generator/internal/analyze"
)

// compileAndGenerate compiles the enum and renders it, failing the test on
// any diagnostic error.
func compileAndGenerate(t *testing.T, enum *analyze.EnumDescription, mode Mode) string {
	t.Helper()

	d, diags := Compile(enum, mode)
	require.False(t, diags.HasErrors(), diags.Error())

	file, err := NewGenerator(DefaultGeneratorConfig()).Generate(d)
	require.NoError(t, err)

	return string(file.Content)
}

func TestGenerate_NoArgumentMode(t *testing.T) {
	enum := testEnum(
		variant("Move", "handleMove", "X", "Y"),
		variant("Reset", "handleReset"),
	)

	content := compileAndGenerate(t, enum, ModeNone)

	assert.Contains(t, content, "// Code generated by pipeline-generator. DO NOT EDIT.")
	assert.Contains(t, content, "package draw")
	assert.Contains(t, content, "func executeOp(self Op) {")
	assert.Contains(t, content, "switch self := self.(type) {")
	assert.Contains(t, content, "case Move:")
	assert.Contains(t, content, "handleMove(self.X, self.Y)")
	assert.Contains(t, content, "case Reset:")
	assert.Contains(t, content, "handleReset()")
	assert.Contains(t, content, "func (self Move) Execute() { executeOp(self) }")
	assert.Contains(t, content, "func (self Reset) Execute() { executeOp(self) }")
	assert.NotContains(t, content, "import")
	assert.NotContains(t, content, "default:")
}

func TestGenerate_ArmOrderMatchesDeclaredOrder(t *testing.T) {
	enum := testEnum(
		variant("A", "handleA"),
		variant("B", "handleB"),
		variant("C", "handleC"),
	)

	content := compileAndGenerate(t, enum, ModeNone)

	ia := strings.Index(content, "case A:")
	ib := strings.Index(content, "case B:")
	ic := strings.Index(content, "case C:")

	require.NotEqual(t, -1, ia)
	assert.Less(t, ia, ib)
	assert.Less(t, ib, ic)
}

func TestGenerate_SharedArgumentMode(t *testing.T) {
	enum := testEnum(
		variant("Move", "handleMove", "X", "Y"),
		variant("Reset", "handleReset"),
	)
	enum.ArgTypes = []analyze.TypeRef{{Expr: "Canvas"}}

	content := compileAndGenerate(t, enum, ModeWith)

	assert.Contains(t, content, "func executeOpWith(self Op, arg Canvas) {")
	assert.Contains(t, content, "handleMove(self.X, self.Y, arg)")
	assert.Contains(t, content, "handleReset(arg)")
	assert.Contains(t, content, "func (self Move) ExecuteWith(arg Canvas) { executeOpWith(self, arg) }")
}

func TestGenerate_MutableArgumentModeTakesPointer(t *testing.T) {
	enum := testEnum(variant("Add", "recordAdd", "N"))
	enum.ArgTypes = []analyze.TypeRef{{Expr: "Stats"}}

	content := compileAndGenerate(t, enum, ModeWithMut)

	assert.Contains(t, content, "func executeOpWithMut(self Op, arg *Stats) {")
	assert.Contains(t, content, "recordAdd(self.N, arg)")
	assert.Contains(t, content, "func (self Add) ExecuteWithMut(arg *Stats) { executeOpWithMut(self, arg) }")
}

func TestGenerate_QualifiedReferencesAddImports(t *testing.T) {
	enum := testEnum(analyze.VariantDescription{
		Name: "Rotate",
		Handlers: []analyze.TypeRef{{
			Expr:       "geometry.HandleRotate",
			ImportPath: "example/geometry",
		}},
		Fields: []analyze.FieldDescription{{Name: "Angle"}},
	})
	enum.ArgTypes = []analyze.TypeRef{{
		Expr:       "render.State",
		ImportPath: "example/render",
	}}

	content := compileAndGenerate(t, enum, ModeWith)

	assert.Contains(t, content, `"example/geometry"`)
	assert.Contains(t, content, `"example/render"`)
	assert.Contains(t, content, "geometry.HandleRotate(self.Angle, arg)")
	assert.Contains(t, content, "arg render.State")
}

func TestGenerate_AliasedImport(t *testing.T) {
	enum := testEnum(variant("Move", "handleMove", "X"))
	enum.ArgTypes = []analyze.TypeRef{{
		Expr:       "canvas.State",
		ImportPath: "example/render",
	}}

	content := compileAndGenerate(t, enum, ModeWith)

	assert.Contains(t, content, `canvas "example/render"`)
	assert.Contains(t, content, "arg canvas.State")
}

func TestGenerate_ParamNameOverride(t *testing.T) {
	enum := testEnum(
		variant("Move", "handleMove", "X"),
		variant("Reset", "handleReset"),
	)
	enum.ArgTypes = []analyze.TypeRef{{Expr: "Canvas"}}

	d, diags := NewCompiler(CompilerConfig{Param: "env"}).Compile(enum, ModeWith)
	require.False(t, diags.HasErrors(), diags.Error())

	file, err := NewGenerator(DefaultGeneratorConfig()).Generate(d)
	require.NoError(t, err)

	content := string(file.Content)

	assert.Contains(t, content, "func executeOpWith(self Op, env Canvas) {")
	assert.Contains(t, content, "handleMove(self.X, env)")
	assert.Contains(t, content, "func (self Move) ExecuteWith(env Canvas) { executeOpWith(self, env) }")
	assert.NotContains(t, content, "arg")
}

func TestGenerate_SameImportPathUnderTwoQualifiers(t *testing.T) {
	enum := testEnum(analyze.VariantDescription{
		Name: "Blit",
		Handlers: []analyze.TypeRef{{
			Expr:       "canvas.HandleBlit",
			ImportPath: "example/render",
		}},
	})
	enum.ArgTypes = []analyze.TypeRef{{
		Expr:       "render.State",
		ImportPath: "example/render",
	}}

	content := compileAndGenerate(t, enum, ModeWith)

	// One import spec per qualifier, even over a shared path.
	assert.Contains(t, content, "canvas \"example/render\"")
	assert.Contains(t, content, "\t\"example/render\"")
	assert.Contains(t, content, "canvas.HandleBlit(arg)")
	assert.Contains(t, content, "arg render.State")
}

func TestGenerate_ConflictingQualifierFails(t *testing.T) {
	enum := testEnum(
		analyze.VariantDescription{
			Name: "Draw",
			Handlers: []analyze.TypeRef{{
				Expr:       "render.HandleDraw",
				ImportPath: "example/render",
			}},
		},
		analyze.VariantDescription{
			Name: "Blit",
			Handlers: []analyze.TypeRef{{
				Expr:       "render.HandleBlit",
				ImportPath: "example/other",
			}},
		},
	)

	d, diags := Compile(enum, ModeNone)
	require.False(t, diags.HasErrors(), diags.Error())

	_, err := NewGenerator(DefaultGeneratorConfig()).Generate(d)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "render")
}

func TestGenerate_OwnPackageReferenceAddsNoImport(t *testing.T) {
	enum := testEnum(analyze.VariantDescription{
		Name: "Move",
		Handlers: []analyze.TypeRef{{
			Expr:       "draw.HandleMove",
			ImportPath: "example/draw",
		}},
	})

	content := compileAndGenerate(t, enum, ModeNone)

	assert.NotContains(t, content, "import")
	assert.Contains(t, content, "draw.HandleMove()")
}

func TestGenerate_NoBindingWhenNoFieldsUsed(t *testing.T) {
	enum := testEnum(
		variant("On", "handleOn"),
		variant("Off", "handleOff"),
	)

	content := compileAndGenerate(t, enum, ModeNone)

	// No arm reads fields, so the switch must not declare a variable the
	// generated code never uses.
	assert.Contains(t, content, "switch self.(type) {")
	assert.NotContains(t, content, "switch self := self.(type)")
}

func TestGenerate_OutputParses(t *testing.T) {
	enum := testEnum(
		variant("Move", "handleMove", "X", "Y"),
		variant("Rotate", "geometry.HandleRotate", "Angle"),
		variant("Reset", "handleReset"),
	)
	enum.Variants[1].Handlers[0].ImportPath = "example/geometry"
	enum.ArgTypes = []analyze.TypeRef{{Expr: "Canvas"}}

	for _, mode := range []Mode{ModeNone, ModeWith, ModeWithMut} {
		content := compileAndGenerate(t, enum, mode)

		fset := token.NewFileSet()
		_, err := parser.ParseFile(fset, "gen.go", content, 0)
		assert.NoError(t, err, mode.String())
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "op_pipeline.go", Filename("Op"))
	assert.Equal(t, "render_op_pipeline.go", Filename("RenderOp"))
	assert.Equal(t, "http_op_pipeline.go", Filename("HTTPOp"))
}

func TestFuncName(t *testing.T) {
	assert.Equal(t, "executeOp", FuncName("Op", ModeNone))
	assert.Equal(t, "executeOpWith", FuncName("Op", ModeWith))
	assert.Equal(t, "executeOpWithMut", FuncName("Op", ModeWithMut))
	assert.Equal(t, "executeJob", FuncName("job", ModeNone))
}

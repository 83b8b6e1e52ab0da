package analyze

import (
	"fmt"
	"go/ast"
	"go/token"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"

	"pipeline-generator/internal/common"
)

// LoadMode specifies what information to load from packages. Syntax only:
// the annotated package usually does not type-check yet, because the
// methods the generator is about to emit are still missing.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedSyntax

// Loader loads Go packages and extracts enum descriptions from them.
type Loader struct {
	cfg *packages.Config
}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{
		cfg: &packages.Config{Mode: LoadMode},
	}
}

// LoadEnum loads the package matching pattern (a standard Go package
// pattern, e.g. "./examples/draw") and extracts the enum named typeName.
func (l *Loader) LoadEnum(pattern, typeName string) (*EnumDescription, error) {
	pkgs, err := packages.Load(l.cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	if !common.IsSingle(pkgs) {
		return nil, fmt.Errorf("pattern %q matched %d packages, want exactly 1", pattern, len(pkgs))
	}

	pkg := pkgs[0]

	// Only parse errors can surface in syntax-only mode; those are fatal.
	var errs []error
	for _, e := range pkg.Errors {
		errs = append(errs, e)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	dir := ""
	if len(pkg.GoFiles) > 0 {
		dir = filepath.Dir(pkg.GoFiles[0])
	}

	return enumFromFiles(pkg.Fset, pkg.Syntax, pkg.PkgPath, pkg.Name, dir, typeName)
}

// enumFromFiles extracts the enum named typeName from already-parsed files.
// Files are scanned in the given order; declaration order within and across
// files is preserved into the description.
func enumFromFiles(
	fset *token.FileSet,
	files []*ast.File,
	pkgPath, pkgName, dir, typeName string,
) (*EnumDescription, error) {
	decl, spec, declFile := findTypeDecl(files, typeName)
	if spec == nil {
		return nil, fmt.Errorf("type %s not found in package %s", typeName, pkgName)
	}

	enum := &EnumDescription{
		Name:    typeName,
		PkgPath: pkgPath,
		PkgName: pkgName,
		Dir:     dir,
		Pos:     fset.Position(spec.Pos()),
	}

	for _, d := range declDirectives(decl, spec) {
		if d.Name != ArgTypeDirective {
			continue
		}

		enum.ArgTypes = append(enum.ArgTypes, TypeRef{
			Expr:       d.Arg,
			ImportPath: resolveImport(declFile, d.Arg),
			Pos:        enum.Pos,
		})
	}

	iface, ok := spec.Type.(*ast.InterfaceType)
	if !ok {
		if _, isStruct := spec.Type.(*ast.StructType); isStruct {
			enum.Kind = KindStruct
		} else {
			enum.Kind = KindBasic
		}

		// Not an enum; the compiler rejects it with a proper diagnostic.
		return enum, nil
	}

	enum.Kind = KindEnum

	enum.Marker = markerMethod(iface)
	if enum.Marker == "" {
		return nil, fmt.Errorf(
			"interface %s declares no unexported marker method; the variant set would not be sealed",
			typeName)
	}

	enum.Variants = collectVariants(fset, files, enum.Marker)

	return enum, nil
}

// findTypeDecl locates the named type declaration across the files.
func findTypeDecl(files []*ast.File, typeName string) (*ast.GenDecl, *ast.TypeSpec, *ast.File) {
	for _, file := range files {
		for _, d := range file.Decls {
			gd, ok := d.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}

			for _, s := range gd.Specs {
				ts, ok := s.(*ast.TypeSpec)
				if ok && ts.Name.Name == typeName {
					return gd, ts, file
				}
			}
		}
	}

	return nil, nil, nil
}

// markerMethod returns the first unexported method declared directly on the
// interface. Embedded interfaces (such as the runtime contracts) are
// skipped.
func markerMethod(iface *ast.InterfaceType) string {
	for _, m := range iface.Methods.List {
		if len(m.Names) == 0 {
			continue // embedded interface
		}

		name := m.Names[0].Name
		if !ast.IsExported(name) {
			return name
		}
	}

	return ""
}

// collectVariants returns the structs declaring the marker method, in
// declaration order.
func collectVariants(fset *token.FileSet, files []*ast.File, marker string) []VariantDescription {
	sealed := markerReceivers(files, marker)

	var variants []VariantDescription

	for _, file := range files {
		for _, d := range file.Decls {
			gd, ok := d.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}

			for _, s := range gd.Specs {
				ts, ok := s.(*ast.TypeSpec)
				if !ok {
					continue
				}

				st, ok := ts.Type.(*ast.StructType)
				if !ok || !sealed[ts.Name.Name] {
					continue
				}

				variants = append(variants, VariantDescription{
					Name:     ts.Name.Name,
					Fields:   structFields(st),
					Handlers: handlerRefs(fset, gd, ts, file),
					Pos:      fset.Position(ts.Pos()),
				})
			}
		}
	}

	return variants
}

// markerReceivers returns the set of type names declaring the marker method.
func markerReceivers(files []*ast.File, marker string) map[string]bool {
	recv := make(map[string]bool)

	for _, file := range files {
		for _, d := range file.Decls {
			fd, ok := d.(*ast.FuncDecl)
			if !ok || fd.Name.Name != marker || fd.Recv == nil || len(fd.Recv.List) == 0 {
				continue
			}

			if name := receiverTypeName(fd.Recv.List[0].Type); name != "" {
				recv[name] = true
			}
		}
	}

	return recv
}

// receiverTypeName unwraps a receiver type expression to its base name.
func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.IndexExpr:
		return receiverTypeName(t.X)
	default:
		return ""
	}
}

// structFields extracts the variant's fields in declared order. Embedded
// fields get their implicit Go name.
func structFields(st *ast.StructType) []FieldDescription {
	var fields []FieldDescription

	for _, f := range st.Fields.List {
		if len(f.Names) == 0 {
			fields = append(fields, FieldDescription{
				Name:     embeddedFieldName(f.Type),
				Embedded: true,
			})

			continue
		}

		for _, name := range f.Names {
			fields = append(fields, FieldDescription{Name: name.Name})
		}
	}

	return fields
}

// embeddedFieldName returns the implicit name of an embedded field.
func embeddedFieldName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return embeddedFieldName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.IndexExpr:
		return embeddedFieldName(t.X)
	default:
		return ""
	}
}

// handlerRefs collects the handler directives attached to a variant.
func handlerRefs(fset *token.FileSet, gd *ast.GenDecl, ts *ast.TypeSpec, file *ast.File) []TypeRef {
	var refs []TypeRef

	for _, d := range declDirectives(gd, ts) {
		if d.Name != HandlerDirective {
			continue
		}

		refs = append(refs, TypeRef{
			Expr:       d.Arg,
			ImportPath: resolveImport(file, d.Arg),
			Pos:        fset.Position(ts.Pos()),
		})
	}

	return refs
}

// resolveImport maps a qualified reference's package qualifier to an import
// path using the file's import table. Returns empty for bare identifiers
// and for qualifiers the file does not import; binding either way is left
// to the compile of the generated file.
func resolveImport(file *ast.File, ref string) string {
	qualifier, _, found := strings.Cut(ref, ".")
	if !found {
		return ""
	}

	for _, imp := range file.Imports {
		path := strings.Trim(imp.Path.Value, `"`)

		if imp.Name != nil {
			if imp.Name.Name == qualifier {
				return path
			}

			continue
		}

		if filepath.Base(path) == qualifier {
			return path
		}
	}

	return ""
}

// Package main provides the CLI entrypoint for pipeline-generator.
//
// pipeline-generator is a go:generate codegen tool that:
//   - Parses Go packages (AST only) to find annotated enum declarations
//   - Compiles each enum into a single exhaustive dispatch type switch
//   - Emits the contract methods (Execute / ExecuteWith / ExecuteWithMut)
//     so the enum's values can be run as pipelines
//
// Typical use, from the package declaring the enum:
//
//	//go:generate go run pipeline-generator/cmd/pipeline-generator -type Op -mode execute_with_mut
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"

	"pipeline-generator/internal/analyze"
	"pipeline-generator/internal/config"
	"pipeline-generator/internal/diagnostic"
	"pipeline-generator/internal/dispatch"
)

type target struct {
	typeName string
	mode     dispatch.Mode
	param    string
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "pipeline-generator:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("pipeline-generator", flag.ContinueOnError)

	var (
		typeName = fs.String("type", "", "enum type name to generate dispatch code for")
		modeName = fs.String("mode", "execute", "calling convention: execute, execute_with or execute_with_mut")
		dir      = fs.String("dir", ".", "package pattern to load")
		manifest = fs.String("config", "", "YAML manifest path; replaces -type/-mode/-dir")
		output   = fs.String("output", "", "output directory (default: the enum's package directory)")
		param    = fs.String("param", "", `identifier of the auxiliary argument in generated code (default "arg")`)
		dryRun   = fs.Bool("dry-run", false, "print generated code to stdout instead of writing files")
		dump     = fs.Bool("dump", false, "dump the loaded enum description for debugging")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	pattern := *dir

	var targets []target

	if *manifest != "" {
		mf, err := config.LoadFile(*manifest)
		if err != nil {
			return err
		}

		if res := config.Validate(mf); res.HasErrors() {
			report(res)

			return fmt.Errorf("invalid manifest %s", *manifest)
		}

		pattern = mf.Package
		if *output == "" && mf.OutputDir != "" {
			*output = mf.OutputDir
		}

		for _, e := range mf.Enums {
			mode, err := dispatch.ParseMode(e.Mode)
			if err != nil {
				return err
			}

			targets = append(targets, target{typeName: e.Type, mode: mode, param: e.Param})
		}
	} else {
		if *typeName == "" {
			return fmt.Errorf("either -type or -config is required")
		}

		mode, err := dispatch.ParseMode(*modeName)
		if err != nil {
			return err
		}

		targets = append(targets, target{typeName: *typeName, mode: mode, param: *param})
	}

	loader := analyze.NewLoader()

	// All targets are compiled before anything is written: violations
	// across the whole run are reported together, and a failing target
	// means no output at all.
	var (
		res     diagnostic.Diagnostics
		pending []generated
	)

	for _, tgt := range targets {
		file, diags, err := generate(loader, pattern, tgt, *output, *dump)

		res.Merge(diags)

		if err != nil {
			report(&res)

			return err
		}

		if file != nil {
			pending = append(pending, *file)
		}
	}

	report(&res)

	if res.HasErrors() {
		return fmt.Errorf("generation failed")
	}

	for _, g := range pending {
		if *dryRun {
			if _, err := os.Stdout.Write(g.file.Content); err != nil {
				return err
			}

			continue
		}

		if err := dispatch.WriteFiles([]dispatch.GeneratedFile{g.file}, g.dir); err != nil {
			return err
		}
	}

	return nil
}

// generated is one rendered file with its destination directory.
type generated struct {
	file dispatch.GeneratedFile
	dir  string
}

// generate runs the load-compile-render chain for one enum. The returned
// file is nil when any rule violation was collected.
func generate(loader *analyze.Loader, pattern string, tgt target, output string, dump bool) (*generated, diagnostic.Diagnostics, error) {
	enum, err := loader.LoadEnum(pattern, tgt.typeName)
	if err != nil {
		return nil, diagnostic.Diagnostics{}, err
	}

	if dump {
		spew.Fdump(os.Stderr, enum)
	}

	compiler := dispatch.NewCompiler(dispatch.CompilerConfig{Param: tgt.param})

	d, diags := compiler.Compile(enum, tgt.mode)
	if diags.HasErrors() {
		return nil, diags, nil
	}

	outDir := output
	if outDir == "" {
		outDir = enum.Dir
	}

	gen := dispatch.NewGenerator(dispatch.GeneratorConfig{OutputDir: outDir})

	file, err := gen.Generate(d)
	if err != nil {
		return nil, diags, err
	}

	return &generated{file: *file, dir: outDir}, diags, nil
}

// report prints every diagnostic to stderr, errors first.
func report(res *diagnostic.Diagnostics) {
	for _, d := range res.Errors {
		fmt.Fprintln(os.Stderr, "error:", d.String())
	}

	for _, d := range res.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", d.String())
	}

	for _, d := range res.Infos {
		fmt.Fprintln(os.Stderr, "info:", d.String())
	}
}

package config

import (
	"fmt"
	"go/token"

	"pipeline-generator/internal/diagnostic"
	"pipeline-generator/internal/dispatch"
)

// Validate structurally validates a manifest. All problems are collected
// into one diagnostics set.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}

	if f.Package == "" {
		res.AddError("MissingPackage", "manifest declares no package pattern", "", "")
	}

	if len(f.Enums) == 0 {
		res.AddError("NoEnums", "manifest lists no enums to generate", "", "")
	}

	seen := map[string]struct{}{}

	for i := range f.Enums {
		e := &f.Enums[i]

		if e.Type == "" {
			res.AddError("MissingType", fmt.Sprintf("enum entry %d has no type name", i), "", "")

			continue
		}

		if _, ok := seen[e.Type]; ok {
			res.AddError(diagnostic.CodeDuplicateEnumEntry,
				fmt.Sprintf("enum %s is listed more than once", e.Type), e.Type, "")

			continue
		}

		seen[e.Type] = struct{}{}

		if _, err := dispatch.ParseMode(e.Mode); err != nil {
			res.AddError(diagnostic.CodeBadMode, err.Error(), e.Type, "")
		}

		if e.Param != "" && !token.IsIdentifier(e.Param) {
			res.AddError(diagnostic.CodeBadParamName,
				fmt.Sprintf("parameter name %q is not a valid Go identifier", e.Param), e.Type, "")
		}
	}

	return res
}

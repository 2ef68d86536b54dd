package internal_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const modulePrefix = "vaspio/internal/"

// TestParserImportRestrictions keeps the file readers free of any
// presentation or persistence layer
func TestParserImportRestrictions(t *testing.T) {
	allowed := []string{
		"vaspio/internal/log",
		"vaspio/internal/source",
		"vaspio/internal/plot", // PlotSeries
	}

	checkImports(t, "./oszicar", allowed, nil)
	checkImports(t, "./outcar", []string{"vaspio/internal/log", "vaspio/internal/source"}, nil)
}

// TestLeafImportRestrictions ensures the shared leaf packages stay leaves
func TestLeafImportRestrictions(t *testing.T) {
	checkImports(t, "./log", []string{}, nil)
	checkImports(t, "./theme", []string{}, nil)
	checkImports(t, "./source", []string{"vaspio/internal/log"}, nil)
	checkImports(t, "./plot", []string{"vaspio/internal/log", "vaspio/internal/theme"}, nil)
}

// TestFrontendImportRestrictions keeps the browser and the store
// independent of each other and of the command line
func TestFrontendImportRestrictions(t *testing.T) {
	checkImports(t, "./tui", nil, []string{
		"vaspio/internal/store",
		"vaspio/internal/cli",
		"vaspio/internal/config",
	})
	checkImports(t, "./store", nil, []string{
		"vaspio/internal/tui",
		"vaspio/internal/cli",
		"vaspio/internal/config",
		"vaspio/internal/plot",
	})
	checkImports(t, "./config", nil, []string{
		"vaspio/internal/cli",
		"vaspio/internal/store",
	})
}

// checkImports walks packageDir. A nil allowed list permits every internal
// package that is not forbidden; an empty one permits none.
func checkImports(t *testing.T, packageDir string, allowedPrefixes, forbiddenPrefixes []string) {
	err := filepath.Walk(packageDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		fset := token.NewFileSet()
		node, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			t.Errorf("Failed to parse %s: %v", path, err)
			return nil
		}

		for _, imp := range node.Imports {
			importPath := strings.Trim(imp.Path.Value, `"`)
			if !strings.HasPrefix(importPath, modulePrefix) {
				continue
			}

			for _, forbidden := range forbiddenPrefixes {
				if strings.HasPrefix(importPath, forbidden) {
					t.Errorf("FORBIDDEN import in %s: %s", path, importPath)
				}
			}

			if allowedPrefixes != nil {
				allowed := false
				for _, prefix := range allowedPrefixes {
					if strings.HasPrefix(importPath, prefix) {
						allowed = true
						break
					}
				}
				if !allowed {
					t.Errorf("DISALLOWED import in %s: %s (not in allowed list)", path, importPath)
				}
			}
		}

		return nil
	})

	if err != nil {
		t.Errorf("Failed to walk directory %s: %v", packageDir, err)
	}
}

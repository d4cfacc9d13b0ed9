// Package reachability determines whether SBOM components are actually
// imported by the product's source code, directly or through the
// declared dependency graph.
package reachability

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Directories that never contain first-party source
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
	"vendor":       true,
	".next":        true,
	"coverage":     true,
}

// Extensions scanned for import statements
var sourceExtensions = map[string]bool{
	".js":  true,
	".jsx": true,
	".ts":  true,
	".tsx": true,
	".mjs": true,
	".cjs": true,
}

// The three import forms recognized: static imports, require calls, and
// dynamic imports
var importPatterns = []*regexp.Regexp{
	regexp.MustCompile(`import\s+[^'"]*?from\s+['"]([^'"]+)['"]`),
	regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`),
	regexp.MustCompile(`import\(\s*['"]([^'"]+)['"]\s*\)`),
}

// scanSource walks the tree under root and records, per package name,
// every source file that imports it. Relative imports are ignored; a
// match is an imported path equal to the package name or starting with
// "<name>/". A missing root yields an empty result. The walk is
// unbounded; callers with very large repositories should pre-filter the
// workspace.
func scanSource(root string, packageNames []string) (map[string][]string, error) {
	evidence := map[string][]string{}

	if root == "" {
		return evidence, nil
	}
	if _, err := os.Stat(root); err != nil {
		return evidence, nil
	}

	seen := map[string]map[string]bool{}

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !sourceExtensions[filepath.Ext(path)] {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		for _, imported := range extractImports(string(content)) {
			for _, name := range packageNames {
				if imported != name && !strings.HasPrefix(imported, name+"/") {
					continue
				}
				if seen[name] == nil {
					seen[name] = map[string]bool{}
				}
				if !seen[name][rel] {
					seen[name][rel] = true
					evidence[name] = append(evidence[name], rel)
				}
			}
		}

		return nil
	})

	return evidence, err
}

// extractImports returns every non-relative imported path in the file
func extractImports(content string) []string {
	var imports []string
	for _, pattern := range importPatterns {
		for _, match := range pattern.FindAllStringSubmatch(content, -1) {
			path := match[1]
			if strings.HasPrefix(path, ".") || strings.HasPrefix(path, "/") {
				continue
			}
			imports = append(imports, path)
		}
	}
	return imports
}

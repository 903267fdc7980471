// Package moduledir classifies filesystem paths into addon-module facts.
package moduledir

import (
	"os"
	"path/filepath"
	"strings"
)

// Manifest file basenames that mark a directory as an addon module root.
var manifestNames = []string{"__manifest__.py", "__openerp__.py"}

// Classification is what the checkers learn about a path's place in the
// addon tree.
type Classification struct {
	// InModule is true when the path lives under a genuine module root.
	InModule bool
	// IsManifest is true when the path itself is the module descriptor.
	IsManifest bool
	// IsMigrationScript is true for files under <module>/migrations/<version>/.
	// Checks that only apply to installable module code are suppressed there.
	IsMigrationScript bool
	// ModuleName is the module's technical name (its directory basename).
	ModuleName string
	// ModuleRoot is the absolute path of the module directory.
	ModuleRoot string
}

// IsManifestName reports whether base names an addon manifest file.
func IsManifestName(base string) bool {
	for _, n := range manifestNames {
		if base == n {
			return true
		}
	}
	return false
}

// HasManifest reports whether dir directly contains a manifest file.
func HasManifest(dir string) bool {
	for _, n := range manifestNames {
		if fi, err := os.Stat(filepath.Join(dir, n)); err == nil && !fi.IsDir() {
			return true
		}
	}
	return false
}

// Classify derives module facts for path. It is a pure function of the
// path and the manifest files present on disk.
//
// A directory that contains a manifest-like file but sits inside a
// migrations tree of an enclosing module is not a module root; migration
// scripts were historically misclassified as installable modules, which
// produced spurious module-level findings.
func Classify(path string) Classification {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	dir := filepath.Dir(abs)
	root := findModuleRoot(dir)
	if root == "" {
		return Classification{}
	}

	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return Classification{}
	}
	segs := splitPath(rel)

	c := Classification{
		InModule:   true,
		ModuleName: filepath.Base(root),
		ModuleRoot: root,
	}
	if len(segs) == 1 && IsManifestName(segs[0]) {
		c.IsManifest = true
	}
	if len(segs) >= 3 && segs[0] == "migrations" {
		c.IsMigrationScript = true
	}
	return c
}

// findModuleRoot climbs from dir to the nearest ancestor holding a
// manifest, skipping candidates that are themselves buried in a migrations
// tree of a higher module.
func findModuleRoot(dir string) string {
	for d := dir; ; {
		if HasManifest(d) && !insideMigrations(d) {
			return d
		}
		parent := filepath.Dir(d)
		if parent == d {
			return ""
		}
		d = parent
	}
}

// insideMigrations reports whether dir sits under a migrations/ directory
// that belongs to an enclosing module.
func insideMigrations(dir string) bool {
	for d := dir; ; {
		parent := filepath.Dir(d)
		if parent == d {
			return false
		}
		if filepath.Base(d) == "migrations" && HasManifest(parent) {
			return true
		}
		d = parent
	}
}

func splitPath(rel string) []string {
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == "" {
		return nil
	}
	return strings.Split(rel, "/")
}

// Readme file names accepted at a module root.
var readmeNames = []string{"README.rst", "README.md", "README.txt", "README"}

// HasReadme reports whether the module root carries a readme file.
func HasReadme(root string) bool {
	for _, n := range readmeNames {
		if fi, err := os.Stat(filepath.Join(root, n)); err == nil && !fi.IsDir() {
			return true
		}
	}
	return false
}

package checkers

import (
	"path/filepath"
	"strings"

	"github.com/addonlint/addonlint/internal/pyast"
)

// importChecks validates import statements: deprecated framework names,
// absolute imports of the importing module itself and test-folder imports
// from a module's __init__.py.
type importChecks struct{}

func (importChecks) Kinds() []pyast.Kind {
	return []pyast.Kind{pyast.KindImport, pyast.KindImportFrom}
}

func (importChecks) Check(p *Pass, n pyast.Node) {
	switch imp := n.(type) {
	case *pyast.Import:
		for _, name := range imp.Names {
			checkSelfImport(p, imp, name)
			checkTestsImport(p, imp, name, 0)
		}
	case *pyast.ImportFrom:
		checkExceptionWarning(p, imp)
		if imp.Level == 0 {
			checkSelfImport(p, imp, imp.Module)
			if imp.Module == "odoo.addons" || imp.Module == "openerp.addons" {
				for _, name := range imp.Names {
					checkSelfImport(p, imp, imp.Module+"."+name)
				}
			}
		}
		checkTestsImport(p, imp, imp.Module, imp.Level)
		if imp.Level > 0 && imp.Module == "" {
			for _, name := range imp.Names {
				checkTestsImport(p, imp, name, imp.Level)
			}
		}
	}
}

// checkExceptionWarning flags importing the framework's Warning exception
// under its bare name, which shadows the builtin. Importing it as
// UserError is the sanctioned spelling.
func checkExceptionWarning(p *Pass, imp *pyast.ImportFrom) {
	if imp.Module != "odoo.exceptions" && imp.Module != "openerp.exceptions" {
		return
	}
	for i, name := range imp.Names {
		if name != "Warning" {
			continue
		}
		if i < len(imp.Asnames) && imp.Asnames[i] != "" && imp.Asnames[i] != "Warning" {
			continue
		}
		p.Report("openerp-exception-warning", imp)
	}
}

// checkSelfImport flags absolute imports of the module the file lives in.
func checkSelfImport(p *Pass, n pyast.Node, module string) {
	if p.Class.ModuleName == "" || module == "" {
		return
	}
	for _, ns := range []string{"odoo.addons.", "openerp.addons."} {
		full := ns + p.Class.ModuleName
		if module == full || strings.HasPrefix(module, full+".") {
			p.Report("odoo-addons-relative-import", n, module)
			return
		}
	}
}

// checkTestsImport flags a module __init__.py pulling in its tests folder,
// which makes test-only dependencies load in production.
func checkTestsImport(p *Pass, n pyast.Node, module string, level int) {
	if filepath.Base(p.File) != "__init__.py" || module == "" {
		return
	}
	if level > 1 {
		return
	}
	if module == "tests" || strings.HasPrefix(module, "tests.") {
		p.Report("test-folder-imported", n, p.Class.ModuleName)
	}
}

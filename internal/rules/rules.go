// Package rules is the static catalog of diagnostic rules: stable
// identifiers, message templates and severity categories. Checkers build
// findings through the catalog; reporting layers look templates up by id.
package rules

import (
	"fmt"
	"sort"

	"github.com/addonlint/addonlint/internal/pyast"
)

// Category groups rules by the kind of problem they flag.
type Category string

// Rule categories, mirroring conventional linter severity classes.
const (
	CategoryError      Category = "error"
	CategoryWarning    Category = "warning"
	CategoryConvention Category = "convention"
	CategoryRefactor   Category = "refactor"
)

// Definition describes one rule. The template is a fmt format string whose
// placeholders are filled when a finding is constructed.
type Definition struct {
	ID       string
	Template string
	Category Category
}

// Finding is a single reported rule violation. Immutable once created.
type Finding struct {
	RuleID  string `json:"rule_id"`
	Message string `json:"message"`
	File    string `json:"file"`
	Line    int    `json:"line"`
	Symbol  string `json:"symbol,omitempty"`
}

func (f Finding) String() string {
	if f.Symbol != "" {
		return fmt.Sprintf("%s:%d: [%s, %s] %s", f.File, f.Line, f.RuleID, f.Symbol, f.Message)
	}
	return fmt.Sprintf("%s:%d: [%s] %s", f.File, f.Line, f.RuleID, f.Message)
}

var catalog = map[string]Definition{}

func register(defs ...Definition) {
	for _, d := range defs {
		if _, dup := catalog[d.ID]; dup {
			panic("rules: duplicate rule id " + d.ID)
		}
		catalog[d.ID] = d
	}
}

func init() {
	register(
		// Syntax-tree rules.
		Definition{"sql-injection", "SQL injection risk: query built from %s", CategoryError},
		Definition{"attribute-deprecated", "%s is a deprecated model attribute", CategoryWarning},
		Definition{"eval-referenced", "eval referenced, consider safe_eval", CategoryWarning},
		Definition{"except-pass", "pass in except block without a specific exception", CategoryWarning},
		Definition{"external-request-timeout", "call to %s without an explicit timeout", CategoryError},
		Definition{"method-required-super", "method %q must call super()", CategoryError},
		Definition{"translation-contains-variable", "translated text contains interpolated value %s", CategoryWarning},
		Definition{"translation-positional-used", "translated text uses positional placeholders, use named ones", CategoryWarning},
		Definition{"translation-field", "translation wrapper applied to a field definition", CategoryWarning},
		Definition{"class-camelcase", "class name %q is not CamelCase", CategoryConvention},
		Definition{"consider-merging-classes-inherited", "classes extending %q could be merged", CategoryRefactor},
		Definition{"method-compute", "compute method %q should start with %q", CategoryConvention},
		Definition{"method-inverse", "inverse method %q should start with %q", CategoryConvention},
		Definition{"method-search", "search method %q should start with %q", CategoryConvention},
		Definition{"renamed-field-parameter", "field parameter %q was renamed, use %q", CategoryWarning},
		Definition{"attribute-string-redundant", "string parameter of field %q repeats the field name", CategoryWarning},
		Definition{"print-used", "print used, consider the logging machinery", CategoryWarning},
		Definition{"invalid-commit", "%s.commit() called directly, the framework handles transactions", CategoryError},
		Definition{"context-overridden", "context overridden with a dict, pass keyword arguments to with_context", CategoryWarning},
		Definition{"openerp-exception-warning", "import Warning as UserError, the bare name shadows the builtin", CategoryRefactor},
		Definition{"odoo-addons-relative-import", "absolute import of the module itself, use a relative import instead of %q", CategoryWarning},
		Definition{"test-folder-imported", "tests folder imported in module %s", CategoryWarning},
		Definition{"use-vim-comment", "vim modeline comment found", CategoryWarning},

		// Manifest rules.
		Definition{"manifest-syntax-error", "manifest is not a parseable mapping literal: %s", CategoryError},
		Definition{"manifest-required-key", "manifest misses required key %q", CategoryError},
		Definition{"manifest-deprecated-key", "manifest contains deprecated key %q", CategoryWarning},
		Definition{"manifest-version-format", "version %q does not match the required format", CategoryConvention},
		Definition{"manifest-required-author", "manifest must list one of these authors: %s", CategoryConvention},
		Definition{"manifest-author-string", "manifest author must be a string, not %s", CategoryError},
		Definition{"manifest-data-duplicated", "manifest lists %q more than once", CategoryWarning},
		Definition{"manifest-maintainers-list", "manifest maintainers must be a list", CategoryError},
		Definition{"license-allowed", "license %q is not a known license", CategoryConvention},
		Definition{"development-status-allowed", "development status %q is not allowed, use one of %s", CategoryConvention},
		Definition{"website-manifest-key-not-valid-uri", "website %q is not a valid URI", CategoryConvention},
		Definition{"resource-not-exist", "manifest refers to %s which does not exist", CategoryError},
		Definition{"missing-readme", "module misses a readme file (%s)", CategoryConvention},

		// Run-level rules.
		Definition{"deprecated-option", "configuration option %q is deprecated, use %q", CategoryWarning},
	)
}

// Get looks a definition up by rule id.
func Get(id string) (Definition, bool) {
	d, ok := catalog[id]
	return d, ok
}

// MustGet panics on an unknown rule id; checkers report through it so a
// typo in a rule id fails loudly in tests rather than silently dropping
// findings.
func MustGet(id string) Definition {
	d, ok := catalog[id]
	if !ok {
		panic("rules: unknown rule id " + id)
	}
	return d
}

// All returns the catalog sorted by rule id.
func All() []Definition {
	out := make([]Definition, 0, len(catalog))
	for _, d := range catalog {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IDs returns every rule id, sorted.
func IDs() []string {
	defs := All()
	ids := make([]string, len(defs))
	for i, d := range defs {
		ids[i] = d.ID
	}
	return ids
}

// New renders a finding for this definition at the given location.
func (d Definition) New(pos pyast.Position, symbol string, args ...any) Finding {
	return Finding{
		RuleID:  d.ID,
		Message: fmt.Sprintf(d.Template, args...),
		File:    pos.Filename,
		Line:    pos.Line,
		Symbol:  symbol,
	}
}

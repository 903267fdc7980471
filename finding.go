package addonlint

import "github.com/addonlint/addonlint/internal/rules"

// Finding is a single reported diagnostic.
type Finding = rules.Finding

// Rule severity categories.
const (
	CategoryError      = rules.CategoryError
	CategoryWarning    = rules.CategoryWarning
	CategoryConvention = rules.CategoryConvention
	CategoryRefactor   = rules.CategoryRefactor
)

// Rules returns the catalog of known rules, sorted by id.
func Rules() []rules.Definition { return rules.All() }

// RuleIDs returns every known rule id, sorted.
func RuleIDs() []string { return rules.IDs() }

// Package noqa handles inline "# addonlint: disable=..." suppression
// comments.
package noqa

import (
	"strings"

	"github.com/addonlint/addonlint/internal/pyparse"
)

type entry struct {
	rules map[string]bool // empty = suppress everything on the line
}

// Map tracks suppression entries by line number.
type Map map[int]*entry

// Build scans a file's comments for suppression directives.
//
// Supported formats:
//   - # addonlint: disable=sql-injection
//   - # addonlint: disable=sql-injection,print-used
//   - # addonlint: disable
func Build(comments []pyparse.Comment) Map {
	m := make(Map)
	for _, c := range comments {
		rules, ok := parseDirective(c.Text)
		if !ok {
			continue
		}
		m[c.Pos.Line] = &entry{rules: rules}
	}
	return m
}

func parseDirective(text string) (map[string]bool, bool) {
	text = strings.TrimPrefix(text, "#")
	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, "addonlint:") {
		return nil, false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(text, "addonlint:"))
	if !strings.HasPrefix(rest, "disable") {
		return nil, false
	}
	rest = strings.TrimPrefix(rest, "disable")
	rest = strings.TrimSpace(rest)

	if rest == "" {
		return map[string]bool{}, true
	}
	if !strings.HasPrefix(rest, "=") {
		return nil, false
	}

	rules := map[string]bool{}
	for _, part := range strings.Split(rest[1:], ",") {
		if name := strings.TrimSpace(part); name != "" {
			rules[name] = true
		}
	}
	return rules, true
}

// Suppressed reports whether a finding for rule on line should be dropped.
// A directive applies to its own line and to the line right below it.
func (m Map) Suppressed(line int, rule string) bool {
	return m.suppressedAt(line, rule) || m.suppressedAt(line-1, rule)
}

func (m Map) suppressedAt(line int, rule string) bool {
	e := m[line]
	if e == nil {
		return false
	}
	return len(e.rules) == 0 || e.rules[rule]
}

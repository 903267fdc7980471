package checkers

import (
	"regexp"
	"sort"

	"github.com/addonlint/addonlint/internal/pyast"
)

var camelCaseClass = regexp.MustCompile(`^_?[A-Z][a-zA-Z0-9]*$`)

// naming checks class naming conventions and flags sibling classes that
// extend the same model and could be merged. Both rules are skipped in
// migration scripts, where copied historical classes are expected.
type naming struct {
	inherited map[string][]*pyast.ClassDef
}

func (*naming) Kinds() []pyast.Kind { return []pyast.Kind{pyast.KindClassDef} }

func (c *naming) Check(p *Pass, n pyast.Node) {
	if p.Class.IsMigrationScript {
		return
	}
	class := n.(*pyast.ClassDef)
	if !camelCaseClass.MatchString(class.Name) {
		p.Report("class-camelcase", class, class.Name)
	}
	if model := inheritedModel(class); model != "" {
		c.inherited[model] = append(c.inherited[model], class)
	}
}

func (c *naming) Finish(p *Pass) {
	models := make([]string, 0, len(c.inherited))
	for model := range c.inherited {
		models = append(models, model)
	}
	sort.Strings(models)
	for _, model := range models {
		classes := c.inherited[model]
		if len(classes) < 2 {
			continue
		}
		for _, class := range classes[1:] {
			p.Report("consider-merging-classes-inherited", class, model)
		}
	}
}

// inheritedModel returns the model name a class extends via a literal
// _inherit assignment in its body, or "" when there is none. A class that
// also sets _name defines a new model rather than extending one, so it is
// never a merge candidate.
func inheritedModel(class *pyast.ClassDef) string {
	var inherit string
	for _, stmt := range class.Body {
		assign, ok := stmt.(*pyast.Assign)
		if !ok || len(assign.Targets) != 1 {
			continue
		}
		target, ok := assign.Targets[0].(*pyast.Name)
		if !ok {
			continue
		}
		switch target.ID {
		case "_name":
			return ""
		case "_inherit":
			if s, ok := assign.Value.(*pyast.Str); ok {
				inherit = s.Value
			}
		}
	}
	return inherit
}

package checkers

import (
	"strings"

	"github.com/addonlint/addonlint/internal/pyast"
)

// methodPrefixes maps a field-definition keyword naming a model method to
// the prefix that method's name must carry, keyed also to the rule that
// fires when it does not.
var methodPrefixes = []struct {
	keyword string
	prefix  string
	rule    string
}{
	{"compute", "_compute_", "method-compute"},
	{"inverse", "_inverse_", "method-inverse"},
	{"search", "_search_", "method-search"},
}

// renamedParameters maps field keywords that were renamed upstream to
// their current names.
var renamedParameters = map[string]string{
	"digits_compute": "digits",
	"select":         "index",
}

// fieldParams validates keyword arguments of fields.X(...) declarations
// assigned in a class body.
type fieldParams struct{}

func (fieldParams) Kinds() []pyast.Kind { return []pyast.Kind{pyast.KindAssign} }

func (fieldParams) Check(p *Pass, n pyast.Node) {
	assign := n.(*pyast.Assign)
	if pyast.EnclosingClass(assign) == nil || pyast.EnclosingFunc(assign) != nil {
		return
	}
	if len(assign.Targets) != 1 {
		return
	}
	target, ok := assign.Targets[0].(*pyast.Name)
	if !ok {
		return
	}
	call, ok := assign.Value.(*pyast.Call)
	if !ok || !isFieldConstructor(call) {
		return
	}

	for _, kw := range call.Keywords {
		if kw.Arg == "" {
			continue
		}
		if renamed, ok := renamedParameters[kw.Arg]; ok {
			p.Report("renamed-field-parameter", kw.Value, kw.Arg, renamed)
		}
		switch kw.Arg {
		case "string":
			if s, ok := kw.Value.(*pyast.Str); ok && s.Value == fieldTitle(target.ID) {
				p.Report("attribute-string-redundant", kw.Value, target.ID)
			}
		default:
			for _, m := range methodPrefixes {
				if kw.Arg != m.keyword {
					continue
				}
				if s, ok := kw.Value.(*pyast.Str); ok && !strings.HasPrefix(s.Value, m.prefix) {
					p.Report(m.rule, kw.Value, s.Value, m.prefix)
				}
			}
		}
	}
}

func isFieldConstructor(call *pyast.Call) bool {
	attr, ok := call.Func.(*pyast.Attribute)
	if !ok {
		return false
	}
	base, ok := attr.Value.(*pyast.Name)
	return ok && base.ID == "fields"
}

// fieldTitle renders the string the fields machinery would derive from a
// field name by default: underscores to spaces, words title-cased, a
// trailing relational _id/_ids suffix dropped.
func fieldTitle(name string) string {
	name = strings.TrimSuffix(name, "_ids")
	name = strings.TrimSuffix(name, "_id")
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

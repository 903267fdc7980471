package checkers

import (
	"regexp"

	"github.com/addonlint/addonlint/internal/pyast"
	"github.com/addonlint/addonlint/internal/taint"
)

// positionalPlaceholder matches %s-style and {}-style positional
// substitution in a translation template. Named forms (%(name)s, {name})
// survive translator reordering; positional ones do not.
var positionalPlaceholder = regexp.MustCompile(`%[sdifr]|\{\d*\}`)

// translation validates translation-wrapper calls: the argument must be a
// plain literal (interpolation happens after translation lookup, not
// before), placeholders must be named, and field definitions must not be
// wrapped at all.
type translation struct{}

func (translation) Kinds() []pyast.Kind { return []pyast.Kind{pyast.KindCall} }

func (translation) Check(p *Pass, n pyast.Node) {
	call := n.(*pyast.Call)
	name, ok := call.Func.(*pyast.Name)
	if !ok || name.ID != "_" || len(call.Args) == 0 {
		return
	}

	if insideFieldDefinition(call) {
		p.Report("translation-field", call)
	}

	arg := call.Args[0]
	switch v := arg.(type) {
	case *pyast.Str:
		if positionalPlaceholder.MatchString(v.Value) {
			p.Report("translation-positional-used", call)
		}
	case *pyast.FString:
		for _, part := range v.Parts {
			if part.Expr != nil {
				p.Report("translation-contains-variable", call, pyast.Format(part.Expr))
				return
			}
		}
	default:
		if r := taint.Of(arg); r.Kind != taint.Literal {
			src := r.Source
			if src == nil {
				src = arg
			}
			p.Report("translation-contains-variable", call, pyast.Format(src))
		}
	}
}

// insideFieldDefinition reports whether n sits in the arguments of a
// fields.X(...) declaration.
func insideFieldDefinition(n pyast.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		call, ok := p.(*pyast.Call)
		if !ok {
			continue
		}
		if attr, ok := call.Func.(*pyast.Attribute); ok {
			if base, ok := attr.Value.(*pyast.Name); ok && base.ID == "fields" {
				return true
			}
		}
	}
	return false
}

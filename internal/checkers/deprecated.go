package checkers

import (
	"github.com/addonlint/addonlint/internal/pyast"
)

// deprecatedAttributes are model attributes removed from the framework.
var deprecatedAttributes = map[string]bool{
	"_columns":  true,
	"_defaults": true,
	"length":    true,
}

// deprecatedAPI flags removed model attributes and discouraged builtins.
type deprecatedAPI struct{}

func (deprecatedAPI) Kinds() []pyast.Kind {
	return []pyast.Kind{pyast.KindAssign, pyast.KindCall}
}

func (deprecatedAPI) Check(p *Pass, n pyast.Node) {
	switch v := n.(type) {
	case *pyast.Assign:
		// Deprecated attributes only matter in a class body.
		if pyast.EnclosingClass(v) == nil || pyast.EnclosingFunc(v) != nil {
			return
		}
		for _, target := range v.Targets {
			if name, ok := target.(*pyast.Name); ok && deprecatedAttributes[name.ID] {
				p.Report("attribute-deprecated", v, name.ID)
			}
		}
	case *pyast.Call:
		name, ok := v.Func.(*pyast.Name)
		if !ok {
			return
		}
		switch name.ID {
		case "eval":
			p.Report("eval-referenced", v)
		case "print":
			p.Report("print-used", v)
		}
	}
}

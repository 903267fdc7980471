package checkers

import (
	"github.com/addonlint/addonlint/internal/pyast"
)

// lifecycleMethods must chain to the base implementation when overridden,
// or framework bookkeeping silently breaks.
var lifecycleMethods = map[string]bool{
	"create":      true,
	"write":       true,
	"read":        true,
	"unlink":      true,
	"copy":        true,
	"setUp":       true,
	"tearDown":    true,
	"default_get": true,
}

// requiredSuper flags lifecycle-method overrides that never call super().
type requiredSuper struct{}

func (requiredSuper) Kinds() []pyast.Kind { return []pyast.Kind{pyast.KindFuncDef} }

func (requiredSuper) Check(p *Pass, n pyast.Node) {
	fn := n.(*pyast.FuncDef)
	if !lifecycleMethods[fn.Name] || pyast.EnclosingClass(fn) == nil {
		return
	}

	callsSuper := false
	for _, stmt := range fn.Body {
		pyast.Inspect(stmt, func(c pyast.Node) bool {
			if callsSuper {
				return false
			}
			// Do not credit super() calls made by nested definitions.
			if _, nested := c.(*pyast.FuncDef); nested {
				return false
			}
			if call, ok := c.(*pyast.Call); ok && isSuperCall(call) {
				callsSuper = true
				return false
			}
			return true
		})
		if callsSuper {
			return
		}
	}

	p.Report("method-required-super", fn, fn.Name)
}

// isSuperCall matches super().method(...) and super(Cls, self).method(...).
func isSuperCall(call *pyast.Call) bool {
	attr, ok := call.Func.(*pyast.Attribute)
	if !ok {
		return false
	}
	inner, ok := attr.Value.(*pyast.Call)
	if !ok {
		return false
	}
	name, ok := inner.Func.(*pyast.Name)
	return ok && name.ID == "super"
}

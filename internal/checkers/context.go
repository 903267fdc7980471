package checkers

import (
	"github.com/addonlint/addonlint/internal/pyast"
)

// contextOverride flags with_context calls that pass a dict positionally,
// which replaces the whole context instead of extending it.
type contextOverride struct{}

func (contextOverride) Kinds() []pyast.Kind { return []pyast.Kind{pyast.KindCall} }

func (contextOverride) Check(p *Pass, n pyast.Node) {
	call := n.(*pyast.Call)
	fn, ok := call.Func.(*pyast.Attribute)
	if !ok || fn.Attr != "with_context" || len(call.Args) == 0 {
		return
	}
	if _, ok := call.Args[0].(*pyast.Dict); ok {
		p.Report("context-overridden", call)
	}
}

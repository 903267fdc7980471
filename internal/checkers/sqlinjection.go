package checkers

import (
	"github.com/addonlint/addonlint/internal/pyast"
	"github.com/addonlint/addonlint/internal/taint"
)

// queryMethods are the recognized database-query-execution entry points.
var queryMethods = map[string]bool{
	"execute":     true,
	"executemany": true,
}

// sqlInjection flags query-execution calls whose query text can carry
// runtime-interpolated data, whether built inline at the call site or
// assigned to a variable first.
type sqlInjection struct{}

func (sqlInjection) Kinds() []pyast.Kind { return []pyast.Kind{pyast.KindCall} }

func (sqlInjection) Check(p *Pass, n pyast.Node) {
	call := n.(*pyast.Call)
	if !isQueryCall(call) || len(call.Args) == 0 {
		return
	}

	r := taint.Of(call.Args[0])
	if r.Kind != taint.Tainted {
		return
	}
	if isSafeQuerySource(r.Source) {
		return
	}

	src := r.Source
	if src == nil {
		src = call.Args[0]
	}
	p.Report("sql-injection", call, pyast.Format(src))
}

func isQueryCall(call *pyast.Call) bool {
	switch fn := call.Func.(type) {
	case *pyast.Attribute:
		return queryMethods[fn.Attr]
	case *pyast.Name:
		return queryMethods[fn.ID]
	}
	return false
}

// isSafeQuerySource whitelists the model's own table attribute, which is
// framework-assigned and not caller-controlled.
func isSafeQuerySource(src pyast.Node) bool {
	attr, ok := src.(*pyast.Attribute)
	return ok && attr.Attr == "_table"
}

package checkers

import (
	"github.com/addonlint/addonlint/internal/pyast"
)

// exceptPass flags handlers that swallow everything: a bare or overly
// broad except whose body is exactly a no-op.
type exceptPass struct{}

func (exceptPass) Kinds() []pyast.Kind { return []pyast.Kind{pyast.KindExceptHandler} }

func (exceptPass) Check(p *Pass, n pyast.Node) {
	h := n.(*pyast.ExceptHandler)
	if len(h.Body) != 1 {
		return
	}
	if _, isPass := h.Body[0].(*pyast.Pass); !isPass {
		return
	}
	if !isBroadExceptionType(h.Type) {
		return
	}
	p.Report("except-pass", h)
}

func isBroadExceptionType(t pyast.Node) bool {
	switch v := t.(type) {
	case nil:
		return true
	case *pyast.Name:
		return v.ID == "Exception" || v.ID == "BaseException"
	case *pyast.Tuple:
		for _, e := range v.Elts {
			if isBroadExceptionType(e) {
				return true
			}
		}
	}
	return false
}

package checkers

import (
	"github.com/addonlint/addonlint/internal/pyast"
)

// httpClientMethods are the outbound HTTP entry points of the requests
// library.
var httpClientMethods = map[string]bool{
	"get":     true,
	"post":    true,
	"put":     true,
	"delete":  true,
	"head":    true,
	"options": true,
	"patch":   true,
	"request": true,
}

// requestTimeout flags outbound network calls lacking an explicit timeout;
// without one a stuck peer blocks the worker forever.
type requestTimeout struct{}

func (requestTimeout) Kinds() []pyast.Kind { return []pyast.Kind{pyast.KindCall} }

func (requestTimeout) Check(p *Pass, n pyast.Node) {
	call := n.(*pyast.Call)
	if !isHTTPCall(call) {
		return
	}
	for _, kw := range call.Keywords {
		if kw.Arg == "timeout" {
			return
		}
	}
	p.Report("external-request-timeout", call, pyast.Format(call.Func))
}

func isHTTPCall(call *pyast.Call) bool {
	switch fn := call.Func.(type) {
	case *pyast.Attribute:
		if fn.Attr == "urlopen" {
			return true
		}
		base, ok := fn.Value.(*pyast.Name)
		return ok && base.ID == "requests" && httpClientMethods[fn.Attr]
	case *pyast.Name:
		return fn.ID == "urlopen"
	}
	return false
}

package checkers

import (
	"github.com/addonlint/addonlint/internal/pyast"
)

// cursorCommit flags direct commit calls on a database cursor. The
// framework owns the transaction boundary; a manual commit inside model
// code breaks rollback on error.
type cursorCommit struct{}

func (cursorCommit) Kinds() []pyast.Kind { return []pyast.Kind{pyast.KindCall} }

func (cursorCommit) Check(p *Pass, n pyast.Node) {
	call := n.(*pyast.Call)
	fn, ok := call.Func.(*pyast.Attribute)
	if !ok || fn.Attr != "commit" {
		return
	}
	if cursorName(fn.Value) == "" {
		return
	}
	p.Report("invalid-commit", call, pyast.Format(fn.Value))
}

// cursorName reports the cursor-like final segment of the receiver, or ""
// when the receiver does not look like a cursor. Matches cr, _cr and any
// dotted path ending in them, like self.env.cr.
func cursorName(recv pyast.Node) string {
	name := ""
	switch v := recv.(type) {
	case *pyast.Name:
		name = v.ID
	case *pyast.Attribute:
		name = v.Attr
	}
	if name == "cr" || name == "_cr" {
		return name
	}
	return ""
}

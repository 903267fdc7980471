package pyast

import (
	"fmt"
	"strings"
)

// Format renders an expression back to compact source-like text, for use
// in finding messages. Statements render as their kind name.
func Format(n Node) string {
	switch v := n.(type) {
	case *Str:
		return fmt.Sprintf("%q", v.Value)
	case *Num:
		return v.Value
	case *Const:
		return v.Value
	case *Name:
		return v.ID
	case *Attribute:
		return Format(v.Value) + "." + v.Attr
	case *Subscript:
		return Format(v.Value) + "[" + Format(v.Index) + "]"
	case *Call:
		args := make([]string, 0, len(v.Args)+len(v.Keywords))
		for _, a := range v.Args {
			args = append(args, Format(a))
		}
		for _, kw := range v.Keywords {
			if kw.Arg == "" {
				args = append(args, "**"+Format(kw.Value))
			} else {
				args = append(args, kw.Arg+"="+Format(kw.Value))
			}
		}
		return Format(v.Func) + "(" + strings.Join(args, ", ") + ")"
	case *BinOp:
		return Format(v.Left) + " " + v.Op + " " + Format(v.Right)
	case *UnaryOp:
		return v.Op + Format(v.Operand)
	case *FString:
		var b strings.Builder
		b.WriteString(`f"`)
		for _, p := range v.Parts {
			if p.Expr != nil {
				b.WriteString("{" + Format(p.Expr) + "}")
			} else {
				b.WriteString(p.Text)
			}
		}
		b.WriteString(`"`)
		return b.String()
	case *Tuple:
		return "(" + joinFormatted(v.Elts) + ")"
	case *List:
		return "[" + joinFormatted(v.Elts) + "]"
	case *Set:
		return "{" + joinFormatted(v.Elts) + "}"
	case *Dict:
		items := make([]string, 0, len(v.Items))
		for _, it := range v.Items {
			if it.Key == nil {
				items = append(items, "**"+Format(it.Value))
			} else {
				items = append(items, Format(it.Key)+": "+Format(it.Value))
			}
		}
		return "{" + strings.Join(items, ", ") + "}"
	case *Lambda:
		return "lambda: " + Format(v.Body)
	case *Starred:
		return "*" + Format(v.Value)
	case nil:
		return ""
	}
	return fmt.Sprintf("<%T>", n)
}

func joinFormatted(elts []Node) string {
	parts := make([]string, 0, len(elts))
	for _, e := range elts {
		parts = append(parts, Format(e))
	}
	return strings.Join(parts, ", ")
}

package pyast

// Kind identifies the concrete type of a node. Checkers register interest
// by kind so one traversal can dispatch to all of them.
type Kind uint8

// Node kinds.
const (
	KindInvalid Kind = iota
	KindModule
	KindFuncDef
	KindClassDef
	KindAssign
	KindExprStmt
	KindReturn
	KindPass
	KindRaise
	KindIf
	KindFor
	KindWhile
	KindWith
	KindTry
	KindExceptHandler
	KindImport
	KindImportFrom
	KindStr
	KindFString
	KindName
	KindAttribute
	KindSubscript
	KindCall
	KindBinOp
	KindUnaryOp
	KindNum
	KindConst
	KindTuple
	KindList
	KindDict
	KindSet
	KindLambda
	KindStarred
)

// KindOf returns the kind of n.
func KindOf(n Node) Kind {
	switch n.(type) {
	case *Module:
		return KindModule
	case *FuncDef:
		return KindFuncDef
	case *ClassDef:
		return KindClassDef
	case *Assign:
		return KindAssign
	case *ExprStmt:
		return KindExprStmt
	case *Return:
		return KindReturn
	case *Pass:
		return KindPass
	case *Raise:
		return KindRaise
	case *If:
		return KindIf
	case *For:
		return KindFor
	case *While:
		return KindWhile
	case *With:
		return KindWith
	case *Try:
		return KindTry
	case *ExceptHandler:
		return KindExceptHandler
	case *Import:
		return KindImport
	case *ImportFrom:
		return KindImportFrom
	case *Str:
		return KindStr
	case *FString:
		return KindFString
	case *Name:
		return KindName
	case *Attribute:
		return KindAttribute
	case *Subscript:
		return KindSubscript
	case *Call:
		return KindCall
	case *BinOp:
		return KindBinOp
	case *UnaryOp:
		return KindUnaryOp
	case *Num:
		return KindNum
	case *Const:
		return KindConst
	case *Tuple:
		return KindTuple
	case *List:
		return KindList
	case *Dict:
		return KindDict
	case *Set:
		return KindSet
	case *Lambda:
		return KindLambda
	case *Starred:
		return KindStarred
	}
	return KindInvalid
}

// Children returns the direct child nodes of n in source order.
func Children(n Node) []Node {
	var out []Node
	add := func(ns ...Node) {
		for _, c := range ns {
			if c != nil {
				out = append(out, c)
			}
		}
	}

	switch v := n.(type) {
	case *Module:
		add(v.Body...)
	case *FuncDef:
		add(v.Decorators...)
		add(v.Body...)
	case *ClassDef:
		add(v.Decorators...)
		add(v.Bases...)
		add(v.Body...)
	case *Assign:
		add(v.Targets...)
		add(v.Value)
	case *ExprStmt:
		add(v.Value)
	case *Return:
		add(v.Value)
	case *Raise:
		add(v.Exc)
	case *If:
		add(v.Cond)
		add(v.Body...)
		add(v.Else...)
	case *For:
		add(v.Target, v.Iter)
		add(v.Body...)
		add(v.Else...)
	case *While:
		add(v.Cond)
		add(v.Body...)
	case *With:
		add(v.Items...)
		add(v.Body...)
	case *Try:
		add(v.Body...)
		for _, h := range v.Handlers {
			add(h)
		}
		add(v.Else...)
		add(v.Final...)
	case *ExceptHandler:
		add(v.Type)
		add(v.Body...)
	case *FString:
		for _, p := range v.Parts {
			add(p.Expr)
		}
	case *Attribute:
		add(v.Value)
	case *Subscript:
		add(v.Value, v.Index)
	case *Call:
		add(v.Func)
		add(v.Args...)
		for _, kw := range v.Keywords {
			add(kw.Value)
		}
	case *BinOp:
		add(v.Left, v.Right)
	case *UnaryOp:
		add(v.Operand)
	case *Tuple:
		add(v.Elts...)
	case *List:
		add(v.Elts...)
	case *Dict:
		for _, it := range v.Items {
			add(it.Key, it.Value)
		}
	case *Set:
		add(v.Elts...)
	case *Lambda:
		add(v.Body)
	case *Starred:
		add(v.Value)
	}

	return out
}

// Inspect traverses the tree rooted at n in depth-first preorder. If f
// returns false for a node, its children are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil {
		return
	}
	if !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// Link wires parent pointers for the whole tree rooted at n. The parser
// calls it once per file; checkers rely on the links for scope lookups.
func Link(n Node) {
	for _, c := range Children(n) {
		c.setParent(n)
		Link(c)
	}
}

// EnclosingFunc returns the nearest enclosing function definition of n,
// or nil when n is at module or class level. The node itself is not
// considered its own enclosure.
func EnclosingFunc(n Node) *FuncDef {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if fn, ok := p.(*FuncDef); ok {
			return fn
		}
	}
	return nil
}

// EnclosingClass returns the nearest enclosing class definition of n.
func EnclosingClass(n Node) *ClassDef {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if cls, ok := p.(*ClassDef); ok {
			return cls
		}
	}
	return nil
}

// EnclosingSymbol returns a dotted human-readable name for the innermost
// class/function enclosing n, for use in finding locations.
func EnclosingSymbol(n Node) string {
	var parts []string
	for p := n; p != nil; p = p.Parent() {
		switch v := p.(type) {
		case *FuncDef:
			parts = append([]string{v.Name}, parts...)
		case *ClassDef:
			parts = append([]string{v.Name}, parts...)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += "." + p
	}
	return out
}

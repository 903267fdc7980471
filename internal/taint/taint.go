// Package taint decides whether a string expression's runtime value can
// carry anything beyond compile-time constant text.
//
// The lattice is {Literal, Tainted, Unknown}. Unresolved identifiers are
// classified Tainted, not Unknown: the one consumer of this analysis hunts
// unsafe dynamic query text, and an intermediate variable it cannot see
// through must fail closed or real injections slip by. Unknown is reserved
// for cases the analysis truly cannot decide (cyclic or too-deep
// assignment chains) and is treated as non-flaggable by the consumer.
package taint

import (
	"github.com/addonlint/addonlint/internal/pyast"
)

// Kind is the lattice value.
type Kind int

const (
	// Literal means provably built only from compile-time constant text.
	Literal Kind = iota
	// Tainted means at least one runtime-interpolated sub-expression.
	Tainted
	// Unknown means the analysis gave up; treated as non-flaggable.
	Unknown
)

// Result is the outcome for one expression. Source points at the first
// non-constant sub-expression found, left to right, when Kind is Tainted.
type Result struct {
	Kind   Kind
	Source pyast.Node
}

func literal() Result { return Result{Kind: Literal} }

func tainted(src pyast.Node) Result { return Result{Kind: Tainted, Source: src} }

// maxDepth bounds assignment-chain recursion.
const maxDepth = 32

// Of computes the taint of an expression. It never panics on unexpected
// node shapes; anything unrecognized degrades to Tainted so one odd file
// cannot abort a run.
func Of(e pyast.Node) Result {
	a := &analysis{resolving: map[*pyast.Name]bool{}}
	return a.of(e, 0)
}

type analysis struct {
	resolving map[*pyast.Name]bool
}

func (a *analysis) of(e pyast.Node, depth int) Result {
	if e == nil {
		return literal()
	}
	if depth > maxDepth {
		return Result{Kind: Unknown}
	}

	switch v := e.(type) {
	case *pyast.Str:
		return literal()
	case *pyast.Num, *pyast.Const:
		return literal()

	case *pyast.FString:
		for _, part := range v.Parts {
			if part.Expr == nil {
				continue
			}
			r := a.of(part.Expr, depth+1)
			switch r.Kind {
			case Literal:
				continue
			case Unknown:
				return r
			default:
				if r.Source == nil {
					r.Source = part.Expr
				}
				return r
			}
		}
		return literal()

	case *pyast.BinOp:
		return a.ofBinOp(v, depth)

	case *pyast.Call:
		return a.ofCall(v, depth)

	case *pyast.Name:
		return a.ofName(v, depth)

	case *pyast.Tuple:
		return a.ofSequence(v.Elts, depth)
	case *pyast.List:
		return a.ofSequence(v.Elts, depth)

	default:
		// Attribute access, subscripts, unrecognized shapes: runtime data.
		return tainted(e)
	}
}

func (a *analysis) ofBinOp(v *pyast.BinOp, depth int) Result {
	switch v.Op {
	case "+":
		left := a.of(v.Left, depth+1)
		if left.Kind == Tainted {
			return left
		}
		right := a.of(v.Right, depth+1)
		if right.Kind == Tainted {
			return right
		}
		if left.Kind == Unknown || right.Kind == Unknown {
			return Result{Kind: Unknown}
		}
		return literal()
	case "%":
		// template % args: literal only when template and every argument
		// are literal.
		tmpl := a.of(v.Left, depth+1)
		if tmpl.Kind != Literal {
			if tmpl.Source == nil {
				tmpl.Source = v.Left
			}
			return tmpl
		}
		return a.ofFormatArgs(v.Right, depth)
	case "*":
		// "-" * 40 style padding stays literal when both sides are.
		left := a.of(v.Left, depth+1)
		right := a.of(v.Right, depth+1)
		if left.Kind == Literal && right.Kind == Literal {
			return literal()
		}
		return tainted(v)
	default:
		return tainted(v)
	}
}

// ofFormatArgs classifies the right-hand side of a %-interpolation or the
// arguments of a .format call.
func (a *analysis) ofFormatArgs(arg pyast.Node, depth int) Result {
	switch v := arg.(type) {
	case *pyast.Tuple:
		return a.ofSequence(v.Elts, depth)
	case *pyast.Dict:
		for _, it := range v.Items {
			r := a.of(it.Value, depth+1)
			if r.Kind != Literal {
				if r.Source == nil {
					r.Source = it.Value
				}
				return r
			}
		}
		return literal()
	default:
		r := a.of(arg, depth+1)
		if r.Kind == Tainted && r.Source == nil {
			r.Source = arg
		}
		return r
	}
}

func (a *analysis) ofSequence(elts []pyast.Node, depth int) Result {
	for _, e := range elts {
		r := a.of(e, depth+1)
		if r.Kind != Literal {
			if r.Source == nil {
				r.Source = e
			}
			return r
		}
	}
	return literal()
}

func (a *analysis) ofCall(v *pyast.Call, depth int) Result {
	// "...".format(args): literal template with all-literal arguments.
	if attr, ok := v.Func.(*pyast.Attribute); ok && attr.Attr == "format" {
		tmpl := a.of(attr.Value, depth+1)
		if tmpl.Kind != Literal {
			if tmpl.Source == nil {
				tmpl.Source = attr.Value
			}
			return tmpl
		}
		for _, arg := range v.Args {
			r := a.of(arg, depth+1)
			if r.Kind != Literal {
				if r.Source == nil {
					r.Source = arg
				}
				return r
			}
		}
		for _, kw := range v.Keywords {
			r := a.of(kw.Value, depth+1)
			if r.Kind != Literal {
				if r.Source == nil {
					r.Source = kw.Value
				}
				return r
			}
		}
		return literal()
	}

	// ", ".join(seq) with a literal sequence.
	if attr, ok := v.Func.(*pyast.Attribute); ok && attr.Attr == "join" && len(v.Args) == 1 {
		tmpl := a.of(attr.Value, depth+1)
		if tmpl.Kind == Literal {
			return a.ofFormatArgs(v.Args[0], depth)
		}
	}

	// Any other call result is runtime data.
	return tainted(v)
}

// ofName resolves a name to its most recent assignment within the same
// lexical scope and recurses on the assigned value. Parameters, loop
// variables, imports and anything unresolved classify as Tainted; see the
// package comment for why this is deliberate.
func (a *analysis) ofName(v *pyast.Name, depth int) Result {
	if a.resolving[v] {
		return Result{Kind: Unknown}
	}
	a.resolving[v] = true
	defer delete(a.resolving, v)

	value := lastAssignment(v)
	if value == nil {
		return tainted(v)
	}
	r := a.of(value, depth+1)
	if r.Kind == Tainted && r.Source == nil {
		r.Source = v
	}
	return r
}

// lastAssignment finds the value of the closest preceding assignment to
// name inside its enclosing function (or module) scope. Best effort: no
// cross-function or cross-file resolution.
func lastAssignment(name *pyast.Name) pyast.Node {
	scope := scopeOf(name)
	if scope == nil {
		return nil
	}

	var value pyast.Node
	pyast.Inspect(scope, func(n pyast.Node) bool {
		// Stay inside the lexical scope.
		if _, ok := n.(*pyast.FuncDef); ok && n != scope {
			return false
		}
		as, ok := n.(*pyast.Assign)
		if !ok {
			return true
		}
		if !as.Pos().Before(name.Pos()) {
			return true
		}
		for _, target := range as.Targets {
			if t, ok := target.(*pyast.Name); ok && t.ID == name.ID {
				value = as.Value
			}
		}
		return true
	})

	return value
}

// scopeOf returns the node bounding name resolution: the enclosing
// function if any, otherwise the module.
func scopeOf(n pyast.Node) pyast.Node {
	if fn := pyast.EnclosingFunc(n); fn != nil {
		return fn
	}
	for p := pyast.Node(n); p != nil; p = p.Parent() {
		if mod, ok := p.(*pyast.Module); ok {
			return mod
		}
	}
	return nil
}

package pyast

// Position is a source location.
type Position struct {
	Filename string
	Line     int
	Col      int
}

// Before reports whether p precedes q in the same file.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Col < q.Col
}

// Node is implemented by every syntax-tree node.
type Node interface {
	Pos() Position
	Parent() Node
	setParent(Node)
}

type node struct {
	Position Position
	parent   Node
}

func (n *node) Pos() Position    { return n.Position }
func (n *node) Parent() Node     { return n.parent }
func (n *node) setParent(p Node) { n.parent = p }

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

// Module is the root of one parsed source file.
type Module struct {
	node
	Body []Node
}

// FuncDef is a function or method definition.
type FuncDef struct {
	node
	Name       string
	Params     []string
	Decorators []Node
	Body       []Node
}

// ClassDef is a class definition.
type ClassDef struct {
	node
	Name       string
	Bases      []Node
	Decorators []Node
	Body       []Node
}

// Assign covers plain, annotated and augmented assignments. Augmented
// assignments are normalized to Target = BinOp(Target, op, Value) by the
// parser so value tracing sees one shape.
type Assign struct {
	node
	Targets []Node // usually one Name; tuple targets kept as Tuple
	Value   Node
}

// ExprStmt is an expression evaluated for effect.
type ExprStmt struct {
	node
	Value Node
}

// Return statement. Value may be nil.
type Return struct {
	node
	Value Node
}

// Pass statement.
type Pass struct{ node }

// Raise statement. Exc may be nil.
type Raise struct {
	node
	Exc Node
}

// If statement. Elif chains are nested in Else.
type If struct {
	node
	Cond Node
	Body []Node
	Else []Node
}

// For loop. Target names are unresolvable for value tracing on purpose.
type For struct {
	node
	Target Node
	Iter   Node
	Body   []Node
	Else   []Node
}

// While loop.
type While struct {
	node
	Cond Node
	Body []Node
}

// With statement.
type With struct {
	node
	Items []Node // context expressions; "as" targets folded into Items order
	Body  []Node
}

// Try statement.
type Try struct {
	node
	Body     []Node
	Handlers []*ExceptHandler
	Else     []Node
	Final    []Node
}

// ExceptHandler is one except clause. Type is nil for a bare except.
type ExceptHandler struct {
	node
	Type Node
	Name string
	Body []Node
}

// Import statement: "import a.b, c".
type Import struct {
	node
	Names []string
}

// ImportFrom statement: "from a.b import c, d". Level counts leading dots.
// Asnames aligns with Names; an empty entry means no "as" alias was given.
type ImportFrom struct {
	node
	Module  string
	Names   []string
	Asnames []string
	Level   int
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

// Str is a string literal, after implicit adjacent-literal concatenation.
type Str struct {
	node
	Value string
	Bytes bool
}

// FStringPart is one chunk of a formatted-string literal: either literal
// text (Text set, Expr nil) or an interpolated expression.
type FStringPart struct {
	Text string
	Expr Node
}

// FString is a formatted-string literal.
type FString struct {
	node
	Parts []FStringPart
}

// Name is an identifier reference.
type Name struct {
	node
	ID string
}

// Attribute is "Value.Attr".
type Attribute struct {
	node
	Value Node
	Attr  string
}

// Subscript is "Value[Index]".
type Subscript struct {
	node
	Value Node
	Index Node
}

// Keyword is a keyword argument in a call. Empty Arg marks **kwargs.
type Keyword struct {
	Arg   string
	Value Node
}

// Call is a call expression.
type Call struct {
	node
	Func     Node
	Args     []Node
	Keywords []Keyword
}

// BinOp is a binary operation ("+", "%", "==", "and", ...).
type BinOp struct {
	node
	Op    string
	Left  Node
	Right Node
}

// UnaryOp is a unary operation ("-", "not", "~").
type UnaryOp struct {
	node
	Op      string
	Operand Node
}

// Num is a numeric literal, kept as source text.
type Num struct {
	node
	Value string
}

// Const is True, False, None or Ellipsis.
type Const struct {
	node
	Value string
}

// Tuple literal.
type Tuple struct {
	node
	Elts []Node
}

// List literal.
type List struct {
	node
	Elts []Node
}

// DictItem is one key/value entry. Key is nil for ** unpacking.
type DictItem struct {
	Key   Node
	Value Node
}

// Dict literal.
type Dict struct {
	node
	Items []DictItem
}

// Set literal.
type Set struct {
	node
	Elts []Node
}

// Lambda expression. Parameters are not tracked.
type Lambda struct {
	node
	Body Node
}

// Starred is *expr in a call or assignment context.
type Starred struct {
	node
	Value Node
}

package pyparse

import (
	"fmt"

	"github.com/addonlint/addonlint/internal/pyast"
)

// ParseFile parses one source file into a module tree with parent links
// wired, plus the comments seen along the way.
func ParseFile(filename string, src []byte) (*pyast.Module, []Comment, error) {
	toks, comments, err := tokenize(filename, src)
	if err != nil {
		return nil, comments, err
	}
	p := &parser{toks: toks, file: filename}
	mod := p.parseModule()
	if p.err != nil {
		return nil, comments, p.err
	}
	pyast.Link(mod)
	return mod, comments, nil
}

// ParseExprSource parses a standalone expression, as found inside an
// f-string placeholder.
func ParseExprSource(filename string, pos pyast.Position, src string) (pyast.Node, error) {
	toks, _, err := tokenize(filename, []byte(src))
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, file: filename}
	e := p.parseTestlist()
	if p.err != nil {
		return nil, p.err
	}
	if k := p.peek().kind; k != tNewline && k != tEOF {
		return nil, fmt.Errorf("%s:%d: trailing tokens after expression", filename, pos.Line)
	}
	return e, nil
}

type parser struct {
	toks []token
	i    int
	file string
	err  error
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) peekN(n int) token {
	if p.i+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+n]
}

func (p *parser) advance() token {
	tok := p.toks[p.i]
	if p.i < len(p.toks)-1 {
		p.i++
	}
	return tok
}

func (p *parser) at(kind tokenKind, text string) bool {
	tok := p.peek()
	return tok.kind == kind && tok.text == text
}

func (p *parser) atOp(text string) bool   { return p.at(tOp, text) }
func (p *parser) atName(text string) bool { return p.at(tName, text) }

func (p *parser) accept(kind tokenKind, text string) bool {
	if p.at(kind, text) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expectOp(text string) {
	if !p.accept(tOp, text) {
		p.errorf("expected %q, found %q", text, p.describe(p.peek()))
	}
}

func (p *parser) describe(tok token) string {
	switch tok.kind {
	case tEOF:
		return "end of file"
	case tNewline:
		return "newline"
	case tIndent:
		return "indent"
	case tDedent:
		return "dedent"
	case tString:
		return "string"
	default:
		return tok.text
	}
}

func (p *parser) errorf(format string, args ...any) {
	if p.err == nil {
		tok := p.peek()
		p.err = fmt.Errorf("%s:%d:%d: %s", p.file, tok.pos.Line, tok.pos.Col, fmt.Sprintf(format, args...))
	}
	// Skip forward so parsing terminates even after an error.
	if p.peek().kind != tEOF {
		p.advance()
	}
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

func (p *parser) parseModule() *pyast.Module {
	mod := &pyast.Module{}
	mod.Position = pyast.Position{Filename: p.file, Line: 1, Col: 1}
	mod.Body = p.parseStatementsUntil(tEOF)
	return mod
}

func (p *parser) parseStatementsUntil(stop tokenKind) []pyast.Node {
	var body []pyast.Node
	for p.err == nil {
		switch p.peek().kind {
		case stop, tEOF:
			return body
		case tNewline, tIndent:
			p.advance()
			continue
		}
		body = append(body, p.parseStatement()...)
	}
	return body
}

func (p *parser) parseStatement() []pyast.Node {
	var decorators []pyast.Node
	for p.atOp("@") {
		p.advance()
		decorators = append(decorators, p.parsePostfix(p.parseAtom()))
		p.accept(tNewline, "")
		p.skipNewlines()
	}

	tok := p.peek()
	if tok.kind == tName {
		switch tok.text {
		case "def":
			return []pyast.Node{p.parseFuncDef(decorators)}
		case "class":
			return []pyast.Node{p.parseClassDef(decorators)}
		case "if":
			return []pyast.Node{p.parseIf()}
		case "while":
			return []pyast.Node{p.parseWhile()}
		case "for":
			return []pyast.Node{p.parseFor()}
		case "try":
			return []pyast.Node{p.parseTry()}
		case "with":
			return []pyast.Node{p.parseWith()}
		case "async":
			p.advance() // async def / async for / async with
			return p.parseStatement()
		}
	}

	return p.parseSimpleLine()
}

func (p *parser) skipNewlines() {
	for p.peek().kind == tNewline {
		p.advance()
	}
}

// parseSimpleLine parses semicolon-separated simple statements up to the
// end of the logical line.
func (p *parser) parseSimpleLine() []pyast.Node {
	var stmts []pyast.Node
	for p.err == nil {
		stmts = append(stmts, p.parseSimpleStmt())
		if p.accept(tOp, ";") {
			if p.peek().kind == tNewline || p.peek().kind == tEOF {
				break
			}
			continue
		}
		break
	}
	p.accept(tNewline, "")
	return stmts
}

func (p *parser) parseSimpleStmt() pyast.Node {
	tok := p.peek()
	if tok.kind == tName {
		switch tok.text {
		case "return":
			p.advance()
			ret := &pyast.Return{}
			ret.Position = tok.pos
			if !p.atLineEnd() {
				ret.Value = p.parseTestlist()
			}
			return ret
		case "pass":
			p.advance()
			n := &pyast.Pass{}
			n.Position = tok.pos
			return n
		case "raise":
			p.advance()
			r := &pyast.Raise{}
			r.Position = tok.pos
			if !p.atLineEnd() {
				r.Exc = p.parseTest()
				if p.accept(tName, "from") {
					p.parseTest()
				}
			}
			return r
		case "import":
			return p.parseImport(tok)
		case "from":
			return p.parseImportFrom(tok)
		case "break", "continue":
			p.advance()
			n := &pyast.Name{ID: tok.text}
			n.Position = tok.pos
			stmt := &pyast.ExprStmt{Value: n}
			stmt.Position = tok.pos
			return stmt
		case "global", "nonlocal", "del", "assert":
			p.advance()
			stmt := &pyast.ExprStmt{}
			stmt.Position = tok.pos
			if !p.atLineEnd() {
				stmt.Value = p.parseTestlist()
				if tok.text == "assert" && p.accept(tOp, ",") {
					p.parseTest()
				}
			} else {
				name := &pyast.Name{ID: tok.text}
				name.Position = tok.pos
				stmt.Value = name
			}
			return stmt
		case "yield":
			p.advance()
			stmt := &pyast.ExprStmt{}
			stmt.Position = tok.pos
			if p.accept(tName, "from") || !p.atLineEnd() {
				stmt.Value = p.parseTestlist()
			} else {
				name := &pyast.Name{ID: "yield"}
				name.Position = tok.pos
				stmt.Value = name
			}
			return stmt
		}
	}

	return p.parseExprOrAssign()
}

func (p *parser) atLineEnd() bool {
	switch p.peek().kind {
	case tNewline, tEOF, tDedent:
		return true
	}
	return p.atOp(";")
}

func (p *parser) parseExprOrAssign() pyast.Node {
	start := p.peek()
	expr := p.parseTestlist()

	// Annotated assignment: target ":" type ["=" value]
	if p.atOp(":") {
		p.advance()
		p.parseTest()
		if p.accept(tOp, "=") {
			as := &pyast.Assign{Targets: []pyast.Node{expr}, Value: p.parseTestlist()}
			as.Position = start.pos
			return as
		}
		stmt := &pyast.ExprStmt{Value: expr}
		stmt.Position = start.pos
		return stmt
	}

	// Augmented assignment normalizes to target = target <op> value.
	if tok := p.peek(); tok.kind == tOp && len(tok.text) >= 2 && tok.text[len(tok.text)-1] == '=' && isAugOp(tok.text) {
		p.advance()
		rhs := p.parseTestlist()
		op := tok.text[:len(tok.text)-1]
		bin := &pyast.BinOp{Op: op, Left: expr, Right: rhs}
		bin.Position = tok.pos
		as := &pyast.Assign{Targets: []pyast.Node{expr}, Value: bin}
		as.Position = start.pos
		return as
	}

	if p.atOp("=") {
		targets := []pyast.Node{expr}
		var value pyast.Node
		for p.accept(tOp, "=") {
			value = p.parseTestlist()
			if p.atOp("=") {
				targets = append(targets, value)
			}
		}
		as := &pyast.Assign{Targets: targets, Value: value}
		as.Position = start.pos
		return as
	}

	stmt := &pyast.ExprStmt{Value: expr}
	stmt.Position = start.pos
	return stmt
}

func isAugOp(op string) bool {
	switch op {
	case "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "**=", "//=", "<<=", ">>=", "@=":
		return true
	}
	return false
}

func (p *parser) parseImport(tok token) pyast.Node {
	p.advance()
	imp := &pyast.Import{}
	imp.Position = tok.pos
	for p.err == nil {
		imp.Names = append(imp.Names, p.parseDottedName())
		if p.accept(tName, "as") {
			p.advance()
		}
		if !p.accept(tOp, ",") {
			break
		}
	}
	return imp
}

func (p *parser) parseImportFrom(tok token) pyast.Node {
	p.advance()
	imp := &pyast.ImportFrom{}
	imp.Position = tok.pos
	for p.atOp(".") {
		p.advance()
		imp.Level++
	}
	if p.peek().kind == tName && !p.atName("import") {
		imp.Module = p.parseDottedName()
	}
	if !p.accept(tName, "import") {
		p.errorf("expected 'import'")
		return imp
	}
	if p.accept(tOp, "*") {
		imp.Names = append(imp.Names, "*")
		imp.Asnames = append(imp.Asnames, "")
		return imp
	}
	paren := p.accept(tOp, "(")
	for p.err == nil {
		if p.peek().kind != tName {
			break
		}
		imp.Names = append(imp.Names, p.advance().text)
		asname := ""
		if p.accept(tName, "as") {
			asname = p.advance().text
		}
		imp.Asnames = append(imp.Asnames, asname)
		if !p.accept(tOp, ",") {
			break
		}
	}
	if paren {
		p.expectOp(")")
	}
	return imp
}

func (p *parser) parseDottedName() string {
	name := ""
	for p.err == nil {
		if p.peek().kind != tName {
			p.errorf("expected name")
			break
		}
		name += p.advance().text
		if !p.atOp(".") || p.peekN(1).kind != tName {
			break
		}
		p.advance()
		name += "."
	}
	return name
}

// ---------------------------------------------------------------------------
// Compound statements
// ---------------------------------------------------------------------------

// parseSuite parses ":" followed by an indented block or inline statements.
func (p *parser) parseSuite() []pyast.Node {
	p.expectOp(":")
	if p.accept(tNewline, "") {
		if !p.accept(tIndent, "") {
			p.errorf("expected indented block")
			return nil
		}
		body := p.parseStatementsUntil(tDedent)
		p.accept(tDedent, "")
		return body
	}
	return p.parseSimpleLine()
}

func (p *parser) parseFuncDef(decorators []pyast.Node) pyast.Node {
	tok := p.advance() // def
	fn := &pyast.FuncDef{Decorators: decorators}
	fn.Position = tok.pos
	if p.peek().kind == tName {
		fn.Name = p.advance().text
	} else {
		p.errorf("expected function name")
	}
	p.expectOp("(")
	for p.err == nil && !p.atOp(")") {
		p.accept(tOp, "*")
		p.accept(tOp, "**")
		p.accept(tOp, "/")
		if p.peek().kind == tName {
			fn.Params = append(fn.Params, p.advance().text)
		}
		if p.accept(tOp, ":") {
			p.parseTest()
		}
		if p.accept(tOp, "=") {
			p.parseTest()
		}
		if !p.accept(tOp, ",") {
			break
		}
	}
	p.expectOp(")")
	if p.accept(tOp, "->") {
		p.parseTest()
	}
	fn.Body = p.parseSuite()
	return fn
}

func (p *parser) parseClassDef(decorators []pyast.Node) pyast.Node {
	tok := p.advance() // class
	cls := &pyast.ClassDef{Decorators: decorators}
	cls.Position = tok.pos
	if p.peek().kind == tName {
		cls.Name = p.advance().text
	} else {
		p.errorf("expected class name")
	}
	if p.accept(tOp, "(") {
		for p.err == nil && !p.atOp(")") {
			if p.peek().kind == tName && p.peekN(1).kind == tOp && p.peekN(1).text == "=" {
				p.advance() // metaclass=... and friends
				p.advance()
				p.parseTest()
			} else {
				cls.Bases = append(cls.Bases, p.parseTest())
			}
			if !p.accept(tOp, ",") {
				break
			}
		}
		p.expectOp(")")
	}
	cls.Body = p.parseSuite()
	return cls
}

func (p *parser) parseIf() pyast.Node {
	tok := p.advance() // if / elif
	stmt := &pyast.If{}
	stmt.Position = tok.pos
	stmt.Cond = p.parseTest()
	stmt.Body = p.parseSuite()
	p.skipNewlines()
	switch {
	case p.atName("elif"):
		stmt.Else = []pyast.Node{p.parseIf()}
	case p.atName("else"):
		p.advance()
		stmt.Else = p.parseSuite()
	}
	return stmt
}

func (p *parser) parseWhile() pyast.Node {
	tok := p.advance()
	stmt := &pyast.While{}
	stmt.Position = tok.pos
	stmt.Cond = p.parseTest()
	stmt.Body = p.parseSuite()
	p.skipNewlines()
	if p.atName("else") {
		p.advance()
		p.parseSuite()
	}
	return stmt
}

func (p *parser) parseFor() pyast.Node {
	tok := p.advance()
	stmt := &pyast.For{}
	stmt.Position = tok.pos
	stmt.Target = p.parseTargetList()
	if !p.accept(tName, "in") {
		p.errorf("expected 'in'")
	}
	stmt.Iter = p.parseTestlist()
	stmt.Body = p.parseSuite()
	p.skipNewlines()
	if p.atName("else") {
		p.advance()
		stmt.Else = p.parseSuite()
	}
	return stmt
}

func (p *parser) parseTargetList() pyast.Node {
	first := p.parsePostfix(p.parseAtom())
	if !p.atOp(",") {
		return first
	}
	tup := &pyast.Tuple{Elts: []pyast.Node{first}}
	tup.Position = first.Pos()
	for p.accept(tOp, ",") {
		if p.atName("in") {
			break
		}
		tup.Elts = append(tup.Elts, p.parsePostfix(p.parseAtom()))
	}
	return tup
}

func (p *parser) parseTry() pyast.Node {
	tok := p.advance()
	stmt := &pyast.Try{}
	stmt.Position = tok.pos
	stmt.Body = p.parseSuite()
	p.skipNewlines()
	for p.atName("except") {
		hTok := p.advance()
		h := &pyast.ExceptHandler{}
		h.Position = hTok.pos
		if !p.atOp(":") {
			h.Type = p.parseTest()
			if p.accept(tName, "as") {
				if p.peek().kind == tName {
					h.Name = p.advance().text
				}
			}
		}
		h.Body = p.parseSuite()
		stmt.Handlers = append(stmt.Handlers, h)
		p.skipNewlines()
	}
	if p.atName("else") {
		p.advance()
		stmt.Else = p.parseSuite()
		p.skipNewlines()
	}
	if p.atName("finally") {
		p.advance()
		stmt.Final = p.parseSuite()
	}
	return stmt
}

func (p *parser) parseWith() pyast.Node {
	tok := p.advance()
	stmt := &pyast.With{}
	stmt.Position = tok.pos
	for p.err == nil {
		stmt.Items = append(stmt.Items, p.parseTest())
		if p.accept(tName, "as") {
			p.parsePostfix(p.parseAtom())
		}
		if !p.accept(tOp, ",") {
			break
		}
	}
	stmt.Body = p.parseSuite()
	return stmt
}

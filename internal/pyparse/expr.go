package pyparse

import (
	"strings"

	"github.com/addonlint/addonlint/internal/pyast"
)

// parseTestlist parses comma-separated expressions, yielding a Tuple when
// more than one element (or a trailing comma) is present.
func (p *parser) parseTestlist() pyast.Node {
	first := p.parseTest()
	if !p.atOp(",") {
		return first
	}
	tup := &pyast.Tuple{Elts: []pyast.Node{first}}
	tup.Position = first.Pos()
	for p.accept(tOp, ",") {
		if p.testlistEnd() {
			break
		}
		tup.Elts = append(tup.Elts, p.parseTest())
	}
	return tup
}

func (p *parser) testlistEnd() bool {
	tok := p.peek()
	switch tok.kind {
	case tNewline, tEOF, tDedent:
		return true
	case tOp:
		switch tok.text {
		case ")", "]", "}", "=", ":", ";":
			return true
		}
	}
	return false
}

func (p *parser) parseTest() pyast.Node {
	if p.atName("lambda") {
		return p.parseLambda()
	}
	cond := p.parseOr()
	if p.atName("if") {
		tok := p.advance()
		p.parseOr() // condition
		var orelse pyast.Node
		if p.accept(tName, "else") {
			orelse = p.parseTest()
		}
		tern := &pyast.BinOp{Op: "ifelse", Left: cond, Right: orelse}
		tern.Position = tok.pos
		return tern
	}
	return cond
}

func (p *parser) parseLambda() pyast.Node {
	tok := p.advance() // lambda
	lam := &pyast.Lambda{}
	lam.Position = tok.pos
	for p.err == nil && !p.atOp(":") {
		p.accept(tOp, "*")
		p.accept(tOp, "**")
		if p.peek().kind == tName {
			p.advance()
		}
		if p.accept(tOp, "=") {
			p.parseTest()
		}
		if !p.accept(tOp, ",") {
			break
		}
	}
	p.expectOp(":")
	lam.Body = p.parseTest()
	return lam
}

func (p *parser) parseOr() pyast.Node {
	left := p.parseAnd()
	for p.atName("or") {
		tok := p.advance()
		bin := &pyast.BinOp{Op: "or", Left: left, Right: p.parseAnd()}
		bin.Position = tok.pos
		left = bin
	}
	return left
}

func (p *parser) parseAnd() pyast.Node {
	left := p.parseNot()
	for p.atName("and") {
		tok := p.advance()
		bin := &pyast.BinOp{Op: "and", Left: left, Right: p.parseNot()}
		bin.Position = tok.pos
		left = bin
	}
	return left
}

func (p *parser) parseNot() pyast.Node {
	if p.atName("not") {
		tok := p.advance()
		un := &pyast.UnaryOp{Op: "not", Operand: p.parseNot()}
		un.Position = tok.pos
		return un
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() pyast.Node {
	left := p.parseBitOr()
	for {
		var op string
		tok := p.peek()
		switch {
		case tok.kind == tOp && (tok.text == "==" || tok.text == "!=" ||
			tok.text == "<" || tok.text == ">" || tok.text == "<=" || tok.text == ">="):
			op = tok.text
			p.advance()
		case p.atName("in"):
			op = "in"
			p.advance()
		case p.atName("is"):
			op = "is"
			p.advance()
			if p.accept(tName, "not") {
				op = "is not"
			}
		case p.atName("not") && p.peekN(1).kind == tName && p.peekN(1).text == "in":
			p.advance()
			p.advance()
			op = "not in"
		default:
			return left
		}
		bin := &pyast.BinOp{Op: op, Left: left, Right: p.parseBitOr()}
		bin.Position = tok.pos
		left = bin
	}
}

func (p *parser) parseBitOr() pyast.Node {
	left := p.parseBitXor()
	for p.atOp("|") {
		tok := p.advance()
		bin := &pyast.BinOp{Op: "|", Left: left, Right: p.parseBitXor()}
		bin.Position = tok.pos
		left = bin
	}
	return left
}

func (p *parser) parseBitXor() pyast.Node {
	left := p.parseBitAnd()
	for p.atOp("^") {
		tok := p.advance()
		bin := &pyast.BinOp{Op: "^", Left: left, Right: p.parseBitAnd()}
		bin.Position = tok.pos
		left = bin
	}
	return left
}

func (p *parser) parseBitAnd() pyast.Node {
	left := p.parseShift()
	for p.atOp("&") {
		tok := p.advance()
		bin := &pyast.BinOp{Op: "&", Left: left, Right: p.parseShift()}
		bin.Position = tok.pos
		left = bin
	}
	return left
}

func (p *parser) parseShift() pyast.Node {
	left := p.parseArith()
	for p.atOp("<<") || p.atOp(">>") {
		tok := p.advance()
		bin := &pyast.BinOp{Op: tok.text, Left: left, Right: p.parseArith()}
		bin.Position = tok.pos
		left = bin
	}
	return left
}

func (p *parser) parseArith() pyast.Node {
	left := p.parseTerm()
	for p.atOp("+") || p.atOp("-") {
		tok := p.advance()
		bin := &pyast.BinOp{Op: tok.text, Left: left, Right: p.parseTerm()}
		bin.Position = tok.pos
		left = bin
	}
	return left
}

func (p *parser) parseTerm() pyast.Node {
	left := p.parseFactor()
	for p.atOp("*") || p.atOp("/") || p.atOp("//") || p.atOp("%") || p.atOp("@") {
		tok := p.advance()
		bin := &pyast.BinOp{Op: tok.text, Left: left, Right: p.parseFactor()}
		bin.Position = tok.pos
		left = bin
	}
	return left
}

func (p *parser) parseFactor() pyast.Node {
	if p.atOp("+") || p.atOp("-") || p.atOp("~") {
		tok := p.advance()
		un := &pyast.UnaryOp{Op: tok.text, Operand: p.parseFactor()}
		un.Position = tok.pos
		return un
	}
	return p.parsePower()
}

func (p *parser) parsePower() pyast.Node {
	base := p.parsePostfix(p.parseAtom())
	if p.atOp("**") {
		tok := p.advance()
		bin := &pyast.BinOp{Op: "**", Left: base, Right: p.parseFactor()}
		bin.Position = tok.pos
		return bin
	}
	return base
}

// parsePostfix parses trailing call, attribute and subscript operations.
func (p *parser) parsePostfix(base pyast.Node) pyast.Node {
	for p.err == nil {
		switch {
		case p.atOp("("):
			base = p.parseCall(base)
		case p.atOp("."):
			tok := p.advance()
			attr := &pyast.Attribute{Value: base}
			attr.Position = tok.pos
			if p.peek().kind == tName {
				attr.Attr = p.advance().text
			} else {
				p.errorf("expected attribute name")
			}
			base = attr
		case p.atOp("["):
			tok := p.advance()
			sub := &pyast.Subscript{Value: base}
			sub.Position = tok.pos
			sub.Index = p.parseSlice()
			p.expectOp("]")
			base = sub
		default:
			return base
		}
	}
	return base
}

// parseSlice parses a subscript index, including ":" slice forms. Slice
// parts are folded into a Tuple since no checker distinguishes them.
func (p *parser) parseSlice() pyast.Node {
	var parts []pyast.Node
	startPos := p.peek().pos
	expectExpr := true
	for p.err == nil {
		switch {
		case p.atOp("]"):
			if len(parts) == 1 {
				return parts[0]
			}
			tup := &pyast.Tuple{Elts: parts}
			tup.Position = startPos
			return tup
		case p.atOp(":"), p.atOp(","):
			p.advance()
			expectExpr = true
		default:
			if !expectExpr {
				p.errorf("malformed subscript")
				break
			}
			parts = append(parts, p.parseTest())
			expectExpr = false
		}
	}
	tup := &pyast.Tuple{Elts: parts}
	tup.Position = startPos
	return tup
}

func (p *parser) parseCall(fn pyast.Node) pyast.Node {
	p.advance() // "("
	call := &pyast.Call{Func: fn}
	call.Position = fn.Pos()
	for p.err == nil && !p.atOp(")") {
		switch {
		case p.atOp("*"):
			sTok := p.advance()
			star := &pyast.Starred{Value: p.parseTest()}
			star.Position = sTok.pos
			call.Args = append(call.Args, star)
		case p.atOp("**"):
			p.advance()
			call.Keywords = append(call.Keywords, pyast.Keyword{Value: p.parseTest()})
		case p.peek().kind == tName && p.peekN(1).kind == tOp && p.peekN(1).text == "=" && !isReservedName(p.peek().text):
			name := p.advance().text
			p.advance() // "="
			call.Keywords = append(call.Keywords, pyast.Keyword{Arg: name, Value: p.parseTest()})
		default:
			arg := p.parseTest()
			if p.atName("for") {
				p.skipComprehension(")")
			}
			call.Args = append(call.Args, arg)
		}
		if !p.accept(tOp, ",") {
			break
		}
	}
	p.expectOp(")")
	return call
}

func isReservedName(s string) bool {
	switch s {
	case "if", "else", "for", "in", "not", "and", "or", "is", "lambda", "None", "True", "False":
		return true
	}
	return false
}

// skipComprehension consumes "for ... [if ...]" clauses up to, but not
// including, the closing bracket. Comprehensions keep only their element
// expression in the tree.
func (p *parser) skipComprehension(closer string) {
	depth := 0
	for p.err == nil {
		tok := p.peek()
		if tok.kind == tEOF {
			return
		}
		if tok.kind == tOp {
			switch tok.text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				if depth == 0 && tok.text == closer {
					return
				}
				if depth > 0 {
					depth--
				}
			}
		}
		p.advance()
	}
}

func (p *parser) parseAtom() pyast.Node {
	tok := p.peek()
	switch tok.kind {
	case tName:
		switch tok.text {
		case "True", "False", "None":
			p.advance()
			c := &pyast.Const{Value: tok.text}
			c.Position = tok.pos
			return c
		case "lambda":
			return p.parseLambda()
		case "await":
			p.advance()
			return p.parseAtom()
		}
		p.advance()
		n := &pyast.Name{ID: tok.text}
		n.Position = tok.pos
		return n
	case tNumber:
		p.advance()
		n := &pyast.Num{Value: tok.text}
		n.Position = tok.pos
		return n
	case tString:
		return p.parseStringGroup()
	case tOp:
		switch tok.text {
		case "(":
			return p.parseParenAtom()
		case "[":
			return p.parseListAtom()
		case "{":
			return p.parseDictOrSetAtom()
		case "...":
			p.advance()
			c := &pyast.Const{Value: "Ellipsis"}
			c.Position = tok.pos
			return c
		}
	}
	p.errorf("unexpected token %q", p.describe(tok))
	bad := &pyast.Name{ID: "<error>"}
	bad.Position = tok.pos
	return bad
}

func (p *parser) parseParenAtom() pyast.Node {
	tok := p.advance() // "("
	if p.atOp(")") {
		p.advance()
		tup := &pyast.Tuple{}
		tup.Position = tok.pos
		return tup
	}
	first := p.parseTest()
	if p.atName("for") { // generator expression
		p.skipComprehension(")")
		p.expectOp(")")
		return first
	}
	if p.atOp(",") {
		tup := &pyast.Tuple{Elts: []pyast.Node{first}}
		tup.Position = tok.pos
		for p.accept(tOp, ",") {
			if p.atOp(")") {
				break
			}
			tup.Elts = append(tup.Elts, p.parseTest())
		}
		p.expectOp(")")
		return tup
	}
	p.expectOp(")")
	return first
}

func (p *parser) parseListAtom() pyast.Node {
	tok := p.advance() // "["
	list := &pyast.List{}
	list.Position = tok.pos
	for p.err == nil && !p.atOp("]") {
		elt := p.parseTest()
		if p.atName("for") {
			p.skipComprehension("]")
		}
		list.Elts = append(list.Elts, elt)
		if !p.accept(tOp, ",") {
			break
		}
	}
	p.expectOp("]")
	return list
}

func (p *parser) parseDictOrSetAtom() pyast.Node {
	tok := p.advance() // "{"
	if p.atOp("}") {
		p.advance()
		d := &pyast.Dict{}
		d.Position = tok.pos
		return d
	}

	if p.atOp("**") {
		d := &pyast.Dict{}
		d.Position = tok.pos
		p.parseDictItems(d)
		return d
	}

	first := p.parseTest()
	if p.atOp(":") {
		p.advance()
		d := &pyast.Dict{}
		d.Position = tok.pos
		val := p.parseTest()
		if p.atName("for") {
			p.skipComprehension("}")
		}
		d.Items = append(d.Items, pyast.DictItem{Key: first, Value: val})
		if p.accept(tOp, ",") {
			p.parseDictItems(d)
		} else {
			p.expectOp("}")
		}
		return d
	}

	set := &pyast.Set{Elts: []pyast.Node{first}}
	set.Position = tok.pos
	if p.atName("for") {
		p.skipComprehension("}")
	}
	for p.accept(tOp, ",") {
		if p.atOp("}") {
			break
		}
		set.Elts = append(set.Elts, p.parseTest())
	}
	p.expectOp("}")
	return set
}

// parseDictItems parses the remaining key/value entries of a dict literal,
// consuming the closing brace.
func (p *parser) parseDictItems(d *pyast.Dict) {
	for p.err == nil && !p.atOp("}") {
		if p.accept(tOp, "**") {
			d.Items = append(d.Items, pyast.DictItem{Value: p.parseTest()})
		} else {
			key := p.parseTest()
			p.expectOp(":")
			d.Items = append(d.Items, pyast.DictItem{Key: key, Value: p.parseTest()})
		}
		if !p.accept(tOp, ",") {
			break
		}
	}
	p.expectOp("}")
}

// parseStringGroup parses one or more adjacent string literals, applying
// implicit concatenation. Any f-string in the group makes the whole result
// a formatted string.
func (p *parser) parseStringGroup() pyast.Node {
	pos := p.peek().pos
	var parts []pyast.FStringPart
	hasF := false
	isBytes := false

	for p.peek().kind == tString {
		tok := p.advance()
		if tok.str.isBytes {
			isBytes = true
		}
		if tok.str.isF {
			hasF = true
			parts = append(parts, p.parseFStringParts(tok)...)
		} else {
			parts = append(parts, pyast.FStringPart{Text: tok.str.value})
		}
	}

	if hasF {
		fs := &pyast.FString{Parts: mergeTextParts(parts)}
		fs.Position = pos
		return fs
	}

	var b strings.Builder
	for _, part := range parts {
		b.WriteString(part.Text)
	}
	s := &pyast.Str{Value: b.String(), Bytes: isBytes}
	s.Position = pos
	return s
}

// parseFStringParts splits an f-string body into literal text and
// interpolated expressions. A placeholder that fails to parse is kept as a
// bare name so downstream taint analysis fails closed.
func (p *parser) parseFStringParts(tok token) []pyast.FStringPart {
	raw := tok.str.inner
	var parts []pyast.FStringPart
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			cooked := text.String()
			if !tok.str.isRaw {
				cooked = unescape(cooked)
			}
			parts = append(parts, pyast.FStringPart{Text: cooked})
			text.Reset()
		}
	}

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '{' && i+1 < len(raw) && raw[i+1] == '{':
			text.WriteByte('{')
			i++
		case c == '}' && i+1 < len(raw) && raw[i+1] == '}':
			text.WriteByte('}')
			i++
		case c == '{':
			end := matchBrace(raw, i)
			if end < 0 {
				text.WriteByte(c)
				continue
			}
			flush()
			exprText := placeholderExpr(raw[i+1 : end])
			expr, err := ParseExprSource(tok.pos.Filename, tok.pos, exprText)
			if err != nil || expr == nil {
				name := &pyast.Name{ID: strings.TrimSpace(exprText)}
				name.Position = tok.pos
				expr = name
			} else {
				setTreePos(expr, tok.pos)
			}
			parts = append(parts, pyast.FStringPart{Expr: expr})
			i = end
		default:
			text.WriteByte(c)
		}
	}
	flush()
	return parts
}

// matchBrace returns the index of the "}" closing the "{" at start, or -1.
// Nested brackets and quoted strings inside the placeholder are honored.
func matchBrace(s string, start int) int {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{', '(', '[':
			depth++
		case '\'', '"':
			q := s[i]
			for i++; i < len(s) && s[i] != q; i++ {
				if s[i] == '\\' {
					i++
				}
			}
		case '}', ')', ']':
			depth--
			if depth == 0 && s[i] == '}' {
				return i
			}
		}
	}
	return -1
}

// placeholderExpr strips the conversion ("!r") and format spec (":>10")
// suffixes from a placeholder body.
func placeholderExpr(s string) string {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '\'', '"':
			q := s[i]
			for i++; i < len(s) && s[i] != q; i++ {
				if s[i] == '\\' {
					i++
				}
			}
		case '!':
			if depth == 0 && i+1 < len(s) && s[i+1] != '=' {
				return s[:i]
			}
		case ':':
			if depth == 0 {
				return s[:i]
			}
		}
	}
	return s
}

// mergeTextParts joins adjacent literal chunks.
func mergeTextParts(parts []pyast.FStringPart) []pyast.FStringPart {
	var out []pyast.FStringPart
	for _, part := range parts {
		if part.Expr == nil && len(out) > 0 && out[len(out)-1].Expr == nil {
			out[len(out)-1].Text += part.Text
			continue
		}
		out = append(out, part)
	}
	return out
}

// setTreePos rewrites positions of a parsed placeholder subtree to the
// enclosing f-string token, keeping finding locations on the right line.
func setTreePos(n pyast.Node, pos pyast.Position) {
	pyast.Inspect(n, func(c pyast.Node) bool {
		switch v := c.(type) {
		case *pyast.Name:
			v.Position = pos
		case *pyast.Attribute:
			v.Position = pos
		case *pyast.Call:
			v.Position = pos
		case *pyast.Str:
			v.Position = pos
		case *pyast.BinOp:
			v.Position = pos
		case *pyast.Num:
			v.Position = pos
		case *pyast.Subscript:
			v.Position = pos
		}
		return true
	})
}

package pyparse

import (
	"fmt"
	"strings"

	"github.com/addonlint/addonlint/internal/pyast"
)

// Comment is a source comment captured during lexing. The tree itself does
// not carry comments; suppression directives are matched by line.
type Comment struct {
	Pos  pyast.Position
	Text string
}

type tokenKind int

const (
	tEOF tokenKind = iota
	tNewline
	tIndent
	tDedent
	tName
	tNumber
	tString
	tOp
)

type stringLit struct {
	value   string // cooked value
	inner   string // source text between the quotes, escapes intact
	isF     bool
	isBytes bool
	isRaw   bool
}

type token struct {
	kind tokenKind
	text string
	str  stringLit
	pos  pyast.Position
}

type lexer struct {
	file string
	src  string

	off  int
	line int
	col  int

	indents     []int
	parenDepth  int
	atLineStart bool
	lineContent bool

	pending  []token
	comments []Comment
	err      error
}

func newLexer(file string, src []byte) *lexer {
	return &lexer{
		file:        file,
		src:         string(src),
		line:        1,
		col:         1,
		indents:     []int{0},
		atLineStart: true,
	}
}

// tokenize runs the lexer to completion.
func tokenize(file string, src []byte) ([]token, []Comment, error) {
	lx := newLexer(file, src)
	var toks []token
	for {
		tok := lx.next()
		toks = append(toks, tok)
		if tok.kind == tEOF || lx.err != nil {
			break
		}
	}
	return toks, lx.comments, lx.err
}

func (l *lexer) pos() pyast.Position {
	return pyast.Position{Filename: l.file, Line: l.line, Col: l.col}
}

func (l *lexer) errorf(format string, args ...any) {
	if l.err == nil {
		l.err = fmt.Errorf("%s:%d:%d: %s", l.file, l.line, l.col, fmt.Sprintf(format, args...))
	}
}

func (l *lexer) eof() bool { return l.off >= len(l.src) }

func (l *lexer) cur() byte {
	if l.eof() {
		return 0
	}
	return l.src[l.off]
}

func (l *lexer) peekAt(n int) byte {
	if l.off+n >= len(l.src) {
		return 0
	}
	return l.src[l.off+n]
}

func (l *lexer) advance() byte {
	c := l.src[l.off]
	l.off++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *lexer) next() token {
	for {
		if len(l.pending) > 0 {
			tok := l.pending[0]
			l.pending = l.pending[1:]
			return tok
		}
		if l.err != nil {
			return token{kind: tEOF, pos: l.pos()}
		}

		if l.atLineStart && l.parenDepth == 0 {
			if tok, ok := l.handleLineStart(); ok {
				return tok
			}
			continue
		}

		for l.cur() == ' ' || l.cur() == '\t' || l.cur() == '\r' {
			l.advance()
		}

		if l.eof() {
			return l.finish()
		}

		c := l.cur()
		switch {
		case c == '#':
			l.consumeComment()
			continue
		case c == '\n':
			l.advance()
			if l.parenDepth > 0 {
				continue
			}
			if !l.lineContent {
				continue
			}
			l.lineContent = false
			l.atLineStart = true
			return token{kind: tNewline, pos: l.pos()}
		case c == '\\' && l.peekAt(1) == '\n':
			l.advance()
			l.advance()
			continue
		case isNameStart(c):
			return l.lexNameOrString()
		case c >= '0' && c <= '9', c == '.' && isDigit(l.peekAt(1)):
			return l.lexNumber()
		case c == '\'' || c == '"':
			return l.lexString(stringLit{})
		default:
			return l.lexOperator()
		}
	}
}

// handleLineStart measures indentation and emits INDENT/DEDENT tokens.
// Blank and comment-only lines produce nothing.
func (l *lexer) handleLineStart() (token, bool) {
	width := 0
	for {
		switch l.cur() {
		case ' ':
			width++
			l.advance()
			continue
		case '\t':
			width += 8 - width%8
			l.advance()
			continue
		}
		break
	}

	switch {
	case l.eof():
		l.atLineStart = false
		return l.finish(), true
	case l.cur() == '\n':
		l.advance()
		return token{}, false
	case l.cur() == '\r':
		l.advance()
		return token{}, false
	case l.cur() == '#':
		l.consumeComment()
		return token{}, false
	}

	l.atLineStart = false
	l.lineContent = true
	top := l.indents[len(l.indents)-1]
	pos := l.pos()

	switch {
	case width > top:
		l.indents = append(l.indents, width)
		return token{kind: tIndent, pos: pos}, true
	case width < top:
		for len(l.indents) > 1 && l.indents[len(l.indents)-1] > width {
			l.indents = l.indents[:len(l.indents)-1]
			l.pending = append(l.pending, token{kind: tDedent, pos: pos})
		}
		if l.indents[len(l.indents)-1] != width {
			l.errorf("inconsistent indentation")
		}
		return token{}, false
	}

	return token{}, false
}

func (l *lexer) finish() token {
	pos := l.pos()
	if l.lineContent {
		l.lineContent = false
		for len(l.indents) > 1 {
			l.indents = l.indents[:len(l.indents)-1]
			l.pending = append(l.pending, token{kind: tDedent, pos: pos})
		}
		l.pending = append(l.pending, token{kind: tEOF, pos: pos})
		return token{kind: tNewline, pos: pos}
	}
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.pending = append(l.pending, token{kind: tDedent, pos: pos})
	}
	if len(l.pending) > 0 {
		l.pending = append(l.pending, token{kind: tEOF, pos: pos})
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok
	}
	return token{kind: tEOF, pos: pos}
}

func (l *lexer) consumeComment() {
	pos := l.pos()
	start := l.off
	for !l.eof() && l.cur() != '\n' {
		l.advance()
	}
	l.comments = append(l.comments, Comment{Pos: pos, Text: l.src[start:l.off]})
}

func (l *lexer) lexNameOrString() token {
	pos := l.pos()
	start := l.off
	for !l.eof() && isNameChar(l.cur()) {
		l.advance()
	}
	name := l.src[start:l.off]

	// String prefixes: f, r, b, u and their two-letter combinations.
	if len(name) <= 2 && (l.cur() == '\'' || l.cur() == '"') {
		lit := stringLit{}
		valid := true
		for _, c := range strings.ToLower(name) {
			switch c {
			case 'f':
				lit.isF = true
			case 'r':
				lit.isRaw = true
			case 'b':
				lit.isBytes = true
			case 'u':
			default:
				valid = false
			}
		}
		if valid {
			tok := l.lexString(lit)
			tok.pos = pos
			return tok
		}
	}

	return token{kind: tName, text: name, pos: pos}
}

func (l *lexer) lexNumber() token {
	pos := l.pos()
	start := l.off
	for !l.eof() {
		c := l.cur()
		if isDigit(c) || c == '.' || c == '_' ||
			(c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') ||
			c == 'o' || c == 'O' || c == 'x' || c == 'X' || c == 'j' || c == 'J' {
			prev := c
			l.advance()
			if (prev == 'e' || prev == 'E') && (l.cur() == '+' || l.cur() == '-') && isDigit(l.peekAt(1)) {
				l.advance()
			}
			continue
		}
		break
	}
	return token{kind: tNumber, text: l.src[start:l.off], pos: pos}
}

func (l *lexer) lexString(lit stringLit) token {
	pos := l.pos()
	quote := l.cur()
	l.advance()

	triple := false
	if l.cur() == quote && l.peekAt(1) == quote {
		triple = true
		l.advance()
		l.advance()
	}

	start := l.off
	for {
		if l.eof() {
			l.errorf("unterminated string literal")
			break
		}
		c := l.cur()
		if c == '\\' && !l.eof() {
			l.advance()
			if !l.eof() {
				l.advance()
			}
			continue
		}
		if c == '\n' && !triple {
			l.errorf("newline in string literal")
			break
		}
		if c == quote {
			if !triple {
				break
			}
			if l.peekAt(1) == quote && l.peekAt(2) == quote {
				break
			}
		}
		l.advance()
	}

	lit.inner = l.src[start:l.off]
	if !l.eof() {
		l.advance() // closing quote
		if triple {
			l.advance()
			l.advance()
		}
	}

	if lit.isRaw {
		lit.value = lit.inner
	} else {
		lit.value = unescape(lit.inner)
	}

	return token{kind: tString, str: lit, pos: pos}
}

var multiOps = []string{
	"...",
	"**=", "//=", "<<=", ">>=",
	"**", "//", "<<", ">>", "<=", ">=", "==", "!=", "->", ":=",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
}

const singleOps = "+-*/%@&|^~<>()[]{},:.;="

func (l *lexer) lexOperator() token {
	pos := l.pos()
	rest := l.src[l.off:]
	for _, op := range multiOps {
		if strings.HasPrefix(rest, op) {
			for range op {
				l.advance()
			}
			return token{kind: tOp, text: op, pos: pos}
		}
	}
	c := l.cur()
	if strings.IndexByte(singleOps, c) >= 0 {
		l.advance()
		switch c {
		case '(', '[', '{':
			l.parenDepth++
		case ')', ']', '}':
			if l.parenDepth > 0 {
				l.parenDepth--
			}
		}
		return token{kind: tOp, text: string(c), pos: pos}
	}
	l.errorf("unexpected character %q", string(c))
	l.advance()
	return token{kind: tEOF, pos: pos}
}

// unescape cooks backslash escapes. Unknown escapes keep the backslash.
func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\':
			b.WriteByte('\\')
		case '\'':
			b.WriteByte('\'')
		case '"':
			b.WriteByte('"')
		case '\n':
			// line continuation inside a string
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isNameChar(c byte) bool {
	return isNameStart(c) || isDigit(c)
}

package pyparse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addonlint/addonlint/internal/pyast"
	"github.com/addonlint/addonlint/internal/pyparse"
)

func parse(t *testing.T, src string) *pyast.Module {
	t.Helper()
	mod, _, err := pyparse.ParseFile("test.py", []byte(src))
	require.NoError(t, err)
	return mod
}

func TestParseClassAndMethods(t *testing.T) {
	mod := parse(t, `class AccountMove(models.Model):
    _inherit = 'account.move'

    def action_post(self, soft=True):
        return super().action_post()
`)

	require.Len(t, mod.Body, 1)
	cls, ok := mod.Body[0].(*pyast.ClassDef)
	require.True(t, ok)
	assert.Equal(t, "AccountMove", cls.Name)
	require.Len(t, cls.Bases, 1)
	require.Len(t, cls.Body, 2)

	assign, ok := cls.Body[0].(*pyast.Assign)
	require.True(t, ok)
	assert.Equal(t, 2, assign.Pos().Line)

	fn, ok := cls.Body[1].(*pyast.FuncDef)
	require.True(t, ok)
	assert.Equal(t, "action_post", fn.Name)
	assert.Equal(t, []string{"self", "soft"}, fn.Params)
	assert.Equal(t, cls, pyast.EnclosingClass(fn))
}

func TestParseAugmentedAssign(t *testing.T) {
	mod := parse(t, "query += suffix\n")

	require.Len(t, mod.Body, 1)
	assign, ok := mod.Body[0].(*pyast.Assign)
	require.True(t, ok)
	bin, ok := assign.Value.(*pyast.BinOp)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
}

func TestParseEllipsis(t *testing.T) {
	mod := parse(t, "def stub(self):\n    ...\n")

	fn, ok := mod.Body[0].(*pyast.FuncDef)
	require.True(t, ok)
	require.Len(t, fn.Body, 1)
	expr, ok := fn.Body[0].(*pyast.ExprStmt)
	require.True(t, ok)
	c, ok := expr.Value.(*pyast.Const)
	require.True(t, ok)
	assert.Equal(t, "Ellipsis", c.Value)
}

func TestParseFString(t *testing.T) {
	mod := parse(t, "x = f\"SELECT * FROM {self._table} WHERE id = {rec_id}\"\n")

	assign := mod.Body[0].(*pyast.Assign)
	fstr, ok := assign.Value.(*pyast.FString)
	require.True(t, ok)

	var exprs []pyast.Node
	for _, part := range fstr.Parts {
		if part.Expr != nil {
			exprs = append(exprs, part.Expr)
		}
	}
	require.Len(t, exprs, 2)

	attr, ok := exprs[0].(*pyast.Attribute)
	require.True(t, ok)
	assert.Equal(t, "_table", attr.Attr)
	assert.Equal(t, 1, attr.Pos().Line)

	name, ok := exprs[1].(*pyast.Name)
	require.True(t, ok)
	assert.Equal(t, "rec_id", name.ID)
}

func TestParseFStringEscapedBraces(t *testing.T) {
	mod := parse(t, "x = f\"{{literal}} {value}\"\n")

	fstr := mod.Body[0].(*pyast.Assign).Value.(*pyast.FString)
	placeholders := 0
	for _, part := range fstr.Parts {
		if part.Expr != nil {
			placeholders++
		}
	}
	assert.Equal(t, 1, placeholders)
}

func TestParseImplicitConcat(t *testing.T) {
	mod := parse(t, "x = 'SELECT ' 'name FROM account'\n")

	s, ok := mod.Body[0].(*pyast.Assign).Value.(*pyast.Str)
	require.True(t, ok)
	assert.Equal(t, "SELECT name FROM account", s.Value)
}

func TestParseTryExcept(t *testing.T) {
	mod := parse(t, `try:
    risky()
except (ValueError, KeyError) as exc:
    handle(exc)
except Exception:
    pass
finally:
    cleanup()
`)

	try, ok := mod.Body[0].(*pyast.Try)
	require.True(t, ok)
	require.Len(t, try.Handlers, 2)

	_, ok = try.Handlers[0].Type.(*pyast.Tuple)
	assert.True(t, ok)
	assert.Equal(t, "exc", try.Handlers[0].Name)

	name, ok := try.Handlers[1].Type.(*pyast.Name)
	require.True(t, ok)
	assert.Equal(t, "Exception", name.ID)
	require.Len(t, try.Handlers[1].Body, 1)
	_, ok = try.Handlers[1].Body[0].(*pyast.Pass)
	assert.True(t, ok)
	require.Len(t, try.Final, 1)
}

func TestParseCallArguments(t *testing.T) {
	mod := parse(t, "fields.Char(string='Name', compute='_compute_name', *args, **extra)\n")

	call, ok := mod.Body[0].(*pyast.ExprStmt).Value.(*pyast.Call)
	require.True(t, ok)

	require.Len(t, call.Args, 1)
	_, ok = call.Args[0].(*pyast.Starred)
	assert.True(t, ok)

	var names []string
	for _, kw := range call.Keywords {
		names = append(names, kw.Arg)
	}
	assert.Equal(t, []string{"string", "compute", ""}, names)
}

func TestParseComments(t *testing.T) {
	_, comments, err := pyparse.ParseFile("test.py", []byte(`x = 1  # trailing
# addonlint: disable=print-used
print(x)
`))
	require.NoError(t, err)

	require.Len(t, comments, 2)
	assert.Equal(t, 1, comments[0].Pos.Line)
	assert.Equal(t, 2, comments[1].Pos.Line)
	assert.Contains(t, comments[1].Text, "disable=print-used")
}

func TestParseSyntaxErrorHasLocation(t *testing.T) {
	_, _, err := pyparse.ParseFile("bad.py", []byte("def broken(:\n    pass\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.py:")
}

func TestParseBracketsSuppressNewlines(t *testing.T) {
	mod := parse(t, `data = [
    'views/a.xml',
    'views/b.xml',
]
`)

	list, ok := mod.Body[0].(*pyast.Assign).Value.(*pyast.List)
	require.True(t, ok)
	assert.Len(t, list.Elts, 2)
}

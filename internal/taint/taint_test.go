package taint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addonlint/addonlint/internal/pyast"
	"github.com/addonlint/addonlint/internal/pyparse"
	"github.com/addonlint/addonlint/internal/taint"
)

// valueOf parses src and classifies the expression of the final statement.
func valueOf(t *testing.T, src string) taint.Result {
	t.Helper()
	mod, _, err := pyparse.ParseFile("taint.py", []byte(src))
	require.NoError(t, err)
	require.NotEmpty(t, mod.Body)

	last := mod.Body[len(mod.Body)-1]
	stmt, ok := last.(*pyast.ExprStmt)
	require.True(t, ok, "last statement must be an expression")
	return taint.Of(stmt.Value)
}

func TestOfLiterals(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want taint.Kind
	}{
		{"plain string", `"SELECT 1"`, taint.Literal},
		{"number", `42`, taint.Literal},
		{"fstring with literal placeholder", `f"{'hello'}"`, taint.Literal},
		{"concat of literals", `"SELECT " + "1"`, taint.Literal},
		{"percent with literal args", `"%s and %s" % ('a', 'b')`, taint.Literal},
		{"format with literal args", `"{} {}".format('a', 'b')`, taint.Literal},
		{"join of literals", `", ".join(['a', 'b'])`, taint.Literal},
		{"repeated literal", `"-" * 40`, taint.Literal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, valueOf(t, tt.src).Kind)
		})
	}
}

func TestOfInterpolation(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"fstring attribute", `f"SELECT * FROM {self.table}"`},
		{"fstring expression", `f"{'hello' + self.name}"`},
		{"percent with attribute", `"SELECT * FROM %s" % self.table`},
		{"format with attribute", `"SELECT * FROM {}".format(self.table)`},
		{"unresolved name", `f"SELECT * FROM {table}"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valueOf(t, tt.src)
			assert.Equal(t, taint.Tainted, r.Kind)
			assert.NotNil(t, r.Source)
		})
	}
}

func TestOfFollowsAssignments(t *testing.T) {
	literal := `table = 'account'
f"SELECT * FROM {table}"
`
	assert.Equal(t, taint.Literal, valueOf(t, literal).Kind)

	tainted := `table = self.table
f"SELECT * FROM {table}"
`
	assert.Equal(t, taint.Tainted, valueOf(t, tainted).Kind)

	chained := `base = 'account'
table = base + '_line'
f"SELECT * FROM {table}"
`
	assert.Equal(t, taint.Literal, valueOf(t, chained).Kind)
}

func TestOfUsesLastAssignmentBeforeUse(t *testing.T) {
	src := `table = 'account'
table = self.table
f"SELECT * FROM {table}"
`
	assert.Equal(t, taint.Tainted, valueOf(t, src).Kind)
}

func TestOfSelfReferenceDoesNotRecurse(t *testing.T) {
	src := `query = query + 'x'
query
`
	r := valueOf(t, src)
	assert.NotEqual(t, taint.Literal, r.Kind)
}

func TestOfTupleTargetIsOpaque(t *testing.T) {
	src := `a, b = pair()
f"SELECT {a}"
`
	assert.Equal(t, taint.Tainted, valueOf(t, src).Kind)
}

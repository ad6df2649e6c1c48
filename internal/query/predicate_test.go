package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/safeen/internal/record"
)

func evalAll(t *testing.T, p Predicate) []bool {
	t.Helper()
	src := usersSource()
	out := make([]bool, len(src.rows))
	for i, r := range src.rows {
		ok, err := p(record.NewRowView(src.schema, r))
		require.NoError(t, err)
		out[i] = ok
	}
	return out
}

func TestCompareOps(t *testing.T) {
	age := record.Int64(25)
	assert.Equal(t, []bool{true, false, false}, evalAll(t, Eq("age", age)))
	assert.Equal(t, []bool{false, true, true}, evalAll(t, Ne("age", age)))
	assert.Equal(t, []bool{false, true, false}, evalAll(t, Lt("age", age)))
	assert.Equal(t, []bool{true, true, false}, evalAll(t, Le("age", age)))
	assert.Equal(t, []bool{false, false, true}, evalAll(t, Gt("age", age)))
	assert.Equal(t, []bool{true, false, true}, evalAll(t, Ge("age", age)))
}

func TestCombinators(t *testing.T) {
	young := Lt("age", record.Int64(20))
	cy := Eq("name", record.Text("Cy"))

	assert.Equal(t, []bool{false, true, true}, evalAll(t, Or(young, cy)))
	assert.Equal(t, []bool{false, false, false}, evalAll(t, And(young, cy)))
	assert.Equal(t, []bool{true, false, true}, evalAll(t, Not(young)))
	assert.Equal(t, []bool{true, true, true}, evalAll(t, And()))
}

func TestCompare_Errors(t *testing.T) {
	src := usersSource()
	view := record.NewRowView(src.schema, src.rows[0])

	_, err := Eq("age", record.Text("25"))(view)
	require.ErrorIs(t, err, record.ErrTypeMismatch)

	_, err = Eq("email", record.Text("x"))(view)
	require.ErrorIs(t, err, record.ErrColumnNotFound)

	_, err = Or(Eq("email", record.Text("x")))(view)
	require.ErrorIs(t, err, record.ErrColumnNotFound)

	_, err = Not(Eq("email", record.Text("x")))(view)
	require.ErrorIs(t, err, record.ErrColumnNotFound)
}

func TestParseOp(t *testing.T) {
	for in, want := range map[string]Op{
		"=": OpEq, "==": OpEq, "!=": OpNe, "<>": OpNe,
		"<": OpLt, "<=": OpLe, ">": OpGt, ">=": OpGe,
	} {
		got, err := ParseOp(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseOp("~")
	require.Error(t, err)
	assert.Equal(t, "<=", OpLe.String())
}

package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/safeen/internal/record"
)

// ---- fakes ----

type fakeSource struct {
	schema record.Schema
	rows   []record.Row
	reads  int
}

func (f *fakeSource) Name() string          { return "users" }
func (f *fakeSource) Schema() record.Schema { return f.schema }
func (f *fakeSource) Rows() []record.Row {
	f.reads++
	return f.rows[:len(f.rows):len(f.rows)]
}

func usersSource() *fakeSource {
	return &fakeSource{
		schema: record.MustSchema(
			record.Col("id", record.ColInt64),
			record.Col("name", record.ColText),
			record.Col("age", record.ColInt64),
		),
		rows: []record.Row{
			record.NewRow(record.Int64(1), record.Text("Ann"), record.Int64(25)),
			record.NewRow(record.Int64(2), record.Text("Bo"), record.Int64(19)),
			record.NewRow(record.Int64(3), record.Text("Cy"), record.Int64(31)),
		},
	}
}

func olderThan20(row record.RowView) (bool, error) {
	age, err := record.Field[int64](row, "age")
	if err != nil {
		return false, err
	}
	return age > 20, nil
}

// ---- tests ----

func TestQuery_FilterProjectGet(t *testing.T) {
	src := usersSource()

	res, err := From(src).Filter(olderThan20).Rows("id").Execute()
	require.NoError(t, err)

	ids, err := Get[int64](res, "id")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids)
	assert.Equal(t, []string{"id"}, res.Columns())
}

func TestQuery_GetWrongType(t *testing.T) {
	res, err := From(usersSource()).Filter(olderThan20).Rows("id").Execute()
	require.NoError(t, err)

	_, err = Get[string](res, "id")
	require.ErrorIs(t, err, record.ErrTypeMismatch)
}

func TestQuery_GetColumnNotProjected(t *testing.T) {
	res, err := From(usersSource()).Rows("id").Execute()
	require.NoError(t, err)

	_, err = Get[string](res, "name")
	require.ErrorIs(t, err, record.ErrColumnNotFound)
}

func TestQuery_GetTypeCheckedOnEmptyResult(t *testing.T) {
	res, err := From(usersSource()).Filter(Where(func(record.RowView) bool { return false })).Execute()
	require.NoError(t, err)
	require.Equal(t, 0, res.Len())

	_, err = Get[string](res, "age")
	require.ErrorIs(t, err, record.ErrTypeMismatch)

	ages, err := Get[int64](res, "age")
	require.NoError(t, err)
	assert.Empty(t, ages)
}

func TestQuery_RowsUnknownColumn(t *testing.T) {
	q := From(usersSource()).Rows("id", "email")
	require.ErrorIs(t, q.Err(), record.ErrColumnNotFound)

	_, err := q.Execute()
	require.ErrorIs(t, err, record.ErrColumnNotFound)
}

func TestQuery_RowsDuplicateAndEmpty(t *testing.T) {
	_, err := From(usersSource()).Rows("id", "id").Execute()
	require.ErrorIs(t, err, record.ErrDuplicateColumn)

	_, err = From(usersSource()).Rows().Execute()
	require.ErrorIs(t, err, record.ErrEmptySchema)
}

func TestQuery_ProjectionOrder(t *testing.T) {
	res, err := From(usersSource()).Rows("name", "id").Execute()
	require.NoError(t, err)
	require.Equal(t, 3, res.Len())
	assert.Equal(t, "(Ann, 1)", res.Row(0).String())

	names, err := Get[string](res, "name")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann", "Bo", "Cy"}, names)
}

func TestQuery_PredicateTypeMismatchFailsQuery(t *testing.T) {
	bad := func(row record.RowView) (bool, error) {
		_, err := record.Field[string](row, "age")
		return err == nil, err
	}
	_, err := From(usersSource()).Filter(bad).Execute()
	require.ErrorIs(t, err, record.ErrTypeMismatch)
}

func TestQuery_PredicateErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	_, err := From(usersSource()).Filter(func(record.RowView) (bool, error) { return false, boom }).Execute()
	require.ErrorIs(t, err, boom)
}

func TestQuery_FiltersAreAnded(t *testing.T) {
	res, err := From(usersSource()).
		Filter(olderThan20).
		GetWhere(Ne("name", record.Text("Ann"))).
		Execute()
	require.NoError(t, err)

	ids, err := Get[int64](res, "id")
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids)
}

func TestQuery_FilterAfterRowsStillSeesAllColumns(t *testing.T) {
	res, err := From(usersSource()).Rows("name").Filter(olderThan20).Execute()
	require.NoError(t, err)

	names, err := Get[string](res, "name")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann", "Cy"}, names)
}

func TestQuery_Immutable(t *testing.T) {
	base := From(usersSource()).Filter(olderThan20)
	a := base.Filter(Eq("id", record.Int64(1)))
	b := base.Filter(Eq("id", record.Int64(3)))

	ra, err := a.Execute()
	require.NoError(t, err)
	rb, err := b.Execute()
	require.NoError(t, err)
	rbase, err := base.Execute()
	require.NoError(t, err)

	idsA, _ := Get[int64](ra, "id")
	idsB, _ := Get[int64](rb, "id")
	idsBase, _ := Get[int64](rbase, "id")
	assert.Equal(t, []int64{1}, idsA)
	assert.Equal(t, []int64{3}, idsB)
	assert.Equal(t, []int64{1, 3}, idsBase)
}

func TestQuery_State(t *testing.T) {
	q := From(usersSource())
	assert.Equal(t, Unbuilt, q.State())
	assert.Equal(t, Filtered, q.Filter(olderThan20).State())
	assert.Equal(t, Projected, q.Filter(olderThan20).Rows("id").State())
	assert.Equal(t, Projected, q.Rows("id").State())
	assert.Equal(t, Unbuilt, q.State())
}

func TestQuery_ExecuteIsDeterministicAndLazy(t *testing.T) {
	src := usersSource()
	q := From(src).Filter(olderThan20).Rows("id")
	assert.Equal(t, 0, src.reads, "building must not scan")

	r1, err := q.Execute()
	require.NoError(t, err)
	r2, err := q.Execute()
	require.NoError(t, err)

	ids1, _ := Get[int64](r1, "id")
	ids2, _ := Get[int64](r2, "id")
	assert.Equal(t, ids1, ids2)
	assert.Equal(t, 2, src.reads)
}

func TestQuery_SnapshotAtExecute(t *testing.T) {
	src := usersSource()
	q := From(src).Filter(olderThan20).Rows("id")

	src.rows = append(src.rows, record.NewRow(record.Int64(4), record.Text("Di"), record.Int64(40)))

	res, err := q.Execute()
	require.NoError(t, err)
	ids, _ := Get[int64](res, "id")
	assert.Equal(t, []int64{1, 3, 4}, ids)
}

func TestQuery_NoSource(t *testing.T) {
	_, err := From(nil).Execute()
	require.ErrorIs(t, err, ErrNoSource)

	_, err = Query{}.Rows("id").Execute()
	require.ErrorIs(t, err, ErrNoSource)

	q := From(usersSource()).Filter(nil)
	require.Error(t, q.Err())
}

func TestResult_All(t *testing.T) {
	res, err := From(usersSource()).Rows("id").Execute()
	require.NoError(t, err)

	var seen []int64
	for _, row := range res.All() {
		id, err := record.Field[int64](row, "id")
		require.NoError(t, err)
		seen = append(seen, id)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []int64{1, 2}, seen)
}

func TestResult_ValuesAreCopies(t *testing.T) {
	src := usersSource()
	res, err := From(src).Rows("name", "id").Execute()
	require.NoError(t, err)

	rows := res.Values()
	require.Len(t, rows, 3)
	assert.True(t, rows[1].Equal(record.NewRow(record.Text("Bo"), record.Int64(2))))

	rows[0][0] = record.Text("changed")
	name, err := record.Field[string](res.Row(0), "name")
	require.NoError(t, err)
	assert.Equal(t, "Ann", name)
}

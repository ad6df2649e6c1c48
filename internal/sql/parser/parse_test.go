package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lit(t *testing.T, e Expr) any {
	t.Helper()
	l, ok := e.(*LiteralExpr)
	require.True(t, ok, "want *LiteralExpr, got %T", e)
	return l.Value
}

func TestParse_RequireSemicolon(t *testing.T) {
	_, err := Parse("SELECT * FROM users")
	require.ErrorIs(t, err, ErrSyntax)
	require.Contains(t, err.Error(), "missing ';'")
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse("   ")
	require.ErrorIs(t, err, ErrSyntax)
	_, err = Parse(" ; ")
	require.ErrorIs(t, err, ErrSyntax)
}

func TestParse_Unsupported(t *testing.T) {
	_, err := Parse("CREATE DATABASE testdb;")
	require.ErrorIs(t, err, ErrSyntax)
	_, err = Parse("SELECTX * FROM t;")
	require.ErrorIs(t, err, ErrSyntax)
}

func TestParse_CreateTable(t *testing.T) {
	stmt, err := Parse("CREATE TABLE users (id I64, name string, active BOOL);")
	require.NoError(t, err)

	s, ok := stmt.(*CreateTableStmt)
	require.True(t, ok, "want *CreateTableStmt, got %T", stmt)

	require.Equal(t, "users", s.TableName)
	require.Len(t, s.Columns, 3)

	assert.Equal(t, ColumnDef{Name: "id", Type: "I64"}, s.Columns[0])
	assert.Equal(t, ColumnDef{Name: "name", Type: "STRING"}, s.Columns[1])
	assert.Equal(t, ColumnDef{Name: "active", Type: "BOOL"}, s.Columns[2])
}

func TestParse_CreateTable_Invalid(t *testing.T) {
	for _, src := range []string{
		"CREATE TABLE users id INT, name TEXT;",
		"CREATE TABLE users ();",
		"CREATE TABLE users (id INT;",
		"CREATE TABLE users (id);",
		"CREATE TABLE users (id INT PRIMARY);",
		"CREATE TABLE 1users (id INT);",
	} {
		_, err := Parse(src)
		require.ErrorIs(t, err, ErrSyntax, src)
	}
}

func TestParse_DropTable(t *testing.T) {
	stmt, err := Parse("drop table users;")
	require.NoError(t, err)

	s, ok := stmt.(*DropTableStmt)
	require.True(t, ok, "want *DropTableStmt, got %T", stmt)
	assert.Equal(t, "users", s.TableName)

	_, err = Parse("DROP TABLE users extra;")
	require.Error(t, err)
}

func TestParse_Insert(t *testing.T) {
	stmt, err := Parse("INSERT INTO users VALUES (1, 'O''Brien, Pat', true, -2.5, x'00ff', 18446744073709551615);")
	require.NoError(t, err)

	s, ok := stmt.(*InsertStmt)
	require.True(t, ok, "want *InsertStmt, got %T", stmt)
	require.Equal(t, "users", s.TableName)
	require.Len(t, s.Values, 6)

	assert.Equal(t, int64(1), lit(t, s.Values[0]))
	assert.Equal(t, "O'Brien, Pat", lit(t, s.Values[1]))
	assert.Equal(t, true, lit(t, s.Values[2]))
	assert.Equal(t, -2.5, lit(t, s.Values[3]))
	assert.Equal(t, []byte{0x00, 0xff}, lit(t, s.Values[4]))
	assert.Equal(t, uint64(18446744073709551615), lit(t, s.Values[5]))
}

func TestParse_Insert_Invalid(t *testing.T) {
	for _, src := range []string{
		"INSERT INTO users (1);",
		"INSERT INTO users VALUES 1, 2;",
		"INSERT INTO users VALUES ();",
		"INSERT INTO users VALUES (NULL);",
		"INSERT INTO users VALUES (abc);",
		"INSERT INTO users VALUES ('unterminated);",
		"INSERT INTO users VALUES (x'zz');",
	} {
		_, err := Parse(src)
		require.ErrorIs(t, err, ErrSyntax, src)
	}
}

func TestParse_SelectStar(t *testing.T) {
	stmt, err := Parse("SELECT * FROM users;")
	require.NoError(t, err)

	s, ok := stmt.(*SelectStmt)
	require.True(t, ok, "want *SelectStmt, got %T", stmt)
	assert.Equal(t, "users", s.TableName)
	assert.Nil(t, s.Columns)
	assert.Empty(t, s.Where)
}

func TestParse_SelectColumnsWhere(t *testing.T) {
	stmt, err := Parse("select id, name from users where age >= 20 and name <> 'Bo AND Cy';")
	require.NoError(t, err)

	s := stmt.(*SelectStmt)
	assert.Equal(t, []string{"id", "name"}, s.Columns)
	require.Len(t, s.Where, 2)

	assert.Equal(t, "age", s.Where[0].Column)
	assert.Equal(t, ">=", s.Where[0].Op)
	assert.Equal(t, int64(20), lit(t, s.Where[0].Value))

	assert.Equal(t, "name", s.Where[1].Column)
	assert.Equal(t, "<>", s.Where[1].Op)
	assert.Equal(t, "Bo AND Cy", lit(t, s.Where[1].Value))
}

func TestParse_ConditionOps(t *testing.T) {
	for src, op := range map[string]string{
		"a=1": "=", "a == 1": "==", "a!=1": "!=", "a <> 1": "<>",
		"a<1": "<", "a <= 1": "<=", "a>1": ">", "a >= 1": ">=",
	} {
		c, err := parseCondition(src)
		require.NoError(t, err, src)
		assert.Equal(t, op, c.Op, src)
		assert.Equal(t, "a", c.Column, src)
	}

	c, err := parseCondition("a > -5")
	require.NoError(t, err)
	assert.Equal(t, int64(-5), lit(t, c.Value))

	_, err = parseCondition("a 5")
	require.ErrorIs(t, err, ErrSyntax)
}

func TestParse_Update(t *testing.T) {
	stmt, err := Parse("UPDATE users SET name = 'x', age=3 WHERE id = 1;")
	require.NoError(t, err)

	s, ok := stmt.(*UpdateStmt)
	require.True(t, ok, "want *UpdateStmt, got %T", stmt)
	assert.Equal(t, "users", s.TableName)
	require.Len(t, s.Assignments, 2)
	assert.Equal(t, "name", s.Assignments[0].Column)
	assert.Equal(t, "x", lit(t, s.Assignments[0].Value))
	assert.Equal(t, "age", s.Assignments[1].Column)
	assert.Equal(t, int64(3), lit(t, s.Assignments[1].Value))
	require.Len(t, s.Where, 1)
	assert.Equal(t, "id", s.Where[0].Column)

	_, err = Parse("UPDATE users SET WHERE id = 1;")
	require.Error(t, err)
}

func TestParse_Delete(t *testing.T) {
	stmt, err := Parse("DELETE FROM users;")
	require.NoError(t, err)
	s := stmt.(*DeleteStmt)
	assert.Equal(t, "users", s.TableName)
	assert.Empty(t, s.Where)

	stmt, err = Parse("DELETE FROM users WHERE active = FALSE;")
	require.NoError(t, err)
	s = stmt.(*DeleteStmt)
	require.Len(t, s.Where, 1)
	assert.Equal(t, false, lit(t, s.Where[0].Value))
}

func TestSplitKeyword(t *testing.T) {
	l, r := splitKeyword("users where id = 1", "WHERE")
	assert.Equal(t, "users", l)
	assert.Equal(t, "id = 1", r)

	l, r = splitKeyword("users", "WHERE")
	assert.Equal(t, "users", l)
	assert.Equal(t, "", r)

	// keyword inside quotes and as a word prefix are ignored
	l, r = splitKeyword("a = ' and ' and anda = 1", "AND")
	assert.Equal(t, "a = ' and '", l)
	assert.Equal(t, "anda = 1", r)
}

func TestSplitComma(t *testing.T) {
	assert.Equal(t, []string{"1", " 'a,b'", " 3"}, splitComma("1, 'a,b', 3"))
	assert.Equal(t, []string{"1", ""}, splitComma("1,"))
}

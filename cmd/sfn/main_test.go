package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tuannm99/safeen/internal/engine"
	"github.com/tuannm99/safeen/internal/record"
	"github.com/tuannm99/safeen/internal/sql/executor"
)

func TestStatementComplete(t *testing.T) {
	assert.False(t, statementComplete("SELECT * FROM t"))
	assert.True(t, statementComplete("SELECT * FROM t;"))
	assert.False(t, statementComplete("INSERT INTO t VALUES ('a;"))
	assert.True(t, statementComplete("INSERT INTO t VALUES ('a;b');"))
	assert.False(t, statementComplete("INSERT INTO t VALUES ('it''s;"))
}

func TestIsMetaCommand(t *testing.T) {
	assert.True(t, isMetaCommand(`\tables`))
	assert.True(t, isMetaCommand("quit"))
	assert.False(t, isMetaCommand("SELECT 1;"))
}

func TestHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "hist")
	h := NewHistory(path)
	require.NoError(t, h.Load(10))

	require.NoError(t, h.Append("SELECT *\n  FROM t;"))
	require.NoError(t, h.Append("   "))
	require.NoError(t, h.Append("DELETE FROM t;"))

	h2 := NewHistory(path)
	require.NoError(t, h2.Load(1))
	assert.Equal(t, []string{"DELETE FROM t;"}, h2.Lines())

	var buf bytes.Buffer
	h.Print(&buf, 0)
	assert.Equal(t, "    1  SELECT * FROM t;\n    2  DELETE FROM t;\n", buf.String())
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, &executor.Result{Tag: "INSERT", AffectedRows: 1})
	assert.Equal(t, "INSERT OK (1 affected)\n", buf.String())

	buf.Reset()
	printResult(&buf, &executor.Result{
		Tag:     "SELECT",
		Columns: []string{"id", "name"},
		Rows: []record.Row{
			record.NewRow(record.Int64(1), record.Text("Ann")),
			record.NewRow(record.Int64(20), record.Text("Bo")),
		},
	})
	assert.Equal(t, strings.Join([]string{
		"id | name",
		"---+-----",
		"1  | Ann ",
		"20 | Bo  ",
		"(2 rows)",
		"",
	}, "\n"), buf.String())
}

func TestSession(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.sfn")
	var out bytes.Buffer
	s := newSession(engine.New(), path, NewHistory(""), &out)

	s.statement("CREATE TABLE users (id I64, name STRING);")
	s.statement("INSERT INTO users VALUES (1, 'Ann');")
	assert.True(t, s.dirty)

	require.NoError(t, s.meta(`\name demo`))
	require.NoError(t, s.meta(`\tables`))
	assert.Contains(t, out.String(), "users (2 columns, 1 rows)")

	require.NoError(t, s.meta(`\schema users`))
	assert.Contains(t, out.String(), "users (id I64, name STRING)")

	require.Error(t, s.meta(`\check`), "nothing saved yet")
	require.NoError(t, s.meta(`\save`))
	assert.False(t, s.dirty)
	require.NoError(t, s.meta(`\check`))

	s.statement("SELECT * FROM nope;")
	assert.Contains(t, out.String(), "error:")

	require.ErrorIs(t, s.meta(`\q`), errQuit)
	require.Error(t, s.meta(`\bogus`))

	db, err := engine.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", db.Name())
	assert.Equal(t, []string{"users"}, db.TableNames())
}

func TestExecAndCheckCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.sfn")

	require.NoError(t, run([]string{"exec", "-db", path, "-c", "CREATE TABLE t (a I32);"}))
	require.NoError(t, run([]string{"exec", "-db", path, "-c", "INSERT INTO t VALUES (7);"}))
	require.NoError(t, run([]string{"check", path}))

	db, err := engine.Read(path)
	require.NoError(t, err)
	tbl, err := db.Table("t")
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())

	require.Error(t, run([]string{"exec", "-db", path, "-c", "INSERT INTO t VALUES ('x');"}))
	require.Error(t, run([]string{"nope"}))
	require.Error(t, run(nil))
}

func TestDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.sfn")
	db := engine.New()
	require.NoError(t, db.SetName("demo"))
	tbl, err := db.CreateTable("files", record.MustSchema(
		record.Col("name", record.ColText),
		record.Col("blob", record.ColBytes),
		record.Col("size", record.ColUint64),
	))
	require.NoError(t, err)
	require.NoError(t, tbl.Insert(record.Text("a.txt"), record.Bytes([]byte{0xca, 0xfe}), record.Uint64(2)))
	require.NoError(t, db.Save(path))

	loaded, err := engine.Read(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeDump(&buf, loaded))

	var got dumpDB
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "demo", got.Name)
	assert.True(t, got.Integrity)
	assert.Len(t, got.Digest, 64)
	require.Len(t, got.Tables, 1)
	assert.Equal(t, []dumpColumn{{"name", "STRING"}, {"blob", "BYTES"}, {"size", "U64"}}, got.Tables[0].Columns)
	require.Len(t, got.Tables[0].Rows, 1)
	assert.Equal(t, "a.txt", got.Tables[0].Rows[0][0])
	assert.Equal(t, "x'cafe'", got.Tables[0].Rows[0][1])
}

func TestWriteDumpSchema(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeDumpSchema(&buf))

	var got struct {
		Title      string                     `json:"title"`
		Properties map[string]json.RawMessage `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "sfn dump", got.Title)
	for _, key := range []string{"name", "integrity", "digest", "tables"} {
		assert.Contains(t, got.Properties, key)
	}
	assert.Contains(t, buf.String(), `"BYTES"`)
}

func TestIsWriteOf(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.sfn")
	assert.True(t, isWriteOf(fsnotify.Event{Name: path, Op: fsnotify.Write}, path))
	assert.True(t, isWriteOf(fsnotify.Event{Name: path, Op: fsnotify.Create}, path))
	assert.False(t, isWriteOf(fsnotify.Event{Name: path + ".tmp-1", Op: fsnotify.Write}, path))
	assert.False(t, isWriteOf(fsnotify.Event{Name: path, Op: fsnotify.Chmod}, path))
}

func TestVerifyAndLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.sfn")
	assert.False(t, verifyAndLog(path))

	require.NoError(t, engine.New().Save(path))
	assert.True(t, verifyAndLog(path))
}

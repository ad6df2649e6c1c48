package parser

// Statement is the root interface for all statements.
type Statement interface {
	stmtNode()
}

// ----- CREATE TABLE -----
type ColumnDef struct {
	Name string
	Type string // upper-cased type name, resolved by the planner
}

type CreateTableStmt struct {
	TableName string
	Columns   []ColumnDef
}

func (*CreateTableStmt) stmtNode() {}

// ----- DROP TABLE -----
type DropTableStmt struct {
	TableName string
}

func (*DropTableStmt) stmtNode() {}

// ----- INSERT -----
type InsertStmt struct {
	TableName string
	Values    []Expr
}

func (*InsertStmt) stmtNode() {}

// ----- SELECT -----
type SelectStmt struct {
	TableName string
	Columns   []string // nil means *
	Where     []Condition
}

func (*SelectStmt) stmtNode() {}

// ----- UPDATE -----
type Assignment struct {
	Column string
	Value  Expr
}

type UpdateStmt struct {
	TableName   string
	Assignments []Assignment
	Where       []Condition
}

func (*UpdateStmt) stmtNode() {}

// ----- DELETE -----
type DeleteStmt struct {
	TableName string
	Where     []Condition
}

func (*DeleteStmt) stmtNode() {}

// Condition is "<col> <op> <literal>". A WHERE clause is a list of
// conditions joined by AND.
type Condition struct {
	Column string
	Op     string
	Value  Expr
}

// ----- Expressions -----
type Expr interface {
	exprNode()
}

// LiteralExpr holds an untyped constant. Value is one of int64, uint64
// (integers above MaxInt64), float64, string, bool or []byte; Raw keeps
// the source text for error messages.
type LiteralExpr struct {
	Value any
	Raw   string
}

func (*LiteralExpr) exprNode() {}

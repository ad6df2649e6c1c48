package planner

import (
	"github.com/tuannm99/safeen/internal/query"
	"github.com/tuannm99/safeen/internal/record"
	"github.com/tuannm99/safeen/internal/sql/parser"
)

// Plan is the interface for executable plans.
type Plan interface {
	planNode()
	// Mutates reports whether executing the plan can change the database.
	Mutates() bool
}

// Cond is one WHERE condition with its operator resolved. The literal
// stays untyped until the executor knows the column type.
type Cond struct {
	Column string
	Op     query.Op
	Value  *parser.LiteralExpr
}

type Assignment struct {
	Column string
	Value  *parser.LiteralExpr
}

// ----- Plan nodes -----

type CreateTablePlan struct {
	TableName string
	Schema    record.Schema
}

func (*CreateTablePlan) planNode()     {}
func (*CreateTablePlan) Mutates() bool { return true }

type DropTablePlan struct {
	TableName string
}

func (*DropTablePlan) planNode()     {}
func (*DropTablePlan) Mutates() bool { return true }

type InsertPlan struct {
	TableName string
	Values    []*parser.LiteralExpr // coerced at execution
}

func (*InsertPlan) planNode()     {}
func (*InsertPlan) Mutates() bool { return true }

type SeqScanPlan struct {
	TableName string
	Columns   []string // nil means every column
	Where     []Cond
}

func (*SeqScanPlan) planNode()     {}
func (*SeqScanPlan) Mutates() bool { return false }

type UpdatePlan struct {
	TableName string
	Assigns   []Assignment
	Where     []Cond
}

func (*UpdatePlan) planNode()     {}
func (*UpdatePlan) Mutates() bool { return true }

type DeletePlan struct {
	TableName string
	Where     []Cond
}

func (*DeletePlan) planNode()     {}
func (*DeletePlan) Mutates() bool { return true }

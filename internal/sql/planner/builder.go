package planner

import (
	"fmt"

	"github.com/tuannm99/safeen/internal/query"
	"github.com/tuannm99/safeen/internal/record"
	"github.com/tuannm99/safeen/internal/sql/parser"
)

// BuildPlan builds a plan from an AST Statement. It needs no database:
// table and column existence are checked by the executor.
func BuildPlan(stmt parser.Statement) (Plan, error) {
	switch s := stmt.(type) {
	case *parser.CreateTableStmt:
		return buildCreateTablePlan(s)
	case *parser.DropTableStmt:
		return &DropTablePlan{TableName: s.TableName}, nil
	case *parser.InsertStmt:
		return buildInsertPlan(s)
	case *parser.SelectStmt:
		return buildSelectPlan(s)
	case *parser.UpdateStmt:
		return buildUpdatePlan(s)
	case *parser.DeleteStmt:
		return buildDeletePlan(s)
	default:
		return nil, fmt.Errorf("planner: unsupported statement type %T", stmt)
	}
}

func buildCreateTablePlan(s *parser.CreateTableStmt) (Plan, error) {
	cols := make([]record.Column, 0, len(s.Columns))
	for _, c := range s.Columns {
		colType, err := record.ParseColumnType(c.Type)
		if err != nil {
			return nil, err
		}
		cols = append(cols, record.Col(c.Name, colType))
	}

	schema, err := record.NewSchema(cols...)
	if err != nil {
		return nil, err
	}
	return &CreateTablePlan{
		TableName: s.TableName,
		Schema:    schema,
	}, nil
}

func buildInsertPlan(s *parser.InsertStmt) (Plan, error) {
	vals := make([]*parser.LiteralExpr, len(s.Values))
	for i, e := range s.Values {
		l, err := literal(e)
		if err != nil {
			return nil, err
		}
		vals[i] = l
	}
	return &InsertPlan{
		TableName: s.TableName,
		Values:    vals,
	}, nil
}

func buildSelectPlan(s *parser.SelectStmt) (Plan, error) {
	where, err := buildWhere(s.Where)
	if err != nil {
		return nil, err
	}
	return &SeqScanPlan{
		TableName: s.TableName,
		Columns:   s.Columns,
		Where:     where,
	}, nil
}

func buildUpdatePlan(s *parser.UpdateStmt) (Plan, error) {
	assigns := make([]Assignment, len(s.Assignments))
	for i, a := range s.Assignments {
		l, err := literal(a.Value)
		if err != nil {
			return nil, err
		}
		assigns[i] = Assignment{Column: a.Column, Value: l}
	}

	where, err := buildWhere(s.Where)
	if err != nil {
		return nil, err
	}
	return &UpdatePlan{
		TableName: s.TableName,
		Assigns:   assigns,
		Where:     where,
	}, nil
}

func buildDeletePlan(s *parser.DeleteStmt) (Plan, error) {
	where, err := buildWhere(s.Where)
	if err != nil {
		return nil, err
	}
	return &DeletePlan{TableName: s.TableName, Where: where}, nil
}

func buildWhere(conds []parser.Condition) ([]Cond, error) {
	if len(conds) == 0 {
		return nil, nil
	}
	out := make([]Cond, len(conds))
	for i, c := range conds {
		op, err := query.ParseOp(c.Op)
		if err != nil {
			return nil, err
		}
		l, err := literal(c.Value)
		if err != nil {
			return nil, err
		}
		out[i] = Cond{Column: c.Column, Op: op, Value: l}
	}
	return out, nil
}

func literal(e parser.Expr) (*parser.LiteralExpr, error) {
	l, ok := e.(*parser.LiteralExpr)
	if !ok || l == nil {
		return nil, fmt.Errorf("planner: only literal expressions supported, got %T", e)
	}
	return l, nil
}

package executor

import (
	"fmt"
	"log/slog"

	"github.com/tuannm99/safeen/internal/heap"
	"github.com/tuannm99/safeen/internal/query"
	"github.com/tuannm99/safeen/internal/record"
	"github.com/tuannm99/safeen/internal/sql/parser"
	"github.com/tuannm99/safeen/internal/sql/planner"
)

// executorDB is the slice of *engine.Database the executor needs.
type executorDB interface {
	CreateTable(name string, schema record.Schema) (*heap.Table, error)
	DropTable(name string) error
	Table(name string) (*heap.Table, error)
}

// Executor executes a plan against a Database.
type Executor struct {
	DB executorDB
}

func NewExecutor(db executorDB) *Executor {
	return &Executor{DB: db}
}

// ExecSQL is the top-level entry: statement string -> Result.
func (e *Executor) ExecSQL(sql string) (*Result, error) {
	stmt, err := parser.Parse(sql)
	if err != nil {
		return nil, err
	}

	plan, err := planner.BuildPlan(stmt)
	if err != nil {
		return nil, err
	}

	res, err := e.execPlan(plan)
	if err != nil {
		return nil, err
	}
	res.Mutated = mutated(plan, res)
	slog.Debug("executor.statement", "tag", res.Tag, "affected", res.AffectedRows)
	return res, nil
}

func (e *Executor) execPlan(p planner.Plan) (*Result, error) {
	switch plan := p.(type) {
	case *planner.CreateTablePlan:
		return e.execCreateTable(plan)
	case *planner.DropTablePlan:
		return e.execDropTable(plan)
	case *planner.InsertPlan:
		return e.execInsert(plan)
	case *planner.SeqScanPlan:
		return e.execSeqScan(plan)
	case *planner.UpdatePlan:
		return e.execUpdate(plan)
	case *planner.DeletePlan:
		return e.execDelete(plan)
	default:
		return nil, fmt.Errorf("executor: unsupported plan type %T", p)
	}
}

// mutated reports whether an executed plan changed the database. Row DML
// that matched nothing leaves it untouched.
func mutated(p planner.Plan, res *Result) bool {
	switch p.(type) {
	case *planner.UpdatePlan, *planner.DeletePlan:
		return res.AffectedRows > 0
	default:
		return p.Mutates()
	}
}

func (e *Executor) execCreateTable(p *planner.CreateTablePlan) (*Result, error) {
	if _, err := e.DB.CreateTable(p.TableName, p.Schema); err != nil {
		return nil, err
	}
	return &Result{Tag: "CREATE TABLE"}, nil
}

func (e *Executor) execDropTable(p *planner.DropTablePlan) (*Result, error) {
	if err := e.DB.DropTable(p.TableName); err != nil {
		return nil, err
	}
	return &Result{Tag: "DROP TABLE"}, nil
}

func (e *Executor) execInsert(p *planner.InsertPlan) (*Result, error) {
	tbl, err := e.DB.Table(p.TableName)
	if err != nil {
		return nil, err
	}

	values, err := coerceRow(tbl.Schema(), p.Values)
	if err != nil {
		return nil, err
	}
	if err := tbl.Insert(values...); err != nil {
		return nil, err
	}
	return &Result{Tag: "INSERT", AffectedRows: 1}, nil
}

func (e *Executor) execSeqScan(p *planner.SeqScanPlan) (*Result, error) {
	tbl, err := e.DB.Table(p.TableName)
	if err != nil {
		return nil, err
	}

	pred, err := buildPredicate(tbl.Schema(), p.Where)
	if err != nil {
		return nil, err
	}

	q := tbl.Filter(pred)
	if p.Columns != nil {
		q = q.Rows(p.Columns...)
	}
	qr, err := q.Execute()
	if err != nil {
		return nil, err
	}

	res := &Result{Tag: "SELECT", Columns: qr.Columns()}
	for _, row := range qr.All() {
		res.Rows = append(res.Rows, row.Values())
	}
	res.AffectedRows = int64(len(res.Rows))
	return res, nil
}

func (e *Executor) execUpdate(p *planner.UpdatePlan) (*Result, error) {
	tbl, err := e.DB.Table(p.TableName)
	if err != nil {
		return nil, err
	}
	schema := tbl.Schema()

	pred, err := buildPredicate(schema, p.Where)
	if err != nil {
		return nil, err
	}

	// Coerce every assignment once, before touching any row.
	pos := make([]int, len(p.Assigns))
	vals := make([]record.Value, len(p.Assigns))
	for i, a := range p.Assigns {
		idx, err := schema.Lookup(a.Column)
		if err != nil {
			return nil, err
		}
		v, err := coerceLiteral(schema.Column(idx), a.Value)
		if err != nil {
			return nil, err
		}
		pos[i], vals[i] = idx, v
	}

	n, err := tbl.UpdateWhere(pred, func(row record.RowView) ([]record.Value, error) {
		next := row.Values()
		for i, idx := range pos {
			next[idx] = vals[i]
		}
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return &Result{Tag: "UPDATE", AffectedRows: int64(n)}, nil
}

func (e *Executor) execDelete(p *planner.DeletePlan) (*Result, error) {
	tbl, err := e.DB.Table(p.TableName)
	if err != nil {
		return nil, err
	}

	pred, err := buildPredicate(tbl.Schema(), p.Where)
	if err != nil {
		return nil, err
	}

	n, err := tbl.DeleteWhere(pred)
	if err != nil {
		return nil, err
	}
	return &Result{Tag: "DELETE", AffectedRows: int64(n)}, nil
}

// buildPredicate resolves every condition against the schema up front, so
// an unknown column or a literal of the wrong type fails the statement
// even when the table is empty.
func buildPredicate(schema record.Schema, conds []planner.Cond) (query.Predicate, error) {
	ps := make([]query.Predicate, 0, len(conds))
	for _, c := range conds {
		idx, err := schema.Lookup(c.Column)
		if err != nil {
			return nil, err
		}
		v, err := coerceLiteral(schema.Column(idx), c.Value)
		if err != nil {
			return nil, err
		}
		ps = append(ps, query.Compare(c.Column, c.Op, v))
	}
	return query.And(ps...), nil
}

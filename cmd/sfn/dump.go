package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/tuannm99/safeen/internal/engine"
	"github.com/tuannm99/safeen/internal/record"
	"github.com/tuannm99/safeen/internal/storage"
)

type dumpColumn struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type" jsonschema:"enum=I32,enum=I64,enum=U64,enum=F32,enum=F64,enum=BOOL,enum=STRING,enum=BYTES"`
}

type dumpTable struct {
	Name    string       `yaml:"name" json:"name"`
	Columns []dumpColumn `yaml:"columns" json:"columns"`
	Rows    [][]any      `yaml:"rows" json:"rows" jsonschema:"description=one array per row in column order; BYTES cells are x'hex' strings"`
}

type dumpDB struct {
	Name      string      `yaml:"name" json:"name"`
	Integrity bool        `yaml:"integrity" json:"integrity" jsonschema:"description=digest matched when the file was read"`
	Digest    string      `yaml:"digest,omitempty" json:"digest,omitempty" jsonschema:"description=BLAKE2b-256 trailer as hex"`
	Tables    []dumpTable `yaml:"tables" json:"tables"`
}

func buildDump(db *engine.Database) dumpDB {
	out := dumpDB{Name: db.Name(), Integrity: db.IntegrityCheck(), Tables: []dumpTable{}}
	if d, ok := db.Digest(); ok {
		out.Digest = fmt.Sprintf("%x", d[:])
	}

	for _, t := range db.Tables() {
		dt := dumpTable{Name: t.Name(), Rows: [][]any{}}
		for _, c := range t.Schema().Columns() {
			dt.Columns = append(dt.Columns, dumpColumn{Name: c.Name, Type: c.Type.String()})
		}
		for _, row := range t.Rows() {
			vals := make([]any, len(row))
			for i, v := range row {
				if v.Type() == record.ColBytes {
					// hex literal, same form the shell accepts
					vals[i] = v.String()
					continue
				}
				vals[i] = v.Interface()
			}
			dt.Rows = append(dt.Rows, vals)
		}
		out.Tables = append(out.Tables, dt)
	}
	return out
}

func writeDump(w io.Writer, db *engine.Database) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(buildDump(db)); err != nil {
		return err
	}
	return enc.Close()
}

// writeDumpSchema prints the JSON Schema of the dump document.
func writeDumpSchema(w io.Writer) error {
	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	schema := r.Reflect(&dumpDB{})
	schema.Title = "sfn dump"

	b, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

func cmdDump(args []string) error {
	fset := flag.NewFlagSet("dump", flag.ContinueOnError)
	schemaOnly := fset.Bool("schema", false, "print the JSON Schema of the dump document and exit")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if *schemaOnly {
		return writeDumpSchema(os.Stdout)
	}
	if fset.NArg() != 1 {
		return errors.New("usage: sfn dump [-schema] <path>")
	}
	db, err := engine.Read(fset.Arg(0))
	if err != nil {
		return err
	}
	return writeDump(os.Stdout, db)
}

// cmdCheck verifies the trailer first, then makes sure the body decodes.
func cmdCheck(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: sfn check <path>")
	}
	path := args[0]

	ok, err := storage.VerifyFile(path)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", path, storage.ErrIntegrityFailure)
	}

	db, err := engine.Read(path)
	if err != nil {
		return err
	}
	fmt.Printf("%s: OK (%q, %d tables)\n", path, db.Name(), db.TableCount())
	return nil
}

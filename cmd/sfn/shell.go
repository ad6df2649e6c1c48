package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/tuannm99/safeen/internal"
	"github.com/tuannm99/safeen/internal/engine"
	"github.com/tuannm99/safeen/internal/sql/executor"
)

const shellHelp = `meta commands:
  \q | quit | exit       quit
  \help                  show help
  \tables                list tables
  \schema <table>        show a table's columns
  \name <name>           set the database name
  \save [path]           save (default: the file opened with -db)
  \check                 verify the digest of the last save/read
  \history               print history

statements:
  end statement with ';' (parser requires it)
  multiline is supported (shell waits until ';')
  CREATE TABLE t (col TYPE, ...)   types: I32 I64 U64 F32 F64 BOOL STRING BYTES
  DROP TABLE t
  INSERT INTO t VALUES (...)
  SELECT * | cols FROM t [WHERE col op literal [AND ...]]
  UPDATE t SET col = literal, ... [WHERE ...]
  DELETE FROM t [WHERE ...]`

// session is the state of one interactive shell.
type session struct {
	db      *engine.Database
	exec    *executor.Executor
	path    string
	history *History
	out     io.Writer
	dirty   bool
}

func newSession(db *engine.Database, path string, h *History, out io.Writer) *session {
	return &session{
		db:      db,
		exec:    executor.NewExecutor(db),
		path:    path,
		history: h,
		out:     out,
	}
}

// statementComplete checks if we have a terminating ';' outside single quotes.
func statementComplete(buf string) bool {
	inQuote := false
	for _, r := range buf {
		switch {
		case r == '\'':
			inQuote = !inQuote
		case r == ';' && !inQuote:
			return true
		}
	}
	return false
}

func isMetaCommand(line string) bool {
	line = strings.TrimSpace(line)
	return strings.HasPrefix(line, "\\") ||
		line == "quit" || line == "exit"
}

var errQuit = errors.New("quit")

// meta runs one meta command. errQuit ends the shell.
func (s *session) meta(line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "\\q", "quit", "exit":
		if s.dirty {
			fmt.Fprintln(s.out, "warning: unsaved changes discarded")
		}
		return errQuit

	case "\\help":
		fmt.Fprintln(s.out, shellHelp)

	case "\\history":
		s.history.Print(s.out, 50)

	case "\\tables":
		for _, m := range s.db.Describe() {
			fmt.Fprintf(s.out, "%s (%d columns, %d rows)\n", m.Name, len(m.Columns), m.RowCount)
		}

	case "\\schema":
		if len(args) != 1 {
			return errors.New(`usage: \schema <table>`)
		}
		t, err := s.db.Table(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s %s\n", t.Name(), t.Schema())

	case "\\name":
		if len(args) != 1 {
			return errors.New(`usage: \name <name>`)
		}
		if err := s.db.SetName(args[0]); err != nil {
			return err
		}
		s.dirty = true

	case "\\save":
		path := s.path
		if len(args) > 0 {
			path = args[0]
		}
		if path == "" {
			return errors.New("no path: use \\save <path>")
		}
		if err := s.db.Save(path); err != nil {
			return err
		}
		s.path, s.dirty = path, false
		fmt.Fprintf(s.out, "saved %s\n", path)

	case "\\check":
		if err := s.db.Verify(); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "integrity OK")

	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
	return nil
}

// statement executes one complete statement and prints its result.
func (s *session) statement(stmt string) {
	_ = s.history.Append(stmt)

	res, err := s.exec.ExecSQL(stmt)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	if res.Mutated {
		s.dirty = true
	}
	printResult(s.out, res)
}

func cmdShell(cfg *internal.SafeenConfig, args []string) error {
	fset := flag.NewFlagSet("shell", flag.ContinueOnError)
	dbPath := fset.String("db", cfg.Storage.Path, "database file")
	histPath := fset.String("history", cfg.Shell.History, "history file path")
	histMax := fset.Int("history-max", cfg.Shell.HistoryMax, "max history lines loaded into memory")
	if err := fset.Parse(args); err != nil {
		return err
	}

	db, err := openDB(*dbPath, cfg.Storage.Strict)
	if err != nil {
		return err
	}

	h := NewHistory(*histPath)
	_ = h.Load(*histMax)

	prompt := cfg.Shell.Prompt
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer func() { _ = rl.Close() }()

	// preload history into readline (so up-arrow works immediately)
	for _, line := range h.Lines() {
		_ = rl.SaveHistory(line)
	}

	s := newSession(db, *dbPath, h, os.Stdout)
	var buf strings.Builder

	fmt.Printf("opened %s (%d tables)\n", *dbPath, db.TableCount())
	fmt.Println("type \\help for help")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			// Ctrl+C clears current buffer
			if buf.Len() > 0 {
				buf.Reset()
				rl.SetPrompt(prompt)
				continue
			}
			fmt.Println("^C")
			continue
		}
		if err != nil {
			// EOF
			fmt.Println()
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if buf.Len() == 0 && isMetaCommand(line) {
			if err := s.meta(line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				fmt.Printf("error: %v\n", err)
			}
			continue
		}

		// accumulate statement
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(line)

		if !statementComplete(buf.String()) {
			rl.SetPrompt("...> ")
			continue
		}

		stmt := strings.TrimSpace(buf.String())
		buf.Reset()
		rl.SetPrompt(prompt)

		_ = rl.SaveHistory(compactOneLine(stmt))
		s.statement(stmt)
	}
}

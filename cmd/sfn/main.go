// Command sfn is the command line front end for .sfn database files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/tuannm99/safeen/internal"
	"github.com/tuannm99/safeen/internal/engine"
	"github.com/tuannm99/safeen/internal/sql/executor"
)

const usage = `usage: sfn [-config file] [-log-level level] <command> [args]

commands:
  shell [-db path]             interactive statement shell
  exec  [-db path] -c "stmt;"  run one statement, save when it changed data
  check <path>                 verify digest and structure of a file
  dump  [-schema] <path>       print a database as YAML
  watch <path>                 re-verify a file each time it is written
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "sfn: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("sfn", flag.ContinueOnError)
	global.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	cfgPath := global.String("config", os.Getenv("SFN_CONFIG"), "YAML config file")
	logLevel := global.String("log-level", "", "debug | info | warn | error (overrides config)")
	if err := global.Parse(args); err != nil {
		return err
	}

	cfg, err := internal.LoadConfig(*cfgPath)
	if err != nil {
		return err
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	setupLogger(cfg.Log.Level, cfg.Log.Color)

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return errors.New("missing command")
	}

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "shell":
		return cmdShell(cfg, cmdArgs)
	case "exec":
		return cmdExec(cfg, cmdArgs)
	case "check":
		return cmdCheck(cmdArgs)
	case "dump":
		return cmdDump(cmdArgs)
	case "watch":
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return cmdWatch(ctx, cmdArgs)
	default:
		global.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// openDB reads path, or starts an empty database if the file does not
// exist yet.
func openDB(path string, strict bool) (*engine.Database, error) {
	db, err := engine.ReadWithOptions(path, engine.ReadOptions{Strict: strict})
	if errors.Is(err, fs.ErrNotExist) {
		return engine.New(), nil
	}
	return db, err
}

func cmdExec(cfg *internal.SafeenConfig, args []string) error {
	fset := flag.NewFlagSet("exec", flag.ContinueOnError)
	dbPath := fset.String("db", cfg.Storage.Path, "database file")
	stmt := fset.String("c", "", "statement to execute (must end with ';')")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if *stmt == "" {
		return errors.New("exec: -c is required")
	}

	db, err := openDB(*dbPath, cfg.Storage.Strict)
	if err != nil {
		return err
	}

	res, err := executor.NewExecutor(db).ExecSQL(*stmt)
	if err != nil {
		return err
	}
	printResult(os.Stdout, res)

	if res.Mutated {
		return db.Save(*dbPath)
	}
	return nil
}

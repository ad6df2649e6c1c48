package main

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/tuannm99/safeen/internal/sql/executor"
)

func printResult(w io.Writer, res *executor.Result) {
	if len(res.Columns) == 0 {
		// DDL/DML
		fmt.Fprintf(w, "%s OK (%d affected)\n", res.Tag, res.AffectedRows)
		return
	}

	cols := res.Columns

	// 1) render cells and compute widths
	cells := make([][]string, len(res.Rows))
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = utf8.RuneCountInString(c)
	}
	for r, row := range res.Rows {
		cells[r] = make([]string, len(cols))
		for i := range cols {
			if i < len(row) {
				cells[r][i] = row[i].String()
			}
			widths[i] = max(widths[i], utf8.RuneCountInString(cells[r][i]))
		}
	}

	printRow := func(values []string) {
		for i := range cols {
			if i > 0 {
				fmt.Fprint(w, " | ")
			}
			fmt.Fprint(w, padRight(values[i], widths[i]))
		}
		fmt.Fprintln(w)
	}

	// 2) header
	printRow(cols)

	// 3) separator ----+----
	for i := range cols {
		if i > 0 {
			fmt.Fprint(w, "-+-")
		}
		fmt.Fprint(w, strings.Repeat("-", widths[i]))
	}
	fmt.Fprintln(w)

	// 4) rows
	for _, row := range cells {
		printRow(row)
	}

	fmt.Fprintf(w, "(%d rows)\n", len(res.Rows))
}

func padRight(s string, w int) string {
	n := utf8.RuneCountInString(s)
	if n >= w {
		return s
	}
	return s + strings.Repeat(" ", w-n)
}

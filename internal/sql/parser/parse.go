package parser

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var ErrSyntax = errors.New("safeen: syntax error")

func syntaxErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSyntax, fmt.Sprintf(format, args...))
}

// parseIdent validates an identifier (table/column name).
// Rules:
//   - must be exactly one token (no spaces)
//   - first char: letter or '_'
//   - rest: letter/digit/'_'
func parseIdent(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", syntaxErr("missing identifier")
	}

	parts := strings.Fields(s)
	if len(parts) != 1 {
		return "", syntaxErr("invalid identifier %q", s)
	}
	id := parts[0]

	for i, r := range id {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return "", syntaxErr("invalid identifier %q", id)
			}
			continue
		}

		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return "", syntaxErr("invalid identifier %q", id)
		}
	}

	return id, nil
}

// Parse parses a single statement into an AST.
// Policy: statement MUST end with ';'
func Parse(src string) (Statement, error) {
	s := strings.TrimSpace(src)
	if s == "" {
		return nil, syntaxErr("empty statement")
	}

	// Require ';' at the end (after trimming spaces/newlines)
	if !strings.HasSuffix(s, ";") {
		return nil, syntaxErr("missing ';' terminator")
	}

	// Strip the trailing ';' and trim again
	s = strings.TrimSpace(strings.TrimSuffix(s, ";"))
	if s == "" {
		return nil, syntaxErr("empty statement")
	}

	up := asciiUpper(s)

	switch {
	case hasKeywordPrefix(up, "CREATE TABLE"):
		return parseCreateTable(s)
	case hasKeywordPrefix(up, "DROP TABLE"):
		return parseDropTable(s)
	case hasKeywordPrefix(up, "INSERT INTO"):
		return parseInsert(s)
	case hasKeywordPrefix(up, "SELECT"):
		return parseSelect(s)
	case hasKeywordPrefix(up, "UPDATE"):
		return parseUpdate(s)
	case hasKeywordPrefix(up, "DELETE FROM"):
		return parseDelete(s)

	default:
		return nil, syntaxErr("unsupported statement: %q", src)
	}
}

// hasKeywordPrefix reports whether up starts with kw followed by a space or
// the end of input, so "SELECTX" does not match "SELECT".
func hasKeywordPrefix(up, kw string) bool {
	if !strings.HasPrefix(up, kw) {
		return false
	}
	return len(up) == len(kw) || unicode.IsSpace(rune(up[len(kw)]))
}

func parseCreateTable(sql string) (Statement, error) {
	// "CREATE TABLE users (id I64, name STRING, active BOOL)"
	withoutPrefix := strings.TrimSpace(sql[len("CREATE TABLE"):])
	parts := strings.SplitN(withoutPrefix, "(", 2)
	if len(parts) != 2 {
		return nil, syntaxErr("invalid CREATE TABLE syntax")
	}

	tableName, err := parseIdent(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid CREATE TABLE syntax: %w", err)
	}

	defPart := strings.TrimSpace(parts[1])
	if !strings.HasSuffix(defPart, ")") {
		return nil, syntaxErr("invalid CREATE TABLE syntax: missing ')'")
	}
	defPart = strings.TrimSpace(strings.TrimSuffix(defPart, ")"))
	if defPart == "" {
		return nil, syntaxErr("invalid CREATE TABLE syntax: empty column list")
	}

	var cols []ColumnDef
	for _, def := range strings.Split(defPart, ",") {
		def = strings.TrimSpace(def)
		toks := strings.Fields(def)
		if len(toks) != 2 {
			return nil, syntaxErr("invalid column def: %q", def)
		}

		colName, err := parseIdent(toks[0])
		if err != nil {
			return nil, fmt.Errorf("invalid column name: %w", err)
		}

		cols = append(cols, ColumnDef{
			Name: colName,
			Type: strings.ToUpper(toks[1]),
		})
	}

	return &CreateTableStmt{
		TableName: tableName,
		Columns:   cols,
	}, nil
}

func parseDropTable(sql string) (Statement, error) {
	rest := strings.TrimSpace(sql[len("DROP TABLE"):])
	name, err := parseIdent(rest)
	if err != nil {
		return nil, fmt.Errorf("invalid DROP TABLE syntax: %w", err)
	}
	return &DropTableStmt{TableName: name}, nil
}

func parseInsert(sql string) (Statement, error) {
	// "INSERT INTO users VALUES (1, 'abc', true)"
	rest := strings.TrimSpace(sql[len("INSERT INTO"):])

	tablePart, valPart := splitKeyword(rest, "VALUES")
	if strings.TrimSpace(valPart) == "" {
		return nil, syntaxErr("invalid INSERT syntax")
	}

	tableName, err := parseIdent(tablePart)
	if err != nil {
		return nil, fmt.Errorf("invalid INSERT syntax: %w", err)
	}

	valPart = strings.TrimSpace(valPart)
	if !strings.HasPrefix(valPart, "(") || !strings.HasSuffix(valPart, ")") {
		return nil, syntaxErr("invalid INSERT values syntax")
	}
	valPart = strings.TrimSpace(valPart[1 : len(valPart)-1])
	if valPart == "" {
		return nil, syntaxErr("invalid INSERT syntax: empty value list")
	}

	var exprs []Expr
	for _, rv := range splitComma(valPart) {
		lit, err := parseLiteral(strings.TrimSpace(rv))
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, lit)
	}

	return &InsertStmt{
		TableName: tableName,
		Values:    exprs,
	}, nil
}

func parseSelect(sql string) (Statement, error) {
	// "SELECT * | a, b FROM users [WHERE col op literal [AND ...]]"
	rest := strings.TrimSpace(sql[len("SELECT"):])
	colPart, afterFrom := splitKeyword(rest, "FROM")
	if strings.TrimSpace(afterFrom) == "" {
		return nil, syntaxErr("invalid SELECT syntax: missing FROM")
	}

	var cols []string
	if strings.TrimSpace(colPart) != "*" {
		for _, c := range strings.Split(colPart, ",") {
			id, err := parseIdent(c)
			if err != nil {
				return nil, fmt.Errorf("invalid SELECT column: %w", err)
			}
			cols = append(cols, id)
		}
	}

	tablePart, wherePart := splitKeyword(afterFrom, "WHERE")
	tableName, err := parseIdent(tablePart)
	if err != nil {
		return nil, fmt.Errorf("invalid SELECT syntax: %w", err)
	}

	where, err := parseWhere(wherePart)
	if err != nil {
		return nil, err
	}

	return &SelectStmt{TableName: tableName, Columns: cols, Where: where}, nil
}

func parseUpdate(sql string) (Statement, error) {
	// "UPDATE t SET a=1, b='x' [WHERE id=1]"
	rest := strings.TrimSpace(sql[len("UPDATE"):])
	tablePart, afterTable := splitKeyword(rest, "SET")

	tableName, err := parseIdent(tablePart)
	if err != nil {
		return nil, fmt.Errorf("invalid UPDATE syntax: %w", err)
	}

	setPart, wherePart := splitKeyword(afterTable, "WHERE")
	setPart = strings.TrimSpace(setPart)
	if setPart == "" {
		return nil, syntaxErr("invalid UPDATE syntax: missing SET")
	}

	assignStrs := splitComma(setPart)
	assigns := make([]Assignment, 0, len(assignStrs))
	for _, a := range assignStrs {
		a = strings.TrimSpace(a)
		kv := strings.SplitN(a, "=", 2)
		if len(kv) != 2 {
			return nil, syntaxErr("invalid assignment: %q", a)
		}

		col, err := parseIdent(kv[0])
		if err != nil {
			return nil, fmt.Errorf("invalid assignment column: %w", err)
		}

		lit, err := parseLiteral(strings.TrimSpace(kv[1]))
		if err != nil {
			return nil, err
		}

		assigns = append(assigns, Assignment{Column: col, Value: lit})
	}

	where, err := parseWhere(wherePart)
	if err != nil {
		return nil, err
	}

	return &UpdateStmt{
		TableName:   tableName,
		Assignments: assigns,
		Where:       where,
	}, nil
}

func parseDelete(sql string) (Statement, error) {
	// "DELETE FROM t [WHERE ...]"
	rest := strings.TrimSpace(sql[len("DELETE FROM"):])
	tablePart, wherePart := splitKeyword(rest, "WHERE")

	tableName, err := parseIdent(tablePart)
	if err != nil {
		return nil, fmt.Errorf("invalid DELETE syntax: %w", err)
	}

	where, err := parseWhere(wherePart)
	if err != nil {
		return nil, err
	}

	return &DeleteStmt{TableName: tableName, Where: where}, nil
}

// parseWhere splits on AND and parses each condition. Empty input means
// no WHERE clause.
func parseWhere(s string) ([]Condition, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var out []Condition
	for {
		left, right := splitKeyword(s, "AND")
		c, err := parseCondition(left)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
		if right == "" {
			return out, nil
		}
		s = right
	}
}

// longer operators first so "<=" is not read as "<"
var condOps = []string{"<=", ">=", "!=", "<>", "==", "=", "<", ">"}

func parseCondition(s string) (Condition, error) {
	s = strings.TrimSpace(s)
	pos, op := -1, ""
	for i := 0; i < len(s) && pos < 0; i++ {
		if s[i] == '\'' {
			break
		}
		for _, cand := range condOps {
			if strings.HasPrefix(s[i:], cand) {
				pos, op = i, cand
				break
			}
		}
	}
	if pos < 0 {
		return Condition{}, syntaxErr("invalid condition %q: expected <col> <op> <literal>", s)
	}

	col, err := parseIdent(s[:pos])
	if err != nil {
		return Condition{}, fmt.Errorf("invalid WHERE column: %w", err)
	}
	lit, err := parseLiteral(strings.TrimSpace(s[pos+len(op):]))
	if err != nil {
		return Condition{}, err
	}
	return Condition{Column: col, Op: op, Value: lit}, nil
}

func parseLiteral(rv string) (*LiteralExpr, error) {
	up := strings.ToUpper(rv)
	lit := &LiteralExpr{Raw: rv}

	switch {
	case rv == "":
		return nil, syntaxErr("missing literal")

	case up == "TRUE":
		lit.Value = true
	case up == "FALSE":
		lit.Value = false
	case up == "NULL":
		return nil, syntaxErr("NULL is not supported")

	// BYTES: x'00ff'
	case len(rv) >= 3 && (rv[0] == 'x' || rv[0] == 'X') && rv[1] == '\'' && rv[len(rv)-1] == '\'':
		b, err := hex.DecodeString(rv[2 : len(rv)-1])
		if err != nil {
			return nil, syntaxErr("invalid bytes literal %q", rv)
		}
		lit.Value = b

	// STRING: single quotes, '' escapes a quote
	case rv[0] == '\'':
		s, err := unquote(rv)
		if err != nil {
			return nil, err
		}
		lit.Value = s

	default:
		v, err := parseNumber(rv)
		if err != nil {
			return nil, err
		}
		lit.Value = v
	}
	return lit, nil
}

func unquote(rv string) (string, error) {
	if len(rv) < 2 || rv[len(rv)-1] != '\'' {
		return "", syntaxErr("unterminated string %q", rv)
	}
	body := rv[1 : len(rv)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\'' {
			if i+1 < len(body) && body[i+1] == '\'' {
				b.WriteByte('\'')
				i++
				continue
			}
			return "", syntaxErr("unescaped quote in %q", rv)
		}
		b.WriteByte(body[i])
	}
	return b.String(), nil
}

func parseNumber(rv string) (any, error) {
	if i, err := strconv.ParseInt(rv, 10, 64); err == nil {
		return i, nil
	}
	if u, err := strconv.ParseUint(rv, 10, 64); err == nil {
		return u, nil
	}
	if strings.ContainsAny(rv, ".eE") {
		if f, err := strconv.ParseFloat(rv, 64); err == nil {
			return f, nil
		}
	}
	return nil, syntaxErr("unsupported literal: %q", rv)
}

// splitKeyword splits "X <keyword> Y" case-insensitively at the first
// occurrence outside quotes. Returns (X, Y); if keyword is absent (s, "").
//
// NOTE: requires whitespace around keyword.
func splitKeyword(s, keyword string) (string, string) {
	up := asciiUpper(s)
	kw := asciiUpper(keyword)
	inQuote := false
	for i := 0; i < len(up); i++ {
		if up[i] == '\'' {
			inQuote = !inQuote
			continue
		}
		if inQuote || !unicode.IsSpace(rune(up[i])) {
			continue
		}
		j := i + 1
		if !strings.HasPrefix(up[j:], kw) {
			continue
		}
		end := j + len(kw)
		if end < len(up) && !unicode.IsSpace(rune(up[end])) {
			continue
		}
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[end:])
	}
	return s, ""
}

// asciiUpper upper-cases ASCII letters only, keeping byte offsets aligned
// with the input.
func asciiUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

// splitComma splits a comma-separated list, ignoring commas inside quotes.
func splitComma(s string) []string {
	parts := []string{}
	cur := strings.Builder{}
	inQuote := false
	for _, r := range s {
		switch r {
		case '\'':
			inQuote = !inQuote
			cur.WriteRune(r)
		case ',':
			if inQuote {
				cur.WriteRune(r)
			} else {
				parts = append(parts, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 || len(parts) > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

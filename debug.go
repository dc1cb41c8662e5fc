// debug.go — human-readable dump of the AST arena, for -debug runs.
package spwn

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fatih/color"
)

func (k ExprKey) String() string { return fmt.Sprintf("ExprKey(%d)", int(k)) }
func (k StmtKey) String() string { return fmt.Sprintf("StmtKey(%d)", int(k)) }

var (
	exprKeyRe = regexp.MustCompile(`ExprKey\([^)]*\)`)
	stmtKeyRe = regexp.MustCompile(`StmtKey\([^)]*\)`)
)

// Dump renders both arenas plus the top-level statement list, with
// expression keys highlighted yellow and statement keys blue.
func (d *ASTData) Dump(stmts Statements) string {
	var b strings.Builder

	b.WriteString("-------- exprs --------\n")
	for i, rec := range d.exprs {
		fmt.Fprintf(&b, "%v:\t\t%+v\n", ExprKey(i), rec.expr)
	}
	b.WriteString("-------- stmts --------\n")
	for i, rec := range d.stmts {
		fmt.Fprintf(&b, "%v:\t\t%+v\n", StmtKey(i), rec.stmt)
	}
	b.WriteString("-----------------------\n")
	for _, k := range stmts {
		fmt.Fprintf(&b, "%v\n", k)
	}

	out := b.String()
	yellow := color.New(color.FgYellow, color.Bold)
	blue := color.New(color.FgBlue, color.Bold)
	out = exprKeyRe.ReplaceAllStringFunc(out, func(s string) string { return yellow.Sprint(s) })
	out = stmtKeyRe.ReplaceAllStringFunc(out, func(s string) string { return blue.Sprint(s) })
	return out
}

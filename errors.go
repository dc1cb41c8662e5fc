// errors.go — user-facing diagnostics.
//
// Two error families: syntax errors (ExpectedError, UnmatchedCharError,
// InvalidEscapeError — the lexer and parser fail fast on the first one)
// and runtime errors (TypeMismatchError, UndefinedTypeError,
// CannotCallError, DivisionByZeroError, UnimplementedError — execution
// aborts at the first one). Every variant carries a CodeArea sufficient
// to draw a source-labelled snippet.
//
// FormatErrorWithSource renders a numbered excerpt with a caret under
// the offending column:
//
//	SYNTAX ERROR in eval.spwn at 2:14: Expected `)`, found symbol `]`
//
//	   1 | let x = 10;
//	   2 | let y = (x + 1];
//	     |               ^
//
// The caret line and header are colorized unless color is disabled
// (fatih/color handles NO_COLOR/non-TTY).
package spwn

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ---------------------------------------------------------------------------
// Syntax errors
// ---------------------------------------------------------------------------

// ExpectedError reports a token mismatch: the parser (or lexer) needed
// one thing and found another.
type ExpectedError struct {
	Expected string // description of what was required, e.g. "] or ,"
	Found    string // display form of the offending token
	Typ      string // token class of the offending token
	Area     CodeArea
}

func (e *ExpectedError) Error() string {
	return fmt.Sprintf("Expected `%s`, found %s `%s`", e.Expected, e.Typ, e.Found)
}

// UnmatchedCharError reports an opener whose closer never appeared.
type UnmatchedCharError struct {
	ForChar  string
	NotFound string
	Area     CodeArea
}

func (e *UnmatchedCharError) Error() string {
	return fmt.Sprintf("Couldn't find matching `%s` for this `%s`", e.NotFound, e.ForChar)
}

// InvalidEscapeError reports an unknown string escape sequence.
type InvalidEscapeError struct {
	Character rune
	Area      CodeArea
}

func (e *InvalidEscapeError) Error() string {
	return fmt.Sprintf("Unknown escape sequence: \\`%c`", e.Character)
}

// ---------------------------------------------------------------------------
// Compile errors
// ---------------------------------------------------------------------------

// UndefinedVarError reports a name that resolves to no visible binding
// at lowering time.
type UndefinedVarError struct {
	Name string
	Area CodeArea
}

func (e *UndefinedVarError) Error() string {
	return fmt.Sprintf("Use of undefined variable `%s`", e.Name)
}

// ---------------------------------------------------------------------------
// Runtime errors
// ---------------------------------------------------------------------------

// TypeMismatchError reports a value operation applied to operand types
// it is not defined for.
type TypeMismatchError struct {
	Values []StoredValue
	Area   CodeArea
}

func (e *TypeMismatchError) Error() string {
	parts := make([]string, 0, len(e.Values))
	for _, v := range e.Values {
		parts = append(parts, fmt.Sprintf("%s (%s)", v.Value.ToStr(), v.Value.Type().Name()))
	}
	return fmt.Sprintf("Mismatched types: %s", strings.Join(parts, " and "))
}

// UndefinedTypeError reports a LoadType of a name absent from the type
// registry.
type UndefinedTypeError struct {
	Name string
	Area CodeArea
}

func (e *UndefinedTypeError) Error() string {
	return fmt.Sprintf("Undefined type `@%s`", e.Name)
}

// CannotCallError reports a Call whose base is not a macro.
type CannotCallError struct {
	Base StoredValue
	Area CodeArea
}

func (e *CannotCallError) Error() string {
	return fmt.Sprintf("Cannot call a value of type %s", e.Base.Value.Type().Name())
}

// DivisionByZeroError reports integer or float division/modulo by zero.
type DivisionByZeroError struct {
	Area CodeArea
}

func (e *DivisionByZeroError) Error() string {
	return "Division by zero"
}

// IndexError reports an out-of-bounds array index or a missing
// dictionary key.
type IndexError struct {
	Index  StoredValue
	Length int
	Area   CodeArea
}

func (e *IndexError) Error() string {
	if e.Index.Value.Tag == VTString {
		return fmt.Sprintf("Key `%s` not found", e.Index.Value.ToStr())
	}
	return fmt.Sprintf("Index %s out of bounds (length %d)", e.Index.Value.ToStr(), e.Length)
}

// UnimplementedError reports execution of a reserved instruction.
type UnimplementedError struct {
	Instruction string
	Area        CodeArea
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("Instruction %s is not yet implemented", e.Instruction)
}

// ---------------------------------------------------------------------------
// Rendering
// ---------------------------------------------------------------------------

// ErrorArea extracts the primary CodeArea from any diagnostic produced
// by this package. The second result is false for foreign errors.
func ErrorArea(err error) (CodeArea, bool) {
	switch e := err.(type) {
	case *ExpectedError:
		return e.Area, true
	case *UnmatchedCharError:
		return e.Area, true
	case *InvalidEscapeError:
		return e.Area, true
	case *UndefinedVarError:
		return e.Area, true
	case *TypeMismatchError:
		return e.Area, true
	case *UndefinedTypeError:
		return e.Area, true
	case *CannotCallError:
		return e.Area, true
	case *DivisionByZeroError:
		return e.Area, true
	case *IndexError:
		return e.Area, true
	case *UnimplementedError:
		return e.Area, true
	}
	return CodeArea{}, false
}

func errorHeader(err error) string {
	switch err.(type) {
	case *ExpectedError, *UnmatchedCharError, *InvalidEscapeError:
		return "SYNTAX ERROR"
	case *UndefinedVarError:
		return "COMPILE ERROR"
	default:
		return "RUNTIME ERROR"
	}
}

// FormatErrorWithSource renders a diagnostic as a multi-line snippet
// with a caret under the offending column. Errors without an area are
// stringified unchanged.
func FormatErrorWithSource(err error) string {
	area, ok := ErrorArea(err)
	if !ok || area.Source == nil {
		return err.Error()
	}

	src := area.Source.Text
	line, col := area.Source.LineCol(area.Span.Start)
	width := area.Span.End - area.Span.Start
	if width < 1 {
		width = 1
	}

	lines := strings.Split(src, "\n")
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]
	// keep the caret run inside the reported line
	if col-1+width > len(lineTxt)+1 {
		width = len(lineTxt) - (col - 1)
		if width < 1 {
			width = 1
		}
	}

	head := color.New(color.FgRed, color.Bold)
	mark := color.New(color.FgRed)

	var b strings.Builder
	fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n",
		head.Sprint(errorHeader(err)), area.Source.Name, line, col, err.Error())
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	fmt.Fprintf(&b, "     | %s%s\n", strings.Repeat(" ", col-1), mark.Sprint(strings.Repeat("^", width)))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}

// precedence.go — declarative operator precedence table.
//
// The table is an ordered list of rows, each an associativity plus the
// operator tokens that live at that level. Index 0 is the loosest
// level, the highest index the tightest. Adding an operator is one
// line. The climbing algorithm in parser.go derives everything else
// from the queries below.
package spwn

// OpType is the associativity of one precedence row.
type OpType int

const (
	LeftAssoc OpType = iota
	RightAssoc
	Unary
)

type opRow struct {
	typ  OpType
	toks []TokenType
}

// precInf is the sentinel "no precedence": larger than any row index.
const precInf = 1000000

// opTable holds the precedence ladder, loosest first.
//
// Unary rows give prefix operators their own slot in the ladder: the
// row position decides whether `-3+4` reads as (-3)+4 or `-3*4` as
// -(3*4).
var opTable = []opRow{
	{Unary, []TokenType{EXCLMARK}},
	{LeftAssoc, []TokenType{EQ, NOTEQ, GREATER, GREATEREQ, LESSER, LESSEREQ}},
	{LeftAssoc, []TokenType{PLUS, MINUS}},
	{Unary, []TokenType{MINUS}},
	{LeftAssoc, []TokenType{MULT, DIV, MOD}},
	{RightAssoc, []TokenType{POW}},
}

func rowContains(r opRow, tok TokenType) bool {
	for _, t := range r.toks {
		if t == tok {
			return true
		}
	}
	return false
}

// infixPrec returns the row index where tok appears as a binary
// operator, or precInf if it has none.
func infixPrec(tok TokenType) int {
	for i, r := range opTable {
		if r.typ != Unary && rowContains(r, tok) {
			return i
		}
	}
	return precInf
}

// unaryPrec returns the row index where tok appears as a unary
// operator, or precInf if it has none.
func unaryPrec(tok TokenType) int {
	for i, r := range opTable {
		if r.typ == Unary && rowContains(r, tok) {
			return i
		}
	}
	return precInf
}

// isUnary reports whether tok appears in any Unary row.
func isUnary(tok TokenType) bool {
	return unaryPrec(tok) != precInf
}

// precAmount returns the number of rows in the ladder.
func precAmount() int { return len(opTable) }

// precType returns the associativity of row i.
func precType(i int) OpType { return opTable[i].typ }

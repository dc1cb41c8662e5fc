// ast.go — arena-backed AST.
//
// Expressions and statements live in two arenas keyed by opaque,
// copyable handles (ExprKey, StmtKey). Nodes reference other nodes only
// through handles, so every record also carries the CodeArea that
// produced it and area lookup is O(1) for any node. Keys are never
// reused within a parse and deletion is not part of the lifecycle, so a
// plain append-only slice gives the required handle stability.
package spwn

// ExprKey is a stable handle into ASTData's expression arena.
type ExprKey int

// StmtKey is a stable handle into ASTData's statement arena.
type StmtKey int

// Statements is an ordered sequence of statement handles.
type Statements []StmtKey

// ASTKey is implemented by both handle kinds so ASTData.Area can be
// polymorphic over them.
type ASTKey interface {
	area(d *ASTData) CodeArea
}

func (k ExprKey) area(d *ASTData) CodeArea { return d.exprs[k].area }
func (k StmtKey) area(d *ASTData) CodeArea { return d.stmts[k].area }

type exprRecord struct {
	expr Expression
	area CodeArea
}

type stmtRecord struct {
	stmt Statement
	area CodeArea
}

// ASTData owns every AST node produced by one parse.
type ASTData struct {
	exprs []exprRecord
	stmts []stmtRecord
}

// NewASTData returns an empty arena pair.
func NewASTData() *ASTData {
	return &ASTData{}
}

// InsertExpr stores an expression and returns its handle.
func (d *ASTData) InsertExpr(e Expression, area CodeArea) ExprKey {
	d.exprs = append(d.exprs, exprRecord{expr: e, area: area})
	return ExprKey(len(d.exprs) - 1)
}

// InsertStmt stores a statement and returns its handle.
func (d *ASTData) InsertStmt(s Statement, area CodeArea) StmtKey {
	d.stmts = append(d.stmts, stmtRecord{stmt: s, area: area})
	return StmtKey(len(d.stmts) - 1)
}

// Expr resolves an expression handle. An unknown key is a programmer
// error and panics.
func (d *ASTData) Expr(k ExprKey) Expression {
	return d.exprs[k].expr
}

// Stmt resolves a statement handle.
func (d *ASTData) Stmt(k StmtKey) Statement {
	return d.stmts[k].stmt
}

// Area returns the source area of any node, expression or statement.
func (d *ASTData) Area(k ASTKey) CodeArea {
	return k.area(d)
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

// Literal is the payload of a LiteralExpr.
type Literal struct {
	Int   int64
	Float float64
	Str   string
	Bool  bool
	Kind  TokenType // INT, FLOAT, STRING, TRUE or FALSE
}

// Expression is the closed set of expression node variants.
type Expression interface{ isExpr() }

type (
	// LiteralExpr is an int, float, string or bool literal.
	LiteralExpr struct{ Lit Literal }

	// OpExpr is a binary operation `left op right`.
	OpExpr struct {
		Left  ExprKey
		Op    TokenType
		Right ExprKey
	}

	// UnaryExpr is a prefix operation `op value`.
	UnaryExpr struct {
		Op    TokenType
		Value ExprKey
	}

	// VarExpr is a variable reference.
	VarExpr struct{ Name string }

	// ArrayExpr is `[a, b, ...]`.
	ArrayExpr struct{ Elements []ExprKey }

	// IndexExpr is `base[index]`.
	IndexExpr struct {
		Base  ExprKey
		Index ExprKey
	}

	// CallExpr is `base(arg, ...)` with positional arguments.
	CallExpr struct {
		Base ExprKey
		Args []ExprKey
	}

	// EmptyExpr is the unit expression `()`.
	EmptyExpr struct{}
)

func (LiteralExpr) isExpr() {}
func (OpExpr) isExpr()      {}
func (UnaryExpr) isExpr()   {}
func (VarExpr) isExpr()     {}
func (ArrayExpr) isExpr()   {}
func (IndexExpr) isExpr()   {}
func (CallExpr) isExpr()    {}
func (EmptyExpr) isExpr()   {}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

// Statement is the closed set of statement node variants.
type Statement interface{ isStmt() }

// IfBranch is one `if`/`else if` arm.
type IfBranch struct {
	Cond ExprKey
	Code Statements
}

type (
	// ExprStmt is a bare expression statement.
	ExprStmt struct{ Expr ExprKey }

	// DeclStmt is `let name = expr`, introducing a new binding.
	DeclStmt struct {
		Name  string
		Value ExprKey
	}

	// IfStmt is an `if` chain with optional trailing `else`.
	IfStmt struct {
		Branches []IfBranch
		Else     Statements // nil when absent
	}

	// WhileStmt is `while cond { ... }`.
	WhileStmt struct {
		Cond ExprKey
		Code Statements
	}

	// ForStmt is `for var in iterator { ... }`.
	ForStmt struct {
		Var      string
		Iterator ExprKey
		Code     Statements
	}
)

func (ExprStmt) isStmt()  {}
func (DeclStmt) isStmt()  {}
func (IfStmt) isStmt()    {}
func (WhileStmt) isStmt() {}
func (ForStmt) isStmt()   {}

// parser.go — recursive-descent statements + precedence-climbing
// expressions, writing nodes into an ASTData arena.
//
// The expression grammar is driven entirely by the table in
// precedence.go. parseOp(prec) parses one precedence level: it first
// descends to the next *non-unary* row (consecutive Unary rows are
// skipped so they never trap the infix climb), then folds operators of
// its own level, recursing at the same level for right-associative
// rows. Unary operators are handled in parseUnit and bind their operand
// at the first non-unary row above their own.
//
// Lookahead is a single token; there is no backtracking. The parser
// aborts on the first mismatch with an ExpectedError.
package spwn

// ParseData holds the immutable inputs of one parse.
type ParseData struct {
	Tokens []Token
	Source *Source
}

// Parse parses a whole token stream into top-level statements, writing
// all nodes into data.
func Parse(pd *ParseData, data *ASTData) (Statements, error) {
	p := &parser{pd: pd, data: data}
	stmts, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	return stmts, nil
}

// ParseString lexes and parses source text in one step.
func ParseString(name, text string) (Statements, *ASTData, error) {
	src := NewSource(name, text)
	tokens, err := NewLexer(src).Scan()
	if err != nil {
		return nil, nil, err
	}
	data := NewASTData()
	stmts, err := Parse(&ParseData{Tokens: tokens, Source: src}, data)
	if err != nil {
		return nil, nil, err
	}
	return stmts, data, nil
}

type parser struct {
	pd   *ParseData
	data *ASTData
	pos  int
}

// ---------------------------------------------------------------------------
// token basics & helpers
// ---------------------------------------------------------------------------

// tok returns the token at a relative offset (0 = current), clamped to
// the stream. The stream always ends in EOF.
func (p *parser) tok(off int) Token {
	i := p.pos + off
	if i < 0 {
		i = 0
	}
	if i >= len(p.pd.Tokens) {
		i = len(p.pd.Tokens) - 1
	}
	return p.pd.Tokens[i]
}

func (p *parser) span(off int) Span {
	return p.tok(off).Span
}

func (p *parser) spanArea(off int) CodeArea {
	return p.pd.Source.Area(p.span(off))
}

func (p *parser) areaFrom(start Span) CodeArea {
	return p.pd.Source.Area(Span{Start: start.Start, End: p.span(-1).End})
}

func (p *parser) expectedErr(expected string, tok Token) error {
	return &ExpectedError{
		Expected: expected,
		Typ:      tok.TypeName(),
		Found:    tok.Name(),
		Area:     p.pd.Source.Area(tok.Span),
	}
}

// expect advances over the current token if it matches, otherwise
// fails with an ExpectedError describing what was required.
func (p *parser) expect(tt TokenType, expected string) error {
	if p.tok(0).Type != tt {
		return p.expectedErr(expected, p.tok(0))
	}
	p.pos++
	return nil
}

// expectIdent is expect for IDENT, returning the name.
func (p *parser) expectIdent(expected string) (string, error) {
	if p.tok(0).Type != IDENT {
		return "", p.expectedErr(expected, p.tok(0))
	}
	name := p.tok(0).Literal.(string)
	p.pos++
	return name, nil
}

// skip advances over at most one matching token.
func (p *parser) skip(tt TokenType) {
	if p.tok(0).Type == tt {
		p.pos++
	}
}

// skipMany advances while the current token matches.
func (p *parser) skipMany(tt TokenType) {
	for p.tok(0).Type == tt {
		p.pos++
	}
}

// ---------------------------------------------------------------------------
// expressions
// ---------------------------------------------------------------------------

// nextNonUnary returns the first row index above prec whose
// associativity is not Unary, or precInf when no such row exists.
// Unary-only rows must not become sub-levels of the infix climb.
func nextNonUnary(prec int) int {
	next := precInf
	if prec+1 < precAmount() {
		next = prec + 1
	}
	for next != precInf {
		if precType(next) != Unary {
			break
		}
		next++
		if next == precAmount() {
			next = precInf
		}
	}
	return next
}

// parseExpr is the expression entry point.
func (p *parser) parseExpr() (ExprKey, error) {
	return p.parseOp(0)
}

// parseOp parses one precedence level and everything tighter.
func (p *parser) parseOp(prec int) (ExprKey, error) {
	next := nextNonUnary(prec)

	var left ExprKey
	var err error
	if next != precInf {
		left, err = p.parseOp(next)
	} else {
		left, err = p.parseValue()
	}
	if err != nil {
		return 0, err
	}

	for infixPrec(p.tok(0).Type) == prec {
		op := p.tok(0).Type
		p.pos++

		var right ExprKey
		if precType(prec) == LeftAssoc {
			if next != precInf {
				right, err = p.parseOp(next)
			} else {
				right, err = p.parseValue()
			}
		} else {
			// right-assoc folds by recursing at its own level
			right, err = p.parseOp(prec)
		}
		if err != nil {
			return 0, err
		}

		area := p.pd.Source.Area(p.data.Area(left).Span.Extend(p.data.Area(right).Span))
		left = p.data.InsertExpr(OpExpr{Left: left, Op: op, Right: right}, area)
	}
	return left, nil
}

// parseValue parses a unit and then greedily applies postfix
// operators: indexing `[e]` and calls `(a, b, ...)`.
func (p *parser) parseValue() (ExprKey, error) {
	value, err := p.parseUnit()
	if err != nil {
		return 0, err
	}
	start := p.data.Area(value).Span

	for {
		switch p.tok(0).Type {
		case LSQBRACKET:
			p.pos++
			index, err := p.parseExpr()
			if err != nil {
				return 0, err
			}
			if err := p.expect(RSQBRACKET, "]"); err != nil {
				return 0, err
			}
			value = p.data.InsertExpr(
				IndexExpr{Base: value, Index: index},
				p.areaFrom(start),
			)
		case LPAREN:
			p.pos++
			var args []ExprKey
			for p.tok(0).Type != RPAREN {
				arg, err := p.parseExpr()
				if err != nil {
					return 0, err
				}
				args = append(args, arg)
				if t := p.tok(0).Type; t != RPAREN && t != COMMA {
					return 0, p.expectedErr(") or ,", p.tok(0))
				}
				p.skip(COMMA)
			}
			p.pos++ // consume ')'
			value = p.data.InsertExpr(
				CallExpr{Base: value, Args: args},
				p.areaFrom(start),
			)
		default:
			return value, nil
		}
	}
}

// parseUnit parses one unit value: a literal, variable, parenthesized
// expression, array literal or unary operation.
func (p *parser) parseUnit() (ExprKey, error) {
	start := p.span(0)
	tok := p.tok(0)

	switch tok.Type {
	case INT:
		p.pos++
		return p.data.InsertExpr(
			LiteralExpr{Lit: Literal{Kind: INT, Int: tok.Literal.(int64)}},
			p.spanArea(-1),
		), nil
	case FLOAT:
		p.pos++
		return p.data.InsertExpr(
			LiteralExpr{Lit: Literal{Kind: FLOAT, Float: tok.Literal.(float64)}},
			p.spanArea(-1),
		), nil
	case STRING:
		p.pos++
		return p.data.InsertExpr(
			LiteralExpr{Lit: Literal{Kind: STRING, Str: tok.Literal.(string)}},
			p.spanArea(-1),
		), nil
	case TRUE:
		p.pos++
		return p.data.InsertExpr(
			LiteralExpr{Lit: Literal{Kind: TRUE, Bool: true}},
			p.spanArea(-1),
		), nil
	case FALSE:
		p.pos++
		return p.data.InsertExpr(
			LiteralExpr{Lit: Literal{Kind: FALSE, Bool: false}},
			p.spanArea(-1),
		), nil
	case IDENT:
		p.pos++
		return p.data.InsertExpr(
			VarExpr{Name: tok.Literal.(string)},
			p.spanArea(-1),
		), nil

	case LPAREN:
		p.pos++
		if p.tok(0).Type == RPAREN {
			p.pos++
			return p.data.InsertExpr(EmptyExpr{}, p.areaFrom(start)), nil
		}
		value, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if err := p.expect(RPAREN, ")"); err != nil {
			return 0, err
		}
		return value, nil

	case LSQBRACKET:
		p.pos++
		var elements []ExprKey
		for p.tok(0).Type != RSQBRACKET {
			elem, err := p.parseExpr()
			if err != nil {
				return 0, err
			}
			elements = append(elements, elem)
			if t := p.tok(0).Type; t != RSQBRACKET && t != COMMA {
				return 0, p.expectedErr("] or ,", p.tok(0))
			}
			p.skip(COMMA)
		}
		p.pos++ // consume ']'
		return p.data.InsertExpr(ArrayExpr{Elements: elements}, p.areaFrom(start)), nil
	}

	if isUnary(tok.Type) {
		p.pos++
		next := nextNonUnary(unaryPrec(tok.Type))

		var value ExprKey
		var err error
		if next != precInf {
			value, err = p.parseOp(next)
		} else {
			value, err = p.parseValue()
		}
		if err != nil {
			return 0, err
		}
		return p.data.InsertExpr(
			UnaryExpr{Op: tok.Type, Value: value},
			p.areaFrom(start),
		), nil
	}

	return 0, p.expectedErr("expression", tok)
}

// ---------------------------------------------------------------------------
// statements
// ---------------------------------------------------------------------------

func (p *parser) parseBlock() (Statements, error) {
	if err := p.expect(LBRACKET, "{"); err != nil {
		return nil, err
	}
	code, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	if err := p.expect(RBRACKET, "}"); err != nil {
		return nil, err
	}
	return code, nil
}

func (p *parser) parseStatement() (StmtKey, error) {
	start := p.span(0)

	var stmt Statement
	switch p.tok(0).Type {
	case LET:
		p.pos++
		name, err := p.expectIdent("variable name")
		if err != nil {
			return 0, err
		}
		if err := p.expect(ASSIGN, "="); err != nil {
			return 0, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		stmt = DeclStmt{Name: name, Value: value}

	case IF:
		p.pos++
		var branches []IfBranch
		var elseBranch Statements

		cond, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		code, err := p.parseBlock()
		if err != nil {
			return 0, err
		}
		branches = append(branches, IfBranch{Cond: cond, Code: code})

		for p.tok(0).Type == ELSE {
			p.pos++
			if p.tok(0).Type == IF {
				p.pos++
				cond, err := p.parseExpr()
				if err != nil {
					return 0, err
				}
				code, err := p.parseBlock()
				if err != nil {
					return 0, err
				}
				branches = append(branches, IfBranch{Cond: cond, Code: code})
				continue
			}
			elseBranch, err = p.parseBlock()
			if err != nil {
				return 0, err
			}
			break
		}
		stmt = IfStmt{Branches: branches, Else: elseBranch}

	case WHILE:
		p.pos++
		cond, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		code, err := p.parseBlock()
		if err != nil {
			return 0, err
		}
		stmt = WhileStmt{Cond: cond, Code: code}

	case FOR:
		p.pos++
		name, err := p.expectIdent("variable name")
		if err != nil {
			return 0, err
		}
		if err := p.expect(IN, "in"); err != nil {
			return 0, err
		}
		iterator, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		code, err := p.parseBlock()
		if err != nil {
			return 0, err
		}
		stmt = ForStmt{Var: name, Iterator: iterator, Code: code}

	default:
		value, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		stmt = ExprStmt{Expr: value}
	}

	// Block-terminated statements need no semicolon; everything else
	// does. Runs of semicolons collapse.
	if p.tok(-1).Type != RBRACKET {
		if err := p.expect(EOL, ";"); err != nil {
			return 0, err
		}
	}
	p.skipMany(EOL)

	return p.data.InsertStmt(stmt, p.areaFrom(start)), nil
}

func (p *parser) parseStatements() (Statements, error) {
	var statements Statements
	for t := p.tok(0).Type; t != EOF && t != RBRACKET; t = p.tok(0).Type {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

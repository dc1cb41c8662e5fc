// compiler.go — lowers the AST arena into bytecode.
//
// Variables get numeric slots: every `let` allocates a fresh slot in
// the enclosing Code, and name resolution walks a lexical scope stack,
// so shadowing is resolved at compile time and the interpreter only
// ever sees slot numbers. Jumps go through the destinations pool and
// are patched once the jumped-over region is emitted.
//
// Expression statements leave their result on the operand stack; the
// compiler emits no PopTop for them.
package spwn

// Compile lowers top-level statements into a Code with one function.
func Compile(data *ASTData, stmts Statements) (*Code, error) {
	c := &compiler{
		data:   data,
		code:   &Code{Funcs: [][]Instruction{nil}},
		scopes: []map[string]int{{}},
	}
	if err := c.stmts(0, stmts); err != nil {
		return nil, err
	}
	return c.code, nil
}

type compiler struct {
	data   *ASTData
	code   *Code
	scopes []map[string]int // name → variable slot
}

func (c *compiler) emit(fn int, op Opcode, arg int, area CodeArea) {
	c.code.Funcs[fn] = append(c.code.Funcs[fn], Instruction{Op: op, Arg: arg, Area: area})
}

// emitJump emits a jump-family instruction with a fresh, unpatched
// destinations entry and returns the destination ID for patching.
func (c *compiler) emitJump(fn int, op Opcode, area CodeArea) int {
	id := c.code.AddDest(-1)
	c.emit(fn, op, id, area)
	return id
}

// patch points a destination at the next instruction to be emitted.
func (c *compiler) patch(fn, destID int) {
	c.code.Destinations[destID] = len(c.code.Funcs[fn])
}

func (c *compiler) pushScope() { c.scopes = append(c.scopes, map[string]int{}) }
func (c *compiler) popScope()  { c.scopes = c.scopes[:len(c.scopes)-1] }

// declare allocates a fresh slot for name in the innermost scope.
func (c *compiler) declare(name string) int {
	slot := c.code.VarCount
	c.code.VarCount++
	c.scopes[len(c.scopes)-1][name] = slot
	return slot
}

// resolve finds the innermost slot bound to name.
func (c *compiler) resolve(name string) (int, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if slot, ok := c.scopes[i][name]; ok {
			return slot, true
		}
	}
	return 0, false
}

var binumOpcodes = map[TokenType]Opcode{
	PLUS:      OpPlus,
	MINUS:     OpMinus,
	MULT:      OpMult,
	DIV:       OpDiv,
	MOD:       OpMod,
	POW:       OpPow,
	EQ:        OpEq,
	NOTEQ:     OpNotEq,
	GREATER:   OpGreater,
	GREATEREQ: OpGreaterEq,
	LESSER:    OpLesser,
	LESSEREQ:  OpLesserEq,
}

// ---------------------------------------------------------------------------
// statements
// ---------------------------------------------------------------------------

func (c *compiler) stmts(fn int, stmts Statements) error {
	for _, k := range stmts {
		if err := c.stmt(fn, k); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) stmt(fn int, key StmtKey) error {
	area := c.data.Area(key)

	switch s := c.data.Stmt(key).(type) {
	case ExprStmt:
		return c.expr(fn, s.Expr)

	case DeclStmt:
		if err := c.expr(fn, s.Value); err != nil {
			return err
		}
		slot := c.declare(s.Name)
		c.emit(fn, OpSetVar, slot, area)
		return nil

	case IfStmt:
		var endJumps []int
		for _, br := range s.Branches {
			if err := c.expr(fn, br.Cond); err != nil {
				return err
			}
			skip := c.emitJump(fn, OpJumpIfFalse, c.data.Area(br.Cond))

			c.pushScope()
			err := c.stmts(fn, br.Code)
			c.popScope()
			if err != nil {
				return err
			}

			endJumps = append(endJumps, c.emitJump(fn, OpJump, area))
			c.patch(fn, skip)
		}
		if s.Else != nil {
			c.pushScope()
			err := c.stmts(fn, s.Else)
			c.popScope()
			if err != nil {
				return err
			}
		}
		for _, j := range endJumps {
			c.patch(fn, j)
		}
		return nil

	case WhileStmt:
		top := len(c.code.Funcs[fn])
		if err := c.expr(fn, s.Cond); err != nil {
			return err
		}
		exit := c.emitJump(fn, OpJumpIfFalse, c.data.Area(s.Cond))

		c.pushScope()
		err := c.stmts(fn, s.Code)
		c.popScope()
		if err != nil {
			return err
		}

		back := c.code.AddDest(top)
		c.emit(fn, OpJump, back, area)
		c.patch(fn, exit)
		return nil

	case ForStmt:
		if err := c.expr(fn, s.Iterator); err != nil {
			return err
		}
		c.emit(fn, OpToIter, 0, c.data.Area(s.Iterator))

		top := len(c.code.Funcs[fn])
		exit := c.emitJump(fn, OpIterNext, area)

		c.pushScope()
		slot := c.declare(s.Var)
		c.emit(fn, OpSetVar, slot, area)
		err := c.stmts(fn, s.Code)
		c.popScope()
		if err != nil {
			return err
		}

		back := c.code.AddDest(top)
		c.emit(fn, OpJump, back, area)
		c.patch(fn, exit)
		return nil
	}
	return nil
}

// ---------------------------------------------------------------------------
// expressions
// ---------------------------------------------------------------------------

func (c *compiler) expr(fn int, key ExprKey) error {
	area := c.data.Area(key)

	switch e := c.data.Expr(key).(type) {
	case LiteralExpr:
		var v Value
		switch e.Lit.Kind {
		case INT:
			v = IntValue(e.Lit.Int)
		case FLOAT:
			v = FloatValue(e.Lit.Float)
		case STRING:
			v = StringValue(e.Lit.Str)
		case TRUE, FALSE:
			v = BoolValue(e.Lit.Bool)
		}
		c.emit(fn, OpLoadConst, c.code.AddConst(v), area)
		return nil

	case VarExpr:
		slot, ok := c.resolve(e.Name)
		if !ok {
			return &UndefinedVarError{Name: e.Name, Area: area}
		}
		c.emit(fn, OpLoadVar, slot, area)
		return nil

	case OpExpr:
		if err := c.expr(fn, e.Left); err != nil {
			return err
		}
		if err := c.expr(fn, e.Right); err != nil {
			return err
		}
		c.emit(fn, binumOpcodes[e.Op], 0, area)
		return nil

	case UnaryExpr:
		if err := c.expr(fn, e.Value); err != nil {
			return err
		}
		if e.Op == EXCLMARK {
			c.emit(fn, OpNot, 0, area)
		} else {
			c.emit(fn, OpNegate, 0, area)
		}
		return nil

	case ArrayExpr:
		for _, el := range e.Elements {
			if err := c.expr(fn, el); err != nil {
				return err
			}
		}
		c.emit(fn, OpBuildArray, len(e.Elements), area)
		return nil

	case IndexExpr:
		if err := c.expr(fn, e.Base); err != nil {
			return err
		}
		if err := c.expr(fn, e.Index); err != nil {
			return err
		}
		c.emit(fn, OpIndex, 0, area)
		return nil

	case CallExpr:
		// print is not a value; a call to an unshadowed `print` lowers
		// straight to the Print instruction, one per argument.
		if v, ok := c.data.Expr(e.Base).(VarExpr); ok && v.Name == "print" {
			if _, shadowed := c.resolve("print"); !shadowed {
				if len(e.Args) == 0 {
					c.emit(fn, OpPushEmpty, 0, area)
					c.emit(fn, OpPrint, 0, area)
					return nil
				}
				for _, a := range e.Args {
					if err := c.expr(fn, a); err != nil {
						return err
					}
					c.emit(fn, OpPrint, 0, c.data.Area(a))
				}
				return nil
			}
		}
		for _, a := range e.Args {
			if err := c.expr(fn, a); err != nil {
				return err
			}
		}
		if err := c.expr(fn, e.Base); err != nil {
			return err
		}
		params := make([]string, len(e.Args)) // empty name = positional
		c.emit(fn, OpCall, c.code.AddNameSet(params), area)
		return nil

	case EmptyExpr:
		c.emit(fn, OpPushEmpty, 0, area)
		return nil
	}
	return nil
}

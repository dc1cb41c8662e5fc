// code.go — compiled bytecode: instructions plus pooled tables.
//
// A Code holds one instruction list per function and five pools
// addressed by small integer IDs: constants (literal values), names
// (identifier strings), name sets (ordered name lists for dict keys
// and call parameters), destinations (jump targets, so jumps survive
// instruction reordering) and macro build info (function body index
// plus captured argument descriptors). Every instruction carries the
// source area of the AST node that produced it.
package spwn

import "fmt"

// Opcode identifies one instruction kind.
type Opcode uint8

const (
	// arithmetic / comparison (pop b, pop a, push a∘b)
	OpPlus Opcode = iota
	OpMinus
	OpMult
	OpDiv
	OpMod
	OpPow
	OpEq
	OpNotEq
	OpGreater
	OpGreaterEq
	OpLesser
	OpLesserEq

	// unary (pop a, push ∘a)
	OpNegate
	OpNot

	// loads & stores; Arg is a pool ID or variable slot
	OpLoadConst // Arg: constants pool
	OpLoadVar   // Arg: variable slot
	OpSetVar    // Arg: variable slot
	OpLoadType  // Arg: names pool

	// construction
	OpBuildArray // Arg: element count
	OpBuildDict  // Arg: name-sets pool
	OpPushEmpty
	OpPushAnyPattern
	OpMakeMacro // Arg: macro-build-info pool

	// stack & control flow
	OpPopTop
	OpJump        // Arg: destinations pool
	OpJumpIfFalse // Arg: destinations pool

	// calls, indexing & output
	OpCall // Arg: name-sets pool (empty entry = positional)
	OpIndex
	OpPrint

	// scope markers (no-ops at the single-context level)
	OpEnterScope
	OpExitScope
	OpMergeContexts

	// reserved: recognized but unimplemented
	OpToIter
	OpIterNext // Arg: destinations pool
	OpReturn
	OpContinue
	OpBreak
	OpMakeMacroPattern
	OpTriggerFuncCall
	OpSaveContexts
	OpReviseContexts
	OpPushNone
	OpWrapMaybe
	OpPushContextGroup
	OpPopContextGroup
	OpPushTriggerFnValue
	OpTypeDef  // Arg: names pool
	OpImpl     // Arg: names pool
	OpInstance // Arg: names pool
)

var opcodeNames = map[Opcode]string{
	OpPlus: "Plus", OpMinus: "Minus", OpMult: "Mult", OpDiv: "Div",
	OpMod: "Mod", OpPow: "Pow", OpEq: "Eq", OpNotEq: "NotEq",
	OpGreater: "Greater", OpGreaterEq: "GreaterEq",
	OpLesser: "Lesser", OpLesserEq: "LesserEq",
	OpNegate: "Negate", OpNot: "Not",
	OpLoadConst: "LoadConst", OpLoadVar: "LoadVar", OpSetVar: "SetVar",
	OpLoadType: "LoadType", OpBuildArray: "BuildArray", OpBuildDict: "BuildDict",
	OpPushEmpty: "PushEmpty", OpPushAnyPattern: "PushAnyPattern",
	OpMakeMacro: "MakeMacro", OpPopTop: "PopTop",
	OpJump: "Jump", OpJumpIfFalse: "JumpIfFalse",
	OpCall: "Call", OpPrint: "Print",
	OpEnterScope: "EnterScope", OpExitScope: "ExitScope",
	OpMergeContexts: "MergeContexts",
	OpToIter:        "ToIter", OpIterNext: "IterNext", OpReturn: "Return",
	OpContinue: "Continue", OpBreak: "Break",
	OpMakeMacroPattern: "MakeMacroPattern", OpIndex: "Index",
	OpTriggerFuncCall: "TriggerFuncCall", OpSaveContexts: "SaveContexts",
	OpReviseContexts: "ReviseContexts", OpPushNone: "PushNone",
	OpWrapMaybe: "WrapMaybe", OpPushContextGroup: "PushContextGroup",
	OpPopContextGroup: "PopContextGroup", OpPushTriggerFnValue: "PushTriggerFnValue",
	OpTypeDef: "TypeDef", OpImpl: "Impl", OpInstance: "Instance",
}

func (o Opcode) String() string {
	if n, ok := opcodeNames[o]; ok {
		return n
	}
	return fmt.Sprintf("Opcode(%d)", o)
}

// hasArg reports whether the opcode's Arg field is meaningful.
func (o Opcode) hasArg() bool {
	switch o {
	case OpLoadConst, OpLoadVar, OpSetVar, OpLoadType, OpBuildArray,
		OpBuildDict, OpMakeMacro, OpJump, OpJumpIfFalse, OpCall,
		OpIterNext, OpTypeDef, OpImpl, OpInstance:
		return true
	}
	return false
}

// Instruction is one decoded instruction with its source area.
type Instruction struct {
	Op   Opcode
	Arg  int
	Area CodeArea
}

func (in Instruction) String() string {
	if in.Op.hasArg() {
		return fmt.Sprintf("%s(%d)", in.Op, in.Arg)
	}
	return in.Op.String()
}

// MacroBuildArg describes one argument slot of a MakeMacro: its name
// and whether a type pattern / default value were compiled for it.
type MacroBuildArg struct {
	Name       string
	HasType    bool
	HasDefault bool
}

// MacroBuildInfo is the macro-construction recipe pool entry: which
// function body the macro runs and its argument descriptors.
type MacroBuildInfo struct {
	FuncID int
	Args   []MacroBuildArg
}

// Code is a compiled program.
type Code struct {
	Funcs [][]Instruction

	Constants      []Value
	Names          []string
	NameSets       [][]string
	Destinations   []int
	MacroBuildInfo []MacroBuildInfo

	// VarCount is the number of variable slots contexts must allocate.
	VarCount int
}

// pool accessors; an out-of-range ID is a compiler bug and panics

func (c *Code) Const(id int) Value              { return c.Constants[id] }
func (c *Code) Name(id int) string              { return c.Names[id] }
func (c *Code) NameSet(id int) []string         { return c.NameSets[id] }
func (c *Code) Dest(id int) int                 { return c.Destinations[id] }
func (c *Code) MacroInfo(id int) MacroBuildInfo { return c.MacroBuildInfo[id] }

// pool appenders, used by the compiler and by tests that assemble
// programs by hand

func (c *Code) AddConst(v Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

func (c *Code) AddName(n string) int {
	c.Names = append(c.Names, n)
	return len(c.Names) - 1
}

func (c *Code) AddNameSet(ns []string) int {
	c.NameSets = append(c.NameSets, ns)
	return len(c.NameSets) - 1
}

func (c *Code) AddDest(target int) int {
	c.Destinations = append(c.Destinations, target)
	return len(c.Destinations) - 1
}

func (c *Code) AddMacroInfo(mi MacroBuildInfo) int {
	c.MacroBuildInfo = append(c.MacroBuildInfo, mi)
	return len(c.MacroBuildInfo) - 1
}

// Disassemble renders one function's instruction list, for -debug
// output and tests.
func (c *Code) Disassemble(fn int) string {
	out := ""
	for i, in := range c.Funcs[fn] {
		out += fmt.Sprintf("%4d  %s\n", i, in)
	}
	return out
}

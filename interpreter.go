// interpreter.go — the bytecode execution loop.
//
// Execute walks one function's instruction list once per context,
// against a heap arena of StoredValues. The operand stack holds heap
// keys, never inline values, which makes sharing explicit: LoadVar
// pushes the variable's existing key (no copy), SetVar clones the
// popped value into a fresh slot at bind time. The stack is transient;
// the arena lives as long as the Globals.
//
// Reserved instructions (iteration, returns, the context fork/merge
// family, user types) are recognized and fail with UnimplementedError.
package spwn

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// ValueKey is a stable handle into the Globals memory arena.
type ValueKey int

// Globals owns all execution-wide state: the value heap, the type
// registry and the context set.
type Globals struct {
	Memory   []StoredValue
	Types    map[string]ValueType
	Contexts *FullContext

	// Out receives Print output; defaults to stdout.
	Out io.Writer
}

// NewGlobals returns a Globals with the type registry seeded.
func NewGlobals() *Globals {
	g := &Globals{
		Types: make(map[string]ValueType, 13),
		Out:   os.Stdout,
	}
	for _, t := range []ValueType{
		VTInt, VTFloat, VTString, VTBool, VTEmpty, VTArray, VTDict,
		VTMaybe, VTTypeIndicator, VTPattern, VTGroup, VTTriggerFunc,
		VTMacro,
	} {
		g.Types[t.Name()] = t
	}
	return g
}

// Insert allocates a stored value in the arena and returns its key.
func (g *Globals) Insert(sv StoredValue) ValueKey {
	g.Memory = append(g.Memory, sv)
	return ValueKey(len(g.Memory) - 1)
}

// Get dereferences a key. Keys are stable for the arena's lifetime.
func (g *Globals) Get(k ValueKey) *StoredValue {
	return &g.Memory[k]
}

var printColor = color.New(color.FgGreen, color.Bold)

type binOpFn func(a, b *StoredValue, area CodeArea) (StoredValue, error)

var binOps = map[Opcode]binOpFn{
	OpPlus:      valuePlus,
	OpMinus:     valueMinus,
	OpMult:      valueMult,
	OpDiv:       valueDiv,
	OpMod:       valueMod,
	OpPow:       valuePow,
	OpEq:        valueEq,
	OpNotEq:     valueNotEq,
	OpGreater:   valueGreater,
	OpGreaterEq: valueGreaterEq,
	OpLesser:    valueLesser,
	OpLesserEq:  valueLesserEq,
}

// Execute runs one function of a compiled program for every context.
// It returns the residual operand stack of the last context: one key
// per expression statement whose result was never popped.
func Execute(g *Globals, code *Code, fn int) ([]ValueKey, error) {
	if g.Contexts == nil {
		g.Contexts = NewFullContext(code.VarCount)
	}
	instructions := code.Funcs[fn]

	var stack []ValueKey
	for _, ctx := range g.Contexts.Iter() {
		stack = stack[:0]

		pop := func() ValueKey {
			k := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			return k
		}
		popClone := func() StoredValue {
			return g.Get(pop()).Clone()
		}
		push := func(k ValueKey) {
			stack = append(stack, k)
		}
		pushValue := func(sv StoredValue) {
			push(g.Insert(sv))
		}

		i := 0
		for i < len(instructions) {
			in := instructions[i]

			if op, ok := binOps[in.Op]; ok {
				b := pop()
				a := pop()
				res, err := op(g.Get(a), g.Get(b), in.Area)
				if err != nil {
					return nil, err
				}
				pushValue(res)
				i++
				continue
			}

			switch in.Op {
			case OpNegate:
				res, err := valueUnaryNegate(g.Get(pop()), in.Area)
				if err != nil {
					return nil, err
				}
				pushValue(res)

			case OpNot:
				res, err := valueUnaryNot(g.Get(pop()), in.Area)
				if err != nil {
					return nil, err
				}
				pushValue(res)

			case OpLoadConst:
				pushValue(code.Const(in.Arg).IntoStored(in.Area).Clone())

			case OpLoadVar:
				// shares the variable's key, no copy
				push(ctx.GetVar(in.Arg))

			case OpSetVar:
				// clones at bind time
				key := g.Insert(popClone())
				ctx.SetVar(in.Arg, key)

			case OpLoadType:
				name := code.Name(in.Arg)
				t, ok := g.Types[name]
				if !ok {
					return nil, &UndefinedTypeError{Name: name, Area: in.Area}
				}
				pushValue(TypeIndicatorValue(t).IntoStored(in.Area))

			case OpBuildArray:
				elems := make([]StoredValue, in.Arg)
				for j := in.Arg - 1; j >= 0; j-- {
					elems[j] = popClone()
				}
				pushValue(ArrayValue(elems).IntoStored(in.Area))

			case OpBuildDict:
				keys := code.NameSet(in.Arg)
				entries := make(map[string]StoredValue, len(keys))
				for _, k := range keys {
					entries[k] = popClone()
				}
				pushValue(DictValue(entries).IntoStored(in.Area))

			case OpPushEmpty:
				pushValue(EmptyValue().IntoStored(in.Area))

			case OpPushAnyPattern:
				pushValue(PatternValue(PatternAny).IntoStored(in.Area))

			case OpPopTop:
				pop()

			case OpJump:
				i = code.Dest(in.Arg)
				continue

			case OpJumpIfFalse:
				cond, err := valueToBool(g.Get(pop()), in.Area)
				if err != nil {
					return nil, err
				}
				if !cond {
					i = code.Dest(in.Arg)
					continue
				}

			case OpMakeMacro:
				info := code.MacroInfo(in.Arg)
				m := &Macro{FuncID: info.FuncID, RetType: popClone()}
				// the last declared argument's values sit on top, so
				// descriptors are iterated in stored order and the
				// collected list reversed afterwards
				for _, a := range info.Args {
					arg := MacroArg{Name: a.Name}
					if a.HasDefault {
						d := popClone()
						arg.Default = &d
					}
					if a.HasType {
						t := popClone()
						arg.Type = &t
					}
					m.Args = append(m.Args, arg)
				}
				for l, r := 0, len(m.Args)-1; l < r; l, r = l+1, r-1 {
					m.Args[l], m.Args[r] = m.Args[r], m.Args[l]
				}
				pushValue(MacroValue(m).IntoStored(in.Area))

			case OpCall:
				base := g.Get(pop())
				if base.Value.Tag != VTMacro {
					return nil, &CannotCallError{Base: *base, Area: in.Area}
				}
				var params []StoredValue
				named := make(map[string]StoredValue)
				for _, name := range code.NameSet(in.Arg) {
					if name == "" {
						params = append(params, popClone())
					} else {
						named[name] = popClone()
					}
				}
				// bound-frame construction and reentry are not part of
				// the single-function interpreter
				_ = params
				return nil, &UnimplementedError{Instruction: in.Op.String(), Area: in.Area}

			case OpIndex:
				idx := pop()
				base := pop()
				elem, err := indexValue(g.Get(base), g.Get(idx), in.Area)
				if err != nil {
					return nil, err
				}
				pushValue(elem)

			case OpPrint:
				top := g.Get(pop())
				if _, err := printColor.Fprintln(g.Out, top.Value.ToStr()); err != nil {
					return nil, fmt.Errorf("print: %w", err)
				}

			case OpEnterScope, OpExitScope, OpMergeContexts:
				// scope/context machinery is a no-op with one context

			default:
				return nil, &UnimplementedError{Instruction: in.Op.String(), Area: in.Area}
			}

			i++
		}
	}

	return stack, nil
}

// indexValue resolves base[index] for arrays (negative indices wrap)
// and dictionaries.
func indexValue(base, idx *StoredValue, area CodeArea) (StoredValue, error) {
	switch base.Value.Tag {
	case VTArray:
		if idx.Value.Tag != VTInt {
			return StoredValue{}, mismatch(area, base, idx)
		}
		elems := base.Value.Data.([]StoredValue)
		i := asInt(idx)
		if i < 0 && len(elems) > 0 {
			i = (i%int64(len(elems)) + int64(len(elems))) % int64(len(elems))
		}
		if i < 0 || i >= int64(len(elems)) {
			return StoredValue{}, &IndexError{Index: *idx, Length: len(elems), Area: area}
		}
		return elems[i].Clone(), nil

	case VTDict:
		if idx.Value.Tag != VTString {
			return StoredValue{}, mismatch(area, base, idx)
		}
		entries := base.Value.Data.(map[string]StoredValue)
		v, ok := entries[idx.Value.Data.(string)]
		if !ok {
			return StoredValue{}, &IndexError{Index: *idx, Length: len(entries), Area: area}
		}
		return v.Clone(), nil
	}
	return StoredValue{}, mismatch(area, base, idx)
}

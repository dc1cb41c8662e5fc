// value.go — runtime values.
//
// A Value follows the tag + payload shape: Tag says which variant the
// value is, Data holds the payload (int64, float64, string, bool,
// []StoredValue, map[string]StoredValue, ValueType, Pattern, *Macro,
// *ValueKey for maybes, or nil for the empty value). A StoredValue
// pairs a Value with the CodeArea that produced it; the heap arena
// stores StoredValues and everything else refers to them by key.
package spwn

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ValueType enumerates the runtime value variants.
type ValueType int

const (
	VTInt ValueType = iota
	VTFloat
	VTString
	VTBool
	VTEmpty
	VTMaybe
	VTArray
	VTDict
	VTTypeIndicator
	VTPattern
	VTGroup
	VTTriggerFunc
	VTMacro
)

// Name returns the language-level type name, as used in the type
// registry and in diagnostics.
func (t ValueType) Name() string {
	switch t {
	case VTInt:
		return "int"
	case VTFloat:
		return "float"
	case VTString:
		return "string"
	case VTBool:
		return "bool"
	case VTEmpty:
		return "empty"
	case VTMaybe:
		return "maybe"
	case VTArray:
		return "array"
	case VTDict:
		return "dictionary"
	case VTTypeIndicator:
		return "type_indicator"
	case VTPattern:
		return "pattern"
	case VTGroup:
		return "group"
	case VTTriggerFunc:
		return "trigger_function"
	case VTMacro:
		return "macro"
	}
	return "unknown"
}

// Pattern is a first-class description of a set of values. Only Any is
// in scope; richer patterns belong to the type system extension.
type Pattern int

const (
	PatternAny Pattern = iota
)

// MacroArg is one parameter descriptor of a macro: its name plus
// optional type pattern and default value.
type MacroArg struct {
	Name    string
	Type    *StoredValue
	Default *StoredValue
}

// Macro is the language's first-class callable: a function body index
// plus captured parameter descriptors and return type pattern.
type Macro struct {
	FuncID  int
	Args    []MacroArg
	RetType StoredValue
}

// Group and TriggerFunc are domain primitives reserved by the
// language; the in-scope interpreter only carries them as values.
type Group struct {
	ID int
}

type TriggerFunc struct {
	StartGroup Group
}

// Value is a tagged runtime value.
type Value struct {
	Tag  ValueType
	Data any
}

// constructors

func IntValue(v int64) Value       { return Value{Tag: VTInt, Data: v} }
func FloatValue(v float64) Value   { return Value{Tag: VTFloat, Data: v} }
func StringValue(v string) Value   { return Value{Tag: VTString, Data: v} }
func BoolValue(v bool) Value       { return Value{Tag: VTBool, Data: v} }
func EmptyValue() Value            { return Value{Tag: VTEmpty} }
func MaybeValue(k *ValueKey) Value { return Value{Tag: VTMaybe, Data: k} }

func ArrayValue(elems []StoredValue) Value {
	return Value{Tag: VTArray, Data: elems}
}

func DictValue(entries map[string]StoredValue) Value {
	return Value{Tag: VTDict, Data: entries}
}

func TypeIndicatorValue(t ValueType) Value {
	return Value{Tag: VTTypeIndicator, Data: t}
}

func PatternValue(p Pattern) Value { return Value{Tag: VTPattern, Data: p} }
func MacroValue(m *Macro) Value    { return Value{Tag: VTMacro, Data: m} }

// Type returns the value's ValueType.
func (v Value) Type() ValueType { return v.Tag }

// IntoStored annotates the value with its producing area.
func (v Value) IntoStored(area CodeArea) StoredValue {
	return StoredValue{Value: v, DefArea: area}
}

// ToStr renders the value's display form.
func (v Value) ToStr() string {
	switch v.Tag {
	case VTInt:
		return strconv.FormatInt(v.Data.(int64), 10)
	case VTFloat:
		return strconv.FormatFloat(v.Data.(float64), 'g', -1, 64)
	case VTString:
		return v.Data.(string)
	case VTBool:
		return strconv.FormatBool(v.Data.(bool))
	case VTEmpty:
		return "()"
	case VTMaybe:
		if v.Data == nil || v.Data.(*ValueKey) == nil {
			return "?"
		}
		return "maybe"
	case VTArray:
		elems := v.Data.([]StoredValue)
		parts := make([]string, 0, len(elems))
		for _, e := range elems {
			parts = append(parts, e.Value.ToStr())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case VTDict:
		entries := v.Data.(map[string]StoredValue)
		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, entries[k].Value.ToStr()))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case VTTypeIndicator:
		return "@" + v.Data.(ValueType).Name()
	case VTPattern:
		return "_"
	case VTGroup:
		return fmt.Sprintf("%dg", v.Data.(Group).ID)
	case VTTriggerFunc:
		return "!{...}"
	case VTMacro:
		m := v.Data.(*Macro)
		names := make([]string, 0, len(m.Args))
		for _, a := range m.Args {
			names = append(names, a.Name)
		}
		return "(" + strings.Join(names, ", ") + ") { ... }"
	}
	return "?"
}

// StoredValue is a value annotated with the area that defined it.
type StoredValue struct {
	Value   Value
	DefArea CodeArea
}

// Clone deep-copies the stored value. Aggregates copy their inline
// elements recursively; maybe keys keep pointing at the same heap slot.
func (s StoredValue) Clone() StoredValue {
	out := s
	switch s.Value.Tag {
	case VTArray:
		elems := s.Value.Data.([]StoredValue)
		cp := make([]StoredValue, len(elems))
		for i, e := range elems {
			cp[i] = e.Clone()
		}
		out.Value.Data = cp
	case VTDict:
		entries := s.Value.Data.(map[string]StoredValue)
		cp := make(map[string]StoredValue, len(entries))
		for k, e := range entries {
			cp[k] = e.Clone()
		}
		out.Value.Data = cp
	case VTMacro:
		m := s.Value.Data.(*Macro)
		cm := &Macro{FuncID: m.FuncID, RetType: m.RetType.Clone()}
		cm.Args = make([]MacroArg, len(m.Args))
		for i, a := range m.Args {
			ca := MacroArg{Name: a.Name}
			if a.Type != nil {
				t := a.Type.Clone()
				ca.Type = &t
			}
			if a.Default != nil {
				d := a.Default.Clone()
				ca.Default = &d
			}
			cm.Args[i] = ca
		}
		out.Value.Data = cm
	}
	return out
}

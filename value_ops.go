// value_ops.go — pure value operations backing the arithmetic,
// comparison and coercion opcodes.
//
// One function per opcode. Each takes borrowed StoredValues plus the
// area of the producing instruction and returns a fresh StoredValue or
// a runtime error. Numeric rule: Int∘Int stays Int, any Float operand
// promotes to Float. `+` also concatenates strings and arrays, `*`
// repeats a string by an int.
package spwn

import (
	"math"
	"strings"
)

func isNum(v *StoredValue) bool {
	return v.Value.Tag == VTInt || v.Value.Tag == VTFloat
}

func asFloat(v *StoredValue) float64 {
	if v.Value.Tag == VTInt {
		return float64(v.Value.Data.(int64))
	}
	return v.Value.Data.(float64)
}

func asInt(v *StoredValue) int64 { return v.Value.Data.(int64) }

func bothInt(a, b *StoredValue) bool {
	return a.Value.Tag == VTInt && b.Value.Tag == VTInt
}

func mismatch(area CodeArea, vals ...*StoredValue) error {
	cp := make([]StoredValue, len(vals))
	for i, v := range vals {
		cp[i] = *v
	}
	return &TypeMismatchError{Values: cp, Area: area}
}

func valuePlus(a, b *StoredValue, area CodeArea) (StoredValue, error) {
	switch {
	case bothInt(a, b):
		return IntValue(asInt(a) + asInt(b)).IntoStored(area), nil
	case isNum(a) && isNum(b):
		return FloatValue(asFloat(a) + asFloat(b)).IntoStored(area), nil
	case a.Value.Tag == VTString && b.Value.Tag == VTString:
		return StringValue(a.Value.Data.(string) + b.Value.Data.(string)).IntoStored(area), nil
	case a.Value.Tag == VTArray && b.Value.Tag == VTArray:
		left := a.Value.Data.([]StoredValue)
		right := b.Value.Data.([]StoredValue)
		out := make([]StoredValue, 0, len(left)+len(right))
		for _, e := range left {
			out = append(out, e.Clone())
		}
		for _, e := range right {
			out = append(out, e.Clone())
		}
		return ArrayValue(out).IntoStored(area), nil
	}
	return StoredValue{}, mismatch(area, a, b)
}

func valueMinus(a, b *StoredValue, area CodeArea) (StoredValue, error) {
	switch {
	case bothInt(a, b):
		return IntValue(asInt(a) - asInt(b)).IntoStored(area), nil
	case isNum(a) && isNum(b):
		return FloatValue(asFloat(a) - asFloat(b)).IntoStored(area), nil
	}
	return StoredValue{}, mismatch(area, a, b)
}

func valueMult(a, b *StoredValue, area CodeArea) (StoredValue, error) {
	switch {
	case bothInt(a, b):
		return IntValue(asInt(a) * asInt(b)).IntoStored(area), nil
	case isNum(a) && isNum(b):
		return FloatValue(asFloat(a) * asFloat(b)).IntoStored(area), nil
	case a.Value.Tag == VTString && b.Value.Tag == VTInt:
		n := asInt(b)
		if n < 0 {
			n = 0
		}
		return StringValue(strings.Repeat(a.Value.Data.(string), int(n))).IntoStored(area), nil
	}
	return StoredValue{}, mismatch(area, a, b)
}

func valueDiv(a, b *StoredValue, area CodeArea) (StoredValue, error) {
	switch {
	case bothInt(a, b):
		if asInt(b) == 0 {
			return StoredValue{}, &DivisionByZeroError{Area: area}
		}
		return IntValue(asInt(a) / asInt(b)).IntoStored(area), nil
	case isNum(a) && isNum(b):
		if asFloat(b) == 0 {
			return StoredValue{}, &DivisionByZeroError{Area: area}
		}
		return FloatValue(asFloat(a) / asFloat(b)).IntoStored(area), nil
	}
	return StoredValue{}, mismatch(area, a, b)
}

func valueMod(a, b *StoredValue, area CodeArea) (StoredValue, error) {
	switch {
	case bothInt(a, b):
		if asInt(b) == 0 {
			return StoredValue{}, &DivisionByZeroError{Area: area}
		}
		return IntValue(asInt(a) % asInt(b)).IntoStored(area), nil
	case isNum(a) && isNum(b):
		if asFloat(b) == 0 {
			return StoredValue{}, &DivisionByZeroError{Area: area}
		}
		return FloatValue(math.Mod(asFloat(a), asFloat(b))).IntoStored(area), nil
	}
	return StoredValue{}, mismatch(area, a, b)
}

func valuePow(a, b *StoredValue, area CodeArea) (StoredValue, error) {
	switch {
	case bothInt(a, b) && asInt(b) >= 0:
		// integer power stays integral
		out := int64(1)
		base, exp := asInt(a), asInt(b)
		for i := int64(0); i < exp; i++ {
			out *= base
		}
		return IntValue(out).IntoStored(area), nil
	case isNum(a) && isNum(b):
		return FloatValue(math.Pow(asFloat(a), asFloat(b))).IntoStored(area), nil
	}
	return StoredValue{}, mismatch(area, a, b)
}

// valueEquality is the deep structural equality behind == and !=.
// Values of different tags are unequal, except Int/Float which compare
// numerically.
func valueEquality(a, b *StoredValue) bool {
	if isNum(a) && isNum(b) {
		if bothInt(a, b) {
			return asInt(a) == asInt(b)
		}
		return asFloat(a) == asFloat(b)
	}
	if a.Value.Tag != b.Value.Tag {
		return false
	}
	switch a.Value.Tag {
	case VTString:
		return a.Value.Data.(string) == b.Value.Data.(string)
	case VTBool:
		return a.Value.Data.(bool) == b.Value.Data.(bool)
	case VTEmpty:
		return true
	case VTArray:
		left := a.Value.Data.([]StoredValue)
		right := b.Value.Data.([]StoredValue)
		if len(left) != len(right) {
			return false
		}
		for i := range left {
			if !valueEquality(&left[i], &right[i]) {
				return false
			}
		}
		return true
	case VTDict:
		left := a.Value.Data.(map[string]StoredValue)
		right := b.Value.Data.(map[string]StoredValue)
		if len(left) != len(right) {
			return false
		}
		for k, lv := range left {
			rv, ok := right[k]
			if !ok || !valueEquality(&lv, &rv) {
				return false
			}
		}
		return true
	case VTTypeIndicator:
		return a.Value.Data.(ValueType) == b.Value.Data.(ValueType)
	case VTPattern:
		return a.Value.Data.(Pattern) == b.Value.Data.(Pattern)
	case VTGroup:
		return a.Value.Data.(Group) == b.Value.Data.(Group)
	case VTMacro:
		return a.Value.Data == b.Value.Data
	}
	return false
}

func valueEq(a, b *StoredValue, area CodeArea) (StoredValue, error) {
	return BoolValue(valueEquality(a, b)).IntoStored(area), nil
}

func valueNotEq(a, b *StoredValue, area CodeArea) (StoredValue, error) {
	return BoolValue(!valueEquality(a, b)).IntoStored(area), nil
}

func compareNumOrString(a, b *StoredValue) (int, bool) {
	if isNum(a) && isNum(b) {
		af, bf := asFloat(a), asFloat(b)
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}
	if a.Value.Tag == VTString && b.Value.Tag == VTString {
		return strings.Compare(a.Value.Data.(string), b.Value.Data.(string)), true
	}
	return 0, false
}

func valueGreater(a, b *StoredValue, area CodeArea) (StoredValue, error) {
	c, ok := compareNumOrString(a, b)
	if !ok {
		return StoredValue{}, mismatch(area, a, b)
	}
	return BoolValue(c > 0).IntoStored(area), nil
}

func valueGreaterEq(a, b *StoredValue, area CodeArea) (StoredValue, error) {
	c, ok := compareNumOrString(a, b)
	if !ok {
		return StoredValue{}, mismatch(area, a, b)
	}
	return BoolValue(c >= 0).IntoStored(area), nil
}

func valueLesser(a, b *StoredValue, area CodeArea) (StoredValue, error) {
	c, ok := compareNumOrString(a, b)
	if !ok {
		return StoredValue{}, mismatch(area, a, b)
	}
	return BoolValue(c < 0).IntoStored(area), nil
}

func valueLesserEq(a, b *StoredValue, area CodeArea) (StoredValue, error) {
	c, ok := compareNumOrString(a, b)
	if !ok {
		return StoredValue{}, mismatch(area, a, b)
	}
	return BoolValue(c <= 0).IntoStored(area), nil
}

func valueUnaryNegate(a *StoredValue, area CodeArea) (StoredValue, error) {
	switch a.Value.Tag {
	case VTInt:
		return IntValue(-asInt(a)).IntoStored(area), nil
	case VTFloat:
		return FloatValue(-a.Value.Data.(float64)).IntoStored(area), nil
	}
	return StoredValue{}, mismatch(area, a)
}

func valueUnaryNot(a *StoredValue, area CodeArea) (StoredValue, error) {
	if a.Value.Tag != VTBool {
		return StoredValue{}, mismatch(area, a)
	}
	return BoolValue(!a.Value.Data.(bool)).IntoStored(area), nil
}

// valueToBool coerces a value used as a condition. Only booleans
// convert.
func valueToBool(a *StoredValue, area CodeArea) (bool, error) {
	if a.Value.Tag != VTBool {
		return false, mismatch(area, a)
	}
	return a.Value.Data.(bool), nil
}

// value_ops_test.go
package spwn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sv(v Value) StoredValue { return StoredValue{Value: v} }

func binOK(t *testing.T, fn binOpFn, a, b Value) Value {
	t.Helper()
	av, bv := sv(a), sv(b)
	out, err := fn(&av, &bv, CodeArea{})
	require.NoError(t, err)
	return out.Value
}

func binErr(t *testing.T, fn binOpFn, a, b Value) error {
	t.Helper()
	av, bv := sv(a), sv(b)
	_, err := fn(&av, &bv, CodeArea{})
	require.Error(t, err)
	return err
}

func Test_ValueOps_Plus(t *testing.T) {
	assert.Equal(t, IntValue(3), binOK(t, valuePlus, IntValue(1), IntValue(2)))
	assert.Equal(t, FloatValue(3.5), binOK(t, valuePlus, IntValue(1), FloatValue(2.5)))
	assert.Equal(t, FloatValue(3.5), binOK(t, valuePlus, FloatValue(1.5), IntValue(2)))
	assert.Equal(t, StringValue("ab"), binOK(t, valuePlus, StringValue("a"), StringValue("b")))

	arr := binOK(t, valuePlus,
		ArrayValue([]StoredValue{sv(IntValue(1))}),
		ArrayValue([]StoredValue{sv(IntValue(2)), sv(IntValue(3))}))
	require.Equal(t, VTArray, arr.Tag)
	assert.Len(t, arr.Data.([]StoredValue), 3)

	err := binErr(t, valuePlus, IntValue(1), StringValue("x"))
	var tm *TypeMismatchError
	require.True(t, errors.As(err, &tm))
	assert.Len(t, tm.Values, 2)
}

func Test_ValueOps_Minus(t *testing.T) {
	assert.Equal(t, IntValue(-1), binOK(t, valueMinus, IntValue(1), IntValue(2)))
	assert.Equal(t, FloatValue(0.5), binOK(t, valueMinus, FloatValue(2.5), IntValue(2)))
	binErr(t, valueMinus, StringValue("a"), StringValue("b"))
}

func Test_ValueOps_Mult(t *testing.T) {
	assert.Equal(t, IntValue(6), binOK(t, valueMult, IntValue(2), IntValue(3)))
	assert.Equal(t, FloatValue(5.0), binOK(t, valueMult, FloatValue(2.5), IntValue(2)))
	assert.Equal(t, StringValue("ababab"), binOK(t, valueMult, StringValue("ab"), IntValue(3)))
	// repeating a negative number of times is the empty string
	assert.Equal(t, StringValue(""), binOK(t, valueMult, StringValue("ab"), IntValue(-2)))
	binErr(t, valueMult, BoolValue(true), IntValue(2))
}

func Test_ValueOps_Div(t *testing.T) {
	assert.Equal(t, IntValue(3), binOK(t, valueDiv, IntValue(7), IntValue(2)))
	assert.Equal(t, FloatValue(3.5), binOK(t, valueDiv, FloatValue(7), IntValue(2)))

	err := binErr(t, valueDiv, IntValue(1), IntValue(0))
	var dz *DivisionByZeroError
	assert.True(t, errors.As(err, &dz))

	err = binErr(t, valueDiv, FloatValue(1), FloatValue(0))
	assert.True(t, errors.As(err, &dz))
}

func Test_ValueOps_Mod(t *testing.T) {
	assert.Equal(t, IntValue(1), binOK(t, valueMod, IntValue(7), IntValue(2)))
	assert.Equal(t, FloatValue(1.5), binOK(t, valueMod, FloatValue(7.5), IntValue(2)))

	err := binErr(t, valueMod, IntValue(1), IntValue(0))
	var dz *DivisionByZeroError
	assert.True(t, errors.As(err, &dz))
}

func Test_ValueOps_Pow(t *testing.T) {
	assert.Equal(t, IntValue(8), binOK(t, valuePow, IntValue(2), IntValue(3)))
	assert.Equal(t, IntValue(1), binOK(t, valuePow, IntValue(2), IntValue(0)))
	// a negative integer exponent drops to the float path
	assert.Equal(t, FloatValue(0.5), binOK(t, valuePow, IntValue(2), IntValue(-1)))
	assert.Equal(t, FloatValue(6.25), binOK(t, valuePow, FloatValue(2.5), IntValue(2)))
	binErr(t, valuePow, StringValue("a"), IntValue(2))
}

func Test_ValueOps_Equality(t *testing.T) {
	assert.Equal(t, BoolValue(true), binOK(t, valueEq, IntValue(1), IntValue(1)))
	assert.Equal(t, BoolValue(true), binOK(t, valueEq, IntValue(1), FloatValue(1.0)))
	assert.Equal(t, BoolValue(false), binOK(t, valueEq, IntValue(1), StringValue("1")))
	assert.Equal(t, BoolValue(true), binOK(t, valueEq, EmptyValue(), EmptyValue()))
	assert.Equal(t, BoolValue(true), binOK(t, valueNotEq, IntValue(1), IntValue(2)))

	a := ArrayValue([]StoredValue{sv(IntValue(1)), sv(StringValue("x"))})
	b := ArrayValue([]StoredValue{sv(IntValue(1)), sv(StringValue("x"))})
	c := ArrayValue([]StoredValue{sv(IntValue(1))})
	assert.Equal(t, BoolValue(true), binOK(t, valueEq, a, b))
	assert.Equal(t, BoolValue(false), binOK(t, valueEq, a, c))

	d1 := DictValue(map[string]StoredValue{"k": sv(IntValue(1))})
	d2 := DictValue(map[string]StoredValue{"k": sv(IntValue(1))})
	d3 := DictValue(map[string]StoredValue{"k": sv(IntValue(2))})
	assert.Equal(t, BoolValue(true), binOK(t, valueEq, d1, d2))
	assert.Equal(t, BoolValue(false), binOK(t, valueEq, d1, d3))
}

func Test_ValueOps_Comparisons(t *testing.T) {
	assert.Equal(t, BoolValue(true), binOK(t, valueGreater, IntValue(2), IntValue(1)))
	assert.Equal(t, BoolValue(true), binOK(t, valueGreaterEq, IntValue(2), FloatValue(2.0)))
	assert.Equal(t, BoolValue(true), binOK(t, valueLesser, StringValue("a"), StringValue("b")))
	assert.Equal(t, BoolValue(false), binOK(t, valueLesserEq, StringValue("b"), StringValue("a")))
	binErr(t, valueGreater, IntValue(1), StringValue("a"))
}

func Test_ValueOps_UnaryNegate(t *testing.T) {
	a := sv(IntValue(3))
	out, err := valueUnaryNegate(&a, CodeArea{})
	require.NoError(t, err)
	assert.Equal(t, IntValue(-3), out.Value)

	f := sv(FloatValue(2.5))
	out, err = valueUnaryNegate(&f, CodeArea{})
	require.NoError(t, err)
	assert.Equal(t, FloatValue(-2.5), out.Value)

	s := sv(StringValue("x"))
	_, err = valueUnaryNegate(&s, CodeArea{})
	assert.Error(t, err)
}

func Test_ValueOps_UnaryNot(t *testing.T) {
	b := sv(BoolValue(true))
	out, err := valueUnaryNot(&b, CodeArea{})
	require.NoError(t, err)
	assert.Equal(t, BoolValue(false), out.Value)

	n := sv(IntValue(1))
	_, err = valueUnaryNot(&n, CodeArea{})
	assert.Error(t, err)
}

// Conditions do not truthy-coerce: only booleans convert.
func Test_ValueOps_ToBool(t *testing.T) {
	b := sv(BoolValue(true))
	ok, err := valueToBool(&b, CodeArea{})
	require.NoError(t, err)
	assert.True(t, ok)

	n := sv(IntValue(1))
	_, err = valueToBool(&n, CodeArea{})
	var tm *TypeMismatchError
	assert.True(t, errors.As(err, &tm))
}

func Test_Value_ToStr(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{IntValue(42), "42"},
		{FloatValue(2.5), "2.5"},
		{StringValue("hi"), "hi"},
		{BoolValue(true), "true"},
		{EmptyValue(), "()"},
		{ArrayValue([]StoredValue{sv(IntValue(1)), sv(StringValue("x"))}), "[1, x]"},
		{DictValue(map[string]StoredValue{"b": sv(IntValue(2)), "a": sv(IntValue(1))}), "{a: 1, b: 2}"},
		{TypeIndicatorValue(VTInt), "@int"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.v.ToStr())
	}
}

func Test_Value_CloneIsDeep(t *testing.T) {
	inner := []StoredValue{sv(IntValue(1))}
	orig := sv(ArrayValue(inner))
	cp := orig.Clone()

	inner[0] = sv(IntValue(99))
	got := cp.Value.Data.([]StoredValue)
	assert.Equal(t, IntValue(1), got[0].Value)
}

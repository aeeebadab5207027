package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScalar_Booleans(t *testing.T) {
	assert.Equal(t, Bool(true), ParseScalar("true"))
	assert.Equal(t, Bool(false), ParseScalar("false"))
	assert.Equal(t, Bool(true), ParseScalar("True"), "boolean parse is case-insensitive")
}

func TestParseScalar_Numbers(t *testing.T) {
	assert.Equal(t, Number(150), ParseScalar("150"))
	assert.Equal(t, Number(-2.5), ParseScalar("-2.5"))
	assert.Equal(t, Number(0), ParseScalar("0"))
}

func TestParseScalar_Strings(t *testing.T) {
	assert.Equal(t, String("hello"), ParseScalar("hello"))
	assert.Equal(t, String("150"), ParseScalar(`"150"`), "quotes force a string")
	assert.Equal(t, String("true"), ParseScalar("'true'"))
	assert.Equal(t, String(""), ParseScalar(`""`))
}

func TestRender(t *testing.T) {
	assert.Equal(t, "hello", Render(String("hello")))
	assert.Equal(t, "150", Render(Number(150)), "whole numbers render without decimals")
	assert.Equal(t, "2.5", Render(Number(2.5)))
	assert.Equal(t, "true", Render(Bool(true)))
	assert.Equal(t, "", Render(nil))
}

func TestValueFromAny(t *testing.T) {
	v, err := ValueFromAny("hi")
	assert.NoError(t, err)
	assert.Equal(t, String("hi"), v)

	v, err = ValueFromAny(7)
	assert.NoError(t, err)
	assert.Equal(t, Number(7), v)

	v, err = ValueFromAny(true)
	assert.NoError(t, err)
	assert.Equal(t, Bool(true), v)

	_, err = ValueFromAny([]string{"no"})
	assert.Error(t, err, "non-scalars are rejected")
}

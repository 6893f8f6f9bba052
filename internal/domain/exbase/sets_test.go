package exbase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatternSet_OrderedAndUnique(t *testing.T) {
	a := MustParsePattern("a-*-*-*-*")
	b := MustParsePattern("b-*-*-*-*")
	s := NewPatternSet(a, b, MustParsePattern("a-*-*-*-*"))

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []Pattern{a, b}, s.Patterns())
	assert.False(t, s.Add(a))

	assert.True(t, s.Remove(a))
	assert.False(t, s.Remove(a))
	assert.Equal(t, []Pattern{b}, s.Patterns())
	assert.True(t, s.Add(a))
	assert.Equal(t, []Pattern{b, a}, s.Patterns())
}

func TestPatternSet_MatchFirstInInsertionOrder(t *testing.T) {
	wide := MustParsePattern("*-*-*-*-*")
	narrow := MustParsePattern("x-*-*-*-*")
	s := NewPatternSet(narrow, wide)

	p, ok := s.Match(MustParseKey("x-HAT-#-#-#"))
	assert.True(t, ok)
	assert.Equal(t, narrow, p)

	p, ok = s.Match(MustParseKey("y-HAT-#-#-#"))
	assert.True(t, ok)
	assert.Equal(t, wide, p)

	var empty PatternSet
	_, ok = empty.Match(MustParseKey("y-HAT-#-#-#"))
	assert.False(t, ok)
}

func TestPatternSet_EqualIgnoresOrder(t *testing.T) {
	a := MustParsePattern("a-*-*-*-*")
	b := MustParsePattern("b-*-*-*-*")
	assert.True(t, NewPatternSet(a, b).Equal(NewPatternSet(b, a)))
	assert.False(t, NewPatternSet(a).Equal(NewPatternSet(b)))

	c := NewPatternSet(a)
	d := c.Clone()
	d.Add(b)
	assert.Equal(t, 1, c.Len())
}

func TestKeySet_Semantics(t *testing.T) {
	k1 := MustParseKey("a-HAT-#-#-#")
	k2 := MustParseKey("b-HAT-#-#-#")
	s := NewKeySet(k1, k2, k1)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []Key{k1, k2}, s.Keys())
	assert.True(t, s.Contains(k2))
	assert.True(t, s.Remove(k1))
	assert.Equal(t, []Key{k2}, s.Keys())
	assert.True(t, NewKeySet(k1, k2).Equal(NewKeySet(k2, k1)))

	var zero KeySet
	assert.True(t, zero.IsEmpty())
	assert.True(t, zero.Add(k1))
}

// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package unique

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := NewSet("a", "b", "a")
	assert.Len(t, s, 2)
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("c"))
	assert.True(t, s.AddNew("c"))
	assert.False(t, s.AddNew("c"))
	var empty Set[int]
	assert.False(t, empty.Has(1))
}

func TestList(t *testing.T) {
	l := NewList(3, 1, 3, 2, 1)
	assert.Equal(t, []int{3, 1, 2}, l.List)
	assert.True(t, l.Has(2))
	assert.False(t, l.Add(1))
	assert.True(t, l.Add(4))
	assert.Equal(t, []int{3, 1, 2, 4}, l.List)

	var zero List[string]
	assert.False(t, zero.Has("x"))
	zero.Append("x", "x")
	assert.Equal(t, []string{"x"}, zero.List)
}

func TestErrors(t *testing.T) {
	var errs Errors
	assert.Nil(t, errs.Err())
	assert.False(t, errs.Add(nil))
	assert.True(t, errs.Add(errors.New("one")))
	assert.EqualError(t, errs.Err(), "one")
	assert.False(t, errs.Add(errors.New("one")))
	errs.Add(errors.New("two"))
	assert.EqualError(t, errs.Err(), "one\ntwo")
}

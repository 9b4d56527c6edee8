// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

// package unique provides sets and ordered lists without duplicates.
package unique

import "errors"

// Set of comparable values. A nil Set can be read but not added to.
type Set[T comparable] map[T]struct{}

func NewSet[T comparable](vs ...T) Set[T] {
	s := Set[T]{}
	for _, v := range vs {
		s.Add(v)
	}
	return s
}

func (s Set[T]) Has(v T) bool { _, ok := s[v]; return ok }
func (s Set[T]) Add(v T)      { s[v] = struct{}{} }

// AddNew adds v and returns true if it was not already present.
func (s Set[T]) AddNew(v T) bool {
	if s.Has(v) {
		return false
	}
	s.Add(v)
	return true
}

// List of unique values in the order they were first added.
// A zero List can be used immediately.
type List[T comparable] struct {
	List []T
	set  Set[T]
}

func NewList[T comparable](values ...T) *List[T] {
	l := &List[T]{}
	l.Append(values...)
	return l
}

// Add a value if not already present, return true if the value was added.
func (l *List[T]) Add(v T) bool {
	if l.set == nil {
		l.set = Set[T]{}
	}
	if !l.set.AddNew(v) {
		return false
	}
	l.List = append(l.List, v)
	return true
}

func (l *List[T]) Has(v T) bool { return l.set.Has(v) }

func (l *List[T]) Append(values ...T) {
	for _, v := range values {
		_ = l.Add(v)
	}
}

// Errors collects errors with unique messages, discards duplicates.
// A zero Errors can be used immediately.
type Errors struct {
	err  error
	seen Set[string]
}

// Err returns the errors joined with [errors.Join], or nil.
func (e *Errors) Err() error { return e.err }

// Add an error if no error with the same message was added.
func (e *Errors) Add(err error) bool {
	if err == nil {
		return false
	}
	if e.seen == nil {
		e.seen = Set[string]{}
	}
	if !e.seen.AddNew(err.Error()) {
		return false
	}
	e.err = errors.Join(e.err, err)
	return true
}

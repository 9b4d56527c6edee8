// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package network

import (
	"errors"
	"fmt"
)

// DuplicateIDError is returned when adding an entity with an ID that is already in use.
type DuplicateIDError struct{ ID ID }

func (e DuplicateIDError) Error() string { return fmt.Sprintf("duplicate identifier: %v", e.ID) }

// MissingVertexError is returned when adding an edge with an endpoint that is not in the graph.
type MissingVertexError struct {
	ID   ID // Missing vertex
	Edge ID // Edge being added
}

func (e MissingVertexError) Error() string {
	return fmt.Sprintf("edge %v: vertex not found: %v", e.Edge, e.ID)
}

// MissingEdgeError is returned when modifying an edge that is not in the graph.
type MissingEdgeError struct{ ID ID }

func (e MissingEdgeError) Error() string { return fmt.Sprintf("edge not found: %v", e.ID) }

// WeightError is returned when setting a negative or NaN edge weight.
type WeightError struct {
	ID     ID
	Weight float64
}

func (e WeightError) Error() string {
	return fmt.Sprintf("edge %v: invalid weight %v, must not be negative", e.ID, e.Weight)
}

// IsErrorType returns true if err or an error it wraps has type T.
func IsErrorType[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package aggregate

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Method defines how edge values are computed and combined.
type Method interface {
	// Name of the method, as used in configuration.
	Name() string
	// Combine two contributions.
	Combine(a, b float64) float64
	// Seed computes the contribution of an edge itself, from its attribute value,
	// the number of parent edges and the number of sibling edges (including the edge itself).
	Seed(value float64, parents, siblings int) float64
	// Distribute adjusts the value of a parent edge shared by siblings.
	Distribute(value float64, siblings int) (float64, error)
	// SupportsUpstream is true if the method can aggregate against the native edge direction.
	SupportsUpstream() bool
}

var (
	// Add sums attribute values, splitting a value evenly where the network splits.
	Add Method = add{}
	// SplitFactor computes the fraction of flow from the starts that passes each edge.
	SplitFactor Method = splitFactor{}
)

var methods = []Method{Add, SplitFactor}

// MethodNames returns the names of all methods.
func MethodNames() []string {
	var names []string
	for _, m := range methods {
		names = append(names, m.Name())
	}
	return names
}

// MethodByName returns the method with a case insensitive name.
func MethodByName(name string) (Method, error) {
	i := slices.IndexFunc(methods, func(m Method) bool { return strings.EqualFold(m.Name(), name) })
	if i < 0 {
		return nil, ConfigError{Message: fmt.Sprintf("invalid aggregate method: %q, expecting one of %v", name, MethodNames())}
	}
	return methods[i], nil
}

type add struct{}

func (add) Name() string                                 { return "ADD" }
func (add) Combine(a, b float64) float64                 { return a + b }
func (add) Seed(value float64, _, _ int) float64         { return value }
func (add) Distribute(v float64, n int) (float64, error) { return split(v, n) }
func (add) SupportsUpstream() bool                       { return true }

type splitFactor struct{}

func (splitFactor) Name() string                 { return "SPLITFACTOR" }
func (splitFactor) Combine(a, b float64) float64 { return a + b }

// Seed is non-zero only for edges that start a path.
func (splitFactor) Seed(_ float64, parents, siblings int) float64 {
	if parents < 1 && siblings > 0 {
		return 1 / float64(siblings)
	}
	return 0
}

func (splitFactor) Distribute(v float64, n int) (float64, error) { return split(v, n) }
func (splitFactor) SupportsUpstream() bool                       { return false }

func split(v float64, n int) (float64, error) {
	if n < 1 {
		return 0, InvariantError{Message: fmt.Sprintf("cannot distribute value over %v edges", n)}
	}
	return v / float64(n), nil
}

// Float converts an attribute value to float64.
// Missing or nil values are 0.
func Float(v any) (float64, error) {
	switch v := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, nil
		}
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("not a number: %v (%T)", v, v)
	}
}

// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

// Package enumflag is a flag value restricted to a list of allowed strings.
// Implements standard flag.Value and cobra pflag.Value
package enumflag

import (
	"fmt"
	"slices"
	"strings"
)

// Value holds one of Allowed. The empty string is accepted as "not set".
type Value struct {
	Value   string
	Allowed []string
}

// New value with a default, the default must be empty or one of allowed.
func New(value string, allowed ...string) *Value {
	v := &Value{Allowed: slices.Sorted(slices.Values(allowed))}
	if err := v.Set(value); err != nil {
		panic(err)
	}
	return v
}

func (v *Value) String() string { return v.Value }

// Set accepts an allowed value, ignoring case.
func (v *Value) Set(x string) error {
	if x == "" {
		v.Value = ""
		return nil
	}
	i := slices.IndexFunc(v.Allowed, func(a string) bool { return strings.EqualFold(a, x) })
	if i < 0 {
		return fmt.Errorf("invalid value %q, expected one of: %v", x, strings.Join(v.Allowed, ", "))
	}
	v.Value = v.Allowed[i]
	return nil
}

func (v *Value) Type() string { return strings.Join(v.Allowed, "|") }

// DocString appends the allowed values to a flag usage message.
func (v *Value) DocString(msg string) string {
	w := &strings.Builder{}
	if msg != "" {
		fmt.Fprintf(w, "%v: ", msg)
	}
	fmt.Fprintf(w, "one of %v", strings.Join(v.Allowed, ", "))
	return w.String()
}

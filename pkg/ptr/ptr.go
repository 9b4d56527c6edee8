// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

// package ptr provides pointer-related functions
package ptr

// To returns a pointer to the value of v for any type.
func To[T any](v T) *T { return &v }

// ValueOr returns the value pointed at, or def if the pointer is nil.
// Used for optional configuration fields where nil means "use the default".
func ValueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

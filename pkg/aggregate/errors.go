// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package aggregate

// ConfigError is returned for an invalid method or direction.
type ConfigError struct{ Message string }

func (e ConfigError) Error() string { return e.Message }

// InvariantError means the trace graph is malformed, aggregation cannot continue.
type InvariantError struct{ Message string }

func (e InvariantError) Error() string { return e.Message }

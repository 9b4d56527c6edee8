// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package tracing

// ConfigError is returned for invalid trace parameters.
type ConfigError struct{ Message string }

func (e ConfigError) Error() string { return e.Message }

var (
	errNoStart       = ConfigError{Message: "no source vertex or edge"}
	errStartMismatch = ConfigError{Message: "provided both source edge and vertex that don't match"}
	errWeight        = ConfigError{Message: "maxPathWeight must be positive"}
)

// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package engine

import (
	"fmt"

	"github.com/netrace/netrace/pkg/network"
)

// StartNotFoundError is returned if a start identifier is not a vertex or edge of the graph.
type StartNotFoundError struct{ ID network.ID }

func (e StartNotFoundError) Error() string { return fmt.Sprintf("start not found: %v", e.ID) }

func IsStartNotFound(err error) bool { return network.IsErrorType[StartNotFoundError](err) }

// InconsistentTraceError is returned if an ordered walk does not reach every element of a trace.
type InconsistentTraceError struct {
	What             string
	Walked, Expected int
}

func (e InconsistentTraceError) Error() string {
	return fmt.Sprintf("inconsistent trace: ordered %v %v of %v", e.Walked, e.What, e.Expected)
}

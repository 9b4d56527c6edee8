// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package service

import "time"

// Status of the graph held by a [Service].
type Status string

const (
	Uninitialized Status = "UNINITIALIZED" // Never loaded.
	Loading       Status = "LOADING"
	Ready         Status = "READY"
	Failed        Status = "FAILED" // Last load failed, a previous graph may still be served.
)

// StatusInfo describes the graph currently served.
type StatusInfo struct {
	Status Status `json:"status"`
	// Serial increases each time a new graph is loaded.
	Serial int64 `json:"serial"`
	// Loaded is the time the current graph was loaded.
	Loaded   *time.Time `json:"loaded,omitempty"`
	Vertices int        `json:"vertices"`
	Edges    int        `json:"edges"`
	// Error from the last failed load.
	Error string `json:"error,omitempty"`
}

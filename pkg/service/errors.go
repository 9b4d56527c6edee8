// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package service

import (
	"fmt"

	"github.com/netrace/netrace/pkg/network"
)

// NotReadyError is returned by operations that need a graph before one has been loaded.
type NotReadyError struct{ Status Status }

func (e NotReadyError) Error() string { return fmt.Sprintf("graph not ready: %v", e.Status) }

// IsNotReady is true if err is or wraps a [NotReadyError].
func IsNotReady(err error) bool { return network.IsErrorType[NotReadyError](err) }

// BusyError is returned by [Service.TryLoad] while another load is in progress.
type BusyError struct{}

func (BusyError) Error() string { return "graph is already loading" }

// IsBusy is true if err is or wraps a [BusyError].
func IsBusy(err error) bool { return network.IsErrorType[BusyError](err) }

// RequestError is returned for an invalid trace request.
type RequestError struct{ Err error }

func (e RequestError) Error() string { return fmt.Sprintf("invalid request: %v", e.Err) }
func (e RequestError) Unwrap() error { return e.Err }

// IsRequestError is true if err is or wraps a [RequestError].
func IsRequestError(err error) bool { return network.IsErrorType[RequestError](err) }

func requestError(format string, args ...any) error {
	return RequestError{Err: fmt.Errorf(format, args...)}
}

// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

// package must handles errors in commands by panic, and recovers them at exit.
package must

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Must panics if err != nil.
// If format is provided, the panic value is fmt.Errorf(format...) wrapping err.
func Must(err error, format ...any) {
	if err == nil {
		return
	}
	if len(format) > 0 {
		err = fmt.Errorf("%v: %w", fmt.Sprintf(format[0].(string), format[1:]...), err)
	}
	panic(err)
}

// Must1 calls Must(err), then returns v.
func Must1[T any](v T, err error) T { Must(err); return v }

// Exit is called by os.Exit, tests can replace it.
var Exit = os.Exit

// Recover must be deferred at the top of main.
// A panic with an error value prints the error to w and exits with status 1,
// other panics are propagated. If *repanic is true all panics propagate.
// repanic is a pointer so it can refer to a flag that is parsed after the defer.
func Recover(w io.Writer, repanic *bool) {
	r := recover()
	if r == nil {
		return
	}
	err, ok := r.(error)
	if !ok || (repanic != nil && *repanic) {
		panic(r)
	}
	var exit ExitError
	if errors.As(err, &exit) {
		Exit(exit.Code)
		return
	}
	fmt.Fprintln(w, err)
	Exit(1)
}

// ExitError exits with a status code and no message.
type ExitError struct{ Code int }

func (e ExitError) Error() string { return fmt.Sprintf("exit status %v", e.Code) }

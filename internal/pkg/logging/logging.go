// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

// package logging initializes the root logger and provides some helpers.
package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

const verboseEnv = "NETRACE_VERBOSE"

var root logr.Logger

// The root logger.
func Log() logr.Logger { return root }

func init() { // Set env verbosity on init, Init() can over-ride.
	root = stdr.New(log.New(os.Stderr, "netrace ", log.Ltime))
	if n, err := strconv.Atoi(os.Getenv(verboseEnv)); err == nil {
		stdr.SetVerbosity(n)
	}
}

// Init sets verbosity for the Root logger.
func Init(verbosity int) {
	if verbosity != 0 { // If not set, let env verbosity stand
		stdr.SetVerbosity(verbosity)
	}
}

// JSONString returns the JSON marshaled string from v, or the error message if marshal fails
func JSONString(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%q", err.Error())
	}
	return string(b)
}

type logJSON struct{ v any }

func (l logJSON) MarshalLog() any { return JSONString(l.v) }

// JSON wraps a value so it will be printed as JSON if logged.
func JSON(v any) logr.Marshaler { return logJSON{v: v} }

// LogWriter returns a writer that logs each line at the given verbosity.
// Used to capture output from libraries that write to an io.Writer.
func LogWriter(verbosity int) io.Writer { return lineWriter{log: root.V(verbosity)} }

type lineWriter struct{ log logr.Logger }

func (w lineWriter) Write(b []byte) (int, error) {
	if w.log.Enabled() {
		for line := range bytes.Lines(b) {
			if line = bytes.TrimSpace(line); len(line) > 0 {
				w.log.Info(string(line))
			}
		}
	}
	return len(b), nil
}

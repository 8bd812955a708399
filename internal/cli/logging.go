// Package cli parses the command line, loads configuration and runs commands.
package cli

import (
	"io"
	"log"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// NewLogger returns a logger writing to w. Verbosity 1 (debug detail) is
// enabled only when debug is set; errors are always printed.
func NewLogger(w io.Writer, debug bool) logr.Logger {
	if debug {
		stdr.SetVerbosity(1)
	} else {
		stdr.SetVerbosity(0)
	}
	return stdr.New(log.New(w, "taskdeck: ", log.LstdFlags))
}

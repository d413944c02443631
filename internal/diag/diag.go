// Package diag is jb2go's ambient diagnostics sink: load-time and
// pipeline-failure messages that are not part of the public
// CompilerReturnCode contract, which is reserved for construction-
// and pass-time failures. Grounded on cmd/compile's own main.go, which
// calls log.SetFlags(0) and log.SetPrefix("compile: ") rather than reach
// for a structured logger — the toolchain deliberately minimizes its
// dependency surface for its most bootstrap-critical binaries, and jb2go
// follows that precedent here rather than import a third-party logger for
// a concern this thin.
package diag

import (
	"io"
	"log"
	"os"
)

// Logger is a thin, per-Compiler wrapper over log.Logger: every line it
// writes is prefixed with the owning Compiler's name, matching
// cmd/compile's "compile: " convention one level more specifically
// ("jb2go[name]: ").
type Logger struct {
	l *log.Logger
}

// New returns a Logger that writes to w (os.Stderr if w is nil) prefixed
// with the given Compiler name.
func New(w io.Writer, compilerName string) *Logger {
	if w == nil {
		w = os.Stderr
	}
	prefix := "jb2go: "
	if compilerName != "" {
		prefix = "jb2go[" + compilerName + "]: "
	}
	return &Logger{l: log.New(w, prefix, 0)}
}

// Printf writes one formatted diagnostic line.
func (d *Logger) Printf(format string, args ...any) { d.l.Printf(format, args...) }

// Print writes one diagnostic line built the way fmt.Sprint does.
func (d *Logger) Print(args ...any) { d.l.Print(args...) }

// Package errs implements the CompilerReturnCode taxonomy and the
// CompilationException construction-time error type.
package errs

import (
	"fmt"
	"strings"
	"sync"
)

// ReturnCode is an opaque integer identifying a compiler return code. The
// core reserves the first three values; every loaded extension registers
// additional codes with human-readable names.
type ReturnCode int

const (
	// CompileSuccessful is returned by a Pass (and ultimately by a
	// Compilation) that completed without error.
	CompileSuccessful ReturnCode = iota
	// CompileNotStarted names the state before any Compile call. It has a
	// registered name, but no code in this module returns it.
	CompileNotStarted
	// CompileFailed is the generic pipeline failure code used when a Pass
	// fails without registering a more specific code.
	CompileFailed

	firstExtensionCode
)

// Registry assigns and names ReturnCodes for one Compiler. It is not a
// process-global table — two Compilers in the same process (e.g. two
// tests running in parallel) get independent numbering after the three
// reserved codes, since everything extension-related is scoped to one
// Compiler's extension list.
type Registry struct {
	mu    sync.Mutex
	next  ReturnCode
	names map[ReturnCode]string
}

// NewRegistry returns a Registry pre-seeded with the three reserved codes.
func NewRegistry() *Registry {
	return &Registry{
		next: firstExtensionCode,
		names: map[ReturnCode]string{
			CompileSuccessful:  "CompileSuccessful",
			CompileNotStarted:  "CompileNotStarted",
			CompileFailed:      "CompileFailed",
		},
	}
}

// Register assigns a fresh ReturnCode for name. Extensions call this once
// per distinct failure taxon they want callers to be able to distinguish.
func (r *Registry) Register(name string) ReturnCode {
	r.mu.Lock()
	defer r.mu.Unlock()
	code := r.next
	r.next++
	r.names[code] = name
	return code
}

// Name returns the human-readable name for code, or "<unknown return
// code>" if it was never registered on this Registry.
func (r *Registry) Name(code ReturnCode) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name, ok := r.names[code]; ok {
		return name
	}
	return "<unknown return code>"
}

// CompilationException is raised by construction-time validation failures:
// bad operand types, duplicate case literals, binding an already-bound
// Builder, and similar. It carries the triggered ReturnCode and a
// multi-line diagnostic.
type CompilationException struct {
	Code       ReturnCode
	CodeName   string
	Where      string
	Diagnostic string
}

// New builds a CompilationException. diagLines are joined one per line, so
// a checker can report each input, its type, and the expected type.
func New(code ReturnCode, codeName, where string, diagLines ...string) *CompilationException {
	return &CompilationException{
		Code:       code,
		CodeName:   codeName,
		Where:      where,
		Diagnostic: strings.Join(diagLines, "\n"),
	}
}

func (e *CompilationException) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", e.CodeName)
	if e.Where != "" {
		fmt.Fprintf(&b, " at %s", e.Where)
	}
	if e.Diagnostic != "" {
		b.WriteString(":\n")
		b.WriteString(e.Diagnostic)
	}
	return b.String()
}

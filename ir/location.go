package ir

import "fmt"

// Location is an optional source-position hint client code attaches to
// Operations and CompilationExceptions.
type Location struct {
	File string
	Line int
}

// NoLocation is used when client code does not track source positions.
var NoLocation = Location{}

func (l Location) String() string {
	if l.File == "" {
		return "<unknown location>"
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// IsZero reports whether l carries no information.
func (l Location) IsZero() bool { return l == Location{} }

package sample

import (
	"testing"

	"github.com/mstoodle/jb2go/extension"
	"github.com/mstoodle/jb2go/ir"
)

// newTestExtension builds an IR whose host has a loaded sample.Extension,
// plus a fresh entry Builder to append Operations to.
func newTestExtension(t *testing.T) (*ir.IR, *Extension, *ir.Builder) {
	t.Helper()
	host := extension.NewHost(t.Name())
	ext := New()
	if err := host.Load(ir.NoLocation, ext); err != nil {
		t.Fatalf("Load sample extension: %v", err)
	}
	r := ir.New(t.Name(), host.Actions(), host.Checkers(), 64)
	t.Cleanup(r.Release)
	b := r.RootScope().NewEntryBuilder()
	return r, ext, b
}

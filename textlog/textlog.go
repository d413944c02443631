// Package textlog implements the reference TextLogger: a
// deterministic ir.Logger sink, plus Dump, which renders an entire IR in
// a fixed order (Types, Literals, Symbols, then
// Scopes/Builders/Operations) using the "<indent>[ <tag> <body> ]" line
// shape for structural markers and each Operation's own Log for its
// one-line form.
package textlog

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mstoodle/jb2go/ir"
)

// Logger is a deterministic, indenting ir.Logger that writes to an
// io.Writer — the reference TextLogger implementation,
// good enough to assert against in tests (unlike a production logger, it
// makes no attempt at rotation, levels, or concurrency safety beyond what
// a single Compilation's single-threaded pass loop already guarantees).
type Logger struct {
	w      io.Writer
	indent int
}

// New wraps w as a textlog.Logger.
func New(w io.Writer) *Logger { return &Logger{w: w} }

func (l *Logger) Line(s string) {
	fmt.Fprintf(l.w, "%s%s\n", strings.Repeat("  ", l.indent), s)
}

func (l *Logger) Indent() { l.indent++ }

func (l *Logger) Outdent() {
	if l.indent > 0 {
		l.indent--
	}
}

// Dump renders r's entire contents to l in a fixed order:
// Types, Literals, Symbols, then Scopes/Builders/Operations. Types,
// Literals, and Symbols are sorted by name before being emitted — their
// dictionaries store them in a plain map with no ordering guarantee
// (internal/arena.Map.LocalValues's documented contract), and a dump
// meant to be diffed or golden-tested needs one.
func Dump(l ir.Logger, r *ir.IR) {
	l.Line("[ Types ]")
	l.Indent()
	types := r.Types().LocalTypes()
	sort.Slice(types, func(i, j int) bool { return types[i].Name() < types[j].Name() })
	for _, t := range types {
		l.Line(fmt.Sprintf("%s : %d bits", t.Name(), t.SizeInBits()))
	}
	l.Outdent()

	l.Line("[ Literals ]")
	l.Indent()
	lits := r.Literals().LocalLiterals()
	sort.Slice(lits, func(i, j int) bool {
		if lits[i].Type().Name() != lits[j].Type().Name() {
			return lits[i].Type().Name() < lits[j].Type().Name()
		}
		return fmt.Sprintf("%x", lits[i].Bytes()) < fmt.Sprintf("%x", lits[j].Bytes())
	})
	for _, lit := range lits {
		l.Line(fmt.Sprintf("%s %x", lit.Type().Name(), lit.Bytes()))
	}
	l.Outdent()

	l.Line("[ Symbols ]")
	l.Indent()
	syms := r.RootContext().Symbols().LocalSymbols()
	sort.Slice(syms, func(i, j int) bool { return syms[i].Name() < syms[j].Name() })
	for _, s := range syms {
		l.Line(fmt.Sprintf("%s : %s", s.Name(), s.Type().Name()))
	}
	l.Outdent()

	l.Line("[ Scopes ]")
	l.Indent()
	d := &scopeDumper{l: l}
	d.scope(r.RootScope())
	l.Outdent()
}

// scopeDumper walks the Scope tree depth-first, labeling each Builder it
// visits (entry Builders, their transitively-owned child Builders, then
// exit Builders) with a sequential index determined purely by traversal
// order — never by arena.ID, which depends on allocation order elsewhere
// in the IR and would make the dump unstable across unrelated changes.
type scopeDumper struct {
	l    ir.Logger
	next int
}

func (d *scopeDumper) scope(s *ir.Scope) {
	for _, b := range s.EntryBuilders() {
		d.builder(b, "entry")
	}
	for _, c := range s.Children() {
		d.scope(c)
	}
	for _, b := range s.ExitBuilders() {
		d.builder(b, "exit")
	}
}

func (d *scopeDumper) builder(b *ir.Builder, tag string) {
	id := d.next
	d.next++
	d.l.Line(fmt.Sprintf("[ Builder %d %s ]", id, tag))
	d.l.Indent()
	for _, op := range b.Operations() {
		op.Log(d.l)
		for _, child := range op.ChildBuilders() {
			d.builder(child, "child")
		}
	}
	d.l.Outdent()
}

// Command jbdemo builds and runs one of a handful of tiny programs
// against the sample Extension's interpreter, to exercise the IR/
// Extension/Builder/Compilation pipeline end to end without a test
// harness. It mirrors the teacher's cmd/compile/main.go archInits
// table: jbdemo's demos table plays the same role, keyed by program
// name instead of GOARCH.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mstoodle/jb2go/compiler"
	"github.com/mstoodle/jb2go/ir"
	"github.com/mstoodle/jb2go/sample"
	"github.com/mstoodle/jb2go/textlog"
)

// demos maps a program name to a builder that populates b with
// Operations and returns the int64 argument list to invoke entry 0
// with once compiled.
var demos = map[string]func(ext *sample.Extension, b *ir.Builder) []int64{
	"add":    addDemo,
	"loop":   loopDemo,
	"switch": switchDemo,
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("jbdemo: ")

	name := flag.String("demo", "add", "demo program to run (add, loop, switch)")
	dump := flag.Bool("dump", false, "dump the built IR before compiling")
	flag.Parse()

	build, ok := demos[*name]
	if !ok {
		fmt.Fprintf(os.Stderr, "jbdemo: unknown demo %q (known: add, loop, switch)\n", *name)
		os.Exit(2)
	}

	ext := sample.New()
	c := compiler.New("jbdemo", compiler.WithLogger(os.Stderr))
	if err := c.LoadExtension(ir.NoLocation, ext); err != nil {
		log.Fatalf("LoadExtension: %v", err)
	}

	unit := c.NewCompileUnit(*name)
	b := unit.IR().RootScope().NewEntryBuilder()
	args := build(ext, b)

	if *dump {
		textlog.Dump(textlog.New(os.Stderr), unit.IR())
	}

	strategy := c.RegisterStrategy(sample.NewInterpreter(ext))
	body, err := unit.Compile(strategy, nil)
	if err != nil {
		log.Fatalf("Compile: %v", err)
	}

	fn, ok := body.Entry(0)
	if !ok {
		log.Fatal("compiled body has no entry 0")
	}
	closure, ok := fn.(func(args ...int64) int64)
	if !ok {
		log.Fatalf("entry 0 has unexpected type %T", fn)
	}

	fmt.Println(closure(args...))
}

// addDemo builds a single Add(left, right) and returns its result.
func addDemo(ext *sample.Extension, b *ir.Builder) []int64 {
	i64 := b.IR().Types().Int64()
	left := ext.Const(ir.NoLocation, b, ir.NewIntLiteral(i64, 19))
	right := ext.Const(ir.NoLocation, b, ir.NewIntLiteral(i64, 23))
	if _, err := ext.Add(ir.NoLocation, b, left, right); err != nil {
		log.Fatalf("addDemo: Add: %v", err)
	}
	return nil
}

// loopDemo builds a ForLoopUp(0, 5, 1) whose body
// calls back into a Go function printing the current counter value.
func loopDemo(ext *sample.Extension, b *ir.Builder) []int64 {
	i64 := b.IR().Types().Int64()
	loopVar := b.IR().RootContext().DefineLocal("i", i64)

	initial := ext.Const(ir.NoLocation, b, ir.NewIntLiteral(i64, 0))
	final := ext.Const(ir.NoLocation, b, ir.NewIntLiteral(i64, 5))
	increment := ext.Const(ir.NoLocation, b, ir.NewIntLiteral(i64, 1))

	_, body, _, _, err := ir.ForLoopUp(b, ir.NoLocation, loopVar, initial, final, increment)
	if err != nil {
		log.Fatalf("loopDemo: ForLoopUp: %v", err)
	}
	counter := ext.Load(ir.NoLocation, body, loopVar)
	report := func(i int64) int64 {
		fmt.Printf("  loop iteration i=%d\n", i)
		return i
	}
	ext.Call(ir.NoLocation, body, report, i64, counter)
	return nil
}

// switchDemo builds a three-case Switch where the
// matching case falls through into the next one.
func switchDemo(ext *sample.Extension, b *ir.Builder) []int64 {
	i64 := b.IR().Types().Int64()
	selector := ext.Const(ir.NoLocation, b, ir.NewIntLiteral(i64, 1))

	_, cases, defaultB, err := ir.Switch(b, ir.NoLocation, selector, []ir.SwitchCase{
		{Value: ir.NewIntLiteral(i64, 0)},
		{Value: ir.NewIntLiteral(i64, 1), FallsThrough: true},
		{Value: ir.NewIntLiteral(i64, 2)},
	}, true)
	if err != nil {
		log.Fatalf("switchDemo: Switch: %v", err)
	}

	report := func(label int64) int64 {
		fmt.Printf("  switch case %d ran\n", label)
		return label
	}
	for i, c := range cases {
		tag := ext.Const(ir.NoLocation, c.Body, ir.NewIntLiteral(i64, int64(i)))
		ext.Call(ir.NoLocation, c.Body, report, i64, tag)
	}
	tagD := ext.Const(ir.NoLocation, defaultB, ir.NewIntLiteral(i64, -1))
	ext.Call(ir.NoLocation, defaultB, report, i64, tagD)
	return nil
}

package textlog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mstoodle/jb2go/compile"
)

func TestDumpCompiledBodyDisassemblesAttachedCode(t *testing.T) {
	body := compile.NewCompiledBody(compile.CompileSuccessful)
	body.AddEntry(0, func() {})
	body.AddNativeCode(0, []byte{0x90, 0xc3}) // NOP; RET

	var buf bytes.Buffer
	DumpCompiledBody(New(&buf), body)
	out := buf.String()

	if !strings.Contains(out, "CompiledBody") {
		t.Fatalf("expected a CompiledBody header, got %q", out)
	}
	if !strings.Contains(out, "entry 0") {
		t.Fatalf("expected an entry 0 line, got %q", out)
	}
	if strings.Contains(out, "undecodable") {
		t.Fatalf("expected NOP and RET to both decode cleanly: %q", out)
	}
	if strings.Count(out, "0x") < 3 { // the entry's address plus one offset per instruction
		t.Fatalf("expected per-instruction offset lines, got %q", out)
	}
}

func TestDumpCompiledBodySkipsDisassemblyWithoutNativeCode(t *testing.T) {
	body := compile.NewCompiledBody(compile.CompileSuccessful)
	body.AddEntry(0, func() {})

	var buf bytes.Buffer
	DumpCompiledBody(New(&buf), body)
	if strings.Contains(buf.String(), "undecodable") {
		t.Fatal("no attached native code means no disassembly attempt at all")
	}
}

package textlog

import (
	"fmt"
	"sort"

	"golang.org/x/arch/x86/x86asm"

	"github.com/mstoodle/jb2go/compile"
	"github.com/mstoodle/jb2go/ir"
)

// DumpCompiledBody writes a summary of body to l: its StrategyID and
// ReturnCode, then one line per EntryID giving its address (from
// CompiledBody.NativeEntry) and, when the generator attached raw machine
// code via AddNativeCode, an amd64 disassembly of it. This is new debug-
// only code, not a port of any legacy disassembler: it never participates
// in compilation semantics, and every jb2go code generator shipped in
// this repo (the sample extension's interpreter) never attaches native
// code, so the disassembly branch is dead weight until a real
// native-code-emitting extension exists — it's wired here so that
// extension has somewhere to plug in.
func DumpCompiledBody(l ir.Logger, body *compile.CompiledBody) {
	l.Line(fmt.Sprintf("[ CompiledBody strategy %s returnCode %d ]", body.StrategyID(), body.ReturnCode()))
	l.Indent()
	defer l.Outdent()

	ids := body.EntryIDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		addr, _ := body.NativeEntry(id)
		l.Line(fmt.Sprintf("[ entry %d addr 0x%x ]", id, addr))
		code, ok := body.NativeCode(id)
		if !ok {
			continue
		}
		l.Indent()
		disassembleAMD64(l, code)
		l.Outdent()
	}
}

// disassembleAMD64 decodes code as a sequence of 64-bit x86 instructions,
// writing one Intel-syntax line per instruction. It stops (noting how many
// bytes remain) at the first byte sequence x86asm can't decode, rather
// than failing the whole dump.
func disassembleAMD64(l ir.Logger, code []byte) {
	pc := uint64(0)
	for len(code) > 0 {
		inst, err := x86asm.Decode(code, 64)
		if err != nil {
			l.Line(fmt.Sprintf("; %d undecodable byte(s) remain", len(code)))
			return
		}
		l.Line(fmt.Sprintf("%#04x: %s", pc, x86asm.IntelSyntax(inst, pc, nil)))
		code = code[inst.Len:]
		pc += uint64(inst.Len)
	}
}

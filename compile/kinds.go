package compile

import "github.com/mstoodle/jb2go/kind"

// Compilation and CompiledBody are rooted in the process-wide kind tree
// like every other ExtensibleKind base, even though no
// extension in this repo refines either — the registration exists so a
// future extension-supplied Compilation subclass (e.g. one carrying extra
// per-strategy state) has a kind to refine from, matching how ir.KindIR
// and extension.KindExtension are registered ahead of any actual use.
var (
	KindCompilation = kind.Register("compile.Compilation", kind.None)
	KindCompiledBody = kind.Register("compile.CompiledBody", kind.None)
)

package compile

import "github.com/mstoodle/jb2go/internal/errs"

// ReturnCode is internal/errs.ReturnCode under the name used
// throughout the compilation pipeline ("CompilerReturnCode"). Aliased
// rather than redefined so a Pass can compare directly against
// errs.CompileSuccessful/errs.CompileFailed without an import in every
// extension package that writes a Pass.
type ReturnCode = errs.ReturnCode

const (
	CompileSuccessful = errs.CompileSuccessful
	CompileNotStarted = errs.CompileNotStarted
	CompileFailed     = errs.CompileFailed
)

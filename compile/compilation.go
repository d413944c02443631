package compile

import (
	"github.com/mstoodle/jb2go/ir"
	"github.com/mstoodle/jb2go/kind"
)

// Compilation pairs an IR with a Strategy and per-compilation configuration:
// it holds the CompileUnit's top-level Context and root Scope (via its IR),
// and — once the Strategy's
// final Pass runs — the output CompiledBody. A Compilation is created for
// and discarded at the end of one CompileUnit.Compile call; the
// CompiledBody it produces outlives it.
type Compilation struct {
	unit     *CompileUnit
	strategy *Strategy
	logger   ir.Logger

	body *CompiledBody
}

func newCompilation(unit *CompileUnit, strategy *Strategy, logger ir.Logger) *Compilation {
	return &Compilation{unit: unit, strategy: strategy, logger: logger}
}

func (c *Compilation) Kind() kind.ID { return KindCompilation }

// IR returns the CompileUnit's IR a Pass should walk/rewrite.
func (c *Compilation) IR() *ir.IR { return c.unit.ir }

// CompileUnit returns the CompileUnit this Compilation is running for.
func (c *Compilation) CompileUnit() *CompileUnit { return c.unit }

// Strategy returns the Strategy being run.
func (c *Compilation) Strategy() *Strategy { return c.strategy }

// Logger returns the installed ir.Logger, or nil if none was supplied to
// Compile.
func (c *Compilation) Logger() ir.Logger { return c.logger }

// SetCompiledBody records the output of a code-generation Pass. Only the
// last Pass in a Strategy is expected to call this; CompileUnit.Compile
// fails the compilation if no Pass ever does.
func (c *Compilation) SetCompiledBody(b *CompiledBody) { c.body = b }

// CompiledBody returns whatever the Strategy has produced so far (nil until
// a Pass calls SetCompiledBody).
func (c *Compilation) CompiledBody() *CompiledBody { return c.body }

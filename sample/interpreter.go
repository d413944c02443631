package sample

import (
	"reflect"

	"github.com/mstoodle/jb2go/compile"
	"github.com/mstoodle/jb2go/ir"
)

// Interpreter is the sample extension's code generator: a compile.Pass
// that, for each of the IR's entry Builders, produces a Go closure that
// directly executes the IR's Operations against a scalar (int64-valued)
// evaluation environment — standing in for a real machine-code backend,
// which this repo does not provide.
//
// Interpreter dispatches core structured/unstructured control-flow
// Operations (ForLoopUp, IfThenElse, Switch, Goto, IfCmp*, AppendBuilder)
// generically by name, and dispatches this Extension's own Operations
// (Add, Sub, Const, Load, Store, Call) the same way, without needing a
// literal ActionID-keyed table, since this interpreter recognizes only
// the fixed, known vocabulary of one Extension plus the core.
type Interpreter struct {
	ext *Extension
}

// NewInterpreter returns a compile.Pass that interprets IR built against
// ext's Operations.
func NewInterpreter(ext *Extension) *Interpreter { return &Interpreter{ext: ext} }

func (p *Interpreter) Name() string { return "sample.interpret" }

// Perform registers one native entry per root-Scope entry Builder: a
// func(args ...int64) int64 that binds args to the IR's Parameters (in
// Index order) and executes the Builder. Its return value is what run
// returns for the entry Builder: the value of the last sample Operation
// executed directly in it (or in a Builder it continues into through
// AppendBuilder, Goto or a taken IfCmp*); Operations inside a ForLoopUp,
// IfThenElse or Switch region do not change it. This is a convention adequate for this
// reference interpreter's demo programs, which are about call side
// effects and control-flow shape rather than a return value.
func (p *Interpreter) Perform(c *compile.Compilation) compile.ReturnCode {
	r := c.IR()
	body := compile.NewCompiledBody(compile.CompileSuccessful)
	for i, entry := range r.RootScope().EntryBuilders() {
		entry := entry
		fn := func(args ...int64) int64 {
			e := newEnv()
			bindParameters(r, e, args)
			return p.run(entry, e)
		}
		body.AddEntry(compile.EntryID(i), fn)
	}
	c.SetCompiledBody(body)
	return compile.CompileSuccessful
}

// env is the interpreter's evaluation state: one int64 per live Value (its
// SSA-style result) and one int64 per Symbol currently bound (parameters
// and locals, mutated in place by Store and by ForLoopUp's loop variable).
type env struct {
	values map[*ir.Value]int64
	locals map[ir.Symbol]int64
}

func newEnv() *env {
	return &env{values: map[*ir.Value]int64{}, locals: map[ir.Symbol]int64{}}
}

func (e *env) value(v *ir.Value) int64        { return e.values[v] }
func (e *env) setValue(v *ir.Value, x int64)  { e.values[v] = x }
func (e *env) symbol(s ir.Symbol) int64       { return e.locals[s] }
func (e *env) setSymbol(s ir.Symbol, x int64) { e.locals[s] = x }

// bindParameters assigns args, in order, to r's ParameterSymbols sorted by
// their Index.
func bindParameters(r *ir.IR, e *env, args []int64) {
	var params []*ir.ParameterSymbol
	for _, s := range r.RootContext().Symbols().LocalSymbols() {
		if p, ok := s.(*ir.ParameterSymbol); ok {
			params = append(params, p)
		}
	}
	for i := 0; i < len(params); i++ {
		for j := i + 1; j < len(params); j++ {
			if params[j].Index < params[i].Index {
				params[i], params[j] = params[j], params[i]
			}
		}
	}
	for i, p := range params {
		if i < len(args) {
			e.setSymbol(p, args[i])
		}
	}
}

// run executes b's Operations in order and returns the last value any of
// them produced.
func (p *Interpreter) run(b *ir.Builder, e *env) int64 {
	var last int64
	for _, op := range b.Operations() {
		switch op.Owner() {
		case "core":
			switch op.Name() {
			case "ForLoopUp":
				p.runForLoopUp(op, e)
			case "IfThenElse":
				p.runIfThenElse(op, e)
			case "Switch":
				p.runSwitch(op, e)
			case "Goto":
				target, ok := ir.GotoTarget(op)
				if ok {
					return p.run(target, e)
				}
			case "IfCmpEqual", "IfCmpNotEqual", "IfCmpGreaterThan", "IfCmpGreaterOrEqual", "IfCmpLessThan", "IfCmpLessOrEqual":
				if p.evalCmp(op, e) {
					if target, ok := ir.IfCmpTarget(op); ok {
						return p.run(target, e)
					}
				}
			case "AppendBuilder":
				if children := op.ChildBuilders(); len(children) == 1 {
					last = p.run(children[0], e)
				}
			}
		case "sample":
			last = p.runSample(op, e)
		}
	}
	return last
}

func (p *Interpreter) runForLoopUp(op ir.Operation, e *env) {
	loopVar, initial, final, increment, body, breakB, continueB, ok := ir.ForLoopUpInfo(op)
	if !ok {
		return
	}
	finalV := e.value(final)
	inc := e.value(increment)
	e.setSymbol(loopVar, e.value(initial))

	for loopCondHolds(e.symbol(loopVar), finalV, inc) {
		p.run(body, e)
		p.run(continueB, e)
		e.setSymbol(loopVar, e.symbol(loopVar)+inc)
	}
	p.run(breakB, e)
}

func loopCondHolds(cur, final, inc int64) bool {
	if inc >= 0 {
		return cur < final
	}
	return cur > final
}

func (p *Interpreter) runIfThenElse(op ir.Operation, e *env) {
	operands := op.Operands()
	thenB, elseB, ok := ir.IfThenElseBuilders(op)
	if !ok || len(operands) != 1 {
		return
	}
	if e.value(operands[0]) != 0 {
		p.run(thenB, e)
	} else if elseB != nil {
		p.run(elseB, e)
	}
}

func (p *Interpreter) runSwitch(op ir.Operation, e *env) {
	selector, cases, defaultB, ok := ir.SwitchInfo(op)
	if !ok {
		return
	}
	selVal := e.value(selector)
	for i, c := range cases {
		if c.Value.IntValue() != selVal {
			continue
		}
		for j := i; j < len(cases); j++ {
			p.run(cases[j].Body, e)
			if !cases[j].FallsThrough {
				return
			}
		}
		return
	}
	if defaultB != nil {
		p.run(defaultB, e)
	}
}

func (p *Interpreter) evalCmp(op ir.Operation, e *env) bool {
	operands := op.Operands()
	if len(operands) != 2 {
		return false
	}
	l, r := e.value(operands[0]), e.value(operands[1])
	switch op.Name() {
	case "IfCmpEqual":
		return l == r
	case "IfCmpNotEqual":
		return l != r
	case "IfCmpGreaterThan":
		return l > r
	case "IfCmpGreaterOrEqual":
		return l >= r
	case "IfCmpLessThan":
		return l < r
	case "IfCmpLessOrEqual":
		return l <= r
	default:
		return false
	}
}

func (p *Interpreter) runSample(op ir.Operation, e *env) int64 {
	switch op.Name() {
	case "Const":
		lits := op.LiteralOperands()
		if len(lits) != 1 {
			return 0
		}
		v := lits[0].IntValue()
		if results := op.Results(); len(results) == 1 {
			e.setValue(results[0], v)
		}
		return v
	case "Add":
		operands := op.Operands()
		v := e.value(operands[0]) + e.value(operands[1])
		if results := op.Results(); len(results) == 1 {
			e.setValue(results[0], v)
		}
		return v
	case "Sub":
		operands := op.Operands()
		v := e.value(operands[0]) - e.value(operands[1])
		if results := op.Results(); len(results) == 1 {
			e.setValue(results[0], v)
		}
		return v
	case "Load":
		syms := op.SymbolOperands()
		if len(syms) != 1 {
			return 0
		}
		v := e.symbol(syms[0])
		if results := op.Results(); len(results) == 1 {
			e.setValue(results[0], v)
		}
		return v
	case "Store":
		syms := op.SymbolOperands()
		operands := op.Operands()
		if len(syms) != 1 || len(operands) != 1 {
			return 0
		}
		v := e.value(operands[0])
		e.setSymbol(syms[0], v)
		return v
	case "Call":
		return p.runCall(op, e)
	default:
		return 0
	}
}

// runCall invokes the foreign Go function attached to op via reflection,
// converting each int64 operand to that parameter's declared type and
// converting a single returned value back to int64.
func (p *Interpreter) runCall(op ir.Operation, e *env) int64 {
	ce, ok := op.Extra().(callExtra)
	if !ok || ce.Fn == nil {
		return 0
	}
	fnVal := reflect.ValueOf(ce.Fn)
	fnType := fnVal.Type()
	operands := op.Operands()
	args := make([]reflect.Value, len(operands))
	for i, operand := range operands {
		v := reflect.ValueOf(e.value(operand))
		if i < fnType.NumIn() {
			v = v.Convert(fnType.In(i))
		}
		args[i] = v
	}
	out := fnVal.Call(args)
	var result int64
	if len(out) > 0 && out[0].CanInt() {
		result = out[0].Int()
	}
	if results := op.Results(); len(results) == 1 {
		e.setValue(results[0], result)
	}
	return result
}

package ir

import "testing"

func TestGotoMarksTargetAndTerminatesBuilder(t *testing.T) {
	r := newTestIR(t)
	b := r.RootScope().NewEntryBuilder()
	target := r.RootScope().NewFreeBuilder()
	op, err := Goto(b, NoLocation, target)
	if err != nil {
		t.Fatalf("Goto: %v", err)
	}
	if !target.IsTarget() {
		t.Fatal("Goto must mark its destination Builder as a target")
	}
	if b.ControlReachesEnd() {
		t.Fatal("an unconditional Goto must set ControlReachesEnd false")
	}
	got, ok := GotoTarget(op)
	if !ok || got != target {
		t.Fatal("GotoTarget must recover the original target")
	}
}

func TestGotoRejectsNilTarget(t *testing.T) {
	r := newTestIR(t)
	b := r.RootScope().NewEntryBuilder()
	if _, err := Goto(b, NoLocation, nil); err == nil {
		t.Fatal("Goto(nil target) must fail")
	}
}

func TestIfCmpRequiresMatchingTypes(t *testing.T) {
	r := newTestIR(t)
	b := r.RootScope().NewEntryBuilder()
	target := r.RootScope().NewFreeBuilder()
	left := NewValue(r.arena, "x", r.Types().Int32())
	right := NewValue(r.arena, "y", r.Types().Int64())
	if _, err := IfCmp(b, NoLocation, CmpEqual, left, right, target); err == nil {
		t.Fatal("IfCmp must reject operands of different Types")
	}
}

func TestIfCmpDoesNotTerminate(t *testing.T) {
	r := newTestIR(t)
	b := r.RootScope().NewEntryBuilder()
	target := r.RootScope().NewFreeBuilder()
	i32 := r.Types().Int32()
	left := NewValue(r.arena, "x", i32)
	right := NewValue(r.arena, "y", i32)
	if _, err := IfCmp(b, NoLocation, CmpEqual, left, right, target); err != nil {
		t.Fatalf("IfCmp: %v", err)
	}
	if !b.ControlReachesEnd() {
		t.Fatal("a conditional IfCmp must leave ControlReachesEnd true (the false path falls through)")
	}
}

func TestForLoopUpBindsThreeChildBuilders(t *testing.T) {
	r := newTestIR(t)
	b := r.RootScope().NewEntryBuilder()
	i32 := r.Types().Int32()
	loopVar := r.RootContext().DefineLocal("i", i32)
	initial := NewValue(r.arena, "", i32)
	final := NewValue(r.arena, "", i32)
	increment := NewValue(r.arena, "", i32)

	op, body, breakB, continueB, err := ForLoopUp(b, NoLocation, loopVar, initial, final, increment)
	if err != nil {
		t.Fatalf("ForLoopUp: %v", err)
	}
	for name, child := range map[string]*Builder{"body": body, "break": breakB, "continue": continueB} {
		if child.Boundness() != Must {
			t.Fatalf("%s Builder boundness = %v, want Must", name, child.Boundness())
		}
		if child.BoundTo() != op {
			t.Fatalf("%s Builder must be bound to the ForLoopUp Operation", name)
		}
	}
	gotVar, gotInitial, gotFinal, gotIncrement, gotBody, gotBreak, gotContinue, ok := ForLoopUpInfo(op)
	if !ok {
		t.Fatal("ForLoopUpInfo must decode a ForLoopUp Operation")
	}
	if gotVar != loopVar || gotInitial != initial || gotFinal != final || gotIncrement != increment {
		t.Fatal("ForLoopUpInfo must recover the original operands/symbol")
	}
	if gotBody != body || gotBreak != breakB || gotContinue != continueB {
		t.Fatal("ForLoopUpInfo must recover the original child Builders")
	}
}

func TestForLoopUpRejectsNonIntegerLoopVar(t *testing.T) {
	r := newTestIR(t)
	b := r.RootScope().NewEntryBuilder()
	f32 := r.Types().Float32()
	loopVar := r.RootContext().DefineLocal("i", f32)
	v := NewValue(r.arena, "", f32)
	if _, _, _, _, err := ForLoopUp(b, NoLocation, loopVar, v, v, v); err == nil {
		t.Fatal("ForLoopUp must reject a non-integer loop variable")
	}
}

func TestIfThenElseWithAndWithoutElse(t *testing.T) {
	r := newTestIR(t)
	b := r.RootScope().NewEntryBuilder()
	cond := NewValue(r.arena, "", r.Types().Int32())

	op, thenB, elseB, err := IfThenElse(b, NoLocation, cond, true)
	if err != nil {
		t.Fatalf("IfThenElse(hasElse=true): %v", err)
	}
	if thenB.BoundTo() != op || elseB.BoundTo() != op {
		t.Fatal("both then and else Builders must bind to the IfThenElse Operation")
	}
	gotThen, gotElse, ok := IfThenElseBuilders(op)
	if !ok || gotThen != thenB || gotElse != elseB {
		t.Fatal("IfThenElseBuilders must recover then/else")
	}

	b2 := r.RootScope().NewEntryBuilder()
	op2, then2, else2, err := IfThenElse(b2, NoLocation, cond, false)
	if err != nil {
		t.Fatalf("IfThenElse(hasElse=false): %v", err)
	}
	if else2 != nil {
		t.Fatal("hasElse=false must leave elseB nil")
	}
	gotThen2, gotElse2, ok := IfThenElseBuilders(op2)
	if !ok || gotThen2 != then2 || gotElse2 != nil {
		t.Fatal("IfThenElseBuilders must report a nil else region when absent")
	}
}

func TestSwitchWithDefaultAndWithout(t *testing.T) {
	r := newTestIR(t)
	b := r.RootScope().NewEntryBuilder()
	i32 := r.Types().Int32()
	selector := NewValue(r.arena, "", i32)
	cases := []SwitchCase{{Value: NewIntLiteral(i32, 1)}, {Value: NewIntLiteral(i32, 2)}}

	op, gotCases, defaultB, err := Switch(b, NoLocation, selector, cases, true)
	if err != nil {
		t.Fatalf("Switch: %v", err)
	}
	if len(gotCases) != 2 {
		t.Fatalf("got %d cases, want 2", len(gotCases))
	}
	if defaultB == nil {
		t.Fatal("Switch must create a default Builder when requested")
	}
	gotSelector, infoCases, infoDefault, ok := SwitchInfo(op)
	if !ok {
		t.Fatal("SwitchInfo must decode a Switch Operation")
	}
	if gotSelector != selector || len(infoCases) != 2 || infoDefault != defaultB {
		t.Fatal("SwitchInfo must recover selector/cases/default")
	}
	for i, c := range infoCases {
		if !c.Value.Equal(cases[i].Value) {
			t.Fatalf("case %d value mismatch", i)
		}
		if c.Body.BoundTo() != op {
			t.Fatalf("case %d Builder must be bound to the Switch Operation", i)
		}
	}

	b2 := r.RootScope().NewEntryBuilder()
	op2, _, defaultB2, err := Switch(b2, NoLocation, selector, cases, false)
	if err != nil {
		t.Fatalf("Switch without default: %v", err)
	}
	if defaultB2 != nil {
		t.Fatal("Switch without a requested default must leave defaultB nil")
	}
	_, _, infoDefault2, ok := SwitchInfo(op2)
	if !ok || infoDefault2 != nil {
		t.Fatal("SwitchInfo must report no default when none was requested")
	}
}

func TestSwitchRejectsCaseTypeMismatch(t *testing.T) {
	r := newTestIR(t)
	b := r.RootScope().NewEntryBuilder()
	selector := NewValue(r.arena, "", r.Types().Int32())
	badCase := []SwitchCase{{Value: NewIntLiteral(r.Types().Int64(), 1)}}
	if _, _, _, err := Switch(b, NoLocation, selector, badCase, false); err == nil {
		t.Fatal("Switch must reject a case Literal whose Type differs from the selector's")
	}
}

func TestSwitchRejectsDuplicateCaseLiteral(t *testing.T) {
	r := newTestIR(t)
	b := r.RootScope().NewEntryBuilder()
	i32 := r.Types().Int32()
	selector := NewValue(r.arena, "", i32)
	dupCases := []SwitchCase{{Value: NewIntLiteral(i32, 1)}, {Value: NewIntLiteral(i32, 1)}}
	if _, _, _, err := Switch(b, NoLocation, selector, dupCases, false); err == nil {
		t.Fatal("Switch must reject two cases carrying the same literal value")
	}
}

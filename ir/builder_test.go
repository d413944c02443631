package ir

import "testing"

func TestBindToRejectsDoubleBind(t *testing.T) {
	r := newTestIR(t)
	free := r.RootScope().NewFreeBuilder()
	b := r.RootScope().NewEntryBuilder()
	if _, err := b.AppendBuilder(NoLocation, free); err != nil {
		t.Fatalf("first AppendBuilder: %v", err)
	}
	other := r.RootScope().NewEntryBuilder()
	if _, err := other.AppendBuilder(NoLocation, free); err == nil {
		t.Fatal("binding an already-Must-bound Builder elsewhere must fail")
	}
}

func TestAppendBuilderPropagatesControlReachesEnd(t *testing.T) {
	r := newTestIR(t)
	b := r.RootScope().NewEntryBuilder()
	free := r.RootScope().NewFreeBuilder()
	target := r.RootScope().NewFreeBuilder()
	if _, err := Goto(free, NoLocation, target); err != nil {
		t.Fatalf("Goto: %v", err)
	}
	if free.ControlReachesEnd() {
		t.Fatal("a Builder ending in Goto must have ControlReachesEnd() == false")
	}
	if _, err := b.AppendBuilder(NoLocation, free); err != nil {
		t.Fatalf("AppendBuilder: %v", err)
	}
	if b.ControlReachesEnd() {
		t.Fatal("AppendBuilder must propagate the spliced Builder's ControlReachesEnd")
	}
}

func TestEntryBuilderStartsCant(t *testing.T) {
	r := newTestIR(t)
	b := r.RootScope().NewEntryBuilder()
	if b.Boundness() != Cant {
		t.Fatalf("entry Builder boundness = %v, want Cant", b.Boundness())
	}
}

func TestFreeBuilderStartsMay(t *testing.T) {
	r := newTestIR(t)
	b := r.RootScope().NewFreeBuilder()
	if b.Boundness() != May {
		t.Fatalf("free Builder boundness = %v, want May", b.Boundness())
	}
}

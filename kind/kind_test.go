package kind

import "testing"

type stubKinded struct{ k ID }

func (s stubKinded) Kind() ID { return s.k }

func TestIsKindWalksAncestorChain(t *testing.T) {
	root := Register("test.Root1", None)
	mid := Register("test.Mid1", root)
	leaf := Register("test.Leaf1", mid)

	tests := []struct {
		name     string
		child    ID
		ancestor ID
		want     bool
	}{
		{"leaf is leaf", leaf, leaf, true},
		{"leaf is mid", leaf, mid, true},
		{"leaf is root", leaf, root, true},
		{"leaf is none", leaf, None, true},
		{"mid is not leaf", mid, leaf, false},
		{"root is not mid", root, mid, false},
	}
	for _, tc := range tests {
		if got := IsKind(tc.child, tc.ancestor); got != tc.want {
			t.Errorf("%s: IsKind = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("test.Dup1", None)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	Register("test.Dup1", None)
}

func TestRefineAndTryRefine(t *testing.T) {
	k := Register("test.Stub1", None)
	var ifc Kinded = stubKinded{k: k}

	if !Is(ifc, k) {
		t.Fatal("Is should report true for its own kind")
	}
	got := Refine[stubKinded](ifc)
	if got.Kind() != k {
		t.Fatalf("Refine returned wrong kind")
	}

	other := Register("test.Other1", None)
	var ifc2 Kinded = stubKinded{k: other}
	if _, ok := TryRefine[stubKinded](ifc2); !ok {
		t.Fatal("TryRefine should succeed for the same concrete type")
	}
}

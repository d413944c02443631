package ir

import "fmt"

func typeNotRegisteredError(t Type) error {
	return fmt.Errorf("ir: type %q must be registered in this IR before a PointerType to it can be created", t.Name())
}

func builderAlreadyBoundError(b *Builder) error {
	return fmt.Errorf("ir: builder %d is already bound to another operation; a bound builder cannot be bound elsewhere", b.id)
}

func typeMismatchError(op string, want, got Type) error {
	return fmt.Errorf("ir: %s: expected type %s, got %s", op, want.Name(), got.Name())
}

func duplicateCaseLiteralError(l *Literal) error {
	return fmt.Errorf("ir: Switch: case literal %s(%x) duplicates an earlier case's literal", l.typ.Name(), l.bytes)
}

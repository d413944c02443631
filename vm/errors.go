package vm

import (
	"fmt"

	"github.com/mstoodle/jb2go/ir"
)

func typeError(op string, want, got ir.Type) error {
	return fmt.Errorf("vm: %s: element type mismatch, want %s got %s", op, want.Name(), got.Name())
}

func emptyError(op string) error {
	return fmt.Errorf("vm: %s: operand stack bounds violation", op)
}

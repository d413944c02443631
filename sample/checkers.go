package sample

import (
	"fmt"

	"github.com/mstoodle/jb2go/internal/errs"
	"github.com/mstoodle/jb2go/ir"
)

// isAddress reports whether t is the core's AddressType.
func isAddress(t ir.Type) bool {
	_, ok := t.(*ir.AddressType)
	return ok
}

// isAllowedElementKind reports whether t is one of the element kinds Add
// accepts: Int8/16/32/64, Float32/64, or Address.
func isAllowedElementKind(t ir.Type) bool {
	switch t.(type) {
	case *ir.IntType, *ir.FloatType, *ir.AddressType:
		return true
	default:
		return false
	}
}

// badInputTypes builds the CompilationException a rejected checker
// returns: a diagnostic whose lines name each operand and its Type.
func badInputTypes(code errs.ReturnCode, codeName, action string, left, right *ir.Value, reason string) error {
	return errs.New(code, codeName, action,
		fmt.Sprintf("left: %s (%s)", left.Name(), left.Type().Name()),
		fmt.Sprintf("right: %s (%s)", right.Name(), right.Type().Name()),
		reason,
	)
}

// addChecker implements Add's operand rule: if either operand is an
// address, the other must be word-sized; otherwise the two types must
// match exactly, and must be one of the allowed element kinds
// (Int8/16/32/64, Float32/64, Address).
func (e *Extension) addChecker() ir.CheckerFunc {
	return func(op ir.Operation) (bool, error) {
		operands := op.Operands()
		if len(operands) != 2 {
			return true, fmt.Errorf("sample: Add: expected 2 operands, got %d", len(operands))
		}
		left, right := operands[0], operands[1]

		switch {
		case isAddress(left.Type()) || isAddress(right.Type()):
			addr, other := left, right
			if isAddress(right.Type()) && !isAddress(left.Type()) {
				addr, other = right, left
			}
			if !other.Type().IsInteger() || other.Type().SizeInBits() != addr.Type().SizeInBits() {
				return true, badInputTypes(e.badAddCode, "CompileFail_BadInputTypes_Add", "Add", left, right,
					"an address operand's other operand must be word-sized")
			}
		case !left.Type().Equal(right.Type()):
			return true, badInputTypes(e.badAddCode, "CompileFail_BadInputTypes_Add", "Add", left, right,
				"operands must have identical types")
		case !isAllowedElementKind(left.Type()):
			return true, badInputTypes(e.badAddCode, "CompileFail_BadInputTypes_Add", "Add", left, right,
				"unsupported element type")
		}
		return true, nil
	}
}

// subChecker implements Sub's operand rule: Sub(address, x) requires x to
// be an address or word-sized.
func (e *Extension) subChecker() ir.CheckerFunc {
	return func(op ir.Operation) (bool, error) {
		operands := op.Operands()
		if len(operands) != 2 {
			return true, fmt.Errorf("sample: Sub: expected 2 operands, got %d", len(operands))
		}
		address, x := operands[0], operands[1]
		if !isAddress(address.Type()) {
			return true, badInputTypes(e.badSubCode, "CompileFail_BadInputTypes_Sub", "Sub", address, x,
				"the first operand must be an address")
		}
		if isAddress(x.Type()) {
			return true, nil
		}
		if !x.Type().IsInteger() || x.Type().SizeInBits() != address.Type().SizeInBits() {
			return true, badInputTypes(e.badSubCode, "CompileFail_BadInputTypes_Sub", "Sub", address, x,
				"the second operand must be an address or word-sized")
		}
		return true, nil
	}
}

package aeon

import (
	"errors"
	"fmt"
)

// ErrInvalidOperand is returned when a matched instruction encodes an
// operand combination the architecture does not define, for example a
// register number outside the register file.
var ErrInvalidOperand = errors.New("invalid operand encoding")

// ErrTableCorrupt is returned when decoding hits a template that violates an
// invariant the table validation guarantees. It indicates a programming
// error in table construction, not a malformed input, and is fatal.
var ErrTableCorrupt = errors.New("opcode table corrupt")

// Operand is one decoded operand value, tagged by Kind. Operands are value
// types, produced fresh for every decode.
type Operand struct {
	Kind OperandKind

	// Register holds the register number for KindRegister and the base
	// register for KindMemory.
	Register int

	// Value holds the immediate for KindImmediate and the displacement for
	// KindMemory, sign-extended when the field is declared signed.
	Value int64

	// Width is the bit width of the source field, 0 for fixed operands.
	Width int

	// Signed reports whether Value was sign-extended.
	Signed bool

	// Target is the resolved absolute address for KindRelative.
	Target uint32
}

// BranchBase selects the address a relative branch target is computed from.
// The exact rule used by the hardware has not been confirmed yet, so it is a
// resolver parameter instead of a constant.
type BranchBase int

const (
	// BranchBaseInstruction resolves targets relative to the address of the
	// branch instruction itself.
	BranchBaseInstruction BranchBase = iota
	// BranchBaseNextInstruction resolves targets relative to the address
	// following the branch instruction.
	BranchBaseNextInstruction
)

// Resolver converts raw extracted field values into typed operands
// following the architecture's addressing mode rules.
type Resolver struct {
	Base BranchBase
}

// Resolve produces the operands of a matched instruction in canonical
// order. addr is the address the instruction was decoded from.
//
// Undefined operand combinations return an error wrapping
// ErrInvalidOperand. A template whose operand specs reference fields
// missing from the compiled pattern returns an error wrapping
// ErrTableCorrupt, which is unreachable for a validated table.
func (r Resolver) Resolve(tpl *Template, word uint32, addr uint32) ([]Operand, error) {
	if len(tpl.Operands) == 0 {
		return nil, nil
	}

	operands := make([]Operand, 0, len(tpl.Operands))
	for _, spec := range tpl.Operands {
		operand, err := r.resolveOperand(tpl, spec, word, addr)
		if err != nil {
			return nil, err
		}
		operands = append(operands, operand)
	}
	return operands, nil
}

func (r Resolver) resolveOperand(tpl *Template, spec OperandSpec, word, addr uint32) (Operand, error) {
	switch spec.Kind {
	case KindRegister:
		if spec.Arg == 0 {
			return Operand{Kind: KindRegister, Register: spec.Fixed}, nil
		}
		field, err := r.templateField(tpl, spec.Arg)
		if err != nil {
			return Operand{}, err
		}
		register := int(field.Extract(word))
		if register >= NumRegisters {
			return Operand{}, fmt.Errorf("register r%d in field %q: %w",
				register, spec.Arg, ErrInvalidOperand)
		}
		return Operand{Kind: KindRegister, Register: register, Width: field.Bits}, nil

	case KindImmediate:
		field, err := r.templateField(tpl, spec.Arg)
		if err != nil {
			return Operand{}, err
		}
		return Operand{
			Kind:   KindImmediate,
			Value:  fieldValue(field, word, spec.Signed),
			Width:  field.Bits,
			Signed: spec.Signed,
		}, nil

	case KindMemory:
		base, err := r.templateField(tpl, spec.Base)
		if err != nil {
			return Operand{}, err
		}
		register := int(base.Extract(word))
		if register >= NumRegisters {
			return Operand{}, fmt.Errorf("base register r%d in field %q: %w",
				register, spec.Base, ErrInvalidOperand)
		}
		operand := Operand{Kind: KindMemory, Register: register, Signed: spec.Signed}
		if spec.Arg != 0 {
			field, err := r.templateField(tpl, spec.Arg)
			if err != nil {
				return Operand{}, err
			}
			operand.Value = fieldValue(field, word, spec.Signed)
			operand.Width = field.Bits
		}
		return operand, nil

	case KindRelative:
		field, err := r.templateField(tpl, spec.Arg)
		if err != nil {
			return Operand{}, err
		}
		delta := fieldValue(field, word, spec.Signed)
		base := int64(addr)
		if r.Base == BranchBaseNextInstruction {
			base += int64(tpl.Length)
		}
		return Operand{
			Kind:   KindRelative,
			Value:  delta,
			Width:  field.Bits,
			Signed: spec.Signed,
			Target: uint32(base + delta),
		}, nil

	default:
		return Operand{}, fmt.Errorf("template %s: unknown operand kind %d: %w",
			tpl.Mnemonic, spec.Kind, ErrTableCorrupt)
	}
}

func (r Resolver) templateField(tpl *Template, arg byte) (Field, error) {
	field, ok := tpl.Field(arg)
	if !ok {
		return Field{}, fmt.Errorf("template %s references missing field %q: %w",
			tpl.Mnemonic, arg, ErrTableCorrupt)
	}
	return field, nil
}

func fieldValue(field Field, word uint32, signed bool) int64 {
	raw := field.Extract(word)
	if signed {
		return SignExtend(raw, field.Bits)
	}
	return int64(raw)
}

package aeon

import (
	"fmt"
	"math/bits"

	"github.com/retroenv/retrogolib/set"
)

// validArgs contains the letters that may be used as operand fields in a
// bit pattern. 'x' and 'y' stand for fields whose meaning has not been
// reverse engineered yet.
var validArgs = newByteSet('a', 'b', 'd', 'i', 'j', 'k', 'n', 'x', 'y')

func newByteSet(items ...byte) set.Set[byte] {
	s := set.New[byte]()
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// OperandKind classifies how a raw field value is interpreted.
type OperandKind int

const (
	// KindRegister is a general purpose register operand.
	KindRegister OperandKind = iota
	// KindImmediate is a literal value embedded in the instruction.
	KindImmediate
	// KindMemory is a memory reference of the form displacement(base register).
	KindMemory
	// KindRelative is a branch or jump target relative to the instruction.
	KindRelative
)

// OperandSpec declares one operand of an instruction in its canonical
// operand order and names the pattern field(s) it is built from.
type OperandSpec struct {
	Kind OperandKind

	Arg    byte // field letter, 0 for a fixed register with no field
	Base   byte // base register field for memory operands
	Fixed  int  // register number used when Arg is 0
	Signed bool // sign-extend the field value
}

// Reg declares a register operand read from the given field.
func Reg(arg byte) OperandSpec {
	return OperandSpec{Kind: KindRegister, Arg: arg}
}

// FixedReg declares a register operand with a hardcoded register number that
// is not encoded in the instruction.
func FixedReg(register int) OperandSpec {
	return OperandSpec{Kind: KindRegister, Fixed: register}
}

// Imm declares an unsigned immediate operand read from the given field.
func Imm(arg byte) OperandSpec {
	return OperandSpec{Kind: KindImmediate, Arg: arg}
}

// SignedImm declares a sign-extended immediate operand.
func SignedImm(arg byte) OperandSpec {
	return OperandSpec{Kind: KindImmediate, Arg: arg, Signed: true}
}

// Mem declares a memory reference operand with a base register field and a
// displacement field. A disp of 0 means the encoding has no displacement
// field and the displacement is always zero.
func Mem(base, disp byte) OperandSpec {
	return OperandSpec{Kind: KindMemory, Base: base, Arg: disp}
}

// Rel declares a branch target operand relative to the instruction address.
func Rel(arg byte) OperandSpec {
	return OperandSpec{Kind: KindRelative, Arg: arg}
}

// SignedRel declares a sign-extended relative branch target operand.
func SignedRel(arg byte) OperandSpec {
	return OperandSpec{Kind: KindRelative, Arg: arg, Signed: true}
}

// Template describes one instruction encoding: the fixed bits that identify
// it and the layout of its operand fields. The pattern string has one
// character per bit, MSB first: '0' and '1' are fixed bits, any valid arg
// letter marks a bit of that operand field.
type Template struct {
	Mnemonic string
	Length   int    // instruction length in bytes
	Pattern  string // bit pattern, len must be Length*8
	Operands []OperandSpec
	// Priority resolves overlapping patterns, higher wins. Two overlapping
	// templates of equal length and priority are a table authoring error.
	Priority int

	bits   uint32 // fixed bits of the pattern
	mask   uint32 // mask of the fixed bit positions
	fields map[byte]Field
}

// compile derives the match mask, match bits and operand fields from the
// pattern string and validates the template.
func (t *Template) compile() error {
	if t.Mnemonic == "" {
		return fmt.Errorf("template with pattern %q has no mnemonic", t.Pattern)
	}
	if t.Length < MinInstructionSize || t.Length > MaxInstructionSize {
		return fmt.Errorf("template %s: unsupported length %d", t.Mnemonic, t.Length)
	}
	if len(t.Pattern) != t.Length*8 {
		return fmt.Errorf("template %s: pattern has %d bits, length %d requires %d",
			t.Mnemonic, len(t.Pattern), t.Length, t.Length*8)
	}

	t.bits = 0
	t.mask = 0
	t.fields = map[byte]Field{}

	for i := 0; i < len(t.Pattern); i++ {
		ch := t.Pattern[i]
		t.bits <<= 1
		t.mask <<= 1

		switch {
		case ch == '0':
			t.mask |= 1
		case ch == '1':
			t.bits |= 1
			t.mask |= 1
		case validArgs.Contains(ch):
			if _, ok := t.fields[ch]; ok {
				continue
			}
			field, err := fieldFromPattern(ch, t.Pattern)
			if err != nil {
				return fmt.Errorf("template %s: %w", t.Mnemonic, err)
			}
			t.fields[ch] = field
		default:
			return fmt.Errorf("template %s: invalid pattern character %q", t.Mnemonic, ch)
		}
	}

	return t.validateOperands()
}

// validateOperands checks that every operand spec references a field that
// exists in the pattern.
func (t *Template) validateOperands() error {
	for _, op := range t.Operands {
		if op.Kind == KindMemory {
			if _, ok := t.fields[op.Base]; !ok {
				return fmt.Errorf("template %s: memory operand base field %q not in pattern",
					t.Mnemonic, op.Base)
			}
		}
		if op.Arg == 0 { // fixed register or zero displacement
			continue
		}
		if _, ok := t.fields[op.Arg]; !ok {
			return fmt.Errorf("template %s: operand field %q not in pattern", t.Mnemonic, op.Arg)
		}
	}
	return nil
}

// Match reports whether the instruction word matches the fixed bits of this
// template.
func (t *Template) Match(word uint32) bool {
	return word&t.mask == t.bits
}

// Field returns the compiled field for the given pattern letter.
func (t *Template) Field(arg byte) (Field, bool) {
	field, ok := t.fields[arg]
	return field, ok
}

// maskSpecificity orders templates with equal priority, more fixed bits
// match first.
func (t *Template) maskSpecificity() int {
	return bits.OnesCount32(t.mask)
}

// overlaps reports whether some instruction word can match both templates.
func (t *Template) overlaps(other *Template) bool {
	if t.Length != other.Length {
		return false
	}
	common := t.mask & other.mask
	return t.bits&common == other.bits&common
}

package aeon

import (
	"fmt"

	"github.com/retroenv/retrogolib/set"
)

// templates lists every AEON R2 encoding that has been reverse engineered
// so far. Mnemonics follow OpenRISC naming where the behavior is confirmed,
// a trailing or surrounding '?' marks encodings whose semantics are still a
// guess. Vector/SIMD extensions have not been observed yet, once confirmed
// they get added here as data.
var templates = []Template{
	// 2-byte "BT" class
	{Mnemonic: "l.nop", Length: 2, Pattern: "1000000000000001"},
	{Mnemonic: "l.j", Length: 2, Pattern: "100100nnnnnnnnnn",
		Operands: []OperandSpec{Rel('n')}},
	// operand encoding of bt.trap is still unknown
	{Mnemonic: "bt.trap", Length: 2, Pattern: "1000000000000010"},
	{Mnemonic: "l.jr?", Length: 2, Pattern: "100001xxxxxyyyyy",
		Operands: []OperandSpec{Reg('x'), Reg('y')}},
	{Mnemonic: "l.addi", Length: 2, Pattern: "100111dddddkkkkk",
		Operands: []OperandSpec{Reg('d'), Reg('d'), SignedImm('k')}},
	// may be a mov-type insn that sets rD <- K
	{Mnemonic: "l.andi?", Length: 2, Pattern: "100110dddddkkkkk",
		Operands: []OperandSpec{Reg('d'), Reg('d'), SignedImm('k')}},

	// 3-byte "BN" class
	{Mnemonic: "l.nop", Length: 3, Pattern: "000000000000000000000000"},
	{Mnemonic: "l.lhz", Length: 3, Pattern: "000010dddddaaaaa00000001",
		Operands: []OperandSpec{Reg('d'), Mem('a', 0)}},
	{Mnemonic: "l.sw", Length: 3, Pattern: "000011bbbbbaaaaa00000000",
		Operands: []OperandSpec{Mem('a', 0), Reg('b')}},
	{Mnemonic: "l.sfgtui", Length: 3, Pattern: "010111aaaaaiiiiiiii11011",
		Operands: []OperandSpec{Reg('a'), SignedImm('i')}},
	{Mnemonic: "?entri?", Length: 3, Pattern: "010111xxxxyyyyyyyyy11000",
		Operands: []OperandSpec{Imm('x'), Imm('y')}},
	{Mnemonic: "l.addi", Length: 3, Pattern: "000111dddddaaaaakkkkkkkk",
		Operands: []OperandSpec{Reg('d'), Reg('a'), SignedImm('k')}},
	{Mnemonic: "l.bf", Length: 3, Pattern: "001000nnnnnnnnnnnnnnnn01",
		Operands: []OperandSpec{SignedRel('n')}},
	// second operand has not been decoded yet
	{Mnemonic: "l.movhi", Length: 3, Pattern: "001101100000000000000001",
		Operands: []OperandSpec{FixedReg(1)}},
	{Mnemonic: "l.and", Length: 3, Pattern: "010001dddddaaaaabbbbb100",
		Operands: []OperandSpec{Reg('d'), Reg('a'), Reg('b')}},
	{Mnemonic: "l.ori", Length: 3, Pattern: "010100aaaaabbbbbkkkkkkkk",
		Operands: []OperandSpec{Reg('a'), Reg('b'), Imm('k')}},
	{Mnemonic: "l.sfeqi", Length: 3, Pattern: "010111aaaaaiiiii00000001",
		Operands: []OperandSpec{Reg('a'), Imm('i')}},
	{Mnemonic: "l.sfne", Length: 3, Pattern: "010111aaaaabbbbb00001101",
		Operands: []OperandSpec{Reg('a'), Reg('b')}},
	{Mnemonic: "l.sfgeu", Length: 3, Pattern: "010111bbbbbaaaaa00010111",
		Operands: []OperandSpec{Reg('a'), Reg('b')}},
	{Mnemonic: "l.mul", Length: 3, Pattern: "010000dddddaaaaabbbbb011",
		Operands: []OperandSpec{Reg('d'), Reg('a'), Reg('b')}},

	// 4-byte "BG" class
	{Mnemonic: "l.movhi", Length: 4, Pattern: "110000dddddkkkkkkkkkkkkkkkk00001",
		Operands: []OperandSpec{Reg('d'), Imm('k')}},
	{Mnemonic: "l.mtspr", Length: 4, Pattern: "110000bbbbbaaaaakkkkkkkkkkkk1101",
		Operands: []OperandSpec{Reg('a'), Reg('b'), Imm('k')}},
	{Mnemonic: "l.mfspr", Length: 4, Pattern: "110000dddddaaaaakkkkkkkkkkkk1111",
		Operands: []OperandSpec{Reg('d'), Reg('a'), Imm('k')}},
	{Mnemonic: "l.andi", Length: 4, Pattern: "110001dddddaaaaakkkkkkkkkkkkkkkk",
		Operands: []OperandSpec{Reg('d'), Reg('a'), Imm('k')}},
	{Mnemonic: "l.ori", Length: 4, Pattern: "110010dddddaaaaakkkkkkkkkkkkkkkk",
		Operands: []OperandSpec{Reg('d'), Reg('a'), Imm('k')}},
	{Mnemonic: "l.j", Length: 4, Pattern: "111010nnnnnnnnnnnnnnnnnnnnnnnn11",
		Operands: []OperandSpec{Rel('n')}},
	{Mnemonic: "l.sw", Length: 4, Pattern: "111011bbbbbaaaaaiiiiiiiiiiiiiiii",
		Operands: []OperandSpec{Mem('a', 'i'), Reg('b')}},
	{Mnemonic: "l.addi", Length: 4, Pattern: "111111dddddaaaaakkkkkkkkkkkkkkkk",
		Operands: []OperandSpec{Reg('d'), Reg('a'), Imm('k')}},
	// the n field layout is probably wrong
	{Mnemonic: "l.bf", Length: 4, Pattern: "11010100nnnnnnnnnnnnnnnnnnnnnnnn",
		Operands: []OperandSpec{SignedRel('n')}},
	{Mnemonic: "l.invalidate_line", Length: 4, Pattern: "11110100000aaaaa00000000000j0001",
		Operands: []OperandSpec{Mem('a', 0), Imm('j')}},
	{Mnemonic: "l.invalidate_line", Length: 4, Pattern: "11110100000aaaaa00000000001j0111",
		Operands: []OperandSpec{Mem('a', 0), Imm('j')}},
	{Mnemonic: "l.syncwritebuffer", Length: 4, Pattern: "11110100000000000000000000000101"},
}

// ControlFlowInstructions contains the mnemonics that change control flow.
var ControlFlowInstructions = newControlFlowSet("l.j", "l.jr?", "l.bf")

func newControlFlowSet(names ...string) set.Set[string] {
	s := set.New[string]()
	for _, name := range names {
		s.Add(name)
	}
	return s
}

// instructionTable is built once at startup, a validation failure here is a
// table authoring error.
var instructionTable = mustTable(templates)

func mustTable(templates []Template) *Table {
	table, err := NewTable(templates)
	if err != nil {
		panic(fmt.Sprintf("building AEON R2 opcode table: %s", err))
	}
	return table
}

// Instructions returns the opcode table of all known AEON R2 encodings.
// The table is read-only and shared, callers must not modify it.
func Instructions() *Table {
	return instructionTable
}

// Package aeon provides instruction decoding tables for the MStar AEON R2
// processor, an OpenRISC-derived microcontroller core found in MStar/SigmaStar
// SoCs. The instruction set is only partially reverse engineered: encodings
// are added to the table as they are confirmed, and anything the table does
// not cover decodes as an unknown instruction instead of failing.
//
// AEON R2 uses a variable-width encoding. The top three bits of the first
// byte select the instruction length:
//
//	0b000-0b011: 3 bytes ("BN" class)
//	0b100:       2 bytes ("BT" class)
//	0b101-0b111: 4 bytes ("BG" class)
//
// Instruction bytes are assembled big-endian into a single right-aligned
// word before matching against the table.
package aeon

const (
	// MinInstructionSize is the smallest encodable instruction in bytes.
	MinInstructionSize = 2
	// MaxInstructionSize is the largest encodable instruction in bytes.
	MaxInstructionSize = 4

	// NumRegisters is the size of the general purpose register file.
	NumRegisters = 32
)

// instructionLengths maps the top three bits of an instruction's first byte
// to the total instruction length in bytes.
var instructionLengths = [8]int{3, 3, 3, 3, 2, 4, 4, 4}

// InstructionLength returns the byte length of the instruction that starts
// with the given byte. The length depends only on this first byte, so it is
// known even for encodings that are not in the table yet.
func InstructionLength(first byte) int {
	return instructionLengths[first>>5]
}

// Word assembles up to 4 instruction bytes big-endian into a right-aligned
// instruction word.
func Word(data []byte) uint32 {
	var word uint32
	for _, b := range data {
		word = word<<8 | uint32(b)
	}
	return word
}

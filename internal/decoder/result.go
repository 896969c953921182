package decoder

import "github.com/retroenv/aeondisasm/internal/aeon"

// Reason classifies why a byte sequence could not be decoded.
type Reason int

const (
	// ReasonNoMatch means no opcode table entry matches the bytes.
	ReasonNoMatch Reason = iota
	// ReasonInvalidOperand means an entry matched but an operand field
	// encodes a combination the architecture does not define.
	ReasonInvalidOperand
	// ReasonTruncated means fewer bytes remain than the instruction needs.
	ReasonTruncated
)

func (r Reason) String() string {
	switch r {
	case ReasonNoMatch:
		return "no match"
	case ReasonInvalidOperand:
		return "invalid operand"
	case ReasonTruncated:
		return "truncated"
	default:
		return "unknown reason"
	}
}

// Result is one decode outcome, either an Instruction or an Unknown marker.
// Every result covers a contiguous, non-empty byte range so a caller can
// advance through a buffer without gaps or overlaps.
type Result interface {
	// Location returns the byte offset the result was decoded from and the
	// number of bytes it covers.
	Location() (offset uint32, length int)
}

// Instruction is a successfully decoded instruction. It is immutable once
// produced.
type Instruction struct {
	Offset   uint32
	Raw      []byte
	Mnemonic string
	Operands []aeon.Operand
}

// Location implements Result.
func (i Instruction) Location() (uint32, int) {
	return i.Offset, len(i.Raw)
}

// Unknown marks bytes that have no valid interpretation in the opcode
// table. It carries the raw bytes so a caller can skip, log or halt.
type Unknown struct {
	Offset uint32
	Raw    []byte
	Reason Reason

	// Err holds the underlying resolve error for ReasonInvalidOperand.
	Err error
}

// Location implements Result.
func (u Unknown) Location() (uint32, int) {
	return u.Offset, len(u.Raw)
}
